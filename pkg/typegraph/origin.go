package typegraph

// sourceSet is one conjunction within an Origin's disjunction: every
// binding in it must simultaneously hold for the origin to fire. Stored as
// a map for O(1) membership/equality-ish use inside the solver; iteration
// order is never relied upon.
type sourceSet map[*Binding]struct{}

func newSourceSet(bindings []*Binding) sourceSet {
	s := make(sourceSet, len(bindings))
	for _, b := range bindings {
		s[b] = struct{}{}
	}
	return s
}

func (s sourceSet) has(b *Binding) bool {
	_, ok := s[b]
	return ok
}

func (s sourceSet) slice() []*Binding {
	out := make([]*Binding, 0, len(s))
	for b := range s {
		out = append(out, b)
	}
	return out
}

// Origin explains one way a Binding came to hold: it was produced at CFG
// node Where, justified by a disjunction of source-sets (any one of them
// being simultaneously true is enough). An origin with an empty
// source-set among its disjuncts is unconditional - it fires whenever
// control reaches Where. AddOrigin always adds one disjunct, so an origin
// attached to a binding is never left with no source-sets.
type Origin struct {
	Where      *CFGNode
	sourceSets []sourceSet
}

// AddSourceSet adds one more disjunct: a conjunction of bindings that, if
// all hold, justifies this origin.
func (o *Origin) AddSourceSet(bindings []*Binding) {
	o.sourceSets = append(o.sourceSets, newSourceSet(bindings))
}

// SourceSets returns the origin's disjuncts as binding slices, for callers
// that only want to inspect them (the solver works with the unexported
// sourceSet type directly).
func (o *Origin) SourceSets() [][]*Binding {
	out := make([][]*Binding, len(o.sourceSets))
	for i, ss := range o.sourceSets {
		out[i] = ss.slice()
	}
	return out
}
