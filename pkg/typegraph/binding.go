package typegraph

import "github.com/gitrdm/typegraph/internal/trace"

// Binding is the assignment of one abstract value (Data, an opaque host
// identity) to one Variable. A binding is immutable after creation except
// for its list of Origins, which may grow as the host discovers more ways
// the same value could have arrived at the same variable.
type Binding struct {
	id       int
	program  *Program
	variable *Variable
	data     any

	origins      []*Origin
	nodeToOrigin map[*CFGNode]*Origin
}

// ID returns the binding's id. Ids are assigned from a single program-wide
// sequence as bindings are created, so they are unique across every
// variable in the program - unlike Variable and CFGNode ids, the original
// implementation does not expose an equivalent accessor; this is useful
// both to hosts for bookkeeping and internally as a stable sort key when
// hashing solver states.
func (b *Binding) ID() int { return b.id }

// Variable returns the owning variable.
func (b *Binding) Variable() *Variable { return b.variable }

// Data returns the opaque abstract-value identity this binding carries.
func (b *Binding) Data() any { return b.data }

// Origins returns every way this binding has been shown to arise, in
// first-creation order.
func (b *Binding) Origins() []*Origin { return b.origins }

// findOrigin returns the origin already recorded for node, or nil.
func (b *Binding) findOrigin(node *CFGNode) *Origin {
	return b.nodeToOrigin[node]
}

func (b *Binding) findOrAddOrigin(node *CFGNode) *Origin {
	if o, ok := b.nodeToOrigin[node]; ok {
		return o
	}
	o := &Origin{Where: node}
	b.origins = append(b.origins, o)
	if b.nodeToOrigin == nil {
		b.nodeToOrigin = make(map[*CFGNode]*Origin)
	}
	b.nodeToOrigin[node] = o
	b.variable.registerBindingAtNode(b, node)
	node.registerBinding(b)
	return o
}

// AddOrigin records that this binding can be produced at node, optionally
// requiring every binding in sourceSet to also hold. Calling this again for
// the same node adds sourceSet as one more disjunct of the existing origin
// rather than creating a second one. Invalidates the solver.
func (b *Binding) AddOrigin(node *CFGNode, sourceSet []*Binding) *Origin {
	b.program.InvalidateSolver()
	origin := b.findOrAddOrigin(node)
	origin.AddSourceSet(sourceSet)
	trace.Graphf("binding %d (var %d) gains origin at <%d>", b.id, b.variable.id, node.id)
	return origin
}

// CopyOrigins imports another binding's history into this one.
//
// If where is non-nil, exactly one new origin is created at where, whose
// single source-set is {other} ∪ additionalSources - this binding now
// depends on other having held, plus whatever else the caller names.
//
// If where is nil, every one of other's origins is duplicated verbatim
// (same Where node), with additionalSources unioned into each copied
// source-set.
func (b *Binding) CopyOrigins(other *Binding, where *CFGNode, additionalSources []*Binding) {
	if where != nil {
		sources := make([]*Binding, 0, len(additionalSources)+1)
		sources = append(sources, additionalSources...)
		sources = append(sources, other)
		b.AddOrigin(where, sources)
		return
	}
	for _, o := range other.origins {
		for _, ss := range o.sourceSets {
			sources := make([]*Binding, 0, len(additionalSources)+len(ss))
			sources = append(sources, additionalSources...)
			sources = append(sources, ss.slice()...)
			b.AddOrigin(o.Where, sources)
		}
	}
}

// HasSource reports whether this binding transitively depends on other -
// either this binding is other, or some source-set of some origin contains
// a binding that (recursively) has other as a source.
func (b *Binding) HasSource(other *Binding) bool {
	if b == other {
		return true
	}
	for _, o := range b.origins {
		for _, ss := range o.sourceSets {
			for source := range ss {
				if source.HasSource(other) {
					return true
				}
			}
		}
	}
	return false
}

// IsVisible asks the solver whether there is a path through the program
// ending at viewpoint on which this binding (and everything it transitively
// depends on) holds.
func (b *Binding) IsVisible(viewpoint *CFGNode) bool {
	return b.program.GetSolver().Solve([]*Binding{b}, viewpoint)
}
