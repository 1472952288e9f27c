package typegraph

import "github.com/gitrdm/typegraph/internal/trace"

// Variable is a logical storage location that may hold several abstract
// values over the course of a program. Each possible value is recorded as
// a Binding; a variable holds at most its program's MaxVarSize bindings,
// beyond which further distinct values collapse onto the program's
// DefaultData binding.
type Variable struct {
	program *Program
	id      int

	bindings      []*Binding
	dataToBinding map[any]*Binding

	// nodeToBindings indexes, for each CFG node, the bindings of this
	// variable that have an origin there. Populated by
	// registerBindingAtNode the first time a binding gets an origin at a
	// given node; used by Prune to find "the" assignment shadowing a node.
	nodeToBindings map[*CFGNode]map[*Binding]struct{}
}

// ID returns the variable's id, unique within its program and issued in
// creation order.
func (v *Variable) ID() int { return v.id }

// Size returns the number of distinct bindings this variable currently has.
func (v *Variable) Size() int { return len(v.bindings) }

// Bindings returns every binding this variable owns, in creation order.
func (v *Variable) Bindings() []*Binding { return v.bindings }

// Data returns the (unfiltered) abstract value of every binding.
func (v *Variable) Data() []any {
	data := make([]any, len(v.bindings))
	for i, b := range v.bindings {
		data[i] = b.data
	}
	return data
}

func (v *Variable) registerBindingAtNode(b *Binding, node *CFGNode) {
	set := v.nodeToBindings[node]
	if set == nil {
		set = make(map[*Binding]struct{})
		v.nodeToBindings[node] = set
	}
	set[b] = struct{}{}
}

// maxVarSize returns the effective per-variable binding cap for this
// variable's program.
func (v *Variable) maxVarSize() int {
	if v.program.config.MaxVarSize > 0 {
		return v.program.config.MaxVarSize
	}
	return MaxVarSize
}

// findOrAddBinding dedups data against the variable's existing bindings,
// collapsing to the program's DefaultData once the variable is at capacity
// and data is genuinely new.
func (v *Variable) findOrAddBinding(data any) *Binding {
	if len(v.bindings) >= v.maxVarSize()-1 {
		if _, exists := v.dataToBinding[data]; !exists {
			data = v.program.defaultData
		}
	}
	if b, ok := v.dataToBinding[data]; ok {
		return b
	}
	v.program.InvalidateSolver()
	b := &Binding{
		id:           v.program.nextBindingID,
		program:      v.program,
		variable:     v,
		data:         data,
		nodeToOrigin: make(map[*CFGNode]*Origin),
	}
	v.program.nextBindingID++
	v.bindings = append(v.bindings, b)
	v.dataToBinding[data] = b
	trace.Graphf("variable %d gains binding %d = %v", v.id, b.id, data)
	return b
}

// AddBinding records that data is a possible value of this variable. If
// where is non-nil, it also records that this value can be produced at
// where, provided every binding in sourceSet holds too (sourceSet may be
// empty or nil for an unconditional assignment). Repeated calls with data
// already seen return the existing binding (and, if where is given, add
// one more disjunct to its origin at where).
func (v *Variable) AddBinding(data any, where *CFGNode, sourceSet []*Binding) *Binding {
	b := v.findOrAddBinding(data)
	if where != nil {
		b.AddOrigin(where, sourceSet)
	}
	return b
}

// PasteBinding imports one binding from another variable into this one,
// deduping on data and flattening its history the way PasteVariable does
// for each of its bindings.
func (v *Variable) PasteBinding(binding *Binding, where *CFGNode, additionalSources []*Binding) {
	newBinding := v.findOrAddBinding(binding.data)
	if where == nil {
		newBinding.CopyOrigins(binding, nil, additionalSources)
		return
	}
	for _, o := range binding.origins {
		if o.Where != where {
			// The source binding has history at a node other than where;
			// preserve it by linking to the old binding rather than
			// flattening, so the solver can still distinguish the paths
			// that produced each origin.
			newBinding.CopyOrigins(binding, where, additionalSources)
			return
		}
	}
	// Every origin of the pasted binding already lives at `where`: we can
	// flatten its source-sets directly into a fresh origin here instead of
	// keeping an indirection through the old binding, so the solver has
	// fewer levels to consider.
	newBinding.CopyOrigins(binding, nil, additionalSources)
}

// PasteVariable imports every binding of other into this variable, as if
// each had been assigned at where via PasteBinding.
func (v *Variable) PasteVariable(other *Variable, where *CFGNode, additionalSources []*Binding) {
	for _, b := range other.bindings {
		v.PasteBinding(b, where, additionalSources)
	}
}

// Prune returns the bindings of this variable that are visible from
// viewpoint, considering only CFG geometry (never source-sets): a backward
// depth-first walk over incoming edges that stops expanding past any node where this
// variable was assigned, since that assignment shadows anything further
// back. If viewpoint is nil, every binding is returned.
func (v *Variable) Prune(viewpoint *CFGNode) map[*Binding]struct{} {
	result := make(map[*Binding]struct{})
	if viewpoint == nil {
		for _, b := range v.bindings {
			result[b] = struct{}{}
		}
		return result
	}
	seen := make(map[*CFGNode]struct{})
	stack := []*CFGNode{viewpoint}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, already := seen[node]; already {
			continue
		}
		seen[node] = struct{}{}
		if set, ok := v.nodeToBindings[node]; ok {
			for b := range set {
				result[b] = struct{}{}
			}
			continue
		}
		for _, pred := range node.incoming {
			if _, already := seen[pred]; !already {
				stack = append(stack, pred)
			}
		}
	}
	return result
}

// Filter returns every binding that is visible from viewpoint, using the
// full solver (and so, unlike Prune, honoring source-sets and conflicts
// across variables).
func (v *Variable) Filter(viewpoint *CFGNode) []*Binding {
	filtered := make([]*Binding, 0, len(v.bindings))
	for _, b := range v.bindings {
		if b.IsVisible(viewpoint) {
			filtered = append(filtered, b)
		}
	}
	return filtered
}

// FilteredData is the Data() projection of Filter(viewpoint).
func (v *Variable) FilteredData(viewpoint *CFGNode) []any {
	filtered := v.Filter(viewpoint)
	data := make([]any, len(filtered))
	for i, b := range filtered {
		data[i] = b.data
	}
	return data
}
