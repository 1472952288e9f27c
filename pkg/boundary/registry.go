// Package boundary is the thin layer a language binding sits behind: it
// maps host-side opaque value handles to engine bindings, rejects
// malformed calls before they reach typegraph, and re-exposes the
// solver's query entry points in terms of those handles.
package boundary

import (
	"fmt"

	"github.com/gitrdm/typegraph/pkg/typegraph"
)

// Handle is a host-supplied identity for one abstract value. It must be
// usable as a map key (comparable); hosts typically use an integer id or
// a pointer into their own value table.
type Handle any

// Registry binds Handles to Variables and Bindings for one Program,
// translating between host identities and engine pointers at every call.
type Registry struct {
	program *typegraph.Program

	bindingByHandle map[Handle]*typegraph.Binding
	handleByBinding map[*typegraph.Binding]Handle
}

// NewRegistry creates a registry over program.
func NewRegistry(program *typegraph.Program) *Registry {
	return &Registry{
		program:         program,
		bindingByHandle: make(map[Handle]*typegraph.Binding),
		handleByBinding: make(map[*typegraph.Binding]Handle),
	}
}

// Bind records that handle is the host identity of data on variable,
// optionally giving it an origin at node conditioned on sourceSet (each of
// which must already be a registered handle). Passing a nil variable is
// rejected; node and sourceSet may be nil for an as-yet-unplaced binding.
func (r *Registry) Bind(handle Handle, variable *typegraph.Variable, data any, node *typegraph.CFGNode, sourceSet []Handle) (*typegraph.Binding, error) {
	if variable == nil {
		return nil, &typegraph.InvariantError{Op: "boundary.Bind", Message: "variable must not be nil"}
	}
	if handle == nil {
		return nil, &typegraph.InvariantError{Op: "boundary.Bind", Message: "handle must not be nil"}
	}

	sources, err := r.resolveAll(sourceSet)
	if err != nil {
		return nil, err
	}

	b := variable.AddBinding(data, node, sources)
	r.register(handle, b)
	return b, nil
}

// register associates handle and b, overwriting any previous association
// for either side (a handle may be rebound as the host's own bookkeeping
// changes, so this is not itself an error).
func (r *Registry) register(handle Handle, b *typegraph.Binding) {
	r.bindingByHandle[handle] = b
	r.handleByBinding[b] = handle
}

// Resolve returns the binding registered for handle, or an error if none
// has been bound yet.
func (r *Registry) Resolve(handle Handle) (*typegraph.Binding, error) {
	b, ok := r.bindingByHandle[handle]
	if !ok {
		return nil, &typegraph.InvariantError{Op: "boundary.Resolve", Message: fmt.Sprintf("unknown handle %v", handle)}
	}
	return b, nil
}

func (r *Registry) resolveAll(handles []Handle) ([]*typegraph.Binding, error) {
	if len(handles) == 0 {
		return nil, nil
	}
	out := make([]*typegraph.Binding, len(handles))
	for i, h := range handles {
		b, err := r.Resolve(h)
		if err != nil {
			return nil, err
		}
		out[i] = b
	}
	return out, nil
}

// HandleOf returns the handle a binding was registered under, and whether
// one exists (bindings created directly through the typegraph package,
// bypassing the registry, have none).
func (r *Registry) HandleOf(b *typegraph.Binding) (Handle, bool) {
	h, ok := r.handleByBinding[b]
	return h, ok
}

// HasCombination translates handles to bindings and asks the solver
// whether they can simultaneously hold on some path ending at node.
func (r *Registry) HasCombination(node *typegraph.CFGNode, handles []Handle) (bool, error) {
	if node == nil {
		return false, &typegraph.InvariantError{Op: "boundary.HasCombination", Message: "node must not be nil"}
	}
	bindings, err := r.resolveAll(handles)
	if err != nil {
		return false, err
	}
	return node.HasCombination(bindings), nil
}

// IsVisible translates handle to a binding and asks whether it holds on
// some path ending at viewpoint.
func (r *Registry) IsVisible(handle Handle, viewpoint *typegraph.CFGNode) (bool, error) {
	if viewpoint == nil {
		return false, &typegraph.InvariantError{Op: "boundary.IsVisible", Message: "viewpoint must not be nil"}
	}
	b, err := r.Resolve(handle)
	if err != nil {
		return false, err
	}
	return b.IsVisible(viewpoint), nil
}

// FilteredData returns the handles of variable's bindings visible from
// viewpoint. Bindings with no registered handle are omitted, since the
// host has no identity to hand them back as.
func (r *Registry) FilteredData(variable *typegraph.Variable, viewpoint *typegraph.CFGNode) ([]Handle, error) {
	if variable == nil {
		return nil, &typegraph.InvariantError{Op: "boundary.FilteredData", Message: "variable must not be nil"}
	}
	if viewpoint == nil {
		return nil, &typegraph.InvariantError{Op: "boundary.FilteredData", Message: "viewpoint must not be nil"}
	}
	filtered := variable.Filter(viewpoint)
	out := make([]Handle, 0, len(filtered))
	for _, b := range filtered {
		if h, ok := r.HandleOf(b); ok {
			out = append(out, h)
		}
	}
	return out, nil
}
