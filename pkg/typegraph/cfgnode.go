package typegraph

import "github.com/gitrdm/typegraph/internal/trace"

// CFGNode is one vertex of the control-flow graph: a program point that
// hosts zero or more variable bindings and has edges to/from the points it
// can reach directly.
//
// Assignments within a single CFG node are unordered: if two bindings for
// the same variable both originate at node n, both are visible from inside
// n. Ordering only matters across nodes.
type CFGNode struct {
	program *Program
	name    string
	id      int

	incoming []*CFGNode
	outgoing []*CFGNode

	condition *Binding
	bindings  []*Binding
}

// ID returns the node's dense, insertion-order id.
func (n *CFGNode) ID() int { return n.id }

// Name returns the node's human-readable label.
func (n *CFGNode) Name() string { return n.name }

// Condition returns the binding whose truth is required for any path
// through this node, or nil if the node is unconditional.
func (n *CFGNode) Condition() *Binding { return n.condition }

// Incoming returns the node's predecessors, in first-insertion order.
func (n *CFGNode) Incoming() []*CFGNode { return n.incoming }

// Outgoing returns the node's successors, in first-insertion order.
func (n *CFGNode) Outgoing() []*CFGNode { return n.outgoing }

// Bindings returns every binding that has an origin at this node.
func (n *CFGNode) Bindings() []*Binding { return n.bindings }

// Program returns the owning program.
func (n *CFGNode) Program() *Program { return n.program }

// registerBinding records that b has an origin at n. Called once per
// binding, the first time an origin is created for it at this node.
func (n *CFGNode) registerBinding(b *Binding) {
	n.bindings = append(n.bindings, b)
}

// ConnectTo adds a directed edge from n to other, unless one already
// exists (edges are a set with deterministic first-insertion order).
//
// The reachability matrix tracks *backward* reachability: it answers "can I
// reach dst by walking predecessors from src". Connecting n -> other means
// n becomes reachable backward from other (and from anything that already
// reaches other), so the matrix update is AddConnection(other.id, n.id) - the reverse
// of the edge direction. Program.IsReachable undoes this inversion so that
// callers see ordinary forward reachability.
func (n *CFGNode) ConnectTo(other *CFGNode) {
	for _, existing := range n.outgoing {
		if existing == other {
			return
		}
	}
	n.program.InvalidateSolver()
	other.incoming = append(other.incoming, n)
	n.outgoing = append(n.outgoing, other)
	n.program.reachability.AddConnection(other.id, n.id)
	trace.Graphf("connect <%d> %q -> <%d> %q", n.id, n.name, other.id, other.name)
}

// ConnectNew creates a new node and connects n to it.
func (n *CFGNode) ConnectNew(name string, condition *Binding) *CFGNode {
	node := n.program.NewCFGNode(name, condition)
	n.ConnectTo(node)
	return node
}

// HasCombination asks the solver whether there is a path through the
// program ending at n on which every binding in bindings simultaneously
// holds.
func (n *CFGNode) HasCombination(bindings []*Binding) bool {
	return n.program.GetSolver().Solve(bindings, n)
}

// CanHaveCombination is a cheap, solver-free pre-check: it reports false
// only if some binding in bindings has no origin that is even reachable
// (via raw CFG geometry, ignoring source-sets) from n. A true result does
// not guarantee HasCombination would also return true.
func (n *CFGNode) CanHaveCombination(bindings []*Binding) bool {
	for _, goal := range bindings {
		reachable := false
		for _, origin := range goal.origins {
			if n.program.reachability.IsReachable(n.id, origin.Where.id) {
				reachable = true
				break
			}
		}
		if !reachable {
			return false
		}
	}
	return true
}
