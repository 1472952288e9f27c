// Package typegraph implements the CFG + dataflow data model, the
// reachability-backed path finder, and the memoized backtracking solver
// that together answer "at this program point, can this combination of
// abstract values hold simultaneously?"
//
// A Program is an arena: it owns every CFGNode, Variable, Binding, and
// Origin it creates, hands out dense ids, and holds the one Solver that
// answers queries against the current graph. Nothing here is safe for
// concurrent mutation; callers must serialize every call into a Program
// (see §5 of the design: single-threaded cooperative use only).
package typegraph

import (
	"github.com/gitrdm/typegraph/internal/trace"
	"github.com/gitrdm/typegraph/pkg/metrics"
	"github.com/gitrdm/typegraph/pkg/reach"
)

// Program is the top-level arena owning the CFG, all variables/bindings,
// the reachability cache, and the (lazily built) solver.
type Program struct {
	config Config

	entrypoint  *CFGNode
	defaultData any

	nextVariableID int
	nextBindingID  int

	cfgNodes  []*CFGNode
	variables []*Variable

	reachability *reach.Matrix
	solver       *Solver

	// solverHistory retains the metrics of every solver instance this
	// program has ever built, so CalculateMetrics can report on work done
	// by solvers that have since been invalidated and replaced.
	solverHistory []metrics.SolverMetrics
}

// NewProgram creates an empty arena.
func NewProgram(opts ...Option) *Program {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Trace {
		trace.Enable()
	}
	return &Program{
		config:       cfg,
		reachability: reach.New(),
	}
}

// NewCFGNode creates a new CFG node with the given name and optional
// condition binding, and invalidates the solver. condition may be nil.
func (p *Program) NewCFGNode(name string, condition *Binding) *CFGNode {
	p.InvalidateSolver()
	id := len(p.cfgNodes)
	got := p.reachability.AddNode()
	assertf(got == id, "reachability matrix node index %d does not match cfg node id %d", got, id)

	node := &CFGNode{
		program:   p,
		name:      name,
		id:        id,
		condition: condition,
	}
	p.cfgNodes = append(p.cfgNodes, node)
	trace.Graphf("new cfg node <%d> %q", id, name)
	return node
}

// NewVariable creates a new, empty variable, and invalidates the solver.
func (p *Program) NewVariable() *Variable {
	p.InvalidateSolver()
	v := &Variable{
		program:       p,
		id:            p.nextVariableID,
		dataToBinding: make(map[any]*Binding),
		nodeToBindings: make(map[*CFGNode]map[*Binding]struct{}),
	}
	p.nextVariableID++
	p.variables = append(p.variables, v)
	return v
}

// CountCFGNodes returns the number of CFG nodes created so far.
func (p *Program) CountCFGNodes() int {
	return len(p.cfgNodes)
}

// Entrypoint returns the program's designated entry node, if any was set.
func (p *Program) Entrypoint() *CFGNode { return p.entrypoint }

// SetEntrypoint records the CFG node the host regards as the root of the
// program. The core itself (solver included) never reads this back; it is
// informational.
func (p *Program) SetEntrypoint(node *CFGNode) { p.entrypoint = node }

// DefaultData returns the placeholder abstract value used when a variable
// overflows MaxVarSize.
func (p *Program) DefaultData() any { return p.defaultData }

// SetDefaultData sets the placeholder abstract value returned by
// DefaultData. Hosts normally call this once, before building any
// variables, with an opaque "unknown" value from their own type system.
func (p *Program) SetDefaultData(data any) { p.defaultData = data }

// IsReachable reports whether dst is reachable from src by walking outgoing
// edges forward (dst ∈ descendants(src)). Internally this queries the
// *backward* reachability matrix with its arguments reversed: the matrix is
// populated from CFGNode.ConnectTo as "who can reach dst by walking
// predecessors", so Program.IsReachable(src, dst) is matrix.IsReachable(dst,
// src). This orientation is load-bearing; see ConnectTo.
func (p *Program) IsReachable(src, dst *CFGNode) bool {
	return p.reachability.IsReachable(dst.id, src.id)
}

// GetSolver returns the program's current solver, building one if the graph
// has been mutated (or this is the first query) since the last one was
// discarded.
func (p *Program) GetSolver() *Solver {
	if p.solver == nil {
		p.solver = newSolver(p)
	}
	return p.solver
}

// InvalidateSolver discards the current solver (if any) and its memoization
// caches. It is called by every mutating operation on the graph; readers
// call GetSolver, which lazily rebuilds.
func (p *Program) InvalidateSolver() {
	if p.solver != nil {
		p.solverHistory = append(p.solverHistory, p.solver.metrics())
		p.solver = nil
	}
}

// CalculateMetrics takes a point-in-time snapshot of the program: every CFG
// node's edge counts, every variable's binding count and touched nodes,
// every solver instance's query history (including solvers already
// discarded by invalidation), and the reachability matrix's node count.
// The matrix keeps no hit/miss counters, so Reachability.Hits and
// Reachability.Misses are always zero.
func (p *Program) CalculateMetrics() metrics.Metrics {
	bindingCount := 0

	nodeMetrics := make([]metrics.NodeMetrics, len(p.cfgNodes))
	for i, n := range p.cfgNodes {
		nodeMetrics[i] = metrics.NodeMetrics{
			IncomingCount: len(n.incoming),
			OutgoingCount: len(n.outgoing),
			HasCondition:  n.condition != nil,
		}
	}

	varMetrics := make([]metrics.VariableMetrics, len(p.variables))
	for i, v := range p.variables {
		bindingCount += len(v.bindings)
		ids := make([]int, 0, len(v.nodeToBindings))
		for node := range v.nodeToBindings {
			ids = append(ids, node.id)
		}
		varMetrics[i] = metrics.VariableMetrics{
			BindingCount: len(v.bindings),
			NodeIDs:      ids,
		}
	}

	solverMetrics := make([]metrics.SolverMetrics, len(p.solverHistory))
	copy(solverMetrics, p.solverHistory)
	if p.solver != nil {
		solverMetrics = append(solverMetrics, p.solver.metrics())
	}

	return metrics.Metrics{
		BindingCount: bindingCount,
		CFGNodes:     nodeMetrics,
		Variables:    varMetrics,
		Solvers:      solverMetrics,
		Reachability: metrics.CacheMetrics{TotalSize: p.reachability.Size()},
	}
}
