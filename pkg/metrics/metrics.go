// Package metrics defines pure-data snapshot structs describing the state
// of a typegraph Program at a point in time. Nothing in this package
// references typegraph types directly, so snapshots can be retained,
// diffed, or serialized (each struct carries json tags) independently of
// the program that produced them.
package metrics

// NodeMetrics describes one CFG node.
type NodeMetrics struct {
	IncomingCount int  `json:"incoming_count"`
	OutgoingCount int  `json:"outgoing_count"`
	HasCondition  bool `json:"has_condition"`
}

// VariableMetrics describes one Variable.
type VariableMetrics struct {
	BindingCount int   `json:"binding_count"`
	NodeIDs      []int `json:"node_ids"`
}

// StepMetrics describes one recursive step of the backtracking search: the
// position considered and how many goals remained open there. Together
// these form the trace of a single QueryMetrics's search, in order.
type StepMetrics struct {
	Node      int `json:"node"`
	GoalCount int `json:"goal_count"`
}

// QueryMetrics describes one Solver.Solve invocation.
type QueryMetrics struct {
	NodesVisited        int  `json:"nodes_visited"`
	Start               int  `json:"start"`
	End                 int  `json:"end"`
	InitialBindingCount int  `json:"initial_binding_count"`
	TotalBindingCount   int  `json:"total_binding_count"`
	Shortcircuited      bool `json:"shortcircuited"`
	FromCache           bool `json:"from_cache"`

	Steps []StepMetrics `json:"steps"`
}

// CacheMetrics describes the hit/miss behavior of a memoization cache.
type CacheMetrics struct {
	TotalSize int `json:"total_size"`
	Hits      int `json:"hits"`
	Misses    int `json:"misses"`
}

// SolverMetrics describes one Solver instance's lifetime of queries.
type SolverMetrics struct {
	Queries []QueryMetrics `json:"queries"`
	Cache   CacheMetrics   `json:"cache"`
}

// Metrics is a full snapshot of a Program: every CFG node, every variable,
// and every solver instance the program has constructed (a program may
// have rebuilt its solver multiple times across invalidations; each
// rebuild's lifetime metrics are preserved here rather than overwritten).
type Metrics struct {
	BindingCount int               `json:"binding_count"`
	CFGNodes     []NodeMetrics     `json:"cfg_nodes"`
	Variables    []VariableMetrics `json:"variables"`
	Solvers      []SolverMetrics   `json:"solvers"`
	Reachability CacheMetrics      `json:"reachability"`
}
