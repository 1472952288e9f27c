package typegraph

import (
	"strconv"

	"github.com/gitrdm/typegraph/internal/trace"
	"github.com/gitrdm/typegraph/pkg/metrics"
)

// goalSet is an unordered collection of bindings the solver is trying to
// justify at a given CFG position.
type goalSet map[*Binding]struct{}

func newGoalSet(bindings []*Binding) goalSet {
	s := make(goalSet, len(bindings))
	for _, b := range bindings {
		s[b] = struct{}{}
	}
	return s
}

func (g goalSet) with(b *Binding) goalSet {
	if g.has(b) {
		return g
	}
	out := make(goalSet, len(g)+1)
	for k := range g {
		out[k] = struct{}{}
	}
	out[b] = struct{}{}
	return out
}

func (g goalSet) has(b *Binding) bool {
	_, ok := g[b]
	return ok
}

func (g goalSet) slice() []*Binding {
	out := make([]*Binding, 0, len(g))
	for b := range g {
		out = append(out, b)
	}
	return out
}

func (g goalSet) key() string {
	ids := make([]int, 0, len(g))
	for b := range g {
		ids = append(ids, b.id)
	}
	return intsKey(ids)
}

// state is a position in the program together with the goals that remain
// to be justified from there. Two states are equal iff their position and
// goal set are equal.
type state struct {
	pos   *CFGNode
	goals goalSet
}

func (s state) key() string {
	return strconv.Itoa(s.pos.id) + "|" + s.goals.key()
}

// Solver performs memoized backtracking search over (position, goal-set)
// states to decide whether a set of bindings can simultaneously hold on
// some path through the program. One Solver instance belongs to exactly
// one Program snapshot: any mutation to the program discards it (see
// Program.InvalidateSolver), and the next query lazily builds a fresh one.
type Solver struct {
	program *Program

	solvedStates map[string]bool
	cacheHits    int
	cacheMisses  int
	nodesVisited int
	stepLog      []metrics.StepMetrics

	pathFinder *pathFinder

	queries []metrics.QueryMetrics
}

func newSolver(program *Program) *Solver {
	return &Solver{
		program:      program,
		solvedStates: make(map[string]bool),
		pathFinder:   newPathFinder(),
	}
}

// Solve reports whether there is a path through the program ending at
// start on which every binding in goals simultaneously holds. Passing two
// distinct bindings of the same variable as goals is a programmer error -
// it cannot arise from valid use of the public API - and panics rather
// than returning false.
func (s *Solver) Solve(goals []*Binding, start *CFGNode) bool {
	assertNoDuplicateGoalVariable(goals)

	visitedBefore := s.nodesVisited
	stepsBefore := len(s.stepLog)
	shortcircuited := false
	if len(goals) > 1 {
		shortcircuited = true
		if !s.canHaveSolution(goals, start) {
			s.recordQuery(start, start, len(goals), len(goals), shortcircuited, false, s.nodesVisited-visitedBefore, s.stepLog[stepsBefore:])
			return false
		}
	}
	st := state{pos: start, goals: newGoalSet(goals)}
	_, fromCache := s.solvedStates[st.key()]
	result := s.recallOrFindSolution(st, 0)
	s.recordQuery(start, st.pos, len(goals), len(goals), shortcircuited, fromCache, s.nodesVisited-visitedBefore, s.stepLog[stepsBefore:])
	return result
}

// assertNoDuplicateGoalVariable panics if goals names two distinct
// bindings of the same variable - a query only a buggy caller could ever
// construct, since it asks whether two incompatible values of one
// variable hold at once.
func assertNoDuplicateGoalVariable(goals []*Binding) {
	seen := make(map[*Variable]*Binding, len(goals))
	for _, g := range goals {
		if existing, ok := seen[g.variable]; ok {
			assertf(existing == g, "conflicting goals %d and %d for variable %d", existing.id, g.id, g.variable.id)
		}
		seen[g.variable] = g
	}
}

func (s *Solver) recordQuery(start, end *CFGNode, initial, total int, shortcircuited, fromCache bool, nodesVisited int, steps []metrics.StepMetrics) {
	stepsCopy := make([]metrics.StepMetrics, len(steps))
	copy(stepsCopy, steps)
	s.queries = append(s.queries, metrics.QueryMetrics{
		NodesVisited:        nodesVisited,
		Start:               start.id,
		End:                 end.id,
		InitialBindingCount: initial,
		TotalBindingCount:   total,
		Shortcircuited:      shortcircuited,
		FromCache:           fromCache,
		Steps:               stepsCopy,
	})
}

// canHaveSolution pre-checks each goal in isolation: if any single goal is
// unsolvable on its own, the conjunction of all of them certainly is too.
// This is strictly cheaper than the full combined search and lets Solve
// short-circuit obviously-impossible multi-goal queries.
func (s *Solver) canHaveSolution(goals []*Binding, start *CFGNode) bool {
	for _, goal := range goals {
		if !s.Solve([]*Binding{goal}, start) {
			return false
		}
	}
	return true
}

// recallOrFindSolution is the memoized entry point for findSolution. On a
// cache miss it first optimistically records the state as solvable, then
// runs the real search and overwrites the cache with the true result. This
// breaks self-referential cycles in the goal-state graph: a state that is
// only reachable by assuming itself is consistent turns out to be
// solvable exactly when some other, cycle-free trace proves it so, and the
// optimistic entry is what lets that other trace's recursive references
// back into the cycle return instead of looping forever.
func (s *Solver) recallOrFindSolution(st state, depth int) bool {
	key := st.key()
	if result, ok := s.solvedStates[key]; ok {
		s.cacheHits++
		return result
	}
	s.cacheMisses++
	s.nodesVisited++
	s.stepLog = append(s.stepLog, metrics.StepMetrics{Node: st.pos.id, GoalCount: len(st.goals)})
	s.solvedStates[key] = true
	trace.Solverf("%*sexploring <%d> goals=%v", depth, "", st.pos.id, st.goals.key())
	result := s.findSolution(st, depth)
	s.solvedStates[key] = result
	return result
}

// findSolution is the core recursive step of the backtracking search; see
// resolveFinishedGoals for how goals are discharged at a given node.
func (s *Solver) findSolution(st state, depth int) bool {
	goals := st.goals
	if cond := st.pos.condition; cond != nil {
		goals = goals.with(cond)
	}

	for _, partition := range resolveFinishedGoals(st.pos, goals) {
		if goalsConflict(partition.removed) {
			continue
		}
		if len(partition.remaining) == 0 {
			return true
		}

		blocked := make(nodeSet)
		for g := range partition.remaining {
			for node := range g.variable.nodeToBindings {
				blocked[node] = struct{}{}
			}
		}

		newPositions := make(nodeSet)
		for g := range partition.remaining {
			for _, origin := range g.origins {
				qr := s.pathFinder.findNodeBackwards(st.pos, origin.Where, blocked)
				if !qr.exists {
					continue
				}
				newPos := origin.Where
				for _, node := range qr.path {
					if node != st.pos {
						newPos = node
						break
					}
				}
				newPositions[newPos] = struct{}{}
			}
		}

		remainingGoals := partition.remaining.slice()
		for newPos := range newPositions {
			next := state{pos: newPos, goals: newGoalSet(remainingGoals)}
			if s.recallOrFindSolution(next, depth+1) {
				return true
			}
		}
	}
	return false
}

// goalsConflict reports whether goals contains two distinct bindings of
// the same variable. This arises naturally when resolveFinishedGoals
// forks across source-sets that name incompatible combinations; the
// partition is simply not a valid
// way to discharge the goal set, so the caller skips it rather than
// treating it as an error.
func goalsConflict(goals goalSet) bool {
	seen := make(map[*Variable]*Binding, len(goals))
	for g := range goals {
		if existing, ok := seen[g.variable]; ok && existing != g {
			return true
		}
		seen[g.variable] = g
	}
	return false
}

// metrics snapshots this solver's lifetime of queries and cache behavior.
func (s *Solver) metrics() metrics.SolverMetrics {
	queries := make([]metrics.QueryMetrics, len(s.queries))
	copy(queries, s.queries)
	return metrics.SolverMetrics{
		Queries: queries,
		Cache: metrics.CacheMetrics{
			TotalSize: len(s.solvedStates),
			Hits:      s.cacheHits,
			Misses:    s.cacheMisses,
		},
	}
}
