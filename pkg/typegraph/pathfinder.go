package typegraph

// nodeSet is a small set of CFG nodes, used for blocked-node sets during
// backward search. Keyed by pointer identity.
type nodeSet map[*CFGNode]struct{}

func newNodeSet(nodes ...*CFGNode) nodeSet {
	s := make(nodeSet, len(nodes))
	for _, n := range nodes {
		s[n] = struct{}{}
	}
	return s
}

func (s nodeSet) has(n *CFGNode) bool {
	_, ok := s[n]
	return ok
}

// key renders a nodeSet into a comparable map key, by listing its members'
// ids in ascending order. Node ids are dense and stable, so this is a
// stable, collision-free encoding for use as part of a cache key.
func (s nodeSet) key() string {
	ids := make([]int, 0, len(s))
	for n := range s {
		ids = append(ids, n.id)
	}
	return intsKey(ids)
}

// queryResult is the answer to one pathFinder.findNodeBackwards query: does
// a route exist, and if so, which condition-carrying nodes sit on the
// shortest such route (its articulation points).
type queryResult struct {
	exists bool
	path   []*CFGNode
}

type queryKey struct {
	start, finish int
	blocked       string
}

// pathFinder answers backward-reachability questions over a CFG, walking
// Incoming edges only, and memoizes findNodeBackwards queries by
// (start, finish, blocked) - the same query recurs often across a single
// solver run, since many goals resolve to the same CFG region.
type pathFinder struct {
	cache map[queryKey]queryResult
}

func newPathFinder() *pathFinder {
	return &pathFinder{cache: make(map[queryKey]queryResult)}
}

// findAnyPath reports whether finish is reachable from start by walking
// Incoming edges, without entering any node in blocked.
func findAnyPath(start, finish *CFGNode, blocked nodeSet) bool {
	stack := []*CFGNode{start}
	seen := make(nodeSet)
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if node == finish {
			return true
		}
		if seen.has(node) || blocked.has(node) {
			continue
		}
		seen[node] = struct{}{}
		stack = append(stack, node.incoming...)
	}
	return false
}

// findShortestPath returns the shortest route [start, ..., finish] via
// Incoming edges avoiding blocked, or nil if none exists.
func findShortestPath(start, finish *CFGNode, blocked nodeSet) []*CFGNode {
	queue := []*CFGNode{start}
	previous := map[*CFGNode]*CFGNode{start: nil}
	seen := make(nodeSet)
	var found *CFGNode
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		if node == finish {
			found = node
			break
		}
		if seen.has(node) || blocked.has(node) {
			continue
		}
		seen[node] = struct{}{}
		for _, pred := range node.incoming {
			if _, ok := previous[pred]; !ok {
				previous[pred] = node
			}
		}
		queue = append(queue, node.incoming...)
	}
	if found == nil {
		return nil
	}
	var path []*CFGNode
	for node := finish; node != nil; node = previous[node] {
		path = append([]*CFGNode{node}, path...)
		if node == start {
			break
		}
	}
	return path
}

// findHighestReachableWeight walks backward from start's predecessors
// (never revisiting start itself) and returns the reachable node with the
// greatest entry in weights, or ok=false if none of the reachable nodes are
// weighted.
func findHighestReachableWeight(start *CFGNode, seen nodeSet, weights map[*CFGNode]int) (*CFGNode, bool) {
	stack := append([]*CFGNode(nil), start.incoming...)
	bestWeight := -1
	var best *CFGNode
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if node == start {
			continue
		}
		weight, ok := weights[node]
		if !ok {
			weight = -1
		}
		if weight > bestWeight {
			bestWeight = weight
			best = node
		}
		if seen.has(node) {
			continue
		}
		seen[node] = struct{}{}
		stack = append(stack, node.incoming...)
	}
	return best, best != nil
}

// findNodeBackwards finds a shortest route from start back to finish,
// avoiding blocked, and reduces it to the articulation points a solver
// needs to consider: every articulation point lies on the shortest route,
// so blocking the shortest route and repeatedly jumping to the
// highest-weight (= closest-to-finish-on-the-original-path) still-reachable
// node retraces those articulation points without
// re-exploring the whole graph. Only condition-carrying nodes along that
// walk are kept, since those are the only ones the solver must additionally
// justify.
func (pf *pathFinder) findNodeBackwards(start, finish *CFGNode, blocked nodeSet) queryResult {
	key := queryKey{start: start.id, finish: finish.id, blocked: blocked.key()}
	if cached, ok := pf.cache[key]; ok {
		return cached
	}

	shortest := findShortestPath(start, finish, blocked)
	if len(shortest) == 0 {
		result := queryResult{exists: false}
		pf.cache[key] = result
		return result
	}

	blockedWithPath := make(nodeSet, len(blocked)+len(shortest))
	for n := range blocked {
		blockedWithPath[n] = struct{}{}
	}
	weights := make(map[*CFGNode]int, len(shortest))
	for w, n := range shortest {
		blockedWithPath[n] = struct{}{}
		weights[n] = w
	}

	var path []*CFGNode
	node := start
	for {
		if node.condition != nil {
			path = append(path, node)
		}
		if node.id == finish.id {
			break
		}
		seen := make(nodeSet, len(blockedWithPath))
		for n := range blockedWithPath {
			seen[n] = struct{}{}
		}
		next, ok := findHighestReachableWeight(node, seen, weights)
		if !ok {
			// Defensive: the shortest-path search already proved a route
			// exists, so there is always a highest-weight node to advance
			// to; this would only trip on a solver/pathfinder mismatch.
			assertf(false, "findNodeBackwards: no progress from <%d> toward <%d>", node.id, finish.id)
		}
		node = next
	}

	result := queryResult{exists: true, path: path}
	pf.cache[key] = result
	return result
}
