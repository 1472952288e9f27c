// Package reach implements a transitive-closure cache over a growable set of
// densely-numbered nodes. It answers "starting at src and walking edges
// added so far, can I reach dst?" in O(1), at the cost of O(N) per edge
// insertion (N = number of nodes), word-packed via bitset.BitSet.
//
// The cache does not know about control flow, bindings, or any other
// typegraph concept; it only ever sees integer node ids. typegraph.Program
// owns one Matrix and feeds it node/edge events as the CFG is built.
package reach

import "github.com/bits-and-blooms/bitset"

// Matrix is a packed-bit transitive closure over nodes [0, N).
//
// row[i] has bit j set iff node i can reach node j via connections recorded
// so far. Matrix does not interpret the direction of the edges its caller
// reports through AddConnection; see typegraph.CFGNode.ConnectTo for the
// orientation this is used with (backward reachability over predecessors).
type Matrix struct {
	rows []*bitset.BitSet
}

// New returns an empty reachability matrix.
func New() *Matrix {
	return &Matrix{}
}

// AddNode grows the matrix by one row/column and marks the new node as
// reaching itself. It returns the new node's dense id.
func (m *Matrix) AddNode() int {
	node := len(m.rows)
	row := bitset.New(uint(node + 1))
	row.Set(uint(node))
	m.rows = append(m.rows, row)
	return node
}

// AddConnection announces that dst has become reachable from src in one
// step. For every node i that already reaches src (including src itself),
// it unions dst's reachable set into i's row, so that closure is maintained
// incrementally.
func (m *Matrix) AddConnection(src, dst int) {
	dstRow := m.rows[dst]
	srcBit := uint(src)
	for _, row := range m.rows {
		if row.Test(srcBit) {
			row.InPlaceUnion(dstRow)
		}
	}
}

// IsReachable reports whether dst is reachable from src.
func (m *Matrix) IsReachable(src, dst int) bool {
	return m.rows[src].Test(uint(dst))
}

// Size returns the number of nodes currently tracked.
func (m *Matrix) Size() int {
	return len(m.rows)
}
