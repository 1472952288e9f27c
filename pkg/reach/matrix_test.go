package reach

import "testing"

func TestMatrix(t *testing.T) {
	t.Run("new node reaches itself", func(t *testing.T) {
		m := New()
		n0 := m.AddNode()
		if !m.IsReachable(n0, n0) {
			t.Error("a node must reach itself")
		}
	})

	t.Run("direct connection is reachable", func(t *testing.T) {
		m := New()
		n0 := m.AddNode()
		n1 := m.AddNode()
		m.AddConnection(n0, n1)
		if !m.IsReachable(n0, n1) {
			t.Error("n0 should reach n1 after AddConnection(n0, n1)")
		}
		if m.IsReachable(n1, n0) {
			t.Error("reachability must not be symmetric")
		}
	})

	t.Run("transitive closure over a chain", func(t *testing.T) {
		m := New()
		n0 := m.AddNode()
		n1 := m.AddNode()
		n2 := m.AddNode()
		n3 := m.AddNode()
		m.AddConnection(n0, n1)
		m.AddConnection(n1, n2)
		m.AddConnection(n2, n3)
		if !m.IsReachable(n0, n3) {
			t.Error("n0 should transitively reach n3")
		}
		if m.IsReachable(n3, n0) {
			t.Error("n3 must not reach n0 in a forward chain")
		}
	})

	t.Run("incremental edge insertion updates existing predecessors", func(t *testing.T) {
		// n0 -> n1, then later n1 -> n2: n0 must pick up reachability to n2
		// even though the n0->n1 edge was added before n2 existed.
		m := New()
		n0 := m.AddNode()
		n1 := m.AddNode()
		m.AddConnection(n0, n1)
		n2 := m.AddNode()
		m.AddConnection(n1, n2)
		if !m.IsReachable(n0, n2) {
			t.Error("n0 should reach n2 after the later n1->n2 edge")
		}
	})

	t.Run("diamond merges both branches", func(t *testing.T) {
		m := New()
		root := m.AddNode()
		left := m.AddNode()
		right := m.AddNode()
		join := m.AddNode()
		m.AddConnection(root, left)
		m.AddConnection(root, right)
		m.AddConnection(left, join)
		m.AddConnection(right, join)
		if !m.IsReachable(root, join) {
			t.Error("root should reach join via either branch")
		}
		if m.IsReachable(left, right) {
			t.Error("left and right branches are not mutually reachable")
		}
	})

	t.Run("cycle reaches all members both ways", func(t *testing.T) {
		m := New()
		n0 := m.AddNode()
		n1 := m.AddNode()
		n2 := m.AddNode()
		m.AddConnection(n0, n1)
		m.AddConnection(n1, n2)
		m.AddConnection(n2, n0)
		if !m.IsReachable(n0, n2) || !m.IsReachable(n2, n0) {
			t.Error("all nodes in a cycle must reach each other")
		}
	})

	t.Run("size tracks node count", func(t *testing.T) {
		m := New()
		if m.Size() != 0 {
			t.Fatalf("expected empty matrix, got size %d", m.Size())
		}
		m.AddNode()
		m.AddNode()
		if m.Size() != 2 {
			t.Fatalf("expected size 2, got %d", m.Size())
		}
	})
}
