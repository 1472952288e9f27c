package typegraph

import "testing"

func TestNewProgramDefaults(t *testing.T) {
	p := NewProgram()
	if p.CountCFGNodes() != 0 {
		t.Fatalf("new program should have no nodes, got %d", p.CountCFGNodes())
	}
	if p.Entrypoint() != nil {
		t.Fatalf("new program should have no entrypoint")
	}
}

func TestNewProgramWithOptions(t *testing.T) {
	p := NewProgram(WithMaxVarSize(4))
	if p.config.MaxVarSize != 4 {
		t.Fatalf("WithMaxVarSize(4) did not apply, got %d", p.config.MaxVarSize)
	}
}

func TestNewCFGNodeDenseIDs(t *testing.T) {
	p := NewProgram()
	n0 := p.NewCFGNode("n0", nil)
	n1 := p.NewCFGNode("n1", nil)
	n2 := p.NewCFGNode("n2", nil)
	if n0.ID() != 0 || n1.ID() != 1 || n2.ID() != 2 {
		t.Fatalf("expected dense insertion-order ids 0,1,2, got %d,%d,%d", n0.ID(), n1.ID(), n2.ID())
	}
	if p.CountCFGNodes() != 3 {
		t.Fatalf("expected 3 nodes, got %d", p.CountCFGNodes())
	}
}

func TestEntrypointRoundTrip(t *testing.T) {
	p := NewProgram()
	n := p.NewCFGNode("entry", nil)
	p.SetEntrypoint(n)
	if p.Entrypoint() != n {
		t.Fatalf("Entrypoint() did not return the node passed to SetEntrypoint")
	}
}

func TestDefaultDataRoundTrip(t *testing.T) {
	p := NewProgram()
	p.SetDefaultData("unknown")
	if p.DefaultData() != "unknown" {
		t.Fatalf("DefaultData() = %v, want %q", p.DefaultData(), "unknown")
	}
}

func TestIsReachableForwardSemantics(t *testing.T) {
	p := NewProgram()
	a := p.NewCFGNode("a", nil)
	b := p.NewCFGNode("b", nil)
	c := p.NewCFGNode("c", nil)
	a.ConnectTo(b)
	b.ConnectTo(c)

	if !p.IsReachable(a, c) {
		t.Error("a should reach c transitively")
	}
	if p.IsReachable(c, a) {
		t.Error("c must not reach a in a forward-only chain")
	}
	if !p.IsReachable(a, a) {
		t.Error("a node must reach itself")
	}
}

func TestGetSolverCachesUntilInvalidated(t *testing.T) {
	p := NewProgram()
	p.NewCFGNode("n0", nil)

	s1 := p.GetSolver()
	s2 := p.GetSolver()
	if s1 != s2 {
		t.Fatal("GetSolver should return the same instance across calls absent mutation")
	}

	p.NewCFGNode("n1", nil)
	s3 := p.GetSolver()
	if s3 == s1 {
		t.Fatal("GetSolver should rebuild after a mutation invalidates the solver")
	}
}

func TestCalculateMetricsReflectsGraph(t *testing.T) {
	p := NewProgram()
	a := p.NewCFGNode("a", nil)
	b := p.NewCFGNode("b", nil)
	a.ConnectTo(b)

	v := p.NewVariable()
	v.AddBinding("x", a, nil)

	m := p.CalculateMetrics()
	if len(m.CFGNodes) != 2 {
		t.Fatalf("expected 2 node metrics, got %d", len(m.CFGNodes))
	}
	if m.CFGNodes[0].OutgoingCount != 1 {
		t.Fatalf("node a should report 1 outgoing edge, got %d", m.CFGNodes[0].OutgoingCount)
	}
	if m.BindingCount != 1 {
		t.Fatalf("expected 1 binding total, got %d", m.BindingCount)
	}
}

func TestInvalidateSolverArchivesMetrics(t *testing.T) {
	p := NewProgram()
	entry := p.NewCFGNode("entry", nil)
	v := p.NewVariable()
	b := v.AddBinding("x", entry, nil)

	// Run one query so the solver has something to report, then mutate
	// to force invalidation.
	entry.HasCombination([]*Binding{b})
	p.NewCFGNode("n1", nil)

	m := p.CalculateMetrics()
	if len(m.Solvers) == 0 {
		t.Fatal("expected the invalidated solver's metrics to be archived")
	}
}
