package typegraph

import "testing"

func TestAddOriginAddsDisjunctPerCall(t *testing.T) {
	p := NewProgram()
	a := p.NewCFGNode("a", nil)
	v := p.NewVariable()
	g1 := v.AddBinding("g1", a, nil)
	g2 := v.AddBinding("g2", a, nil)

	target := p.NewVariable()
	x := target.AddBinding("x", nil, nil)

	x.AddOrigin(a, []*Binding{g1})
	x.AddOrigin(a, []*Binding{g2})

	origin := x.findOrigin(a)
	if origin == nil {
		t.Fatal("expected an origin at a")
	}
	if len(origin.sourceSets) != 2 {
		t.Fatalf("two AddOrigin calls at the same node should add two disjuncts, got %d", len(origin.sourceSets))
	}
}

func TestCopyOriginsWithWhereLinksToOther(t *testing.T) {
	p := NewProgram()
	a := p.NewCFGNode("a", nil)
	b := a.ConnectNew("b", nil)

	source := p.NewVariable()
	sb := source.AddBinding("v", a, nil)

	target := p.NewVariable()
	tb := target.AddBinding("v2", nil, nil)
	tb.CopyOrigins(sb, b, nil)

	if !tb.HasSource(sb) {
		t.Error("tb should transitively depend on sb after CopyOrigins with a where")
	}
	if !b.HasCombination([]*Binding{tb}) {
		t.Error("tb should be visible at b, the node it was copied to")
	}
}

func TestCopyOriginsWithoutWhereDuplicatesVerbatim(t *testing.T) {
	p := NewProgram()
	a := p.NewCFGNode("a", nil)
	b := a.ConnectNew("b", nil)

	source := p.NewVariable()
	sb := source.AddBinding("v", a, nil)
	sb.AddOrigin(b, nil)

	target := p.NewVariable()
	tb := target.AddBinding("v2", nil, nil)
	tb.CopyOrigins(sb, nil, nil)

	if len(tb.Origins()) != 2 {
		t.Fatalf("expected 2 origins copied verbatim, got %d", len(tb.Origins()))
	}
}

func TestHasSourceSelfIsAlwaysTrue(t *testing.T) {
	p := NewProgram()
	a := p.NewCFGNode("a", nil)
	v := p.NewVariable()
	b := v.AddBinding("x", a, nil)
	if !b.HasSource(b) {
		t.Error("a binding must have itself as a source")
	}
}

func TestHasSourceFollowsSourceSetTransitively(t *testing.T) {
	p := NewProgram()
	a := p.NewCFGNode("a", nil)

	root := p.NewVariable()
	r := root.AddBinding("r", a, nil)

	mid := p.NewVariable()
	m := mid.AddBinding("m", a, []*Binding{r})

	leaf := p.NewVariable()
	l := leaf.AddBinding("l", a, []*Binding{m})

	if !l.HasSource(r) {
		t.Error("l should transitively have r as a source via m")
	}
}

func TestIsVisibleMatchesSolve(t *testing.T) {
	p := NewProgram()
	a := p.NewCFGNode("a", nil)
	b := a.ConnectNew("b", nil)
	v := p.NewVariable()
	x := v.AddBinding("x", a, nil)

	if x.IsVisible(b) != b.HasCombination([]*Binding{x}) {
		t.Error("IsVisible(n) must agree with Solve({binding}, n)")
	}
}
