package typegraph

import "testing"

func TestAddBindingDedupes(t *testing.T) {
	p := NewProgram()
	a := p.NewCFGNode("a", nil)
	v := p.NewVariable()

	b1 := v.AddBinding("x", a, nil)
	b2 := v.AddBinding("x", a, nil)
	if b1 != b2 {
		t.Fatal("AddBinding with identical data should return the same binding")
	}
	if v.Size() != 1 {
		t.Fatalf("expected 1 distinct binding, got %d", v.Size())
	}
}

func TestAddBindingCollapsesAboveCap(t *testing.T) {
	p := NewProgram(WithMaxVarSize(2))
	p.SetDefaultData("unknown")
	a := p.NewCFGNode("a", nil)
	v := p.NewVariable()

	v.AddBinding("x", a, nil)
	overflow := v.AddBinding("y", a, nil)

	if overflow.Data() != "unknown" {
		t.Fatalf("binding added at capacity should collapse to DefaultData, got %v", overflow.Data())
	}
	if v.Size() != 2 {
		t.Fatalf("expected variable to stay at cap size 2, got %d", v.Size())
	}

	// A second distinct overflow should dedupe onto the same default binding.
	overflow2 := v.AddBinding("z", a, nil)
	if overflow2 != overflow {
		t.Fatal("repeated overflow should collapse onto the same default binding")
	}
}

func TestPrunePicksShadowingAssignment(t *testing.T) {
	p := NewProgram()
	entry := p.NewCFGNode("entry", nil)
	mid := entry.ConnectNew("mid", nil)
	tail := mid.ConnectNew("tail", nil)

	v := p.NewVariable()
	first := v.AddBinding("first", entry, nil)
	second := v.AddBinding("second", mid, nil)

	pruned := v.Prune(tail)
	if _, ok := pruned[second]; !ok {
		t.Error("Prune(tail) should include the binding assigned at mid")
	}
	if _, ok := pruned[first]; ok {
		t.Error("Prune(tail) should not include the binding shadowed by mid's reassignment")
	}

	prunedAtEntry := v.Prune(entry)
	if _, ok := prunedAtEntry[first]; !ok {
		t.Error("Prune(entry) should include the binding assigned at entry itself")
	}
}

func TestPruneNilViewpointReturnsEverything(t *testing.T) {
	p := NewProgram()
	a := p.NewCFGNode("a", nil)
	v := p.NewVariable()
	b1 := v.AddBinding("x", a, nil)
	b2 := v.AddBinding("y", a, nil)

	all := v.Prune(nil)
	if len(all) != 2 {
		t.Fatalf("expected both bindings, got %d", len(all))
	}
	if _, ok := all[b1]; !ok {
		t.Error("missing b1")
	}
	if _, ok := all[b2]; !ok {
		t.Error("missing b2")
	}
}

func TestPasteBindingFlattensWhenOriginsShareTargetNode(t *testing.T) {
	p := NewProgram()
	src := p.NewCFGNode("src", nil)
	dst := src.ConnectNew("dst", nil)

	source := p.NewVariable()
	sb := source.AddBinding("v", src, nil)

	target := p.NewVariable()
	target.PasteBinding(sb, src, nil)

	tb := target.Bindings()[0]
	if tb.Data() != "v" {
		t.Fatalf("pasted binding should carry the same data, got %v", tb.Data())
	}
	if len(tb.Origins()) != 1 || tb.Origins()[0].Where != src {
		t.Fatal("flattened paste should produce one origin at the pasted-from node")
	}
	if !dst.HasCombination([]*Binding{tb}) {
		t.Error("pasted binding should be visible downstream of src")
	}
}

func TestPasteVariableCopiesEveryBinding(t *testing.T) {
	p := NewProgram()
	a := p.NewCFGNode("a", nil)

	source := p.NewVariable()
	source.AddBinding("x", a, nil)
	source.AddBinding("y", a, nil)

	target := p.NewVariable()
	target.PasteVariable(source, a, nil)

	if target.Size() != 2 {
		t.Fatalf("expected 2 bindings pasted, got %d", target.Size())
	}
}

func TestFilterHonorsNodeCondition(t *testing.T) {
	p := NewProgram()
	entry := p.NewCFGNode("entry", nil)

	cond := p.NewVariable()
	condTrue := cond.AddBinding(true, entry, nil)

	guarded := entry.ConnectNew("guarded", condTrue)

	v := p.NewVariable()
	x := v.AddBinding("x", guarded, nil)

	filtered := v.Filter(guarded)
	if len(filtered) != 1 || filtered[0] != x {
		t.Fatalf("expected x visible at guarded, got %v", filtered)
	}

	data := v.FilteredData(guarded)
	if len(data) != 1 || data[0] != "x" {
		t.Fatalf("FilteredData mismatch: %v", data)
	}
}
