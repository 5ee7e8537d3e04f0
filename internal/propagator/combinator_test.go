package propagator

import (
	"errors"
	"math"
	"math/big"
	"testing"
)

func TestChainAppliesBThenA(t *testing.T) {
	var log []probeCall
	chain, err := NewChain(newProbe("a", &log), newProbe("b", &log))
	if err != nil {
		t.Fatal(err)
	}

	if err := chain.AddSteps(&fakeEngine{}, 1.0); err != nil {
		t.Fatal(err)
	}

	if len(log) != 2 || log[0].id != "b" || log[1].id != "a" {
		t.Fatalf("expected emission order [b a], got %v", log)
	}
	if log[0].fraction != 1.0 || log[1].fraction != 1.0 {
		t.Errorf("chain must not scale fractions: %v", log)
	}
}

func TestChainIsNonCommutative(t *testing.T) {
	emit := func(first, second string) []fakeStep {
		var log []probeCall
		chain, err := NewChain(newProbe(first, &log), newProbe(second, &log))
		if err != nil {
			t.Fatal(err)
		}
		e := &fakeEngine{}
		if err := chain.AddSteps(e, 1.0); err != nil {
			t.Fatal(err)
		}
		return e.steps
	}

	ab := emit("a", "b")
	ba := emit("b", "a")
	if ab[0].variable == ba[0].variable {
		t.Error("Chain(A,B) and Chain(B,A) emitted the same step order")
	}
}

func TestChainMergeConflict(t *testing.T) {
	var log []probeCall
	a := newProbe("a", &log)
	a.reg.Global["kT"] = 2.0
	b := newProbe("b", &log)
	b.reg.Global["kT"] = 3.0

	if _, err := NewChain(a, b); !errors.Is(err, ErrVariableConflict) {
		t.Fatalf("expected ErrVariableConflict, got %v", err)
	}
}

func TestTrotterSuzukiSandwich(t *testing.T) {
	var log []probeCall
	ts, err := NewTrotterSuzuki(newProbe("a", &log), newProbe("b", &log))
	if err != nil {
		t.Fatal(err)
	}

	if err := ts.AddSteps(&fakeEngine{}, 0.5); err != nil {
		t.Fatal(err)
	}

	want := []probeCall{{"b", 0.25}, {"a", 0.5}, {"b", 0.25}}
	if len(log) != len(want) {
		t.Fatalf("expected %d applications, got %d", len(want), len(log))
	}
	for i := range want {
		if log[i] != want[i] {
			t.Errorf("application %d: expected %v, got %v", i, want[i], log[i])
		}
	}

	// Both halves together deliver the full fraction to B, exactly.
	if log[0].fraction+log[2].fraction != 0.5 {
		t.Error("side fractions do not sum to the incoming fraction")
	}
}

func TestTrotterSuzukiNesting(t *testing.T) {
	var log []probeCall
	inner, err := NewTrotterSuzuki(newProbe("d", &log), newProbe("e", &log))
	if err != nil {
		t.Fatal(err)
	}
	outer, err := NewTrotterSuzuki(newProbe("a", &log), inner)
	if err != nil {
		t.Fatal(err)
	}

	if err := outer.AddSteps(&fakeEngine{}, 1.0); err != nil {
		t.Fatal(err)
	}

	want := []probeCall{
		{"e", 0.25}, {"d", 0.5}, {"e", 0.25},
		{"a", 1.0},
		{"e", 0.25}, {"d", 0.5}, {"e", 0.25},
	}
	if len(log) != len(want) {
		t.Fatalf("expected quarter/half cascade of %d applications, got %d", len(want), len(log))
	}
	for i := range want {
		if log[i] != want[i] {
			t.Errorf("application %d: expected %v, got %v", i, want[i], log[i])
		}
	}
}

func TestSuzukiYoshidaInvalidOrder(t *testing.T) {
	var log []probeCall
	for _, nsy := range []int{0, 2, 4, 5, 9, 16} {
		if _, err := NewSuzukiYoshida(newProbe("a", &log), nsy); !errors.Is(err, ErrInvalidOrder) {
			t.Errorf("nsy=%d: expected ErrInvalidOrder, got %v", nsy, err)
		}
	}
}

func TestSuzukiYoshidaTrivialOrder(t *testing.T) {
	var log []probeCall
	sy, err := NewSuzukiYoshida(newProbe("a", &log), 1)
	if err != nil {
		t.Fatal(err)
	}
	if err := sy.AddSteps(&fakeEngine{}, 0.5); err != nil {
		t.Fatal(err)
	}
	if len(log) != 1 || log[0] != (probeCall{"a", 0.5}) {
		t.Fatalf("expected a single full-fraction application, got %v", log)
	}
}

func TestSuzukiYoshidaWeightsSumToOne(t *testing.T) {
	for _, nsy := range []int{1, 3, 7, 15} {
		full := FullYoshidaWeights(nsy)
		if len(full) != nsy {
			t.Errorf("nsy=%d: expected %d weights, got %d", nsy, nsy, len(full))
		}
		sum := 0.0
		for _, w := range full {
			sum += w
		}
		if math.Abs(sum-1) > 1e-12 {
			t.Errorf("nsy=%d: weights sum to %v, want 1", nsy, sum)
		}
		// Time symmetry: w_i == w_{n-1-i}.
		for i := range full {
			if full[i] != full[len(full)-1-i] {
				t.Errorf("nsy=%d: weight sequence is not symmetric at %d", nsy, i)
			}
		}
	}
}

func TestSuzukiYoshidaThreeWeightSplit(t *testing.T) {
	var log []probeCall
	sy, err := NewSuzukiYoshida(newProbe("a", &log), 3)
	if err != nil {
		t.Fatal(err)
	}
	if err := sy.AddSteps(&fakeEngine{}, 1.0); err != nil {
		t.Fatal(err)
	}

	w := 1 / (2 - math.Cbrt(2))
	want := []float64{w, 1 - 2*w, w}
	if len(log) != 3 {
		t.Fatalf("expected 3 applications, got %d", len(log))
	}
	for i, call := range log {
		if call.id != "a" {
			t.Errorf("application %d routed to %q", i, call.id)
		}
		if call.fraction != want[i] {
			t.Errorf("application %d: fraction %v, want %v", i, call.fraction, want[i])
		}
	}
}

func TestSuzukiYoshidaScalesFraction(t *testing.T) {
	for _, nsy := range []int{1, 3, 7, 15} {
		var log []probeCall
		sy, err := NewSuzukiYoshida(newProbe("a", &log), nsy)
		if err != nil {
			t.Fatal(err)
		}
		if err := sy.AddSteps(&fakeEngine{}, 0.25); err != nil {
			t.Fatal(err)
		}
		total := 0.0
		for _, call := range log {
			total += call.fraction
		}
		if math.Abs(total-0.25) > 1e-12 {
			t.Errorf("nsy=%d: total fraction %v, want 0.25", nsy, total)
		}
	}
}

func TestRespaInvalidLoops(t *testing.T) {
	for _, loops := range [][]int{nil, {}, {0}, {2, 0}, {-1}} {
		if _, err := NewRespa(loops); !errors.Is(err, ErrInvalidLoops) {
			t.Errorf("loops=%v: expected ErrInvalidLoops, got %v", loops, err)
		}
	}
}

func TestRespaCountersOnlyForLoopingLevels(t *testing.T) {
	r, err := NewRespa([]int{4, 1, 2})
	if err != nil {
		t.Fatal(err)
	}
	reg := r.Registry()
	if _, ok := reg.Global["n0"]; !ok {
		t.Error("missing counter n0")
	}
	if _, ok := reg.Global["n1"]; ok {
		t.Error("counter n1 declared for a level with count 1")
	}
	if _, ok := reg.Global["n2"]; !ok {
		t.Error("missing counter n2")
	}
	if reg.Persistent != nil {
		t.Error("respa counters must be reset-transparent")
	}
}

func TestRespaExactFractions(t *testing.T) {
	loops := []int{3, 2, 5}
	r, err := NewRespa(loops)
	if err != nil {
		t.Fatal(err)
	}
	e := &fakeEngine{}
	if err := r.AddSteps(e, 1.0); err != nil {
		t.Fatal(err)
	}

	product := 1
	for _, n := range loops {
		product *= n
	}

	// The innermost position update is a single emitted step whose
	// coefficient is the float64 image of the exact rational 1/(n0*n1*n2).
	var posUpdates []fakeStep
	for _, s := range e.steps {
		if s.op == "computePerDof" && s.variable == "x" {
			posUpdates = append(posUpdates, s)
		}
	}
	if len(posUpdates) != 1 {
		t.Fatalf("expected one emitted position update, got %d", len(posUpdates))
	}
	exact, _ := new(big.Rat).SetFrac64(1, int64(product)).Float64()
	wantExpr := "x + " + num(exact) + "*dt*v"
	if posUpdates[0].expr != wantExpr {
		t.Errorf("position update %q, want %q", posUpdates[0].expr, wantExpr)
	}

	// At runtime the loop structure executes the update product times; the
	// accumulated fraction product*(1/product) is exactly one as a rational.
	total := new(big.Rat)
	for i := 0; i < product; i++ {
		total.Add(total, big.NewRat(1, int64(product)))
	}
	if total.Cmp(big.NewRat(1, 1)) != 0 {
		t.Error("accumulated position fraction drifts from 1")
	}
}

func TestRespaStraightLineForSingleLevel(t *testing.T) {
	r, err := NewRespa([]int{1})
	if err != nil {
		t.Fatal(err)
	}
	e := &fakeEngine{}
	if err := r.AddSteps(e, 1.0); err != nil {
		t.Fatal(err)
	}
	for _, s := range e.steps {
		if s.op == "while" {
			t.Fatal("loop emitted for a single-iteration level")
		}
	}
	want := []string{"v", "x", "v"}
	if len(e.steps) != len(want) {
		t.Fatalf("expected %d steps, got %d", len(want), len(e.steps))
	}
	for i, s := range e.steps {
		if s.variable != want[i] {
			t.Errorf("step %d updates %q, want %q", i, s.variable, want[i])
		}
	}
}

func TestRespaLoopStructure(t *testing.T) {
	r, err := NewRespa([]int{2, 2})
	if err != nil {
		t.Fatal(err)
	}
	e := &fakeEngine{}
	if err := r.AddSteps(e, 1.0); err != nil {
		t.Fatal(err)
	}
	if e.depth != 0 {
		t.Fatalf("unbalanced blocks: depth %d", e.depth)
	}

	var ops []string
	for _, s := range e.steps {
		ops = append(ops, s.op)
	}
	// n1 counter, outer while, f1 boost, n0 counter, inner while, f0 boost,
	// position, f0 boost, n0 increment, end, f1 boost, n1 increment, end.
	want := []string{
		"computeGlobal", "while",
		"computePerDof",
		"computeGlobal", "while",
		"computePerDof", "computePerDof", "computePerDof",
		"computeGlobal", "end",
		"computePerDof",
		"computeGlobal", "end",
	}
	if len(ops) != len(want) {
		t.Fatalf("expected %d steps, got %d: %v", len(want), len(ops), ops)
	}
	for i := range want {
		if ops[i] != want[i] {
			t.Errorf("step %d: expected %s, got %s", i, want[i], ops[i])
		}
	}
}

func TestCombinatorsDeepCopyChildren(t *testing.T) {
	var log []probeCall
	leaf := newProbe("a", &log)
	leaf.reg.Global["kT"] = 2.0

	chain, err := NewChain(leaf, newProbe("b", &log))
	if err != nil {
		t.Fatal(err)
	}

	// Mutating the original leaf after composition must not leak into the
	// combinator's copy.
	leaf.reg.Global["kT"] = 9.0
	if chain.Registry().Global["kT"] != 2.0 {
		t.Error("combinator shares registry state with its input")
	}
}
