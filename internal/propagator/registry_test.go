package propagator

import (
	"errors"
	"testing"
)

func regWith(global map[string]float64, perDof map[string]float64, persistent ...string) *Registry {
	r := NewRegistry()
	for name, value := range global {
		r.Global[name] = value
	}
	for name, value := range perDof {
		r.PerDof[name] = value
	}
	if len(persistent) > 0 {
		r.SetPersistent(persistent...)
	}
	return r
}

func sameRegistry(a, b *Registry) bool {
	if len(a.Global) != len(b.Global) || len(a.PerDof) != len(b.PerDof) {
		return false
	}
	for name, value := range a.Global {
		if b.Global[name] != value {
			return false
		}
	}
	for name, value := range a.PerDof {
		if b.PerDof[name] != value {
			return false
		}
	}
	if len(a.Persistent) != len(b.Persistent) {
		return false
	}
	for name := range a.Persistent {
		if !b.IsPersistent(name) {
			return false
		}
	}
	return true
}

func TestMergeDisjoint(t *testing.T) {
	a := regWith(map[string]float64{"kT": 2.0}, nil, "kT")
	b := regWith(nil, map[string]float64{"v1": 0})

	if err := a.Merge(b); err != nil {
		t.Fatalf("unexpected merge error: %v", err)
	}
	if a.Global["kT"] != 2.0 || a.PerDof["v1"] != 0 {
		t.Error("merged registry missing entries")
	}
	if !a.IsPersistent("kT") || a.IsPersistent("v1") {
		t.Error("persistence flags not preserved")
	}
}

func TestMergeIdenticalEntryCollapses(t *testing.T) {
	a := regWith(map[string]float64{"kT": 2.0}, nil, "kT")
	b := regWith(map[string]float64{"kT": 2.0}, nil, "kT")

	if err := a.Merge(b); err != nil {
		t.Fatalf("unexpected merge error: %v", err)
	}
	if len(a.Global) != 1 {
		t.Errorf("expected single kT entry, got %d globals", len(a.Global))
	}
}

func TestMergeConflictingDefault(t *testing.T) {
	a := regWith(map[string]float64{"kT": 2.0}, nil, "kT")
	b := regWith(map[string]float64{"kT": 3.0}, nil, "kT")

	err := a.Merge(b)
	if !errors.Is(err, ErrVariableConflict) {
		t.Fatalf("expected ErrVariableConflict, got %v", err)
	}
	var conflict *ConflictError
	if !errors.As(err, &conflict) || conflict.Name != "kT" {
		t.Errorf("expected conflict naming kT, got %v", err)
	}
}

func TestMergeConflictingPersistence(t *testing.T) {
	a := regWith(map[string]float64{"p_NH": 0}, nil, "p_NH")
	b := regWith(map[string]float64{"p_NH": 0}, nil)

	if err := a.Merge(b); !errors.Is(err, ErrVariableConflict) {
		t.Fatalf("expected ErrVariableConflict, got %v", err)
	}
}

func TestMergeGlobalVersusPerDof(t *testing.T) {
	a := regWith(map[string]float64{"v1": 0}, nil)
	b := regWith(nil, map[string]float64{"v1": 0})

	if err := a.Merge(b); !errors.Is(err, ErrVariableConflict) {
		t.Fatalf("expected ErrVariableConflict, got %v", err)
	}
}

func TestMergeCommutativeAssociative(t *testing.T) {
	build := func() (*Registry, *Registry, *Registry) {
		a := regWith(map[string]float64{"kT": 2.0}, map[string]float64{"v1": 0}, "kT", "v1")
		b := regWith(map[string]float64{"kT": 2.0, "Q1": 8.0}, nil, "kT", "Q1")
		c := regWith(map[string]float64{"friction": 0.5}, map[string]float64{"v2": 0}, "friction", "v2")
		return a, b, c
	}

	a1, b1, c1 := build()
	if err := a1.Merge(b1); err != nil {
		t.Fatal(err)
	}
	if err := a1.Merge(c1); err != nil {
		t.Fatal(err)
	}

	a2, b2, c2 := build()
	if err := b2.Merge(c2); err != nil {
		t.Fatal(err)
	}
	if err := b2.Merge(a2); err != nil {
		t.Fatal(err)
	}

	if !sameRegistry(a1, b2) {
		t.Error("merge result depends on order for conflict-free registries")
	}
}

func TestMergeConflictDetectedRegardlessOfOrder(t *testing.T) {
	makeA := func() *Registry { return regWith(map[string]float64{"kT": 2.0}, nil, "kT") }
	makeB := func() *Registry { return regWith(map[string]float64{"kT": 3.0}, nil, "kT") }

	a := makeA()
	if err := a.Merge(makeB()); !errors.Is(err, ErrVariableConflict) {
		t.Errorf("a.Merge(b): expected conflict, got %v", err)
	}
	b := makeB()
	if err := b.Merge(makeA()); !errors.Is(err, ErrVariableConflict) {
		t.Errorf("b.Merge(a): expected conflict, got %v", err)
	}
}

func TestDeclareIsSortedAndComplete(t *testing.T) {
	r := regWith(
		map[string]float64{"kT": 2.0, "Q1": 8.0},
		map[string]float64{"v1": 0, "bdt": 0},
	)
	e := &fakeEngine{}
	if err := r.declare(e); err != nil {
		t.Fatal(err)
	}

	var got []string
	for _, s := range e.steps {
		got = append(got, s.op+":"+s.variable)
	}
	want := []string{"global:Q1", "global:kT", "perdof:bdt", "perdof:v1"}
	if len(got) != len(want) {
		t.Fatalf("expected %d declarations, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("declaration %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	r := regWith(map[string]float64{"kT": 2.0}, map[string]float64{"v1": 0}, "kT")
	c := r.Clone()
	c.Global["kT"] = 9.0
	c.PerDof["v1"] = 1.0
	c.SetPersistent("v1")

	if r.Global["kT"] != 2.0 || r.PerDof["v1"] != 0 || r.IsPersistent("v1") {
		t.Error("clone shares state with original")
	}
}
