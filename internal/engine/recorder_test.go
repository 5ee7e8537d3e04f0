package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuplicateDeclaration(t *testing.T) {
	r := NewRecorder()
	require.NoError(t, r.AddGlobalVariable("kT", 2.0))

	err := r.AddGlobalVariable("kT", 2.0)
	assert.ErrorIs(t, err, ErrDuplicateVariable)

	// Also across namespaces.
	err = r.AddPerDofVariable("kT", 0)
	assert.ErrorIs(t, err, ErrDuplicateVariable)
}

func TestReservedKineticAccumulator(t *testing.T) {
	r := NewRecorder()

	assert.ErrorIs(t, r.AddComputeGlobal("mvv", "0"), ErrReservedVariable)
	assert.ErrorIs(t, r.AddComputePerDof("mvv", "m*v*v"), ErrReservedVariable)

	// The accumulator is pre-declared by the engine itself.
	assert.ErrorIs(t, r.AddGlobalVariable("mvv", 0), ErrDuplicateVariable)
}

func TestAutoKineticRecompute(t *testing.T) {
	r := NewRecorder()
	require.NoError(t, r.AddGlobalVariable("p_NH", 0))

	require.NoError(t, r.AddComputeGlobal("p_NH", "p_NH + 0.5*dt*(mvv - 6)"))
	require.NoError(t, r.AddComputePerDof("v", "0.9*v"))
	require.NoError(t, r.AddComputeGlobal("p_NH", "p_NH + 0.5*dt*(mvv - 6)"))

	p, err := r.Program()
	require.NoError(t, err)

	ops := make([]Op, len(p))
	for i, s := range p {
		ops[i] = s.Op
	}
	// mvv sum before each read of a stale accumulator; the velocity update
	// in between invalidates the first sum.
	want := []Op{OpComputeSum, OpComputeGlobal, OpComputePerDof, OpComputeSum, OpComputeGlobal}
	assert.Equal(t, want, ops)
	assert.Equal(t, "m*v*v", p[0].Expression)
}

func TestNoKineticRecomputeWhenFresh(t *testing.T) {
	r := NewRecorder()
	require.NoError(t, r.AddGlobalVariable("a", 0))

	require.NoError(t, r.AddComputeGlobal("a", "mvv"))
	require.NoError(t, r.AddComputeGlobal("a", "a + mvv"))

	p, err := r.Program()
	require.NoError(t, err)

	var sums int
	for _, s := range p {
		if s.Op == OpComputeSum {
			sums++
		}
	}
	assert.Equal(t, 1, sums, "second read of fresh mvv must not re-sum")
}

func TestAutoContextStateRefresh(t *testing.T) {
	r := NewRecorder()

	require.NoError(t, r.AddComputePerDof("v", "v + 0.5*dt*f0/m"))
	require.NoError(t, r.AddComputePerDof("x", "x + dt*v"))
	require.NoError(t, r.AddComputePerDof("v", "v + 0.5*dt*f0/m"))

	p, err := r.Program()
	require.NoError(t, err)

	require.Equal(t, OpUpdateContextState, p[0].Op)
	var refreshes int
	for _, s := range p {
		if s.Op == OpUpdateContextState {
			refreshes++
		}
	}
	assert.Equal(t, 1, refreshes)
}

func TestExplicitContextStateCollapses(t *testing.T) {
	r := NewRecorder()
	r.AddUpdateContextState()
	r.AddUpdateContextState()

	p, err := r.Program()
	require.NoError(t, err)
	assert.Len(t, p, 1)
}

func TestAuxiliaryDefinitionsShadowBuiltins(t *testing.T) {
	r := NewRecorder()
	require.NoError(t, r.AddGlobalVariable("p_NHL", 0))

	// x here is an auxiliary definition, not the position built-in, and G
	// depends on mvv through an aux: the scan must still find mvv.
	expr := "p_NHL*x + G*(1 - x); G = (mvv - 6)/0.5; x = exp(-dt)"
	require.NoError(t, r.AddComputeGlobal("p_NHL", expr))

	p, err := r.Program()
	require.NoError(t, err)
	require.NotEmpty(t, p)
	assert.Equal(t, OpComputeSum, p[0].Op)
}

func TestBlockBalance(t *testing.T) {
	r := NewRecorder()
	r.BeginWhileBlock("n0 < 2")

	_, err := r.Program()
	assert.ErrorIs(t, err, ErrUnbalancedBlocks)

	require.NoError(t, r.EndBlock())
	_, err = r.Program()
	assert.NoError(t, err)

	assert.ErrorIs(t, r.EndBlock(), ErrUnbalancedBlocks)
}

func TestVariableAccess(t *testing.T) {
	r := NewRecorder()
	require.NoError(t, r.AddGlobalVariable("kT", 2.0))
	require.NoError(t, r.AddPerDofVariable("v1", 0))

	value, err := r.GetGlobalVariableByName("kT")
	require.NoError(t, err)
	assert.Equal(t, 2.0, value)

	require.NoError(t, r.SetGlobalVariableByName("kT", 3.0))
	value, _ = r.GetGlobalVariableByName("kT")
	assert.Equal(t, 3.0, value)

	_, err = r.GetGlobalVariableByName("missing")
	assert.ErrorIs(t, err, ErrUndefinedVariable)
	assert.ErrorIs(t, r.SetGlobalVariableByName("missing", 1), ErrUndefinedVariable)

	require.NoError(t, r.SetPerDofVariableByName("v1", []float64{1, 2, 3}))
	values, err := r.GetPerDofVariableByName("v1")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, values)
}

func TestProgramListing(t *testing.T) {
	r := NewRecorder()
	require.NoError(t, r.AddGlobalVariable("n0", 0))
	require.NoError(t, r.AddComputeGlobal("n0", "0"))
	r.BeginWhileBlock("n0 < 2")
	require.NoError(t, r.AddComputePerDof("x", "x + 0.5*dt*v"))
	require.NoError(t, r.AddComputeGlobal("n0", "n0 + 1"))
	require.NoError(t, r.EndBlock())

	p, err := r.Program()
	require.NoError(t, err)

	want := "" +
		"   0: n0 <- 0\n" +
		"   1: while (n0 < 2):\n" +
		"   2:    x <- x + 0.5*dt*v\n" +
		"   3:    n0 <- n0 + 1\n" +
		"   4: end\n"
	assert.Equal(t, want, p.String())
}

func TestRequiredVariables(t *testing.T) {
	names := requiredVariables("v", "(v + s*f/m)/sdif; s = 0.5*dt*(a + b); sdif = a*b + 1")
	set := make(map[string]bool)
	for _, n := range names {
		set[n] = true
	}
	for _, want := range []string{"f", "m", "dt", "a", "b"} {
		assert.True(t, set[want], "missing %s", want)
	}
	assert.False(t, set["s"], "aux definition leaked as requirement")
	assert.False(t, set["sdif"], "aux definition leaked as requirement")
	assert.False(t, set["v"], "assignment target leaked as requirement")

	names = requiredVariables("y", "select(step(bdt - 1e-3), direct, safe); direct = sinh(bdt)/bdt; safe = 1")
	set = make(map[string]bool)
	for _, n := range names {
		set[n] = true
	}
	assert.True(t, set["bdt"])
	assert.False(t, set["select"], "function name treated as variable")
	assert.False(t, set["sinh"], "function name treated as variable")
}
