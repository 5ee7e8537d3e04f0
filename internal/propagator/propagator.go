package propagator

import "strconv"

// Engine is the stepping-engine primitive interface that propagators emit
// against. Expressions are textual arithmetic formulas over declared
// variables and the engine built-ins (x, v, f, f0..fN, m, dt, gaussian,
// random), with auxiliary definitions appended after semicolons. The core
// assembles fraction-scaled instances of fixed expression templates; parsing
// and evaluation belong to the engine.
type Engine interface {
	AddGlobalVariable(name string, value float64) error
	AddPerDofVariable(name string, value float64) error
	AddComputeGlobal(variable, expression string) error
	AddComputePerDof(variable, expression string) error
	AddComputeSum(variable, expression string) error
	BeginWhileBlock(condition string)
	BeginIfBlock(condition string)
	EndBlock() error
	AddConstrainPositions()
	AddConstrainVelocities()
	AddUpdateContextState()
}

// Propagator is one exponential-operator factor of a splitting scheme. It
// declares the engine variables it needs and emits the primitive steps
// implementing its update over fraction*dt.
//
// Implementations are immutable after construction except through Clone,
// which must produce an independent deep copy.
type Propagator interface {
	Registry() *Registry
	Clone() Propagator
	AddSteps(e Engine, fraction float64) error
}

// Declare registers every variable of the propagator tree with the engine.
// It must run exactly once per engine instance before any emission;
// re-declaring fails with the engine's duplicate-variable error.
func Declare(p Propagator, e Engine) error {
	return p.Registry().declare(e)
}

// Emit walks the tree once, producing the full step sequence for one
// integration step of the net time increment.
func Emit(p Propagator, e Engine) error {
	return p.AddSteps(e, 1.0)
}

// num renders a time fraction or precomputed coefficient for inclusion in an
// engine expression, using the shortest representation that round-trips.
func num(value float64) string {
	return strconv.FormatFloat(value, 'g', -1, 64)
}

// mergedRegistry builds a combinator registry from already-cloned children,
// surfacing composition mistakes at construction time.
func mergedRegistry(children ...Propagator) (*Registry, error) {
	reg := NewRegistry()
	for _, child := range children {
		if err := reg.Merge(child.Registry()); err != nil {
			return nil, err
		}
	}
	return reg, nil
}
