package integrator

import (
	"errors"
	"math/rand"

	"github.com/craabreu/atomsmm/internal/engine"
	"github.com/craabreu/atomsmm/internal/propagator"
	"github.com/craabreu/atomsmm/internal/sim"
)

var (
	ErrInvalidStepSize = errors.New("integrator: step size must be positive")
	ErrUnknownScheme   = errors.New("integrator: unknown scheme")
	ErrUnknownModel    = errors.New("integrator: unknown model")
)

// Integrator couples a propagator to the recorded step program it emits at
// unit fraction. Construction fails if the propagator's registries conflict
// or its emission leaves a block open.
type Integrator struct {
	rec  *engine.Recorder
	prop propagator.Propagator
	dt   float64
}

func New(dt float64, p propagator.Propagator) (*Integrator, error) {
	if dt <= 0 {
		return nil, ErrInvalidStepSize
	}
	rec := engine.NewRecorder()
	if err := propagator.Declare(p, rec); err != nil {
		return nil, err
	}
	if err := propagator.Emit(p, rec); err != nil {
		return nil, err
	}
	if _, err := rec.Program(); err != nil {
		return nil, err
	}
	return &Integrator{rec: rec, prop: p, dt: dt}, nil
}

// NewGlobalThermostat sandwiches an NVE core between half-steps of a
// velocity-space thermostat.
func NewGlobalThermostat(dt float64, nve, thermostat propagator.Propagator) (*Integrator, error) {
	p, err := propagator.NewTrotterSuzuki(nve, thermostat)
	if err != nil {
		return nil, err
	}
	return New(dt, p)
}

func (ig *Integrator) StepSize() float64 { return ig.dt }

func (ig *Integrator) Recorder() *engine.Recorder { return ig.rec }

func (ig *Integrator) Registry() *propagator.Registry { return ig.prop.Registry() }

func (ig *Integrator) Program() engine.Program {
	p, _ := ig.rec.Program()
	return p
}

// Simulator binds the recorded program to a system, seeding the random
// stream that feeds gaussian and random draws.
func (ig *Integrator) Simulator(sys *sim.System, seed int64) (*sim.Simulator, error) {
	return sim.New(sys, ig.rec, ig.prop.Registry(), ig.dt, rand.New(rand.NewSource(seed)))
}
