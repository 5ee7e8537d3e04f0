package sim

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/craabreu/atomsmm/internal/engine"
	"github.com/craabreu/atomsmm/internal/propagator"
)

// Metric observes the trajectory as it is produced.
type Metric interface {
	Name() string
	Observe(x, v []float64, t float64)
	Value() float64
	Reset()
}

// Result collects one run's trajectory summary.
type Result struct {
	Times       []float64
	Energies    []float64
	EnergyDrift float64
	StepsTaken  int
	Metrics     map[string]float64
}

// Simulator interprets a recorded step program against a System, once per
// integration step. Variables not marked persistent in the propagator
// registry are reset to their declared defaults at the top of every step;
// persistent ones (thermostat momenta and the like) carry over.
type Simulator struct {
	sys     *System
	program engine.Program
	reg     *propagator.Registry
	dt      float64
	ev      *evaluator

	globals        map[string]float64
	perDof         map[string][]float64
	globalDefaults map[string]float64
	perDofDefaults map[string]float64

	f       [][]float64
	match   []int
	scratch []float64
	envs    *envPool

	t       float64
	steps   int
	metrics []Metric
}

// New builds a simulator for the program recorded in rec. The registry
// supplies persistence flags; rng feeds the gaussian and random draws.
func New(sys *System, rec *engine.Recorder, reg *propagator.Registry, dt float64, rng *rand.Rand) (*Simulator, error) {
	if dt <= 0 {
		return nil, ErrInvalidConfig
	}
	program, err := rec.Program()
	if err != nil {
		return nil, err
	}
	match, err := matchBlocks(program)
	if err != nil {
		return nil, err
	}

	n := sys.Size()
	s := &Simulator{
		sys:            sys,
		program:        program,
		reg:            reg,
		dt:             dt,
		ev:             newEvaluator(rng),
		globals:        rec.GlobalValues(),
		perDof:         make(map[string][]float64),
		globalDefaults: rec.GlobalDefaults(),
		perDofDefaults: rec.PerDofDefaults(),
		match:          match,
		scratch:        make([]float64, n),
		envs:           newEnvPool(),
	}

	for name, def := range s.perDofDefaults {
		vector := make([]float64, n)
		for i := range vector {
			vector[i] = def
		}
		s.perDof[name] = vector
	}
	for name, values := range rec.PerDofValues() {
		if len(values) != n {
			return nil, fmt.Errorf("%w: %s", ErrDimensionMismatch, name)
		}
		copy(s.perDof[name], values)
	}

	s.f = make([][]float64, sys.Force.Groups())
	for g := range s.f {
		s.f[g] = make([]float64, n)
	}
	s.refreshForces()
	return s, nil
}

func (s *Simulator) AddMetric(m Metric) { s.metrics = append(s.metrics, m) }

func (s *Simulator) Time() float64 { return s.t }

func (s *Simulator) System() *System { return s.sys }

// Global returns the current value of a global program variable.
func (s *Simulator) Global(name string) (float64, bool) {
	value, ok := s.globals[name]
	return value, ok
}

// PerDof returns a copy of the current vector of a per-dof program variable.
func (s *Simulator) PerDof(name string) ([]float64, bool) {
	vector, ok := s.perDof[name]
	if !ok {
		return nil, false
	}
	out := make([]float64, len(vector))
	copy(out, vector)
	return out, true
}

// StepOnce advances the system by one full integration step.
func (s *Simulator) StepOnce() error {
	s.resetTransient()

	pc := 0
	for pc < len(s.program) {
		step := s.program[pc]
		switch step.Op {
		case engine.OpComputeGlobal:
			value, err := s.ev.eval(step.Expression, s.globalEnv())
			if err != nil {
				return err
			}
			s.globals[step.Variable] = value
			pc++

		case engine.OpComputePerDof:
			if err := s.computePerDof(step.Variable, step.Expression); err != nil {
				return err
			}
			pc++

		case engine.OpComputeSum:
			total := 0.0
			for i := 0; i < s.sys.Size(); i++ {
				env := s.dofEnv(i)
				value, err := s.ev.eval(step.Expression, env)
				s.envs.Put(env)
				if err != nil {
					return err
				}
				total += value
			}
			s.globals[step.Variable] = total
			pc++

		case engine.OpUpdateContextState:
			s.refreshForces()
			pc++

		case engine.OpConstrainPositions, engine.OpConstrainVelocities:
			// Scripted systems carry no constraints.
			pc++

		case engine.OpBeginWhile, engine.OpBeginIf:
			cond, err := s.ev.eval(step.Expression, s.globalEnv())
			if err != nil {
				return err
			}
			if cond == 0 {
				pc = s.match[pc] + 1
			} else {
				pc++
			}

		case engine.OpEndBlock:
			opener := s.match[pc]
			if s.program[opener].Op == engine.OpBeginWhile {
				pc = opener
			} else {
				pc++
			}
		}
	}

	s.t += s.dt
	s.steps++
	for _, m := range s.metrics {
		m.Observe(s.sys.X, s.sys.V, s.t)
	}
	return nil
}

// Run performs the given number of full integration steps, recording total
// energy along the way.
func (s *Simulator) Run(ctx context.Context, steps int) (*Result, error) {
	if steps <= 0 {
		return nil, ErrInvalidConfig
	}
	for _, m := range s.metrics {
		m.Reset()
	}

	result := &Result{
		Times:    make([]float64, 0, steps+1),
		Energies: make([]float64, 0, steps+1),
		Metrics:  make(map[string]float64),
	}
	initial := s.sys.TotalEnergy()
	result.Times = append(result.Times, s.t)
	result.Energies = append(result.Energies, initial)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}
		if err := s.StepOnce(); err != nil {
			return result, err
		}
		if !validState(s.sys.X) || !validState(s.sys.V) {
			return result, fmt.Errorf("%w at t=%.4f", ErrDiverged, s.t)
		}
		result.StepsTaken++
		result.Times = append(result.Times, s.t)
		result.Energies = append(result.Energies, s.sys.TotalEnergy())
	}

	final := result.Energies[len(result.Energies)-1]
	if initial != 0 {
		result.EnergyDrift = math.Abs(final-initial) / math.Abs(initial)
	}
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, nil
}

func (s *Simulator) computePerDof(target, expression string) error {
	n := s.sys.Size()
	for i := 0; i < n; i++ {
		env := s.dofEnv(i)
		value, err := s.ev.eval(expression, env)
		s.envs.Put(env)
		if err != nil {
			return err
		}
		s.scratch[i] = value
	}
	switch target {
	case "x":
		copy(s.sys.X, s.scratch)
		s.refreshForces()
	case "v":
		copy(s.sys.V, s.scratch)
	default:
		vector, ok := s.perDof[target]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownTarget, target)
		}
		copy(vector, s.scratch)
	}
	return nil
}

func (s *Simulator) resetTransient() {
	for name, def := range s.globalDefaults {
		if !s.reg.IsPersistent(name) {
			s.globals[name] = def
		}
	}
	for name, def := range s.perDofDefaults {
		if s.reg.IsPersistent(name) {
			continue
		}
		vector := s.perDof[name]
		for i := range vector {
			vector[i] = def
		}
	}
}

func (s *Simulator) refreshForces() {
	for g := range s.f {
		for i := range s.f[g] {
			s.f[g][i] = 0
		}
	}
	s.sys.Force.AddForces(s.sys.X, s.f)
}

func (s *Simulator) globalEnv() map[string]any {
	env := make(map[string]any, len(s.globals)+1)
	for name, value := range s.globals {
		env[name] = value
	}
	env["dt"] = s.dt
	return env
}

func (s *Simulator) dofEnv(i int) map[string]any {
	env := s.envs.Get()
	for name, value := range s.globals {
		env[name] = value
	}
	env["dt"] = s.dt
	env["x"] = s.sys.X[i]
	env["v"] = s.sys.V[i]
	env["m"] = s.sys.M[i]
	total := 0.0
	for g := range s.f {
		env[fmt.Sprintf("f%d", g)] = s.f[g][i]
		total += s.f[g][i]
	}
	env["f"] = total
	for name, vector := range s.perDof {
		env[name] = vector[i]
	}
	return env
}

func matchBlocks(p engine.Program) ([]int, error) {
	match := make([]int, len(p))
	var stack []int
	for i, step := range p {
		switch step.Op {
		case engine.OpBeginWhile, engine.OpBeginIf:
			stack = append(stack, i)
		case engine.OpEndBlock:
			if len(stack) == 0 {
				return nil, engine.ErrUnbalancedBlocks
			}
			opener := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			match[opener] = i
			match[i] = opener
		}
	}
	if len(stack) != 0 {
		return nil, engine.ErrUnbalancedBlocks
	}
	return match, nil
}

func validState(values []float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
