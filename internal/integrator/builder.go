package integrator

import (
	"fmt"

	"github.com/craabreu/atomsmm/internal/config"
	"github.com/craabreu/atomsmm/internal/propagator"
	"github.com/craabreu/atomsmm/internal/sim"
)

// FromConfig assembles the integration scheme a run configuration names.
func FromConfig(cfg *config.Config) (*Integrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	th := cfg.Thermostat
	dof := cfg.Dof()

	switch cfg.Scheme {
	case "verlet":
		return New(cfg.Dt, propagator.NewVelocityVerlet())

	case "respa":
		loops := cfg.Loops
		if len(loops) == 0 {
			loops = []int{1, 1}
		}
		p, err := propagator.NewRespa(loops)
		if err != nil {
			return nil, err
		}
		return New(cfg.Dt, p)

	case "yoshida":
		nsy := cfg.Nsy
		if nsy == 0 {
			nsy = 3
		}
		core, err := nveCore()
		if err != nil {
			return nil, err
		}
		p, err := propagator.NewSuzukiYoshida(core, nsy)
		if err != nil {
			return nil, err
		}
		return New(cfg.Dt, p)

	case "nose-hoover":
		core, err := nveCore()
		if err != nil {
			return nil, err
		}
		return NewGlobalThermostat(cfg.Dt, core, propagator.NewNoseHoover(th.KT, dof, th.Tau, th.NLoops))

	case "nhl":
		core, err := nveCore()
		if err != nil {
			return nil, err
		}
		return NewGlobalThermostat(cfg.Dt, core, propagator.NewNoseHooverLangevin(th.KT, dof, th.Tau, th.Gamma))

	case "rescaling":
		core, err := nveCore()
		if err != nil {
			return nil, err
		}
		rescaling, err := propagator.NewVelocityRescaling(th.KT, dof, th.Tau)
		if err != nil {
			return nil, err
		}
		return NewGlobalThermostat(cfg.Dt, core, rescaling)

	case "sinr":
		return NewSINR(cfg.Dt, th.KT, th.Tau, th.Gamma)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownScheme, cfg.Scheme)
}

// BuildField maps a configured model name to its force field.
func BuildField(cfg *config.Config) (sim.ForceField, error) {
	switch cfg.Model {
	case "free":
		return sim.FreeField{}, nil
	case "harmonic":
		return sim.HarmonicField{K: cfg.Forces.K}, nil
	case "split_harmonic":
		return sim.SplitHarmonicField{KFast: cfg.Forces.KFast, KSlow: cfg.Forces.KSlow}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownModel, cfg.Model)
}

// nveCore is the bare symplectic core used whenever a thermostat wraps the
// Hamiltonian flow: a velocity kick sandwiching the position update.
func nveCore() (propagator.Propagator, error) {
	return propagator.NewTrotterSuzuki(propagator.NewTranslation(), propagator.NewBoost())
}
