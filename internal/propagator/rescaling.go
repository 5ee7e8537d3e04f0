package propagator

import (
	"fmt"
	"math"
)

// VelocityRescaling is the stochastic velocity rescaling thermostat of
// Bussi, Donadio and Parrinello: a global rescaling of all velocities whose
// factor samples the canonical kinetic-energy distribution. The required
// gamma-distributed variate is drawn with the Marsaglia-Tsang rejection
// method, emitted as engine while/if blocks over the gaussian and uniform
// streams.
//
// Integrators using this propagator fail if the system starts with all
// velocities zero (mvv = 0).
type VelocityRescaling struct {
	reg *Registry
	kT  float64
	dof int
	tau float64
}

// NewVelocityRescaling fails with ErrInvalidDof for dof < 3: the
// Marsaglia-Tsang sampler needs a gamma shape parameter above 1/3.
func NewVelocityRescaling(kT float64, dof int, tau float64) (*VelocityRescaling, error) {
	if dof < 3 {
		return nil, ErrInvalidDof
	}
	reg := NewRegistry()
	reg.Global["V"] = 0
	reg.Global["X"] = 0
	reg.Global["U"] = 0
	reg.Global["ready"] = 0
	return &VelocityRescaling{reg: reg, kT: kT, dof: dof, tau: tau}, nil
}

func (p *VelocityRescaling) Registry() *Registry { return p.reg }

func (p *VelocityRescaling) Clone() Propagator {
	return &VelocityRescaling{reg: p.reg.Clone(), kT: p.kT, dof: p.dof, tau: p.tau}
}

func (p *VelocityRescaling) AddSteps(e Engine, fraction float64) error {
	a := float64(p.dof-2+p.dof%2) / 2
	d := a - 1.0/3.0
	c := 1 / math.Sqrt(9*d)
	if err := e.AddComputeGlobal("ready", "0"); err != nil {
		return err
	}
	e.BeginWhileBlock("ready < 0.5")
	if err := e.AddComputeGlobal("X", "gaussian"); err != nil {
		return err
	}
	if err := e.AddComputeGlobal("V", fmt.Sprintf("1 + %s*X", num(c))); err != nil {
		return err
	}
	e.BeginWhileBlock("V <= 0.0")
	if err := e.AddComputeGlobal("X", "gaussian"); err != nil {
		return err
	}
	if err := e.AddComputeGlobal("V", fmt.Sprintf("1 + %s*X", num(c))); err != nil {
		return err
	}
	if err := e.EndBlock(); err != nil {
		return err
	}
	if err := e.AddComputeGlobal("V", "V^3"); err != nil {
		return err
	}
	if err := e.AddComputeGlobal("U", "random"); err != nil {
		return err
	}
	if err := e.AddComputeGlobal("ready", "step(1 - 0.0331*X^4 - U)"); err != nil {
		return err
	}
	e.BeginIfBlock("ready < 0.5")
	if err := e.AddComputeGlobal("ready", fmt.Sprintf("step(0.5*X^2 + %s*(1 - V + log(V)) - log(U))", num(d))); err != nil {
		return err
	}
	if err := e.EndBlock(); err != nil {
		return err
	}
	if err := e.EndBlock(); err != nil {
		return err
	}
	odd := p.dof%2 == 1
	if odd {
		if err := e.AddComputeGlobal("X", "gaussian"); err != nil {
			return err
		}
	}
	expression := "vscaling*v"
	expression += "; vscaling = sqrt(A + C*B*(gaussian^2 + sumRs) + 2*sqrt(C*B*A)*gaussian)"
	expression += fmt.Sprintf("; C = %s/mvv", num(p.kT))
	expression += "; B = 1 - A"
	expression += fmt.Sprintf("; A = exp(-dt*%s)", num(fraction/p.tau))
	// 2d*V replaces the sum of the remaining dof-2 squared normal variates.
	sumRs := fmt.Sprintf("; sumRs = %s*V", num(2*d))
	if odd {
		sumRs += " + X^2"
	}
	return e.AddComputePerDof("v", expression+sumRs)
}
