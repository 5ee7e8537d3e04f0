package propagator

import (
	"fmt"
	"math"
)

// NoseHoover scales all velocities through a single deterministic thermostat
// momentum p_NH with inertia Q = dof*kT*tau^2. The fraction is optionally
// subdivided into nloops RESPA-like inner applications for stability at
// large time steps.
type NoseHoover struct {
	reg    *Registry
	kT     float64
	dof    int
	tau    float64
	nloops int
}

func NewNoseHoover(kT float64, dof int, tau float64, nloops int) *NoseHoover {
	if nloops < 1 {
		nloops = 1
	}
	reg := NewRegistry()
	reg.Global["vscaling"] = 0
	reg.Global["p_NH"] = 0
	reg.SetPersistent("p_NH")
	return &NoseHoover{reg: reg, kT: kT, dof: dof, tau: tau, nloops: nloops}
}

func (p *NoseHoover) Registry() *Registry { return p.reg }

func (p *NoseHoover) Clone() Propagator {
	return &NoseHoover{reg: p.reg.Clone(), kT: p.kT, dof: p.dof, tau: p.tau, nloops: p.nloops}
}

func (p *NoseHoover) AddSteps(e Engine, fraction float64) error {
	nkT := float64(p.dof) * p.kT
	q := nkT * p.tau * p.tau
	subfrac := fraction / float64(p.nloops)
	if err := e.AddComputeGlobal("p_NH", fmt.Sprintf("p_NH + %s*dt*(mvv - %s)", num(0.5*subfrac/q), num(nkT))); err != nil {
		return err
	}
	if err := e.AddComputeGlobal("vscaling", fmt.Sprintf("exp(%s*p_NH*dt)", num(-subfrac/q))); err != nil {
		return err
	}
	for loop := 0; loop < p.nloops-1; loop++ {
		if err := e.AddComputeGlobal("p_NH", fmt.Sprintf("p_NH + %s*dt*(vscaling^2*mvv - %s)", num(subfrac/q), num(nkT))); err != nil {
			return err
		}
		if err := e.AddComputeGlobal("vscaling", fmt.Sprintf("vscaling*exp(%s*p_NH*dt)", num(-subfrac/q))); err != nil {
			return err
		}
	}
	if err := e.AddComputeGlobal("p_NH", fmt.Sprintf("p_NH + %s*dt*(vscaling^2*mvv - %s)", num(0.5*subfrac/q), num(nkT))); err != nil {
		return err
	}
	return e.AddComputePerDof("v", "vscaling*v")
}

// NoseHooverLangevin is a Nose-Hoover chain of length two with the second
// bead replaced by an exact Ornstein-Uhlenbeck process, following
// Samoletov et al. and Leimkuhler et al. The thermostat momentum p_NHL is
// the only state carried across steps.
type NoseHooverLangevin struct {
	reg   *Registry
	kT    float64
	dof   int
	tau   float64
	gamma float64
}

func NewNoseHooverLangevin(kT float64, dof int, tau, gamma float64) *NoseHooverLangevin {
	reg := NewRegistry()
	reg.Global["vscaling"] = 0
	reg.Global["p_NHL"] = 0
	reg.SetPersistent("p_NHL")
	return &NoseHooverLangevin{reg: reg, kT: kT, dof: dof, tau: tau, gamma: gamma}
}

func (p *NoseHooverLangevin) Registry() *Registry { return p.reg }

func (p *NoseHooverLangevin) Clone() Propagator {
	return &NoseHooverLangevin{reg: p.reg.Clone(), kT: p.kT, dof: p.dof, tau: p.tau, gamma: p.gamma}
}

func (p *NoseHooverLangevin) AddSteps(e Engine, fraction float64) error {
	nkT := float64(p.dof) * p.kT
	q := nkT * p.tau * p.tau
	if err := e.AddComputeGlobal("vscaling", fmt.Sprintf("exp(%s*p_NHL*dt)", num(-0.5*fraction/q))); err != nil {
		return err
	}
	expression := fmt.Sprintf("p_NHL*x + G*(1 - x) + %s*sqrt(1 - x^2)*gaussian", num(p.tau*p.kT*math.Sqrt(float64(p.dof))))
	expression += fmt.Sprintf("; G = (vscaling^2*mvv - %s)/%s", num(nkT), num(p.gamma))
	expression += fmt.Sprintf("; x = exp(%s*dt)", num(-p.gamma*fraction))
	if err := e.AddComputeGlobal("p_NHL", expression); err != nil {
		return err
	}
	return e.AddComputePerDof("v", fmt.Sprintf("vscaling*exp(%s*p_NHL*dt)*v", num(-0.5*fraction/q)))
}
