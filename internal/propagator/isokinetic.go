package propagator

import "fmt"

// The SIN(R) family couples every degree of freedom to two thermostat
// velocities v1 and v2 obeying the isokinetic constraint
// m*v^2 + 0.5*Q1*v1^2 = kT. All constructors take the thermal energy kT
// directly; thermostat masses are Q = kT*tau^2.

func sinrRegistry(kT float64) *Registry {
	reg := NewRegistry()
	reg.Global["kT"] = kT
	reg.PerDof["v1"] = 0
	reg.PerDof["v2"] = 0
	reg.SetPersistent("kT", "v1", "v2")
	return reg
}

func addThermostatMasses(reg *Registry, kT, tau float64) {
	q := kT * tau * tau
	reg.Global["Q1"] = q
	reg.Global["Q2"] = q
	reg.SetPersistent("Q1", "Q2")
}

// IsokineticF solves the force-driven isokinetic ODE system
//
//	dv/dt  = F/m - lambda*v
//	dv1/dt = -lambda*v1
//	lambda = F*v/(m*v^2 + 0.5*Q1*v1^2)
//
// with F held constant. The closed-form solution involves sinh(x)/x and
// (cosh(x)-1)/x^2, which lose precision catastrophically as x approaches
// zero; below |x| = 1e-4 and 1e-3 respectively the emitted expressions
// switch to Taylor-series branches. The switch points are part of this
// operator's contract.
type IsokineticF struct {
	reg *Registry
}

func NewIsokineticF(kT float64) *IsokineticF {
	reg := sinrRegistry(kT)
	reg.PerDof["lambda0dt"] = 0
	reg.PerDof["bdt"] = 0
	reg.PerDof["coshxm1_x2"] = 0
	reg.PerDof["sinhx_x"] = 0
	return &IsokineticF{reg: reg}
}

func (p *IsokineticF) Registry() *Registry { return p.reg }

func (p *IsokineticF) Clone() Propagator {
	return &IsokineticF{reg: p.reg.Clone()}
}

func (p *IsokineticF) AddSteps(e Engine, fraction float64) error {
	if err := e.AddComputePerDof("lambda0dt", fmt.Sprintf("%s*dt*f*v/kT", num(fraction))); err != nil {
		return err
	}
	if err := e.AddComputePerDof("bdt", fmt.Sprintf("%s*dt*sqrt(f*f/(m*kT))", num(fraction))); err != nil {
		return err
	}

	expression := "select(step(bdt - 1e-4), direct, safe)"
	expression += "; direct = sinh(bdt)/bdt"
	expression += "; safe = ((x/42 + 1)*x/20 + 1)*x/6 + 1"
	expression += "; x = bdt^2"
	if err := e.AddComputePerDof("sinhx_x", expression); err != nil {
		return err
	}

	expression = "select(step(bdt - 1e-3), direct, safe)"
	expression += "; direct = (cosh(bdt) - 1)/x"
	expression += "; safe = ((x/56 + 1)*x/30 + 1)*x/24 + 0.5"
	expression += "; x = bdt^2"
	if err := e.AddComputePerDof("coshxm1_x2", expression); err != nil {
		return err
	}

	expression = "(v + s*f/m)/sdif"
	expression += fmt.Sprintf("; s = %s*dt*(lambda0dt*coshxm1_x2 + sinhx_x)", num(fraction))
	expression += "; sdif = lambda0dt*sinhx_x + bdt*bdt*coshxm1_x2 + 1"
	if err := e.AddComputePerDof("v", expression); err != nil {
		return err
	}

	expression = "v1/sdif"
	expression += "; sdif = lambda0dt*sinhx_x + bdt*bdt*coshxm1_x2 + 1"
	return e.AddComputePerDof("v1", expression)
}

// IsokineticN solves the thermostat-driven isokinetic ODE system
//
//	dv/dt  = -lambda*v
//	dv1/dt = -(lambda + v2)*v1
//	lambda = -0.5*Q1*v2*v1^2/(m*v^2 + 0.5*Q1*v1^2)
//
// with v2 held constant, by exact rescaling onto the isokinetic manifold.
type IsokineticN struct {
	reg *Registry
}

func NewIsokineticN(kT, tau float64) *IsokineticN {
	reg := sinrRegistry(kT)
	addThermostatMasses(reg, kT, tau)
	reg.PerDof["scalingFactor"] = 0
	return &IsokineticN{reg: reg}
}

func (p *IsokineticN) Registry() *Registry { return p.reg }

func (p *IsokineticN) Clone() Propagator {
	return &IsokineticN{reg: p.reg.Clone()}
}

func (p *IsokineticN) AddSteps(e Engine, fraction float64) error {
	if err := e.AddComputePerDof("v1", fmt.Sprintf("v1*exp(-%s*dt*v2)", num(fraction))); err != nil {
		return err
	}
	if err := e.AddComputePerDof("scalingFactor", "sqrt(kT/(m*v*v + 0.5*Q1*v1*v1))"); err != nil {
		return err
	}
	if err := e.AddComputePerDof("v", "v*scalingFactor"); err != nil {
		return err
	}
	return e.AddComputePerDof("v1", "v1*scalingFactor")
}

// OrnsteinUhlenbeck solves the stochastic thermostat equation
//
//	dv2 = G*dt - gamma*v2*dt + sqrt(2*gamma*kT/Q2)*dW
//
// exactly over fraction*dt, with G = (Q1*v1^2 - kT)/Q2 when forced and zero
// otherwise. Random numbers come from the engine's gaussian stream.
type OrnsteinUhlenbeck struct {
	reg    *Registry
	forced bool
}

func NewOrnsteinUhlenbeck(kT, tau, gamma float64, forced bool) *OrnsteinUhlenbeck {
	reg := sinrRegistry(kT)
	addThermostatMasses(reg, kT, tau)
	reg.Global["friction"] = gamma
	reg.SetPersistent("friction")
	return &OrnsteinUhlenbeck{reg: reg, forced: forced}
}

func (p *OrnsteinUhlenbeck) Registry() *Registry { return p.reg }

func (p *OrnsteinUhlenbeck) Clone() Propagator {
	return &OrnsteinUhlenbeck{reg: p.reg.Clone(), forced: p.forced}
}

func (p *OrnsteinUhlenbeck) AddSteps(e Engine, fraction float64) error {
	expression := "x*v2 + G*(1 - x)/friction + sqrt(kT/Q2*(1 - x^2))*gaussian"
	if p.forced {
		expression += "; G = (Q1*v1*v1 - kT)/Q2"
	} else {
		expression += "; G = 0"
	}
	expression += fmt.Sprintf("; x = exp(-%s*friction*dt)", num(fraction))
	return e.AddComputePerDof("v2", expression)
}

// ThermostatBoost kicks the second thermostat velocity with the deviation of
// the first from its target: v2 <- v2 + fraction*dt*(Q1*v1^2 - kT)/Q2.
type ThermostatBoost struct {
	reg *Registry
}

func NewThermostatBoost(kT, tau float64) *ThermostatBoost {
	reg := sinrRegistry(kT)
	addThermostatMasses(reg, kT, tau)
	return &ThermostatBoost{reg: reg}
}

func (p *ThermostatBoost) Registry() *Registry { return p.reg }

func (p *ThermostatBoost) Clone() Propagator {
	return &ThermostatBoost{reg: p.reg.Clone()}
}

func (p *ThermostatBoost) AddSteps(e Engine, fraction float64) error {
	return e.AddComputePerDof("v2", fmt.Sprintf("v2 + %s*dt*(Q1*v1*v1 - kT)/Q2", num(fraction)))
}
