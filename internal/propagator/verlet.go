package propagator

import "fmt"

// VelocityVerlet is a full velocity Verlet step with position and velocity
// constraints. The post-translation velocity is recovered from the actual
// (constrained) displacement rather than the half-kicked velocity.
type VelocityVerlet struct {
	reg *Registry
}

func NewVelocityVerlet() *VelocityVerlet {
	reg := NewRegistry()
	reg.PerDof["x0"] = 0
	return &VelocityVerlet{reg: reg}
}

func (p *VelocityVerlet) Registry() *Registry { return p.reg }

func (p *VelocityVerlet) Clone() Propagator {
	return &VelocityVerlet{reg: p.reg.Clone()}
}

func (p *VelocityVerlet) AddSteps(e Engine, fraction float64) error {
	aux := fmt.Sprintf("; Dt = %s*dt", num(fraction))
	if err := e.AddComputePerDof("v", "v + 0.5*Dt*f/m"+aux); err != nil {
		return err
	}
	if err := e.AddComputePerDof("x0", "x"); err != nil {
		return err
	}
	if err := e.AddComputePerDof("x", "x + Dt*v"+aux); err != nil {
		return err
	}
	e.AddConstrainPositions()
	if err := e.AddComputePerDof("v", "(x - x0)/Dt + 0.5*Dt*f/m"+aux); err != nil {
		return err
	}
	e.AddConstrainVelocities()
	return nil
}
