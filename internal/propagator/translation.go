package propagator

import "fmt"

// Translation advances positions by the current velocities:
// x <- x + fraction*dt*v.
type Translation struct {
	reg *Registry
}

func NewTranslation() *Translation {
	return &Translation{reg: NewRegistry()}
}

func (p *Translation) Registry() *Registry { return p.reg }

func (p *Translation) Clone() Propagator {
	return &Translation{reg: p.reg.Clone()}
}

func (p *Translation) AddSteps(e Engine, fraction float64) error {
	return e.AddComputePerDof("x", fmt.Sprintf("x + %s*dt*v", num(fraction)))
}

// Boost kicks velocities with the force of one group (or the total force):
// v <- v + fraction*dt*f/m.
type Boost struct {
	reg   *Registry
	group int
}

// NewBoost builds a boost over the total force.
func NewBoost() *Boost {
	return &Boost{reg: NewRegistry(), group: -1}
}

// NewGroupBoost builds a boost over force group g only.
func NewGroupBoost(g int) *Boost {
	return &Boost{reg: NewRegistry(), group: g}
}

func (p *Boost) Registry() *Registry { return p.reg }

func (p *Boost) Clone() Propagator {
	return &Boost{reg: p.reg.Clone(), group: p.group}
}

func (p *Boost) AddSteps(e Engine, fraction float64) error {
	return e.AddComputePerDof("v", fmt.Sprintf("v + %s*dt*%s/m", num(fraction), p.force()))
}

func (p *Boost) force() string {
	if p.group < 0 {
		return "f"
	}
	return fmt.Sprintf("f%d", p.group)
}
