package propagator

import "fmt"

// Respa is the reversible multiple-timescale rRESPA propagator of Tuckerman
// et al. over N force groups. Group 0 is the fastest force, boosted and
// wrapped around the position update in the innermost loop; group N-1 is the
// slowest, evaluated once per outer step.
//
// loops[g] gives how many iterations of group g run per iteration of group
// g+1. A level with count 1 compiles to a straight-line sequence; counters
// are declared only for levels that actually loop.
type Respa struct {
	reg   *Registry
	loops []int
}

func NewRespa(loops []int) (*Respa, error) {
	if len(loops) == 0 {
		return nil, ErrInvalidLoops
	}
	for _, n := range loops {
		if n < 1 {
			return nil, ErrInvalidLoops
		}
	}
	reg := NewRegistry()
	for g, n := range loops {
		if n > 1 {
			reg.Global[counterName(g)] = 0
		}
	}
	owned := make([]int, len(loops))
	copy(owned, loops)
	return &Respa{reg: reg, loops: owned}, nil
}

func counterName(group int) string {
	return fmt.Sprintf("n%d", group)
}

func (p *Respa) Registry() *Registry { return p.reg }

func (p *Respa) Clone() Propagator {
	loops := make([]int, len(p.loops))
	copy(loops, p.loops)
	return &Respa{reg: p.reg.Clone(), loops: loops}
}

func (p *Respa) AddSteps(e Engine, fraction float64) error {
	return p.addSubsteps(e, len(p.loops)-1, fraction, 1)
}

// addSubsteps emits level group and recurses inward. stride is the product
// of the loop counts of all enclosing levels; every coefficient is obtained
// by a single division fraction/(stride*n), so the per-level time fractions
// carry no compounded rounding and their rational sum over a full step is
// exactly the incoming fraction.
func (p *Respa) addSubsteps(e Engine, group int, fraction float64, stride int) error {
	n := p.loops[group]
	div := float64(stride * n)
	if n > 1 {
		counter := counterName(group)
		if err := e.AddComputeGlobal(counter, "0"); err != nil {
			return err
		}
		e.BeginWhileBlock(fmt.Sprintf("%s < %d", counter, n))
	}
	boost := fmt.Sprintf("v + %s*dt*f%d/m", num(0.5*fraction/div), group)
	if err := e.AddComputePerDof("v", boost); err != nil {
		return err
	}
	if group == 0 {
		if err := e.AddComputePerDof("x", fmt.Sprintf("x + %s*dt*v", num(fraction/div))); err != nil {
			return err
		}
	} else {
		if err := p.addSubsteps(e, group-1, fraction, stride*n); err != nil {
			return err
		}
	}
	if err := e.AddComputePerDof("v", boost); err != nil {
		return err
	}
	if n > 1 {
		counter := counterName(group)
		if err := e.AddComputeGlobal(counter, counter+" + 1"); err != nil {
			return err
		}
		return e.EndBlock()
	}
	return nil
}
