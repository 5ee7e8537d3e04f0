package propagator

// Chain composes two propagators as C = A B: B's update is applied first,
// then A's, both over the full incoming fraction. The composition is
// non-commutative unless A and B commute, so a chain is time-asymmetric in
// general.
type Chain struct {
	reg  *Registry
	a, b Propagator
}

// NewChain takes deep copies of both children and merges their variable
// registries, failing on any declaration conflict.
func NewChain(a, b Propagator) (*Chain, error) {
	a, b = a.Clone(), b.Clone()
	reg, err := mergedRegistry(a, b)
	if err != nil {
		return nil, err
	}
	return &Chain{reg: reg, a: a, b: b}, nil
}

func (p *Chain) Registry() *Registry { return p.reg }

func (p *Chain) Clone() Propagator {
	return &Chain{reg: p.reg.Clone(), a: p.a.Clone(), b: p.b.Clone()}
}

func (p *Chain) AddSteps(e Engine, fraction float64) error {
	if err := p.b.AddSteps(e, fraction); err != nil {
		return err
	}
	return p.a.AddSteps(e, fraction)
}
