package propagator

// TrotterSuzuki composes two propagators with the second-order,
// time-reversible splitting C = B(f/2) A(f) B(f/2).
//
// Nesting recurses naturally: if B is itself a Trotter-Suzuki split of
// (D, E), emission produces the full quarter/half cascade through B's own
// AddSteps without special-casing.
type TrotterSuzuki struct {
	reg  *Registry
	a, b Propagator
}

// NewTrotterSuzuki takes deep copies of the middle propagator a and the side
// propagator b and merges their variable registries, failing on any
// declaration conflict.
func NewTrotterSuzuki(a, b Propagator) (*TrotterSuzuki, error) {
	a, b = a.Clone(), b.Clone()
	reg, err := mergedRegistry(a, b)
	if err != nil {
		return nil, err
	}
	return &TrotterSuzuki{reg: reg, a: a, b: b}, nil
}

func (p *TrotterSuzuki) Registry() *Registry { return p.reg }

func (p *TrotterSuzuki) Clone() Propagator {
	return &TrotterSuzuki{reg: p.reg.Clone(), a: p.a.Clone(), b: p.b.Clone()}
}

func (p *TrotterSuzuki) AddSteps(e Engine, fraction float64) error {
	if err := p.b.AddSteps(e, 0.5*fraction); err != nil {
		return err
	}
	if err := p.a.AddSteps(e, fraction); err != nil {
		return err
	}
	return p.b.AddSteps(e, 0.5*fraction)
}
