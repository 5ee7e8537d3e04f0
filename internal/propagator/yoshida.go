package propagator

import "math"

// Suzuki-Yoshida weight tables, indexed by the number of weights nsy. Only
// the independent half is stored; the emitted sequence is
// reverse(weights) + [1 - 2*sum(weights)] + weights, which is
// time-symmetric and sums to exactly the incoming fraction. nsy = 1 is the
// trivial single-weight scheme.
var yoshidaWeights = map[int][]float64{
	1: {},
	3: {1 / (2 - math.Cbrt(2))},
	7: {0.784513610477560, 0.235573213359357, -1.17767998417887},
	15: {0.102799849391985, -1.96061023297549, 1.93813913762276, -0.158240635368243,
		-1.44485223686048, 0.253693336566229, 0.914844246229740},
}

// SuzukiYoshida splits a single application of one propagator at fraction f
// into 2k+1 applications at fractions w_i*f, raising the order of accuracy
// of the surrounding symmetric scheme (4th order for nsy = 3, higher for
// 7 and 15).
type SuzukiYoshida struct {
	reg *Registry
	a   Propagator
	nsy int
}

// NewSuzukiYoshida takes a deep copy of a. Orders other than 1, 3, 7 and 15
// fail with ErrInvalidOrder.
func NewSuzukiYoshida(a Propagator, nsy int) (*SuzukiYoshida, error) {
	if _, ok := yoshidaWeights[nsy]; !ok {
		return nil, ErrInvalidOrder
	}
	a = a.Clone()
	return &SuzukiYoshida{reg: a.Registry().Clone(), a: a, nsy: nsy}, nil
}

func (p *SuzukiYoshida) Registry() *Registry { return p.reg }

func (p *SuzukiYoshida) Clone() Propagator {
	return &SuzukiYoshida{reg: p.reg.Clone(), a: p.a.Clone(), nsy: p.nsy}
}

func (p *SuzukiYoshida) AddSteps(e Engine, fraction float64) error {
	for _, w := range FullYoshidaWeights(p.nsy) {
		if err := p.a.AddSteps(e, fraction*w); err != nil {
			return err
		}
	}
	return nil
}

// FullYoshidaWeights expands the stored half-table for nsy into the complete
// symmetric weight sequence of length nsy. Unsupported orders yield nil.
func FullYoshidaWeights(nsy int) []float64 {
	weights, ok := yoshidaWeights[nsy]
	if !ok {
		return nil
	}
	sum := 0.0
	for _, w := range weights {
		sum += w
	}
	full := make([]float64, 0, 2*len(weights)+1)
	for i := len(weights) - 1; i >= 0; i-- {
		full = append(full, weights[i])
	}
	full = append(full, 1-2*sum)
	full = append(full, weights...)
	return full
}
