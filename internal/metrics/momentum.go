package metrics

import "math"

// Momentum reports the mean absolute total momentum seen over a run. For a
// thermostat that is supposed to preserve the center-of-mass drift removal
// done at initialization, this should stay near zero.
type Momentum struct {
	name    string
	masses  []float64
	sum     float64
	samples int
}

func NewMomentum(masses []float64) *Momentum {
	return &Momentum{
		name:   "momentum",
		masses: masses,
	}
}

func (m *Momentum) Name() string {
	return m.name
}

func (m *Momentum) Observe(x, v []float64, t float64) {
	total := 0.0
	for i, vi := range v {
		total += m.masses[i] * vi
	}
	m.sum += math.Abs(total)
	m.samples++
}

func (m *Momentum) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *Momentum) Reset() {
	m.sum = 0
	m.samples = 0
}
