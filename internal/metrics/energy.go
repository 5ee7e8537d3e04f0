package metrics

import "math"

// Temperature accumulates the running mean of the instantaneous kinetic
// temperature 2K/Ndof, with the Boltzmann constant folded into the energy
// unit.
type Temperature struct {
	name    string
	masses  []float64
	dof     int
	sum     float64
	samples int
}

func NewTemperature(masses []float64, dof int) *Temperature {
	return &Temperature{
		name:   "temperature",
		masses: masses,
		dof:    dof,
	}
}

func (m *Temperature) Name() string { return m.name }

func (m *Temperature) Observe(x, v []float64, t float64) {
	mvv := 0.0
	for i, vi := range v {
		mvv += m.masses[i] * vi * vi
	}
	m.sum += mvv / float64(m.dof)
	m.samples++
}

func (m *Temperature) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *Temperature) Reset() {
	m.sum = 0
	m.samples = 0
}

// Energier yields the total energy of the current state; positions and
// velocities arrive in the same layout the metric observes.
type Energier interface {
	Energy(x []float64) float64
}

// EnergyDrift tracks the worst relative excursion of the total energy from
// its value at the first observation.
type EnergyDrift struct {
	name          string
	field         Energier
	masses        []float64
	initialEnergy float64
	currentEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(field Energier, masses []float64) *EnergyDrift {
	return &EnergyDrift{
		name:   "energy_drift",
		field:  field,
		masses: masses,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(x, v []float64, t float64) {
	energy := e.field.Energy(x)
	for i, vi := range v {
		energy += 0.5 * e.masses[i] * vi * vi
	}

	if e.samples == 0 {
		e.initialEnergy = energy
	}

	e.currentEnergy = energy
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
