package sim

// System holds the mutable particle state a program acts on: one scalar
// degree of freedom per entry.
type System struct {
	X []float64
	V []float64
	M []float64

	Force ForceField
}

// NewSystem builds an n-dof system with unit masses and the given force
// field. A nil field means free particles.
func NewSystem(n int, field ForceField) *System {
	if field == nil {
		field = FreeField{}
	}
	sys := &System{
		X:     make([]float64, n),
		V:     make([]float64, n),
		M:     make([]float64, n),
		Force: field,
	}
	for i := range sys.M {
		sys.M[i] = 1
	}
	return sys
}

func (s *System) Size() int { return len(s.X) }

// KineticEnergy returns sum(0.5*m*v^2) over all dofs.
func (s *System) KineticEnergy() float64 {
	total := 0.0
	for i := range s.V {
		total += 0.5 * s.M[i] * s.V[i] * s.V[i]
	}
	return total
}

// TotalEnergy returns kinetic plus potential energy.
func (s *System) TotalEnergy() float64 {
	return s.KineticEnergy() + s.Force.Energy(s.X)
}

// ForceField supplies the per-group forces acting on the system. Group 0 is
// conventionally the fastest (cheapest) contribution, matching the RESPA
// nesting order.
type ForceField interface {
	Groups() int
	AddForces(x []float64, f [][]float64)
	Energy(x []float64) float64
}

// FreeField exerts no force.
type FreeField struct{}

func (FreeField) Groups() int                          { return 1 }
func (FreeField) AddForces(x []float64, f [][]float64) {}
func (FreeField) Energy(x []float64) float64           { return 0 }

// HarmonicField binds every dof to the origin with stiffness K.
type HarmonicField struct {
	K float64
}

func (h HarmonicField) Groups() int { return 1 }

func (h HarmonicField) AddForces(x []float64, f [][]float64) {
	for i := range x {
		f[0][i] = -h.K * x[i]
	}
}

func (h HarmonicField) Energy(x []float64) float64 {
	total := 0.0
	for i := range x {
		total += 0.5 * h.K * x[i] * x[i]
	}
	return total
}

// SplitHarmonicField separates a stiff and a soft spring into force groups
// 0 and 1, the standard exercise for multiple-timescale integration.
type SplitHarmonicField struct {
	KFast float64
	KSlow float64
}

func (h SplitHarmonicField) Groups() int { return 2 }

func (h SplitHarmonicField) AddForces(x []float64, f [][]float64) {
	for i := range x {
		f[0][i] = -h.KFast * x[i]
		f[1][i] = -h.KSlow * x[i]
	}
}

func (h SplitHarmonicField) Energy(x []float64) float64 {
	total := 0.0
	k := h.KFast + h.KSlow
	for i := range x {
		total += 0.5 * k * x[i] * x[i]
	}
	return total
}
