package integrator

import (
	"math"
	"math/rand"

	"github.com/craabreu/atomsmm/internal/propagator"
	"github.com/craabreu/atomsmm/internal/sim"
)

// NewSINR builds the stochastic isokinetic Nose-Hoover RESPA scheme of
// Leimkuhler, Margul and Tuckerman with a single coupled thermostat pair
// per degree of freedom. The splitting nests, from inside out, the
// Ornstein-Uhlenbeck bath, the position update, the force-driven isokinetic
// stage and the thermostat-driven rescaling stage.
func NewSINR(dt, kT, tau, gamma float64) (*Integrator, error) {
	inner, err := propagator.NewTrotterSuzuki(
		propagator.NewOrnsteinUhlenbeck(kT, tau, gamma, true),
		propagator.NewTranslation(),
	)
	if err != nil {
		return nil, err
	}
	mid, err := propagator.NewTrotterSuzuki(inner, propagator.NewIsokineticF(kT))
	if err != nil {
		return nil, err
	}
	outer, err := propagator.NewTrotterSuzuki(mid, propagator.NewIsokineticN(kT, tau))
	if err != nil {
		return nil, err
	}
	return New(dt, outer)
}

// InitializeVelocities draws Maxwell-Boltzmann velocities at thermal energy
// kT, removes the center-of-mass drift and rescales so the kinetic energy
// matches dof*kT/2 exactly.
func InitializeVelocities(sys *sim.System, kT float64, dof int, rng *rand.Rand) {
	for i := range sys.V {
		sys.V[i] = math.Sqrt(kT/sys.M[i]) * rng.NormFloat64()
	}

	totalMass := 0.0
	momentum := 0.0
	for i := range sys.V {
		momentum += sys.M[i] * sys.V[i]
		totalMass += sys.M[i]
	}
	drift := momentum / totalMass
	for i := range sys.V {
		sys.V[i] -= drift
	}

	mvv := 0.0
	for i := range sys.V {
		mvv += sys.M[i] * sys.V[i] * sys.V[i]
	}
	if mvv == 0 {
		return
	}
	factor := math.Sqrt(float64(dof) * kT / mvv)
	for i := range sys.V {
		sys.V[i] *= factor
	}
}

// InitializeSINRVelocities draws particle and thermostat velocities and then
// projects each degree of freedom onto the isokinetic manifold
// m*v^2 + 0.5*Q1*v1^2 = kT.
func (ig *Integrator) InitializeSINRVelocities(sys *sim.System, kT, tau float64, rng *rand.Rand) error {
	q1 := kT * tau * tau
	sigma := math.Sqrt(kT / q1)
	n := sys.Size()

	v1 := make([]float64, n)
	v2 := make([]float64, n)
	for i := 0; i < n; i++ {
		sys.V[i] = math.Sqrt(kT/sys.M[i]) * rng.NormFloat64()
		v1[i] = sigma * rng.NormFloat64()
		v2[i] = sigma * rng.NormFloat64()

		factor := math.Sqrt(kT / (sys.M[i]*sys.V[i]*sys.V[i] + 0.5*q1*v1[i]*v1[i]))
		sys.V[i] *= factor
		v1[i] *= factor
	}

	if err := ig.rec.SetPerDofVariableByName("v1", v1); err != nil {
		return err
	}
	return ig.rec.SetPerDofVariableByName("v2", v2)
}
