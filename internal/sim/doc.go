// Package sim executes recorded step programs against an in-memory
// particle system.
//
// The package is a scripted reference implementation of the stepping engine
// whose primitives the propagator package emits: it owns positions,
// velocities, masses and grouped forces over scalar degrees of freedom,
// interprets the program's compute/block/constrain steps, and evaluates the
// textual expression DSL (auxiliary definitions after semicolons, ^ power,
// select/step, gaussian/random draws) with expr-lang.
//
// Randomness is an explicit dependency: the simulator draws every gaussian
// and uniform variate from the *rand.Rand handed to [New], so fixing its
// seed makes runs reproducible.
//
// Simulator instances are not safe for concurrent use.
package sim
