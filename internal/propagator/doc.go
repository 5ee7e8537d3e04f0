// Package propagator provides composable building blocks for molecular
// dynamics integration schemes.
//
// A propagator translates the effect of one exponential operator factor of a
// split Liouville operator into a sequence of stepping-engine computations.
// Leaves implement exact or approximate sub-steps (translation, force boost,
// thermostat variants); combinators assemble leaves into larger schemes:
//
//   - [Chain]: sequential composition A after B
//   - [TrotterSuzuki]: time-symmetric splitting B(f/2) A(f) B(f/2)
//   - [SuzukiYoshida]: higher-order weighted splitting of one operator
//   - [Respa]: multiple-timescale reversible nesting over force groups
//
// A composed tree is declared once against a target engine with [Declare]
// and then emitted with [Emit], producing the ordered step program handed to
// the engine.
//
// # Thread Safety
//
// Trees are built and walked on a single goroutine. Combinators take
// deep-copied ownership of their children, so a propagator value may be
// reused at several tree positions without aliasing. Declaration and
// emission against one engine must be serialized by the caller.
package propagator
