// Package engine records propagator emissions as an ordered step program.
//
// [Recorder] implements the stepping-engine primitive interface consumed by
// the propagator package. It owns the global and per-dof variable
// namespaces, rejects duplicate declarations and assignments to the
// reserved kinetic-energy accumulator mvv, and transparently inserts the
// mvv recomputation and context-state refresh steps whenever an emitted
// expression depends on stale kinetic energy or forces.
//
// The recorded [Program] is a passive value: executing it against actual
// particle state is the job of the sim package.
package engine
