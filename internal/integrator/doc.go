// Package integrator assembles splitting propagators into ready-to-run
// integration schemes: it declares the merged variable registry on a fresh
// recording engine, emits the full step program at unit fraction, and hands
// out simulators bound to that program.
package integrator
