// Package analysis provides frequency analysis of recorded trajectories.
//
// The energy trace of a harmonic system oscillates at twice the natural
// frequency; [PowerSpectrum] on a padded trace followed by
// [DominantFrequency] recovers it, which makes for a quick sanity check
// that an integration scheme is resolving the fastest motion.
package analysis
