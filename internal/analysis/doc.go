// Package analysis provides spectral tools for particle traces.
//
//   - [PowerSpectrum]: FFT magnitude of a series, zero-padded to a power of two
//   - [DominantFrequency]: strongest non-DC frequency of a sampled series
//
// A particle driven by a rotating tilt oscillates at the source frequency:
//
//	freq := analysis.DominantFrequency(xs, 60)
package analysis
