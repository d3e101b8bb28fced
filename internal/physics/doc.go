// Package physics integrates the tilt-driven particle set.
//
// The package is a pure data layer with no rendering handles:
//
//   - [Particle]: one point mass that clamps itself against the domain
//   - [System]: the fixed, ordered set of particles stepped once per frame
//   - [Bounds]: half-extents of the symmetric rectangular domain
//   - [BoundsCell]: atomically published bounds shared with the host
//
// # Integration
//
// Each step derives a pseudo-acceleration from the sensor reading,
// a = -s / damping, and advances with a semi-implicit Verlet update:
//
//	x' = clamp(x + v*dt + a*dt*dt/2)
//	v' = v + a*dt
//
// A clamped axis snaps to the wall and its velocity becomes 0.
//
// # Thread Safety
//
// [System] and [Particle] are NOT thread-safe and are owned by the render
// tick. Only [BoundsCell] may be written from another goroutine.
package physics
