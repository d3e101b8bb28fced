// Package sensor turns raw accelerometer readings into simulation-plane
// acceleration and hands the newest one to the render tick.
//
// [Map] is a pure function over the closed [Rotation] set; an unknown
// rotation panics rather than silently keeping the native axes. [Latch]
// is the only state shared between the sensor context and the frame loop.
// [Source] implementations stand in for a physical sensor.
package sensor
