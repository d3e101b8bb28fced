package sensor

import "fmt"

// StandardGravity in m/s².
const StandardGravity float32 = 9.80665

// Vector is a raw 3-axis accelerometer reading in the device's native frame.
type Vector struct {
	X, Y, Z float32
}

// Map converts a raw reading to simulation-plane acceleration: x grows to
// the user's right and y grows up, whatever the screen rotation. The z axis
// is ignored. Map panics on a rotation outside the closed set.
func Map(raw Vector, rot Rotation) (simX, simY float32) {
	switch rot {
	case Rotation0:
		return raw.X, raw.Y
	case Rotation90:
		return -raw.Y, raw.X
	case Rotation180:
		return -raw.X, -raw.Y
	case Rotation270:
		return raw.Y, -raw.X
	}
	panic(fmt.Sprintf("%v: %d", ErrInvalidRotation, uint8(rot)))
}
