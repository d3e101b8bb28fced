package sensor

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRotation indicates a rotation that is not a quarter turn.
	ErrInvalidRotation = errors.New("sensor: invalid rotation")
)

// Rotation is the screen rotation relative to the device's natural
// orientation, in quarter turns.
type Rotation uint8

const (
	Rotation0 Rotation = iota
	Rotation90
	Rotation180
	Rotation270
)

// Rotations lists every valid rotation in quarter-turn order.
var Rotations = []Rotation{Rotation0, Rotation90, Rotation180, Rotation270}

// ParseRotation converts degrees (0, 90, 180, 270, or their negatives and
// multiples of 360) to a Rotation.
func ParseRotation(degrees int) (Rotation, error) {
	if degrees%90 != 0 {
		return 0, fmt.Errorf("%w: %d degrees", ErrInvalidRotation, degrees)
	}
	q := (degrees / 90) % 4
	if q < 0 {
		q += 4
	}
	return Rotation(q), nil
}

func (r Rotation) Valid() bool { return r <= Rotation270 }

func (r Rotation) Degrees() int {
	r.mustValid()
	return int(r) * 90
}

// Next returns the rotation one quarter turn further.
func (r Rotation) Next() Rotation {
	r.mustValid()
	return (r + 1) % 4
}

func (r Rotation) String() string {
	if !r.Valid() {
		return fmt.Sprintf("Rotation(%d)", uint8(r))
	}
	return fmt.Sprintf("%d°", r.Degrees())
}

func (r Rotation) mustValid() {
	if !r.Valid() {
		panic(fmt.Sprintf("%v: %d", ErrInvalidRotation, uint8(r)))
	}
}
