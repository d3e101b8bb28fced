package physics

import "errors"

var (
	// ErrIndexOutOfRange indicates a particle index outside [0, Len()).
	ErrIndexOutOfRange = errors.New("physics: particle index out of range")

	// ErrInvalidCount indicates a system created with no particles.
	ErrInvalidCount = errors.New("physics: particle count must be positive")

	// ErrInvalidDamping indicates a non-positive damping factor.
	ErrInvalidDamping = errors.New("physics: damping must be positive")
)
