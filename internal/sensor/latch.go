package sensor

import "sync"

// Reading is the latest mapped acceleration together with the raw sample
// it came from.
type Reading struct {
	AccelX    float32
	AccelY    float32
	Raw       Vector
	Timestamp int64
	Rotation  Rotation
	Valid     bool
}

// Latch hands the newest sample from the sensor context to the render
// tick. Writes overwrite; nothing is queued.
type Latch struct {
	mu       sync.Mutex
	reading  Reading
	rotation Rotation
	samples  uint64
}

func NewLatch(rot Rotation) *Latch {
	rot.mustValid()
	return &Latch{rotation: rot, reading: Reading{Rotation: rot}}
}

// Offer maps raw with the current rotation and replaces the held reading.
func (l *Latch) Offer(raw Vector, timestampNanos int64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	x, y := Map(raw, l.rotation)
	l.reading = Reading{
		AccelX:    x,
		AccelY:    y,
		Raw:       raw,
		Timestamp: timestampNanos,
		Rotation:  l.rotation,
		Valid:     true,
	}
	l.samples++
}

// SetRotation changes the rotation applied to subsequent samples.
func (l *Latch) SetRotation(rot Rotation) {
	rot.mustValid()
	l.mu.Lock()
	l.rotation = rot
	l.mu.Unlock()
}

func (l *Latch) Rotation() Rotation {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rotation
}

// Load returns the held reading. Before the first Offer it is the zero
// acceleration with Valid false.
func (l *Latch) Load() Reading {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.reading
}

// Samples returns how many readings have been offered.
func (l *Latch) Samples() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.samples
}
