package physics

import (
	"fmt"
	"math/rand"
)

const (
	// DefaultCount is the number of balls on screen.
	DefaultCount = 5

	// MinStep is the shortest step in seconds. Equal or backwards timestamps
	// integrate with this instead of zero or a negative dt.
	MinStep float32 = 1e-9
)

// Options configures a System at construction.
type Options struct {
	Count   int
	Damping float32
	Seed    int64
}

func DefaultOptions() Options {
	return Options{Count: DefaultCount, Damping: DefaultDamping, Seed: 1}
}

// System owns a fixed, ordered set of particles and steps them together
// from a shared acceleration input.
type System struct {
	particles []*Particle
	bounds    *BoundsCell
	last      int64
	hasLast   bool
}

// NewSystem creates opts.Count particles at pseudo-random positions in
// [0, 1) drawn from a source seeded with opts.Seed.
func NewSystem(opts Options, bounds *BoundsCell) (*System, error) {
	if opts.Count <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCount, opts.Count)
	}
	if opts.Damping <= 0 {
		return nil, fmt.Errorf("%w: got %g", ErrInvalidDamping, opts.Damping)
	}
	if bounds == nil {
		bounds = NewBoundsCell(Bounds{})
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	particles := make([]*Particle, opts.Count)
	for i := range particles {
		particles[i] = NewParticle(rng.Float32(), rng.Float32(), opts.Damping)
	}

	return &System{particles: particles, bounds: bounds}, nil
}

// NewSystemFrom wraps existing particles. The slice is copied; the
// particles themselves become owned by the system.
func NewSystemFrom(particles []*Particle, bounds *BoundsCell) (*System, error) {
	if len(particles) == 0 {
		return nil, fmt.Errorf("%w: got 0", ErrInvalidCount)
	}
	if bounds == nil {
		bounds = NewBoundsCell(Bounds{})
	}
	ps := make([]*Particle, len(particles))
	copy(ps, particles)
	return &System{particles: ps, bounds: bounds}, nil
}

func (s *System) Len() int { return len(s.particles) }

// Bounds returns the snapshot the next Update will use.
func (s *System) Bounds() Bounds { return s.bounds.Load() }

// Update advances every particle using the time elapsed since the previous
// call. The first call after construction or Reset only records nowNanos.
func (s *System) Update(accelX, accelY float32, nowNanos int64) {
	if !s.hasLast {
		s.last = nowNanos
		s.hasLast = true
		return
	}

	dt := float32(float64(nowNanos-s.last) * 1e-9)
	if dt < MinStep {
		dt = MinStep
	}

	b := s.bounds.Load()
	for _, p := range s.particles {
		p.ComputePhysics(accelX, accelY, dt, b)
	}
	s.last = nowNanos
}

// Reset forgets the baseline timestamp so the next Update starts a new
// session instead of integrating across a pause.
func (s *System) Reset() {
	s.hasLast = false
	s.last = 0
}

// Started reports whether a baseline timestamp has been captured.
func (s *System) Started() bool { return s.hasLast }

// Constrain clamps every particle against the current bounds.
func (s *System) Constrain() {
	b := s.bounds.Load()
	for _, p := range s.particles {
		p.SetPosition(p.pos.X, p.pos.Y, b)
	}
}

// PositionOf returns the position of particle i.
func (s *System) PositionOf(i int) (Vec2, error) {
	p, err := s.at(i)
	if err != nil {
		return Vec2{}, err
	}
	return p.pos, nil
}

// VelocityOf returns the velocity of particle i.
func (s *System) VelocityOf(i int) (Vec2, error) {
	p, err := s.at(i)
	if err != nil {
		return Vec2{}, err
	}
	return p.vel, nil
}

// Positions returns a copy of all positions in particle order.
func (s *System) Positions() []Vec2 {
	out := make([]Vec2, len(s.particles))
	for i, p := range s.particles {
		out[i] = p.pos
	}
	return out
}

// Velocities returns a copy of all velocities in particle order.
func (s *System) Velocities() []Vec2 {
	out := make([]Vec2, len(s.particles))
	for i, p := range s.particles {
		out[i] = p.vel
	}
	return out
}

func (s *System) at(i int) (*Particle, error) {
	if i < 0 || i >= len(s.particles) {
		return nil, fmt.Errorf("%w: %d (count %d)", ErrIndexOutOfRange, i, len(s.particles))
	}
	return s.particles[i], nil
}
