package metrics

import (
	"math"

	"github.com/san-kum/tiltsim/internal/physics"
	"github.com/san-kum/tiltsim/internal/sim"
)

func speed(v physics.Vec2) float64 {
	return math.Hypot(float64(v.X), float64(v.Y))
}

// MeanSpeed is the average particle speed over all frames, in m/s.
type MeanSpeed struct {
	sum     float64
	samples int
}

func NewMeanSpeed() *MeanSpeed { return &MeanSpeed{} }

func (m *MeanSpeed) Name() string { return "mean_speed" }

func (m *MeanSpeed) Observe(f sim.Frame) {
	for _, v := range f.Velocities {
		m.sum += speed(v)
		m.samples++
	}
}

func (m *MeanSpeed) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanSpeed) Reset() {
	m.sum = 0
	m.samples = 0
}

// MaxSpeed is the highest particle speed seen, in m/s.
type MaxSpeed struct {
	max float64
}

func NewMaxSpeed() *MaxSpeed { return &MaxSpeed{} }

func (m *MaxSpeed) Name() string { return "max_speed" }

func (m *MaxSpeed) Observe(f sim.Frame) {
	for _, v := range f.Velocities {
		m.max = math.Max(m.max, speed(v))
	}
}

func (m *MaxSpeed) Value() float64 { return m.max }

func (m *MaxSpeed) Reset() { m.max = 0 }
