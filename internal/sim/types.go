package sim

import "github.com/san-kum/tiltsim/internal/physics"

// Frame is what a host reads back after one update.
type Frame struct {
	Index      int
	Time       float64
	Nanos      int64
	AccelX     float32
	AccelY     float32
	Bounds     physics.Bounds
	Positions  []physics.Vec2
	Velocities []physics.Vec2
}

type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnFrame(f Frame)
}

type Config struct {
	FrameRate  int
	Duration   float64
	StartNanos int64
}

func DefaultConfig() Config {
	return Config{FrameRate: 60, Duration: 10}
}

type Result struct {
	Frames  []Frame
	Metrics map[string]float64
	Samples uint64
}
