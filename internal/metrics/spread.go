package metrics

import (
	"github.com/san-kum/tiltsim/internal/sim"
	"gonum.org/v1/gonum/stat"
)

// Spread is the mean, over frames, of the standard deviation of particle
// positions along x and y averaged. Zero when every ball is stacked in
// one corner.
type Spread struct {
	xs, ys  []float64
	total   float64
	samples int
}

func NewSpread() *Spread { return &Spread{} }

func (s *Spread) Name() string { return "spread" }

func (s *Spread) Observe(f sim.Frame) {
	if len(f.Positions) < 2 {
		return
	}
	s.xs = s.xs[:0]
	s.ys = s.ys[:0]
	for _, p := range f.Positions {
		s.xs = append(s.xs, float64(p.X))
		s.ys = append(s.ys, float64(p.Y))
	}
	s.total += (stat.PopStdDev(s.xs, nil) + stat.PopStdDev(s.ys, nil)) / 2
	s.samples++
}

func (s *Spread) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return s.total / float64(s.samples)
}

func (s *Spread) Reset() {
	s.total = 0
	s.samples = 0
}

// Default returns the metrics recorded for every run.
func Default() []sim.Metric {
	return []sim.Metric{
		NewMeanSpeed(),
		NewMaxSpeed(),
		NewWallContact(),
		NewSpread(),
	}
}
