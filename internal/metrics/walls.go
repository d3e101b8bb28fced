package metrics

import "github.com/san-kum/tiltsim/internal/sim"

// WallContact is the fraction of particle-frames with at least one axis
// pinned to a wall.
type WallContact struct {
	touching int
	samples  int
}

func NewWallContact() *WallContact { return &WallContact{} }

func (w *WallContact) Name() string { return "wall_contact" }

func (w *WallContact) Observe(f sim.Frame) {
	b := f.Bounds
	for _, p := range f.Positions {
		if p.X == b.X || p.X == -b.X || p.Y == b.Y || p.Y == -b.Y {
			w.touching++
		}
		w.samples++
	}
}

func (w *WallContact) Value() float64 {
	if w.samples == 0 {
		return 0
	}
	return float64(w.touching) / float64(w.samples)
}

func (w *WallContact) Reset() {
	w.touching = 0
	w.samples = 0
}
