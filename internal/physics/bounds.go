package physics

import "sync/atomic"

// Bounds holds the half-extents of the domain [-X, X] x [-Y, Y] in meters.
type Bounds struct {
	X float32
	Y float32
}

// Contains reports whether p lies inside the closed domain.
func (b Bounds) Contains(p Vec2) bool {
	return p.X <= b.X && p.X >= -b.X && p.Y <= b.Y && p.Y >= -b.Y
}

// BoundsCell publishes Bounds as a single snapshot so readers never observe
// one axis from an old layout and the other from a new one.
type BoundsCell struct {
	v atomic.Pointer[Bounds]
}

func NewBoundsCell(b Bounds) *BoundsCell {
	c := &BoundsCell{}
	c.Store(b)
	return c
}

func (c *BoundsCell) Store(b Bounds) {
	c.v.Store(&b)
}

// Load returns the current snapshot; the zero Bounds if nothing was stored.
func (c *BoundsCell) Load() Bounds {
	if b := c.v.Load(); b != nil {
		return *b
	}
	return Bounds{}
}
