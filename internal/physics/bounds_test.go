package physics

import (
	"sync"
	"testing"
)

func TestBoundsCellZeroValue(t *testing.T) {
	var c BoundsCell
	if c.Load() != (Bounds{}) {
		t.Errorf("expected zero bounds, got %+v", c.Load())
	}
}

func TestBoundsCellSnapshot(t *testing.T) {
	c := NewBoundsCell(Bounds{X: 1, Y: 1})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			f := float32(i)
			c.Store(Bounds{X: f, Y: f})
		}
	}()

	for i := 0; i < 1000; i++ {
		b := c.Load()
		if b.X != b.Y {
			t.Fatalf("torn bounds snapshot: %+v", b)
		}
	}
	wg.Wait()
}

func TestBoundsContains(t *testing.T) {
	b := Bounds{X: 0.03, Y: 0.05}
	if !b.Contains(Vec2{0.03, -0.05}) {
		t.Error("walls should be inside the closed domain")
	}
	if b.Contains(Vec2{0.0301, 0}) {
		t.Error("x beyond wall should be outside")
	}
}
