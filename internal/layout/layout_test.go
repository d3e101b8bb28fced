package layout

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/tiltsim/internal/physics"
)

func closeTo(a, b, tol float32) bool {
	return math.Abs(float64(a-b)) < float64(tol)
}

func phone() Geometry {
	return Geometry{WidthPx: 1080, HeightPx: 1920, XDPI: 400, YDPI: 400, BallDiameter: DefaultBallDiameter}
}

func TestNewLayout(t *testing.T) {
	l, err := New(phone())
	if err != nil {
		t.Fatalf("new layout: %v", err)
	}

	wantM := float32(400 / 0.0254)
	if !closeTo(l.MetersToPixelsX, wantM, 1e-2) {
		t.Errorf("expected %f px/m, got %f", wantM, l.MetersToPixelsX)
	}

	// 0.006m * 15748 px/m = 94.5 -> 94 or 95
	if l.BallWidthPx < 94 || l.BallWidthPx > 95 {
		t.Errorf("unexpected ball width %d", l.BallWidthPx)
	}

	wantX := (1080/wantM - DefaultBallDiameter) * 0.5
	wantY := (1920/wantM - DefaultBallDiameter) * 0.5
	if !closeTo(l.Bounds.X, wantX, 1e-6) || !closeTo(l.Bounds.Y, wantY, 1e-6) {
		t.Errorf("expected bounds (%f, %f), got %+v", wantX, wantY, l.Bounds)
	}
}

func TestBoundsFor(t *testing.T) {
	b := BoundsFor(0.068, 0.112, 0.006)
	if !closeTo(b.X, 0.031, 1e-6) || !closeTo(b.Y, 0.053, 1e-6) {
		t.Errorf("unexpected bounds %+v", b)
	}

	tiny := BoundsFor(0.001, 0.001, 0.006)
	if tiny.X != 0 || tiny.Y != 0 {
		t.Errorf("expected zero bounds for a surface smaller than the ball, got %+v", tiny)
	}
}

func TestToScreenFlipsY(t *testing.T) {
	l, _ := New(phone())

	ox, oy := l.ToScreen(physics.Vec2{})
	if ox != l.OriginX || oy != l.OriginY {
		t.Errorf("expected origin (%f, %f), got (%f, %f)", l.OriginX, l.OriginY, ox, oy)
	}

	_, up := l.ToScreen(physics.Vec2{Y: 0.01})
	if up >= oy {
		t.Errorf("positive y should move up the screen: %f vs %f", up, oy)
	}

	right, _ := l.ToScreen(physics.Vec2{X: 0.01})
	if right <= ox {
		t.Errorf("positive x should move right: %f vs %f", right, ox)
	}
}

func TestWallMapsInsideScreen(t *testing.T) {
	l, _ := New(phone())

	x, y := l.ToScreen(physics.Vec2{X: l.Bounds.X, Y: -l.Bounds.Y})
	if x+float32(l.BallWidthPx) > float32(l.Geometry.WidthPx)+1 {
		t.Errorf("ball at right wall overflows: x=%f", x)
	}
	if y+float32(l.BallHeightPx) > float32(l.Geometry.HeightPx)+1 {
		t.Errorf("ball at bottom wall overflows: y=%f", y)
	}
}

func TestInvalidGeometry(t *testing.T) {
	tests := []struct {
		name string
		g    Geometry
	}{
		{"zero width", Geometry{HeightPx: 10, XDPI: 1, YDPI: 1, BallDiameter: 0.1}},
		{"zero dpi", Geometry{WidthPx: 10, HeightPx: 10, BallDiameter: 0.1}},
		{"zero ball", Geometry{WidthPx: 10, HeightPx: 10, XDPI: 1, YDPI: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.g); !errors.Is(err, ErrInvalidGeometry) {
				t.Errorf("expected ErrInvalidGeometry, got %v", err)
			}
		})
	}
}

func TestFitDPI(t *testing.T) {
	dpi := FitDPI(160, 0.08)
	l, err := New(Geometry{WidthPx: 160, HeightPx: 96, XDPI: dpi, YDPI: dpi, BallDiameter: DefaultBallDiameter})
	if err != nil {
		t.Fatalf("new layout: %v", err)
	}
	if !closeTo(float32(l.Geometry.WidthPx)/l.MetersToPixelsX, 0.08, 1e-6) {
		t.Errorf("expected surface to span 0.08m, got %f", float32(l.Geometry.WidthPx)/l.MetersToPixelsX)
	}
	if FitDPI(0, 1) != 0 {
		t.Error("expected 0 dpi for empty surface")
	}
}
