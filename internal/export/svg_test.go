package export

import (
	"strings"
	"testing"

	"github.com/san-kum/tiltsim/internal/physics"
	"github.com/san-kum/tiltsim/internal/storage"
	"github.com/san-kum/tiltsim/internal/viz"
)

func TestTrajectoriesToSVG(t *testing.T) {
	tracks := []storage.Track{
		{Particle: 0, Points: []physics.Vec2{{X: -1, Y: 1}, {X: 1, Y: -1}}},
		{Particle: 1, Points: []physics.Vec2{{X: 0, Y: 0}, {X: 0.5, Y: 0.5}}},
	}
	svg := TrajectoriesToSVG(tracks, physics.Bounds{X: 1, Y: 1}, 120, 220)

	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatalf("malformed svg:\n%s", svg)
	}
	if strings.Count(svg, "<path") != 2 {
		t.Errorf("expected 2 paths, got %d", strings.Count(svg, "<path"))
	}
	if !strings.Contains(svg, `stroke="`+LeadColor+`"`) {
		t.Error("expected lead particle in red")
	}
	// Top-left corner of the domain maps to the padded origin, bottom-right
	// to the far corner.
	if !strings.Contains(svg, `d="M10.0,10.0 L110.0,210.0"`) {
		t.Errorf("unexpected lead path projection:\n%s", svg)
	}
	if strings.LastIndex(svg, LeadColor) < strings.Index(svg, trackColors[1]) {
		t.Error("lead particle should be drawn last")
	}
}

func TestTrajectoriesToSVGDegenerate(t *testing.T) {
	tracks := []storage.Track{{Particle: 0, Points: []physics.Vec2{{}}}}
	if TrajectoriesToSVG(nil, physics.Bounds{X: 1, Y: 1}, 100, 100) != "" {
		t.Error("expected empty output without tracks")
	}
	if TrajectoriesToSVG(tracks, physics.Bounds{}, 100, 100) != "" {
		t.Error("expected empty output for zero bounds")
	}
	if TrajectoriesToSVG(tracks, physics.Bounds{X: 1, Y: 1}, 0, 100) != "" {
		t.Error("expected empty output for zero width")
	}
}

func TestCanvasToSVG(t *testing.T) {
	if CanvasToSVG(nil, 2, LeadColor) != "" {
		t.Error("expected empty output for nil canvas")
	}
	c := viz.NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	svg := CanvasToSVG(c, 2, LeadColor)
	if strings.Count(svg, "<circle") != 2 {
		t.Errorf("expected 2 dots, got %d", strings.Count(svg, "<circle"))
	}
	if !strings.Contains(svg, `width="8" height="8"`) {
		t.Errorf("unexpected canvas size:\n%s", svg)
	}
	if !strings.Contains(svg, `cx="7.0" cy="7.0"`) {
		t.Errorf("expected dot (3, 3) at the far corner:\n%s", svg)
	}
}

func TestTracksToCanvas(t *testing.T) {
	tracks := []storage.Track{
		{Particle: 0, Points: []physics.Vec2{{X: -1, Y: 1}, {X: 1, Y: -1}}},
	}
	c := TracksToCanvas(tracks, physics.Bounds{X: 1, Y: 1}, 10, 5)
	if c == nil {
		t.Fatal("expected a canvas")
	}
	// Domain top-left and bottom-right land on the canvas corners.
	if !c.IsSet(0, 0) || !c.IsSet(19, 19) {
		t.Error("expected track endpoints on the canvas corners")
	}
	// The diagonal passes through the centre.
	if !c.IsSet(10, 10) && !c.IsSet(9, 9) {
		t.Error("expected the track to cross the centre")
	}
	if CanvasToSVG(c, 1, LeadColor) == "" {
		t.Error("expected svg output from the track canvas")
	}

	if TracksToCanvas(nil, physics.Bounds{X: 1, Y: 1}, 10, 5) != nil {
		t.Error("expected nil canvas without tracks")
	}
	if TracksToCanvas(tracks, physics.Bounds{}, 10, 5) != nil {
		t.Error("expected nil canvas for zero bounds")
	}
}
