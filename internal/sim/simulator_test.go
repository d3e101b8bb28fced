package sim

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/tiltsim/internal/layout"
	"github.com/san-kum/tiltsim/internal/physics"
	"github.com/san-kum/tiltsim/internal/sensor"
)

func testGeometry() layout.Geometry {
	return layout.Geometry{WidthPx: 480, HeightPx: 800, XDPI: 240, YDPI: 240, BallDiameter: layout.DefaultBallDiameter}
}

func newTestHost(t *testing.T) *Host {
	t.Helper()
	h, err := NewHost(HostOptions{System: physics.DefaultOptions(), Geometry: testGeometry()})
	if err != nil {
		t.Fatalf("new host: %v", err)
	}
	return h
}

type countMetric struct {
	frames int
}

func (c *countMetric) Name() string      { return "count" }
func (c *countMetric) Observe(Frame)     { c.frames++ }
func (c *countMetric) Value() float64    { return float64(c.frames) }
func (c *countMetric) Reset()            { c.frames = 0 }

type recordObserver struct {
	times []float64
}

func (r *recordObserver) OnFrame(f Frame) { r.times = append(r.times, f.Time) }

func TestSimulatorRun(t *testing.T) {
	s := New(newTestHost(t))
	metric := &countMetric{}
	obs := &recordObserver{}
	s.AddMetric(metric)
	s.AddObserver(obs)

	result, err := s.Run(context.Background(), sensor.NewTilt(30, 0), Config{FrameRate: 10, Duration: 1})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.Frames) != 11 {
		t.Errorf("expected 11 frames, got %d", len(result.Frames))
	}
	if result.Metrics["count"] != 11 {
		t.Errorf("expected metric to see 11 frames, got %v", result.Metrics["count"])
	}
	if len(obs.times) != 11 || obs.times[10] < 0.99 || obs.times[10] > 1.01 {
		t.Errorf("unexpected observer times %v", obs.times)
	}
	if result.Samples != 11 {
		t.Errorf("expected 11 samples, got %d", result.Samples)
	}
}

func TestSimulatorTiltRollsBallsLeft(t *testing.T) {
	s := New(newTestHost(t))

	result, err := s.Run(context.Background(), sensor.NewTilt(45, 0), Config{FrameRate: 60, Duration: 3})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	last := result.Frames[len(result.Frames)-1]
	for i, p := range last.Positions {
		if p.X != -last.Bounds.X {
			t.Errorf("particle %d expected at left wall %f, got %f", i, -last.Bounds.X, p.X)
		}
		if last.Velocities[i].X != 0 {
			t.Errorf("particle %d expected vx 0 at wall, got %f", i, last.Velocities[i].X)
		}
	}
}

func TestSimulatorBoundaryInvariant(t *testing.T) {
	s := New(newTestHost(t))
	src := sensor.NewShake(sensor.Vector{Z: sensor.StandardGravity}, 30, 11)

	err := s.RunWithCallback(context.Background(), src, Config{FrameRate: 120, Duration: 5}, func(f Frame) bool {
		for i, p := range f.Positions {
			if !f.Bounds.Contains(p) {
				t.Fatalf("frame %d: particle %d escaped %+v", f.Index, i, p)
			}
		}
		return true
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
}

func TestSimulatorCallbackStopsEarly(t *testing.T) {
	s := New(newTestHost(t))
	n := 0
	err := s.RunWithCallback(context.Background(), sensor.NewTilt(0, 0), DefaultConfig(), func(Frame) bool {
		n++
		return n < 5
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 5 {
		t.Errorf("expected 5 frames, got %d", n)
	}
}

func TestSimulatorCanceled(t *testing.T) {
	s := New(newTestHost(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Run(ctx, sensor.NewTilt(0, 0), DefaultConfig())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	s := New(newTestHost(t))

	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{"zero fps", Config{FrameRate: 0, Duration: 1}, ErrInvalidFrameRate},
		{"negative fps", Config{FrameRate: -1, Duration: 1}, ErrInvalidFrameRate},
		{"zero duration", Config{FrameRate: 60, Duration: 0}, ErrInvalidDuration},
		{"negative duration", Config{FrameRate: 60, Duration: -1}, ErrInvalidDuration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Run(context.Background(), sensor.NewTilt(0, 0), tt.cfg)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}
