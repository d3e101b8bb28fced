package sim

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/san-kum/tiltsim/internal/layout"
	"github.com/san-kum/tiltsim/internal/physics"
	"github.com/san-kum/tiltsim/internal/sensor"
)

// HostOptions configures a Host.
type HostOptions struct {
	System   physics.Options
	Rotation sensor.Rotation
	Geometry layout.Geometry
	Logger   *slog.Logger
}

// Host connects a sensor, a drawing surface and the particle system.
// Sensor callbacks may arrive on any goroutine; Frame, Start and Stop
// belong to the render loop.
type Host struct {
	latch   *sensor.Latch
	bounds  *physics.BoundsCell
	system  *physics.System
	layout  atomic.Pointer[layout.Layout]
	logger  *slog.Logger
	running bool
	frames  int
	start   int64
}

func NewHost(opts HostOptions) (*Host, error) {
	if !opts.Rotation.Valid() {
		return nil, fmt.Errorf("%w: %d", sensor.ErrInvalidRotation, uint8(opts.Rotation))
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	bounds := physics.NewBoundsCell(physics.Bounds{})
	system, err := physics.NewSystem(opts.System, bounds)
	if err != nil {
		return nil, err
	}

	h := &Host{
		latch:  sensor.NewLatch(opts.Rotation),
		bounds: bounds,
		system: system,
		logger: logger,
	}
	if err := h.OnGeometryChanged(opts.Geometry); err != nil {
		return nil, err
	}
	return h, nil
}

// OnSensorSample maps a raw reading with the current rotation and makes it
// the acceleration for the next frame.
func (h *Host) OnSensorSample(x, y, z float32, timestampNanos int64) {
	h.latch.Offer(sensor.Vector{X: x, Y: y, Z: z}, timestampNanos)
}

func (h *Host) OnRotationChanged(r sensor.Rotation) {
	h.latch.SetRotation(r)
	h.logger.Debug("rotation changed", "rotation", r.String())
}

// OnGeometryChanged recomputes the layout, publishes the new bounds and
// pulls every particle back inside them.
func (h *Host) OnGeometryChanged(g layout.Geometry) error {
	l, err := layout.New(g)
	if err != nil {
		return err
	}
	h.layout.Store(&l)
	h.bounds.Store(l.Bounds)
	h.system.Constrain()

	h.logger.Debug("geometry changed",
		"width_px", g.WidthPx,
		"height_px", g.HeightPx,
		"ball_px", l.BallWidthPx,
		"x_bound", l.Bounds.X,
		"y_bound", l.Bounds.Y,
	)
	return nil
}

// Start resumes integration. The first frame after Start only captures a
// baseline timestamp.
func (h *Host) Start() {
	if h.running {
		return
	}
	h.running = true
	h.system.Reset()
	h.logger.Debug("simulation started")
}

// Stop pauses integration; frames keep reporting the frozen state.
func (h *Host) Stop() {
	if !h.running {
		return
	}
	h.running = false
	h.system.Reset()
	h.logger.Debug("simulation stopped", "frames", h.frames)
}

func (h *Host) Running() bool { return h.running }

// Frame runs one update with the latest sensor reading and returns the
// resulting state.
func (h *Host) Frame(nowNanos int64) Frame {
	r := h.latch.Load()
	if h.running {
		if h.frames == 0 {
			h.start = nowNanos
		}
		h.system.Update(r.AccelX, r.AccelY, nowNanos)
		h.frames++
	}

	return Frame{
		Index:      h.frames,
		Time:       float64(nowNanos-h.start) * 1e-9,
		Nanos:      nowNanos,
		AccelX:     r.AccelX,
		AccelY:     r.AccelY,
		Bounds:     h.system.Bounds(),
		Positions:  h.system.Positions(),
		Velocities: h.system.Velocities(),
	}
}

// Screen returns the top-left pixel of each ball for the current layout.
func (h *Host) Screen() [][2]float32 {
	l := h.Layout()
	ps := h.system.Positions()
	out := make([][2]float32, len(ps))
	for i, p := range ps {
		x, y := l.ToScreen(p)
		out[i] = [2]float32{x, y}
	}
	return out
}

func (h *Host) Layout() layout.Layout     { return *h.layout.Load() }
func (h *Host) System() *physics.System   { return h.system }
func (h *Host) Rotation() sensor.Rotation { return h.latch.Rotation() }
func (h *Host) Reading() sensor.Reading   { return h.latch.Load() }
func (h *Host) Samples() uint64           { return h.latch.Samples() }
