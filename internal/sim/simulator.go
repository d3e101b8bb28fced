package sim

import (
	"context"
	"errors"
	"fmt"

	"github.com/san-kum/tiltsim/internal/sensor"
)

var (
	ErrInvalidFrameRate = errors.New("sim: frame rate must be positive")
	ErrInvalidDuration  = errors.New("sim: duration must be positive")
)

// Simulator drives a Host from a Source on a virtual clock, one sensor
// sample and one update per frame.
type Simulator struct {
	host      *Host
	metrics   []Metric
	observers []Observer
}

func New(host *Host) *Simulator {
	return &Simulator{
		host:      host,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }
func (s *Simulator) Host() *Host            { return s.host }

// Run records every frame. The first frame is the baseline capture, so a
// run of d seconds at f fps yields d*f+1 frames.
func (s *Simulator) Run(ctx context.Context, src sensor.Source, cfg Config) (*Result, error) {
	steps, err := validateConfig(cfg)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Frames:  make([]Frame, 0, steps+1),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	err = s.loop(ctx, src, cfg, steps, func(f Frame) bool {
		result.Frames = append(result.Frames, f)
		return true
	})
	result.Samples = s.host.Samples()

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, err
}

// RunWithCallback streams frames to callback instead of recording them.
// Returning false from callback ends the run early without error.
func (s *Simulator) RunWithCallback(ctx context.Context, src sensor.Source, cfg Config, callback func(Frame) bool) error {
	steps, err := validateConfig(cfg)
	if err != nil {
		return err
	}
	return s.loop(ctx, src, cfg, steps, callback)
}

func (s *Simulator) loop(ctx context.Context, src sensor.Source, cfg Config, steps int, callback func(Frame) bool) error {
	frameNanos := int64(1e9) / int64(cfg.FrameRate)

	s.host.Start()
	defer s.host.Stop()

	for i := 0; i <= steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		now := cfg.StartNanos + int64(i)*frameNanos
		t := float64(i) / float64(cfg.FrameRate)

		v := src.Sample(t)
		s.host.OnSensorSample(v.X, v.Y, v.Z, now)

		f := s.host.Frame(now)

		for _, m := range s.metrics {
			m.Observe(f)
		}
		for _, obs := range s.observers {
			obs.OnFrame(f)
		}

		if !callback(f) {
			return nil
		}
	}
	return nil
}

func validateConfig(cfg Config) (int, error) {
	if cfg.FrameRate <= 0 {
		return 0, fmt.Errorf("%w, got %d", ErrInvalidFrameRate, cfg.FrameRate)
	}
	if cfg.Duration <= 0 {
		return 0, fmt.Errorf("%w, got %f", ErrInvalidDuration, cfg.Duration)
	}
	return int(cfg.Duration * float64(cfg.FrameRate)), nil
}
