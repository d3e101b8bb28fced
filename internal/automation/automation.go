package automation

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/san-kum/tiltsim/internal/config"
	"github.com/san-kum/tiltsim/internal/metrics"
	"github.com/san-kum/tiltsim/internal/sensor"
	"github.com/san-kum/tiltsim/internal/sim"
	"github.com/san-kum/tiltsim/internal/storage"
	"gopkg.in/yaml.v3"
)

// Scenario defines a scripted simulation sequence
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep overrides the base configuration for one run. Unset fields
// keep the base setting. Particles, Damping and Duration must be positive
// when set, so zero means unset for them.
type ScenarioStep struct {
	Preset    string   `yaml:"preset"`
	Source    string   `yaml:"source"`
	TiltX     *float64 `yaml:"tilt_x"`
	TiltY     *float64 `yaml:"tilt_y"`
	Rotation  *int     `yaml:"rotation"`
	Particles int      `yaml:"particles"`
	Damping   float32  `yaml:"damping"`
	Seed      *int64   `yaml:"seed"`
	Duration  float64  `yaml:"duration"`
	SaveAs    string   `yaml:"save_as"`
}

// StepResult is the outcome of one scenario step.
type StepResult struct {
	Name   string
	RunID  string
	Result *sim.Result
	Config *config.Config
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}

	return &scenario, nil
}

// Apply returns base with the step's overrides. A preset replaces base
// before the other fields apply.
func (s ScenarioStep) Apply(base *config.Config) (*config.Config, error) {
	cfg := *base
	if s.Preset != "" {
		p := config.GetPreset(s.Preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s", s.Preset)
		}
		cfg = *p
	}
	if s.Source != "" {
		cfg.Source.Kind = s.Source
	}
	if s.TiltX != nil {
		cfg.Source.TiltX = *s.TiltX
	}
	if s.TiltY != nil {
		cfg.Source.TiltY = *s.TiltY
	}
	if s.Rotation != nil {
		cfg.Rotation = *s.Rotation
	}
	if s.Particles > 0 {
		cfg.Particles = s.Particles
	}
	if s.Damping > 0 {
		cfg.Damping = s.Damping
	}
	if s.Seed != nil {
		cfg.Seed = *s.Seed
	}
	if s.Duration > 0 {
		cfg.Duration = s.Duration
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Execute runs one headless simulation of cfg with the default metrics.
func Execute(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sim.Result, error) {
	s, src, err := newSimulator(cfg, logger)
	if err != nil {
		return nil, err
	}
	return s.Run(ctx, src, cfg.SimConfig())
}

// Stream runs cfg like Execute but hands frames to fn as they are produced
// instead of keeping them. Returning false from fn ends the run.
func Stream(ctx context.Context, cfg *config.Config, logger *slog.Logger, fn func(sim.Frame) bool) error {
	s, src, err := newSimulator(cfg, logger)
	if err != nil {
		return err
	}
	return s.RunWithCallback(ctx, src, cfg.SimConfig(), fn)
}

func newSimulator(cfg *config.Config, logger *slog.Logger) (*sim.Simulator, sensor.Source, error) {
	if logger == nil {
		logger = slog.Default()
	}
	opts, err := cfg.HostOptions()
	if err != nil {
		return nil, nil, err
	}
	opts.Logger = logger
	host, err := sim.NewHost(opts)
	if err != nil {
		return nil, nil, err
	}
	src, err := cfg.NewSource()
	if err != nil {
		return nil, nil, err
	}

	s := sim.New(host)
	for _, m := range metrics.Default() {
		s.AddMetric(m)
	}
	s.AddObserver(&progress{logger: logger, every: cfg.FrameRate})
	return s, src, nil
}

// progress logs the simulated clock once per simulated second.
type progress struct {
	logger *slog.Logger
	every  int
}

func (p *progress) OnFrame(f sim.Frame) {
	if p.every > 0 && f.Index%p.every == 0 {
		p.logger.Debug("simulated", "frame", f.Index, "t", f.Time)
	}
}

// Info describes cfg for storage.
func Info(cfg *config.Config, preset string) storage.RunInfo {
	return storage.RunInfo{
		Source:    cfg.Source.Kind,
		Preset:    preset,
		Seed:      cfg.Seed,
		Particles: cfg.Particles,
		Damping:   cfg.Damping,
		Rotation:  cfg.Rotation,
		FrameRate: cfg.FrameRate,
		Duration:  cfg.Duration,
	}
}

// RunScenario executes all steps in order. Steps are saved to st when it
// is non-nil. Results gathered before a failing step are returned with
// the error.
func RunScenario(ctx context.Context, scenario *Scenario, base *config.Config, st *storage.Store, logger *slog.Logger) ([]StepResult, error) {
	if logger == nil {
		logger = slog.Default()
	}
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		name := step.SaveAs
		if name == "" {
			name = fmt.Sprintf("step%d", i+1)
		}
		logger.Info("scenario step", "scenario", scenario.Name, "step", i+1, "of", len(scenario.Steps), "name", name)

		cfg, err := step.Apply(base)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		result, err := Execute(ctx, cfg, logger)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Name: name, Result: result, Config: cfg}
		if st != nil {
			info := Info(cfg, step.Preset)
			info.Step = name
			id, err := st.Save(info, result)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
			sr.RunID = id
		}
		results = append(results, sr)
	}

	return results, nil
}
