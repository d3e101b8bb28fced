package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/san-kum/tiltsim/internal/layout"
	"github.com/san-kum/tiltsim/internal/physics"
	"github.com/san-kum/tiltsim/internal/sensor"
	"github.com/san-kum/tiltsim/internal/sim"
	"gopkg.in/yaml.v3"
)

const (
	DefaultFrameRate = 60
	DefaultDuration  = 10.0
	DefaultWidthPx   = 1080
	DefaultHeightPx  = 1920
	DefaultDPI       = 420.0
	DefaultShake     = 4.0
	DefaultFrequency = 0.25
)

const (
	SourceTilt   = "tilt"
	SourceCircle = "circle"
	SourceShake  = "shake"
	SourceReplay = "replay"
)

type Config struct {
	Particles int             `yaml:"particles"`
	Damping   float32         `yaml:"damping"`
	Seed      int64           `yaml:"seed"`
	Rotation  int             `yaml:"rotation"`
	FrameRate int             `yaml:"frame_rate"`
	Duration  float64         `yaml:"duration"`
	Screen    layout.Geometry `yaml:"screen"`
	Source    SourceConfig    `yaml:"source"`
}

type SourceConfig struct {
	Kind      string  `yaml:"kind"`
	TiltX     float64 `yaml:"tilt_x"`
	TiltY     float64 `yaml:"tilt_y"`
	Frequency float64 `yaml:"frequency"`
	Amplitude float32 `yaml:"amplitude"`
	Path      string  `yaml:"path"`
}

func DefaultConfig() *Config {
	return &Config{
		Particles: physics.DefaultCount,
		Damping:   physics.DefaultDamping,
		Seed:      1,
		Rotation:  0,
		FrameRate: DefaultFrameRate,
		Duration:  DefaultDuration,
		Screen: layout.Geometry{
			WidthPx:      DefaultWidthPx,
			HeightPx:     DefaultHeightPx,
			XDPI:         DefaultDPI,
			YDPI:         DefaultDPI,
			BallDiameter: layout.DefaultBallDiameter,
		},
		Source: SourceConfig{
			Kind:      SourceTilt,
			Frequency: DefaultFrequency,
			Amplitude: DefaultShake,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Particles <= 0 {
		return fmt.Errorf("particles must be positive, got %d", c.Particles)
	}
	if c.Damping <= 0 {
		return fmt.Errorf("damping must be positive, got %g", c.Damping)
	}
	if c.FrameRate <= 0 {
		return fmt.Errorf("frame_rate must be positive, got %d", c.FrameRate)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %g", c.Duration)
	}
	if _, err := sensor.ParseRotation(c.Rotation); err != nil {
		return err
	}
	if err := c.Screen.Validate(); err != nil {
		return err
	}
	switch strings.ToLower(c.Source.Kind) {
	case SourceTilt, SourceCircle, SourceShake:
	case SourceReplay:
		if c.Source.Path == "" {
			return fmt.Errorf("replay source needs a path")
		}
	default:
		return fmt.Errorf("unknown source: %s", c.Source.Kind)
	}
	return nil
}

func (c *Config) HostOptions() (sim.HostOptions, error) {
	rot, err := sensor.ParseRotation(c.Rotation)
	if err != nil {
		return sim.HostOptions{}, err
	}
	return sim.HostOptions{
		System: physics.Options{
			Count:   c.Particles,
			Damping: c.Damping,
			Seed:    c.Seed,
		},
		Rotation: rot,
		Geometry: c.Screen,
	}, nil
}

func (c *Config) SimConfig() sim.Config {
	return sim.Config{FrameRate: c.FrameRate, Duration: c.Duration}
}

// FitReplay sets Duration to the length of the recording when the source
// is a replay. Other sources are left alone.
func (c *Config) FitReplay() error {
	if !strings.EqualFold(c.Source.Kind, SourceReplay) {
		return nil
	}
	r, err := sensor.LoadReplay(c.Source.Path)
	if err != nil {
		return err
	}
	if d := r.Duration(); d > 0 {
		c.Duration = d
	}
	return nil
}

// NewSource builds the sensor stand-in described by the source section.
func (c *Config) NewSource() (sensor.Source, error) {
	s := c.Source
	switch strings.ToLower(s.Kind) {
	case SourceTilt:
		return sensor.NewTilt(s.TiltX, s.TiltY), nil
	case SourceCircle:
		return sensor.NewCircle(s.TiltX, s.Frequency), nil
	case SourceShake:
		base := sensor.NewTilt(s.TiltX, s.TiltY).Reading
		return sensor.NewShake(base, s.Amplitude, c.Seed), nil
	case SourceReplay:
		return sensor.LoadReplay(s.Path)
	}
	return nil, fmt.Errorf("unknown source: %s", s.Kind)
}
