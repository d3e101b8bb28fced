package config

import (
	"sort"

	"github.com/san-kum/tiltsim/internal/layout"
)

func preset(src SourceConfig, duration float64) *Config {
	cfg := DefaultConfig()
	cfg.Duration = duration
	cfg.Source = src
	if cfg.Source.Amplitude == 0 {
		cfg.Source.Amplitude = DefaultShake
	}
	if cfg.Source.Frequency == 0 {
		cfg.Source.Frequency = DefaultFrequency
	}
	return cfg
}

var Presets = map[string]*Config{
	"flat":   preset(SourceConfig{Kind: SourceTilt}, 5.0),
	"left":   preset(SourceConfig{Kind: SourceTilt, TiltX: 20}, 5.0),
	"right":  preset(SourceConfig{Kind: SourceTilt, TiltX: -20}, 5.0),
	"corner": preset(SourceConfig{Kind: SourceTilt, TiltX: 15, TiltY: 15}, 5.0),
	"circle": preset(SourceConfig{Kind: SourceCircle, TiltX: 25, Frequency: 0.25}, 20.0),
	"shake":  preset(SourceConfig{Kind: SourceShake, Amplitude: 12}, 10.0),
	"tablet": func() *Config {
		cfg := preset(SourceConfig{Kind: SourceCircle, TiltX: 10, Frequency: 0.1}, 30.0)
		cfg.Screen = layout.Geometry{
			WidthPx:      1600,
			HeightPx:     2560,
			XDPI:         320,
			YDPI:         320,
			BallDiameter: layout.DefaultBallDiameter,
		}
		cfg.Rotation = 90
		return cfg
	}(),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
