package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultMass        = 1.0
	DefaultTimeScale   = 1.0
	DefaultTrackLength = 10.0
	DefaultDuration    = 5.0

	DefaultSpeedSlider = 20.0
	DefaultTexture     = "https://unpkg.com/three-globe@2.31.0/example/img/earth-day.jpg"
	DefaultTraceTime   = 6 * 3600.0
	DefaultTraceDt     = 60.0
)

// Config holds the settings of both demos.
type Config struct {
	Collision CollisionConfig `yaml:"collision"`
	Coriolis  CoriolisConfig  `yaml:"coriolis"`
}

type CollisionConfig struct {
	Mass1       float64 `yaml:"m1"`
	Velocity1   float64 `yaml:"v1"`
	Mass2       float64 `yaml:"m2"`
	Velocity2   float64 `yaml:"v2"`
	Mode        string  `yaml:"mode"`
	TimeScale   float64 `yaml:"time_scale"`
	TrackLength float64 `yaml:"track_length"`
	Duration    float64 `yaml:"duration"`
}

type CoriolisConfig struct {
	Latitude   float64 `yaml:"lat"`
	Longitude  float64 `yaml:"lon"`
	North      float64 `yaml:"north"`
	East       float64 `yaml:"east"`
	Speed      float64 `yaml:"speed"`
	Texture    string  `yaml:"texture"`
	Integrator string  `yaml:"integrator"`
	TraceTime  float64 `yaml:"trace_time"`
	TraceDt    float64 `yaml:"trace_dt"`
}

func DefaultConfig() *Config {
	return &Config{
		Collision: CollisionConfig{
			Mass1:       2,
			Velocity1:   3,
			Mass2:       DefaultMass,
			Velocity2:   0,
			Mode:        "elastic",
			TimeScale:   DefaultTimeScale,
			TrackLength: DefaultTrackLength,
			Duration:    DefaultDuration,
		},
		Coriolis: CoriolisConfig{
			Latitude:   45,
			Longitude:  0,
			North:      10,
			East:       0,
			Speed:      DefaultSpeedSlider,
			Texture:    DefaultTexture,
			Integrator: "rk4",
			TraceTime:  DefaultTraceTime,
			TraceDt:    DefaultTraceDt,
		},
	}
}

// Load reads a yaml file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
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

// Apply copies a preset's collision or coriolis section onto c.
func (c *Config) Apply(demo, preset string) error {
	p := GetPreset(demo, preset)
	if p == nil {
		return fmt.Errorf("unknown preset %q for %s (have %v)", preset, demo, ListPresets(demo))
	}
	switch demo {
	case "collision":
		c.Collision = p.Collision
	case "coriolis":
		c.Coriolis = p.Coriolis
	}
	return nil
}
