package config

import "sort"

func collisionPreset(m1, v1, m2, v2 float64, mode string) *Config {
	cfg := DefaultConfig()
	cfg.Collision.Mass1, cfg.Collision.Velocity1 = m1, v1
	cfg.Collision.Mass2, cfg.Collision.Velocity2 = m2, v2
	cfg.Collision.Mode = mode
	return cfg
}

func coriolisPreset(lat, lon, north, east float64) *Config {
	cfg := DefaultConfig()
	cfg.Coriolis.Latitude, cfg.Coriolis.Longitude = lat, lon
	cfg.Coriolis.North, cfg.Coriolis.East = north, east
	return cfg
}

var Presets = map[string]map[string]*Config{
	"collision": {
		"head-on":  collisionPreset(1, 5, 1, -5, "elastic"),
		"chase":    collisionPreset(2, 3, 1, 0, "inelastic"),
		"heavy":    collisionPreset(10, 1, 1, -2, "elastic"),
		"stick":    collisionPreset(1, 4, 3, -1, "inelastic"),
		"standoff": collisionPreset(1, 0, 1, 0, "elastic"),
	},
	"coriolis": {
		"equator":   coriolisPreset(0, 0, 10, 0),
		"mid-north": coriolisPreset(45, 0, 10, 0),
		"mid-south": coriolisPreset(-45, 0, 10, 0),
		"pole":      coriolisPreset(89.5, 0, 0, 10),
		"eastward":  coriolisPreset(30, 90, 0, 20),
	},
}

func GetPreset(demo, preset string) *Config {
	demoPresets, ok := Presets[demo]
	if !ok {
		return nil
	}
	cfg, ok := demoPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

// ListPresets returns the preset names of demo in lexical order.
func ListPresets(demo string) []string {
	demoPresets, ok := Presets[demo]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(demoPresets))
	for name := range demoPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
