// Package collision runs the one-dimensional two-box collision demo: input
// sanitizing, the inelastic merge policy and the simulation context that
// owns the engine, the recorder and the charts.
package collision

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/san-kum/vizlab/internal/config"
	"github.com/san-kum/vizlab/internal/engine"
)

// Mode selects how the two boxes interact.
type Mode int

const (
	Elastic Mode = iota
	Inelastic
)

func (m Mode) String() string {
	if m == Inelastic {
		return "inelastic"
	}
	return "elastic"
}

// Restitution is the engine elasticity used for both boxes.
func (m Mode) Restitution() float64 {
	if m == Inelastic {
		return 0
	}
	return 1
}

// Toggle returns the other mode.
func (m Mode) Toggle() Mode {
	if m == Inelastic {
		return Elastic
	}
	return Inelastic
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "elastic", "":
		return Elastic, nil
	case "inelastic":
		return Inelastic, nil
	}
	return Elastic, fmt.Errorf("unknown collision mode %q", s)
}

// MinMass is the floor applied to every mass input.
const MinMass = 1.0

// Tracked body ids, left and right box.
const (
	BodyA engine.BodyID = "A"
	BodyB engine.BodyID = "B"
)

// Params are the sanitized inputs of one run.
type Params struct {
	Mass1, Velocity1 float64
	Mass2, Velocity2 float64
	Mode             Mode
	TimeScale        float64
}

// ParseMass reads a mass input. Anything that is not a finite number
// becomes 1, and the result is never below MinMass.
func ParseMass(s string) float64 {
	v, ok := parseFinite(s)
	if !ok {
		v = 1
	}
	return math.Max(MinMass, v)
}

// ParseVelocity reads a velocity input. Anything that is not a finite
// number becomes 0.
func ParseVelocity(s string) float64 {
	v, ok := parseFinite(s)
	if !ok {
		return 0
	}
	return v
}

func parseFinite(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Sanitize applies the input fallbacks to numeric values already parsed.
func (p Params) Sanitize() Params {
	p.Mass1 = sanitizeMass(p.Mass1)
	p.Mass2 = sanitizeMass(p.Mass2)
	p.Velocity1 = sanitizeVelocity(p.Velocity1)
	p.Velocity2 = sanitizeVelocity(p.Velocity2)
	p.TimeScale = engine.ClampTimeScale(p.TimeScale)
	return p
}

func sanitizeMass(m float64) float64 {
	if math.IsNaN(m) || math.IsInf(m, 0) {
		return MinMass
	}
	return math.Max(MinMass, m)
}

func sanitizeVelocity(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// FromConfig builds sanitized params from a config section.
func FromConfig(c config.CollisionConfig) (Params, error) {
	mode, err := ParseMode(c.Mode)
	if err != nil {
		return Params{}, err
	}
	p := Params{
		Mass1:     c.Mass1,
		Velocity1: c.Velocity1,
		Mass2:     c.Mass2,
		Velocity2: c.Velocity2,
		Mode:      mode,
		TimeScale: c.TimeScale,
	}
	if p.TimeScale == 0 {
		p.TimeScale = config.DefaultTimeScale
	}
	return p.Sanitize(), nil
}
