package coriolis

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/vizlab/internal/integrators"
)

// Drift is free horizontal motion in the tangent plane at one latitude
// under the Coriolis term alone. The state is {east, north, vEast, vNorth}
// in metres and m/s.
type Drift struct {
	// F is the Coriolis parameter 2 Ω sin(latitude).
	F float64
}

// NewDrift returns the f-plane system at a latitude in degrees.
func NewDrift(lat float64) Drift {
	return Drift{F: 2 * EarthOmega * math.Sin(lat*math.Pi/180)}
}

func (d Drift) Derive(x integrators.State, _ float64) integrators.State {
	return integrators.State{
		x[2],
		x[3],
		d.F * x[3],
		-d.F * x[2],
	}
}

// TracePoint is one sample of a trajectory preview.
type TracePoint struct {
	Time   float64
	East   float64
	North  float64
	VEast  float64
	VNorth float64
}

// TraceConfig controls a trajectory preview.
type TraceConfig struct {
	Latitude   float64
	North      float64
	East       float64
	Duration   float64
	Dt         float64
	Integrator string
}

// Trace integrates the drift from the origin and returns every sample,
// the initial state included.
func Trace(ctx context.Context, cfg TraceConfig) ([]TracePoint, error) {
	if cfg.Duration <= 0 || cfg.Dt <= 0 {
		return nil, fmt.Errorf("duration and dt must be positive, got %g and %g", cfg.Duration, cfg.Dt)
	}
	name := cfg.Integrator
	if name == "" {
		name = "rk4"
	}
	integ, err := integrators.Get(name)
	if err != nil {
		return nil, err
	}

	sys := NewDrift(cfg.Latitude)
	x := integrators.State{0, 0, cfg.East, cfg.North}
	steps := int(math.Ceil(cfg.Duration / cfg.Dt))
	out := make([]TracePoint, 0, steps+1)
	out = append(out, TracePoint{VEast: cfg.East, VNorth: cfg.North})

	for i := 0; i < steps; i++ {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return out, err
			}
		}
		t := float64(i) * cfg.Dt
		x = integ.Step(sys, x, t, cfg.Dt)
		out = append(out, TracePoint{Time: t + cfg.Dt, East: x[0], North: x[1], VEast: x[2], VNorth: x[3]})
	}
	return out, nil
}
