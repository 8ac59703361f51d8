package engine

import (
	"context"
	"fmt"
	"math"
)

const (
	// DefaultTick is the base step of the runner, 60 Hz.
	DefaultTick = 1.0 / 60.0

	MinTimeScale = 0.1
	MaxTimeScale = 3.0
)

// Runner advances a World by a fixed base tick multiplied by a time scale.
// A new runner starts paused.
type Runner struct {
	world   *World
	tick    float64
	scale   float64
	paused  bool
	stopped bool
}

// NewRunner returns a paused runner for w. A non-positive tick selects DefaultTick.
func NewRunner(w *World, tick float64) *Runner {
	if tick <= 0 || math.IsNaN(tick) {
		tick = DefaultTick
	}
	return &Runner{world: w, tick: tick, scale: 1, paused: true}
}

func (r *Runner) Start()        { r.paused = false }
func (r *Runner) Pause()        { r.paused = true }
func (r *Runner) Paused() bool  { return r.paused }
func (r *Runner) Tick() float64 { return r.tick }

// Toggle flips the pause flag and reports whether the runner is now running.
func (r *Runner) Toggle() bool {
	r.paused = !r.paused
	return !r.paused
}

// SetTimeScale clamps s to [MinTimeScale, MaxTimeScale] and applies it
// from the next step on.
func (r *Runner) SetTimeScale(s float64) float64 {
	r.scale = ClampTimeScale(s)
	return r.scale
}

// TimeScale returns the current scale factor.
func (r *Runner) TimeScale() float64 { return r.scale }

// ClampTimeScale limits s to the supported range; NaN selects 1.
func ClampTimeScale(s float64) float64 {
	if math.IsNaN(s) {
		return 1
	}
	return math.Max(MinTimeScale, math.Min(MaxTimeScale, s))
}

// Advance performs one step unless paused. It reports whether the world moved.
func (r *Runner) Advance() (bool, error) {
	if r.stopped {
		return false, ErrWorldClosed
	}
	if r.paused {
		return false, nil
	}
	if err := r.world.Step(r.tick * r.scale); err != nil {
		return false, err
	}
	return true, nil
}

// RunFor steps the world until its time reaches duration, ignoring the
// pause flag. It is the headless counterpart of repeated Advance calls.
func (r *Runner) RunFor(ctx context.Context, duration float64) (int, error) {
	if duration <= 0 {
		return 0, fmt.Errorf("duration must be positive, got %f", duration)
	}
	if r.stopped {
		return 0, ErrWorldClosed
	}

	steps := 0
	dt := r.tick * r.scale
	for r.world.Time()+dt/2 < duration {
		select {
		case <-ctx.Done():
			return steps, ctx.Err()
		default:
		}
		if err := r.world.Step(dt); err != nil {
			return steps, err
		}
		steps++
	}
	return steps, nil
}

// Stop pauses the runner permanently.
func (r *Runner) Stop() {
	r.paused = true
	r.stopped = true
}

// Stopped reports whether Stop has been called.
func (r *Runner) Stopped() bool { return r.stopped }
