package collision

import (
	"context"
	"errors"
	"log/slog"

	"github.com/san-kum/vizlab/internal/engine"
	"github.com/san-kum/vizlab/internal/metrics"
	"github.com/san-kum/vizlab/internal/series"
)

// ErrClosed is returned by operations on a closed Context.
var ErrClosed = errors.New("collision context closed")

// Options configure everything a Context builds besides the user inputs.
type Options struct {
	Log         *slog.Logger
	World       engine.WorldConfig
	Tick        float64
	Palette     series.Palette
	ChartWidth  int
	ChartHeight int
}

func (o Options) withDefaults() Options {
	if o.Log == nil {
		o.Log = slog.Default()
	}
	if o.World.TrackLength <= 0 {
		o.World = engine.DefaultWorldConfig()
	}
	if o.ChartWidth <= 0 {
		o.ChartWidth = 60
	}
	if o.ChartHeight <= 0 {
		o.ChartHeight = 8
	}
	return o
}

// Context owns one run of the collision demo: the world, its runner, the
// merge policy, the recorder and both charts. Every object it creates is
// released by Close, and Reset always closes before rebuilding.
type Context struct {
	params Params
	opts   Options
	log    *slog.Logger

	world    *engine.World
	runner   *engine.Runner
	merger   *Merger
	rec      *series.Recorder
	momentum *series.Chart
	energy   *series.Chart
	metrics  []metrics.Metric

	quantities metrics.Quantities
	lastMerge  Outcome
	closed     bool
}

// Tracked returns the ids of the two boxes in display order.
func Tracked() []engine.BodyID { return []engine.BodyID{BodyA, BodyB} }

// New builds a paused context and records the t = 0 sample.
func New(params Params, opts Options) (*Context, error) {
	c := &Context{opts: opts.withDefaults()}
	c.log = c.opts.Log
	if err := c.build(params); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Context) build(params Params) error {
	params = params.Sanitize()
	track := c.opts.World.TrackLength

	world := engine.NewWorld(c.opts.World)
	boxes := []engine.BoxSpec{
		{ID: BodyA, Mass: params.Mass1, Velocity: params.Velocity1, Position: track * 0.25, Restitution: params.Mode.Restitution()},
		{ID: BodyB, Mass: params.Mass2, Velocity: params.Velocity2, Position: track * 0.75, Restitution: params.Mode.Restitution()},
	}
	for _, spec := range boxes {
		if err := world.AddBox(spec); err != nil {
			world.Close()
			return err
		}
	}

	c.params = params
	c.world = world
	c.runner = engine.NewRunner(world, c.opts.Tick)
	c.runner.SetTimeScale(params.TimeScale)
	c.merger = NewMerger(world, BodyA, BodyB, params.Mode, c.log)
	c.rec = series.NewRecorder(Tracked())
	c.momentum = series.NewChart(series.Momentum, c.rec, c.opts.Palette, c.opts.ChartWidth, c.opts.ChartHeight)
	c.energy = series.NewChart(series.Energy, c.rec, c.opts.Palette, c.opts.ChartWidth, c.opts.ChartHeight)
	c.metrics = metrics.Defaults()
	c.lastMerge = NoMerge
	c.closed = false

	world.OnCollisionStart(func(ev engine.CollisionEvent) { c.merger.OnCollision(ev) })
	world.OnAfterStep(func(ev engine.StepEvent) {
		if out := c.merger.OnStepComplete(); out != NoMerge {
			c.lastMerge = out
		}
	})
	world.OnAfterStep(func(ev engine.StepEvent) { c.record(ev.Time) })

	c.record(0)
	c.log.Info("collision setup",
		"m1", params.Mass1, "v1", params.Velocity1,
		"m2", params.Mass2, "v2", params.Velocity2,
		"mode", params.Mode, "time_scale", c.runner.TimeScale())
	return nil
}

func (c *Context) record(t float64) {
	c.quantities = metrics.Measure(c.world, Tracked())
	c.rec.Record(t, c.quantities)
	for _, m := range c.metrics {
		m.Observe(c.quantities, t)
	}
}

// Start resumes stepping.
func (c *Context) Start() {
	if !c.closed {
		c.runner.Start()
	}
}

// Pause stops stepping. Rendering is unaffected.
func (c *Context) Pause() {
	if !c.closed {
		c.runner.Pause()
	}
}

// Toggle flips the pause flag and reports whether the context is running.
func (c *Context) Toggle() bool {
	if c.closed {
		return false
	}
	return c.runner.Toggle()
}

// SetTimeScale clamps s to the supported range, applies it at once and
// keeps it for the next Reset.
func (c *Context) SetTimeScale(s float64) float64 {
	s = engine.ClampTimeScale(s)
	c.params.TimeScale = s
	if !c.closed {
		c.runner.SetTimeScale(s)
	}
	return s
}

// Tick advances one runner tick unless paused and reports whether the world moved.
func (c *Context) Tick() (bool, error) {
	if c.closed {
		return false, ErrClosed
	}
	return c.runner.Advance()
}

// Run steps the context headlessly until its time reaches duration.
func (c *Context) Run(ctx context.Context, duration float64) (int, error) {
	if c.closed {
		return 0, ErrClosed
	}
	c.runner.Start()
	defer c.runner.Pause()
	return c.runner.RunFor(ctx, duration)
}

// Reset closes the current run and builds a fresh, paused one from params.
func (c *Context) Reset(params Params) error {
	c.Close()
	if err := c.build(params); err != nil {
		return err
	}
	c.log.Info("collision reset")
	return nil
}

// Restyle rebuilds the run with a new chart palette. Like the theme toggle
// it starts over from the current params.
func (c *Context) Restyle(p series.Palette) error {
	c.opts.Palette = p
	return c.Reset(c.params)
}

// Close stops the runner, detaches every listener, removes all bodies and
// shapes and closes both charts. It is idempotent.
func (c *Context) Close() {
	if c.closed {
		return
	}
	c.runner.Stop()
	c.world.Close()
	c.momentum.Close()
	c.energy.Close()
	c.merger.Reset()
	c.closed = true
}

func (c *Context) Closed() bool { return c.closed }

// Quantities returns the bookkeeping of the last recorded state.
func (c *Context) Quantities() metrics.Quantities { return c.quantities }

// Series returns the recorder of the current run.
func (c *Context) Series() *series.Recorder { return c.rec }

// Charts returns the momentum and energy charts of the current run.
func (c *Context) Charts() (*series.Chart, *series.Chart) { return c.momentum, c.energy }

func (c *Context) Time() float64 { return c.world.Time() }

func (c *Context) Paused() bool { return c.runner.Paused() }

func (c *Context) TimeScale() float64 { return c.runner.TimeScale() }

func (c *Context) Params() Params { return c.params }

// Bodies returns the boxes present in the world.
func (c *Context) Bodies() []engine.BodyState { return c.world.Bodies() }

// World exposes the engine world, mainly for rendering.
func (c *Context) World() *engine.World { return c.world }

// Merges returns the number of merges applied in this run and the state of
// the merge policy.
func (c *Context) Merges() (int, MergeState) { return c.merger.Applied(), c.merger.State() }

// LastMerge reports the most recent merge outcome of this run.
func (c *Context) LastMerge() Outcome { return c.lastMerge }

// Metrics returns the run metrics by name.
func (c *Context) Metrics() map[string]float64 { return metrics.Collect(c.metrics) }
