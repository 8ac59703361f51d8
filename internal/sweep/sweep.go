// Package sweep runs a grid of headless collisions concurrently, one
// collision.Context per grid point.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"sync"

	"github.com/san-kum/vizlab/internal/collision"
	"github.com/san-kum/vizlab/internal/metrics"
)

var ErrEmptyGrid = errors.New("sweep grid is empty")

// Grid varies the two masses around a base configuration. An empty mass
// list keeps the base value for that body.
type Grid struct {
	Base    collision.Params
	Masses1 []float64
	Masses2 []float64
}

// Params expands the grid in row-major order, Masses1 outermost.
func (g Grid) Params() []collision.Params {
	m1 := g.Masses1
	if len(m1) == 0 {
		m1 = []float64{g.Base.Mass1}
	}
	m2 := g.Masses2
	if len(m2) == 0 {
		m2 = []float64{g.Base.Mass2}
	}

	out := make([]collision.Params, 0, len(m1)*len(m2))
	for _, a := range m1 {
		for _, b := range m2 {
			p := g.Base
			p.Mass1, p.Mass2 = a, b
			out = append(out, p.Sanitize())
		}
	}
	return out
}

// Result is one finished grid point.
type Result struct {
	Params  collision.Params
	Steps   int
	Merges  int
	Final   metrics.Quantities
	Metrics map[string]float64
}

// Runner executes grid points on a bounded number of goroutines.
type Runner struct {
	opts    collision.Options
	workers int
}

// NewRunner uses opts for every context. A non-positive workers count
// selects GOMAXPROCS.
func NewRunner(opts collision.Options, workers int) *Runner {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Runner{opts: opts, workers: workers}
}

// Run simulates every grid point for duration seconds. Results keep the
// order of Grid.Params. The first failing point aborts the sweep.
func (r *Runner) Run(ctx context.Context, grid Grid, duration float64) ([]Result, error) {
	points := grid.Params()
	if len(points) == 0 {
		return nil, ErrEmptyGrid
	}

	results := make([]Result, len(points))
	errs := make([]error, len(points))
	sem := make(chan struct{}, r.workers)

	var wg sync.WaitGroup
	for i, p := range points {
		wg.Add(1)
		go func(idx int, p collision.Params) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			results[idx], errs[idx] = r.runOne(ctx, p, duration)
		}(i, p)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("m1=%g m2=%g: %w", points[i].Mass1, points[i].Mass2, err)
		}
	}
	return results, nil
}

func (r *Runner) runOne(ctx context.Context, p collision.Params, duration float64) (Result, error) {
	c, err := collision.New(p, r.opts)
	if err != nil {
		return Result{}, err
	}
	defer c.Close()

	steps, err := c.Run(ctx, duration)
	if err != nil {
		return Result{}, err
	}
	merges, _ := c.Merges()
	return Result{
		Params:  c.Params(),
		Steps:   steps,
		Merges:  merges,
		Final:   c.Quantities(),
		Metrics: c.Metrics(),
	}, nil
}

// Best returns the result with the smallest value of metric.
func Best(results []Result, metric string) (Result, bool) {
	best := math.Inf(1)
	var out Result
	found := false
	for _, res := range results {
		v, ok := res.Metrics[metric]
		if !ok || math.IsNaN(v) {
			continue
		}
		if v < best {
			best, out, found = v, res, true
		}
	}
	return out, found
}

// Column extracts metric from every result in order. Missing values are NaN.
func Column(results []Result, metric string) []float64 {
	out := make([]float64, len(results))
	for i, res := range results {
		v, ok := res.Metrics[metric]
		if !ok {
			v = math.NaN()
		}
		out[i] = v
	}
	return out
}
