package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/san-kum/vizlab/internal/collision"
	"github.com/san-kum/vizlab/internal/engine"
	"github.com/san-kum/vizlab/internal/export"
	"github.com/san-kum/vizlab/internal/logging"
	"github.com/san-kum/vizlab/internal/series"
	"github.com/san-kum/vizlab/internal/storage"
	"github.com/san-kum/vizlab/internal/viz"
)

// collisionConfig merges config file, preset and explicitly set flags.
func collisionConfig(cmd *cobra.Command) (collision.Params, float64, float64, error) {
	cfg, err := loadConfig("collision")
	if err != nil {
		return collision.Params{}, 0, 0, err
	}
	c := cfg.Collision
	flags := cmd.Flags()
	if flags.Changed("m1") {
		c.Mass1 = collision.ParseMass(mass1)
	}
	if flags.Changed("v1") {
		c.Velocity1 = collision.ParseVelocity(velocity1)
	}
	if flags.Changed("m2") {
		c.Mass2 = collision.ParseMass(mass2)
	}
	if flags.Changed("v2") {
		c.Velocity2 = collision.ParseVelocity(velocity2)
	}
	if flags.Changed("mode") {
		c.Mode = mode
	}
	if flags.Changed("time-scale") {
		c.TimeScale = timeScale
	}
	if flags.Changed("time") {
		c.Duration = duration
	}
	params, err := collision.FromConfig(c)
	if err != nil {
		return collision.Params{}, 0, 0, err
	}
	return params, c.TrackLength, c.Duration, nil
}

func runCollide(cmd *cobra.Command, args []string) error {
	params, _, _, err := collisionConfig(cmd)
	if err != nil {
		return err
	}

	log, closer, err := logging.OpenFile(dataDir, "vizlab.log")
	if err != nil {
		return err
	}
	defer closer.Close()

	m, err := viz.NewCollideModel(params, loadTheme(), dataDir, log)
	if err != nil {
		return err
	}
	defer m.Context().Close()

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func runHeadless(cmd *cobra.Command, args []string) error {
	params, track, dur, err := collisionConfig(cmd)
	if err != nil {
		return err
	}
	if dur <= 0 {
		return fmt.Errorf("duration must be positive, got %g", dur)
	}

	log := logging.New(os.Stderr)
	c, err := collision.New(params, collision.Options{
		Log:   log,
		World: engine.WorldConfig{TrackLength: track},
	})
	if err != nil {
		return err
	}
	defer c.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	steps, err := c.Run(ctx, dur)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	merges, _ := c.Merges()
	meta := storage.RunMetadata{
		Demo:      "collision",
		Timestamp: time.Now(),
		Mass1:     params.Mass1,
		Velocity1: params.Velocity1,
		Mass2:     params.Mass2,
		Velocity2: params.Velocity2,
		Mode:      params.Mode.String(),
		TimeScale: c.TimeScale(),
		Tick:      engine.DefaultTick,
		Duration:  c.Time(),
		Steps:     steps,
		Bodies:    collision.Tracked(),
		Merges:    merges,
		Metrics:   c.Metrics(),
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(meta, c.Series())
	if err != nil {
		return err
	}

	q := c.Quantities()
	fmt.Printf("run: %s\n", runID)
	fmt.Printf("steps: %d in %v\n", steps, elapsed.Round(time.Millisecond))
	fmt.Printf("final: p=%.2f kg m/s  KE=%.2f J  merges=%d\n\n", q.TotalMomentum, q.TotalKineticEnergy, merges)
	return printMetrics(os.Stdout, meta.Metrics)
}

func printMetrics(out io.Writer, ms map[string]float64) error {
	names := make([]string, 0, len(ms))
	for name := range ms {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tVALUE")
	for _, name := range names {
		fmt.Fprintf(w, "%s\t%.6g\n", name, ms[name])
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tMODE\tM1\tV1\tM2\tV2\tDURATION\tMERGES")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%.2f\t%.2f\t%.2f\t%.2fs\t%d\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Mode,
			run.Mass1, run.Velocity1,
			run.Mass2, run.Velocity2,
			run.Duration,
			run.Merges,
		)
	}
	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, *series.Recorder, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	rec, err := st.LoadSeries(runID)
	if err != nil {
		return nil, nil, err
	}
	return meta, rec, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, rec, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if rec.Len() == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("mode: %s\n", meta.Mode)
	fmt.Printf("samples: %d\n\n", rec.Len())

	palette := viz.ThemeFor(loadTheme()).Chart()
	for _, k := range []series.Kind{series.Momentum, series.Energy} {
		chart := series.NewChart(k, rec, palette, 80, 10)
		fmt.Println(chart.Render())
		fmt.Println()
	}
	return printMetrics(os.Stdout, meta.Metrics)
}

// outputWriter opens the --output file, or stdout when none is given.
func outputWriter() (io.Writer, func() error, error) {
	if output == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(output)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	w, done, err := outputWriter()
	if err != nil {
		return err
	}
	if err := storage.New(dataDir).CopyCSV(args[0], w); err != nil {
		done()
		return err
	}
	return done()
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, rec, err := loadRun(args[0])
	if err != nil {
		return err
	}
	w, done, err := outputWriter()
	if err != nil {
		return err
	}
	if err := storage.ExportJSON(w, *meta, rec); err != nil {
		done()
		return err
	}
	return done()
}

func exportSVG(cmd *cobra.Command, args []string) error {
	var k series.Kind
	switch kind {
	case "momentum":
		k = series.Momentum
	case "energy":
		k = series.Energy
	default:
		return fmt.Errorf("unknown kind %q (want momentum or energy)", kind)
	}

	_, rec, err := loadRun(args[0])
	if err != nil {
		return err
	}
	w, done, err := outputWriter()
	if err != nil {
		return err
	}
	if err := export.WriteSeries(w, rec, k, width, height, viz.ThemeFor(loadTheme()).SVG()); err != nil {
		done()
		return err
	}
	return done()
}
