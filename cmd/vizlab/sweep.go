package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/vizlab/internal/collision"
	"github.com/san-kum/vizlab/internal/engine"
	"github.com/san-kum/vizlab/internal/logging"
	"github.com/san-kum/vizlab/internal/sweep"
)

var (
	sweepMasses1 []float64
	sweepMasses2 []float64
	sweepMetric  string
	sweepWorkers int
)

func newSweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "run a grid of collisions over masses",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addCollisionFlags(cmd)
	cmd.Flags().Float64Var(&duration, "time", 5, "simulated seconds per point")
	cmd.Flags().Float64SliceVar(&sweepMasses1, "m1-values", nil, "masses of box A (default: --m1)")
	cmd.Flags().Float64SliceVar(&sweepMasses2, "m2-values", []float64{1, 2, 3, 4, 6, 8, 10}, "masses of box B")
	cmd.Flags().StringVar(&sweepMetric, "metric", "energy_loss", "metric to report")
	cmd.Flags().IntVar(&sweepWorkers, "workers", 0, "concurrent runs (default GOMAXPROCS)")
	return cmd
}

func runSweep(cmd *cobra.Command, args []string) error {
	base, track, dur, err := collisionConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	r := sweep.NewRunner(collision.Options{
		Log:   logging.New(os.Stderr),
		World: engine.WorldConfig{TrackLength: track},
	}, sweepWorkers)
	results, err := r.Run(ctx, sweep.Grid{Base: base, Masses1: sweepMasses1, Masses2: sweepMasses2}, dur)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "M1\tM2\tMERGES\tP\tKE\t%s\n", sweepMetric)
	for _, res := range results {
		fmt.Fprintf(w, "%.2f\t%.2f\t%d\t%.2f\t%.2f\t%.4f\n",
			res.Params.Mass1, res.Params.Mass2, res.Merges,
			res.Final.TotalMomentum, res.Final.TotalKineticEnergy,
			res.Metrics[sweepMetric])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(results) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(sweep.Column(results, sweepMetric),
			asciigraph.Height(8),
			asciigraph.Width(60),
			asciigraph.Precision(3),
			asciigraph.Caption(fmt.Sprintf("%s per grid point (%s)", sweepMetric, base.Mode)),
		))
	}
	if best, ok := sweep.Best(results, sweepMetric); ok {
		fmt.Printf("\nlowest %s: m1=%.2f m2=%.2f (%.4f)\n",
			sweepMetric, best.Params.Mass1, best.Params.Mass2, best.Metrics[sweepMetric])
	}
	return nil
}
