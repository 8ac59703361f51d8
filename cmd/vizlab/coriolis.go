package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/vizlab/internal/config"
	"github.com/san-kum/vizlab/internal/coriolis"
	"github.com/san-kum/vizlab/internal/logging"
	"github.com/san-kum/vizlab/internal/viz"
)

// coriolisConfig merges config file, preset and explicitly set flags.
func coriolisConfig(cmd *cobra.Command) (config.CoriolisConfig, error) {
	cfg, err := loadConfig("coriolis")
	if err != nil {
		return config.CoriolisConfig{}, err
	}
	c := cfg.Coriolis
	flags := cmd.Flags()
	set := func(name string, dst *float64, v float64) {
		if flags.Changed(name) {
			*dst = v
		}
	}
	set("lat", &c.Latitude, latitude)
	set("lon", &c.Longitude, longitude)
	set("north", &c.North, north)
	set("east", &c.East, east)
	set("speed", &c.Speed, speed)
	set("dt", &c.TraceDt, traceDt)
	if flags.Changed("time") {
		c.TraceTime = traceTime
	}
	if flags.Changed("texture") {
		c.Texture = texture
	}
	if flags.Changed("integrator") {
		c.Integrator = integrator
	}
	return c, nil
}

func runGlobe(cmd *cobra.Command, args []string) error {
	c, err := coriolisConfig(cmd)
	if err != nil {
		return err
	}

	log, closer, err := logging.OpenFile(dataDir, "vizlab.log")
	if err != nil {
		return err
	}
	defer closer.Close()

	var tex *coriolis.Texture
	if c.Texture != "" && c.Texture != "none" {
		fmt.Fprintf(os.Stderr, "loading texture %s\n", c.Texture)
		tex = coriolis.LoadTextureOrWireframe(cmd.Context(), c.Texture, log)
	}

	m := viz.NewGlobeModel(c, tex, loadTheme(), dataDir, log)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func runCalc(cmd *cobra.Command, args []string) error {
	c, err := coriolisConfig(cmd)
	if err != nil {
		return err
	}

	point := coriolis.PointFromLatLon(c.Latitude, c.Longitude, 1)
	res, err := coriolis.Evaluate(point, coriolis.DefaultAxis, c.North, c.East)
	if err != nil {
		return err
	}

	lat, lon := coriolis.LatLon(point)
	fmt.Printf("point:    lat %+.2f°  lon %+.2f°\n", lat, lon)
	fmt.Printf("up:       %+.4f\n", res.Frame.Up)
	fmt.Printf("east:     %+.4f\n", res.Frame.East)
	fmt.Printf("north:    %+.4f\n", res.Frame.North)
	if res.Frame.Polar {
		fmt.Println("frame:    pole fallback")
	}
	fmt.Printf("omega:    %+.4e rad/s\n", res.Omega)
	fmt.Printf("velocity: %+.4f m/s  |v| = %.2f m/s\n", res.Velocity, res.Speed)
	fmt.Printf("coriolis: %+.4e\n", res.Acceleration)
	fmt.Printf("|a|:      %s\n", coriolis.FormatMagnitude(res.Magnitude))
	return nil
}

func runTrace(cmd *cobra.Command, args []string) error {
	c, err := coriolisConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	pts, err := coriolis.Trace(ctx, coriolis.TraceConfig{
		Latitude:   c.Latitude,
		North:      c.North,
		East:       c.East,
		Duration:   c.TraceTime,
		Dt:         c.TraceDt,
		Integrator: c.Integrator,
	})
	if err != nil {
		return err
	}

	eastKm := make([]float64, len(pts))
	northKm := make([]float64, len(pts))
	for i, p := range pts {
		eastKm[i] = p.East / 1000
		northKm[i] = p.North / 1000
	}

	graph := asciigraph.PlotMany([][]float64{eastKm, northKm},
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Precision(1),
		asciigraph.SeriesColors(asciigraph.Red, asciigraph.Blue),
		asciigraph.SeriesLegends("east (km)", "north (km)"),
		asciigraph.Caption(fmt.Sprintf("drift at %.1f° over %.1f h", c.Latitude, c.TraceTime/3600)),
	)
	fmt.Println(graph)

	last := pts[len(pts)-1]
	fmt.Printf("\nf = %.3e 1/s\n", coriolis.NewDrift(c.Latitude).F)
	fmt.Printf("final: east %.2f km  north %.2f km  v = (%.2f, %.2f) m/s\n",
		last.East/1000, last.North/1000, last.VEast, last.VNorth)
	return nil
}
