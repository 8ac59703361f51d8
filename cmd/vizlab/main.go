package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/san-kum/vizlab/internal/config"
)

var (
	dataDir    string
	configFile string
	preset     string

	// collision inputs, parsed with the same fallbacks as the form fields
	mass1     string
	velocity1 string
	mass2     string
	velocity2 string
	mode      string
	timeScale float64
	duration  float64

	// coriolis inputs
	latitude   float64
	longitude  float64
	north      float64
	east       float64
	speed      float64
	texture    string
	integrator string
	traceTime  float64
	traceDt    float64

	// export options
	kind   string
	width  int
	height int
	output string
)

// main registers every command and runs the interactive collision demo
// when no subcommand is given.
func main() {
	rootCmd := &cobra.Command{
		Use:          "vizlab",
		Short:        "collision and coriolis visualizers",
		SilenceUsage: true,
		RunE:         runCollide,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".vizlab", "data directory")

	collideCmd := &cobra.Command{
		Use:   "collide",
		Short: "interactive 1-D collision",
		Args:  cobra.NoArgs,
		RunE:  runCollide,
	}
	addCollisionFlags(collideCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a collision headless and save it",
		Args:  cobra.NoArgs,
		RunE:  runHeadless,
	}
	addCollisionFlags(runCmd)
	runCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "simulated seconds")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot momentum and energy of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export the series of a run as csv",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a run as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export a chart of a run as svg",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVar(&kind, "kind", "momentum", "momentum or energy")
	exportSVGCmd.Flags().IntVar(&width, "width", 640, "image width")
	exportSVGCmd.Flags().IntVar(&height, "height", 360, "image height")
	exportSVGCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	coriolisCmd := &cobra.Command{
		Use:   "coriolis",
		Short: "interactive coriolis globe",
		Args:  cobra.NoArgs,
		RunE:  runGlobe,
	}
	addCoriolisFlags(coriolisCmd)
	coriolisCmd.Flags().StringVar(&texture, "texture", config.DefaultTexture, "earth texture file or url, \"none\" for wireframe")
	coriolisCmd.Flags().Float64Var(&speed, "speed", config.DefaultSpeedSlider, "visual rotation slider (0-100)")

	calcCmd := &cobra.Command{
		Use:   "calc",
		Short: "print the coriolis acceleration at a point",
		Args:  cobra.NoArgs,
		RunE:  runCalc,
	}

	traceCmd := &cobra.Command{
		Use:   "trace",
		Short: "integrate a free drift on the f-plane",
		Args:  cobra.NoArgs,
		RunE:  runTrace,
	}
	traceCmd.Flags().StringVar(&integrator, "integrator", "rk4", "integrator (euler, rk4)")
	traceCmd.Flags().Float64Var(&traceTime, "time", config.DefaultTraceTime, "trace duration in seconds")
	traceCmd.Flags().Float64Var(&traceDt, "dt", config.DefaultTraceDt, "trace step in seconds")

	coriolisCmd.AddCommand(calcCmd, traceCmd)

	presetsCmd := &cobra.Command{
		Use:       "presets [collision|coriolis]",
		Short:     "list presets",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"collision", "coriolis"},
		RunE:      listPresets,
	}

	themeCmd := &cobra.Command{
		Use:   "theme [light|dark]",
		Short: "show or set the saved theme",
		Args:  cobra.MaximumNArgs(1),
		RunE:  setTheme,
	}

	rootCmd.AddCommand(collideCmd, runCmd, newSweepCmd(), listCmd, plotCmd,
		exportCSVCmd, exportJSONCmd, exportSVGCmd,
		coriolisCmd, presetsCmd, themeCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addCollisionFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&mass1, "m1", "2", "mass of box A (kg, at least 1)")
	cmd.Flags().StringVar(&velocity1, "v1", "3", "velocity of box A (m/s)")
	cmd.Flags().StringVar(&mass2, "m2", "1", "mass of box B (kg, at least 1)")
	cmd.Flags().StringVar(&velocity2, "v2", "0", "velocity of box B (m/s)")
	cmd.Flags().StringVar(&mode, "mode", "elastic", "elastic or inelastic")
	cmd.Flags().Float64Var(&timeScale, "time-scale", config.DefaultTimeScale, "simulation speed (0.1-3)")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

func addCoriolisFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.Float64Var(&latitude, "lat", 45, "latitude in degrees")
	f.Float64Var(&longitude, "lon", 0, "longitude in degrees")
	f.Float64Var(&north, "north", 10, "northward velocity (m/s)")
	f.Float64Var(&east, "east", 0, "eastward velocity (m/s)")
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
}

// loadConfig reads the optional config file, then the optional preset.
func loadConfig(demo string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	if preset != "" {
		if err := cfg.Apply(demo, preset); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func loadTheme() config.Theme {
	prefs, err := config.LoadPrefs(dataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	return prefs.Theme
}

func listPresets(cmd *cobra.Command, args []string) error {
	names := config.ListPresets(args[0])
	if len(names) == 0 {
		return fmt.Errorf("unknown demo %q", args[0])
	}
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}

func setTheme(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		fmt.Println(loadTheme())
		return nil
	}
	t, err := config.ParseTheme(args[0])
	if err != nil {
		return err
	}
	if err := config.SavePrefs(dataDir, config.Prefs{Theme: t}); err != nil {
		return err
	}
	fmt.Printf("theme: %s\n", t)
	return nil
}
