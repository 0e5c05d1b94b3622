package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/threebody/internal/config"
	"github.com/san-kum/threebody/internal/integrators"
	"github.com/san-kum/threebody/internal/metrics"
	"github.com/san-kum/threebody/internal/orbit"
)

var (
	dataDir  string
	logLevel string

	// Scenario flags. They override the preset or config file only when set.
	preset       string
	configFile   string
	names        []string
	masses       []float64
	eccentricity float64
	separation   float64
	third        []float64
	duration     float64
	policy       string
	integrator   string

	noSave   bool
	pngOut   string
	svgOut   string
	gifOut   string
	framesTo string
	outFile  string
	limit    int
	runs     int
	plotW    int
	plotH    int
	imageW   int
	imageH   int
	lyapunov bool
	axes     []string
	metric   string
	maximize bool
	trials   int
	jitterX  float64
	jitterV  float64
	seed     int64
)

// main registers the threebody commands and runs the interactive session
// when no subcommand is given. It exits with status 1 on error.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := &cobra.Command{
		Use:           "threebody",
		Short:         "planar three-body simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(logLevel)
		},
		RunE: runInteractive,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".threebody", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a scenario and store the result",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	scenarioFlags(runCmd)
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	runCmd.Flags().StringVar(&pngOut, "png", "", "also write the final trajectories as PNG")
	runCmd.Flags().StringVar(&svgOut, "svg", "", "also write the final trajectories as SVG")
	runCmd.Flags().StringVar(&gifOut, "gif", "", "also write the animation as GIF")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list the registered scenarios",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write a scenario file to start from",
		Args:  cobra.ExactArgs(1),
		RunE:  initConfig,
	}
	scenarioFlags(initCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}
	listCmd.Flags().IntVar(&limit, "limit", 20, "maximum number of runs")

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "print run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	deleteCmd := &cobra.Command{
		Use:   "delete [run_id]",
		Short: "delete a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  deleteRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot coordinates and separations in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&plotW, "width", 80, "plot width")
	plotCmd.Flags().IntVar(&plotH, "height", 10, "plot height")

	renderCmd := &cobra.Command{
		Use:   "render [run_id]",
		Short: "draw the final trajectories to PNG or SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  renderRun,
	}
	renderCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file, .png or .svg (default: body names)")
	renderCmd.Flags().IntVar(&imageW, "width", 1200, "image width")
	renderCmd.Flags().IntVar(&imageH, "height", 600, "image height")

	animateCmd := &cobra.Command{
		Use:   "animate [run_id]",
		Short: "replay a run in the terminal or export it",
		Args:  cobra.ExactArgs(1),
		RunE:  animateRun,
	}
	animateCmd.Flags().StringVar(&gifOut, "gif", "", "write an animated GIF instead")
	animateCmd.Flags().StringVar(&framesTo, "frames", "", "write numbered PNG frames to this directory instead")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "closest approaches and orbital period of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().BoolVar(&lyapunov, "lyapunov", false, "also estimate the Lyapunov exponent (runs the scenario twice)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export positions to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default: stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export the run to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default: stdout)")

	compareCmd := &cobra.Command{
		Use:   "compare [integrator1] [integrator2] ...",
		Short: "run one scenario with several integrators",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareIntegrators,
	}
	scenarioFlags(compareCmd)

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "time a scenario",
		Args:  cobra.NoArgs,
		RunE:  benchScenario,
	}
	scenarioFlags(benchCmd)
	benchCmd.Flags().IntVar(&runs, "runs", 3, "number of timed runs")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "search a parameter grid for the best value of a run metric",
		Args:  cobra.NoArgs,
		RunE:  sweepScenario,
	}
	scenarioFlags(sweepCmd)
	sweepCmd.Flags().StringArrayVar(&axes, "axis", nil, "swept parameter, param=lo:hi:n or param=v1,v2 (repeatable)")
	sweepCmd.Flags().StringVar(&metric, "metric", "closest_13", "metric to optimise ("+strings.Join(metrics.Names(), ", ")+")")
	sweepCmd.Flags().BoolVar(&maximize, "maximize", false, "pick the largest value instead of the smallest")

	batchCmd := &cobra.Command{
		Use:   "batch [script.yaml]",
		Short: "run every scenario of a YAML script concurrently",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}
	batchCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the runs")

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "perturb the third body's start and count how often the system stays bound",
		Args:  cobra.NoArgs,
		RunE:  runMonteCarlo,
	}
	scenarioFlags(monteCarloCmd)
	monteCarloCmd.Flags().IntVar(&trials, "trials", 50, "number of perturbed runs")
	monteCarloCmd.Flags().Float64Var(&jitterX, "jitter-pos", 0.1, "position perturbation per axis, AU")
	monteCarloCmd.Flags().Float64Var(&jitterV, "jitter-vel", 0.01, "velocity perturbation per axis, AU/yr")
	monteCarloCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0: from the clock)")

	interactiveCmd := &cobra.Command{
		Use:   "interactive",
		Short: "guided session with menus (default)",
		Args:  cobra.NoArgs,
		RunE:  runInteractive,
	}

	rootCmd.AddCommand(runCmd, presetsCmd, initCmd, listCmd, showCmd, deleteCmd, plotCmd, renderCmd,
		animateCmd, analyzeCmd, exportCSVCmd, exportJSONCmd, compareCmd, benchCmd, sweepCmd, batchCmd, monteCarloCmd, interactiveCmd)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func setupLogging(level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
	return nil
}

func scenarioFlags(cmd *cobra.Command) {
	presetNames := make([]string, 0, 3)
	for _, p := range config.Presets() {
		presetNames = append(presetNames, p.String())
	}
	policies := make([]string, 0, 2)
	for _, p := range orbit.Policies() {
		policies = append(policies, string(p))
	}

	f := cmd.Flags()
	f.StringVar(&preset, "preset", "", "registered scenario ("+strings.Join(presetNames, ", ")+")")
	f.StringVar(&configFile, "config", "", "scenario file (yaml)")
	f.StringSliceVar(&names, "names", nil, "body names")
	f.Float64SliceVar(&masses, "masses", nil, "masses in Earth masses")
	f.Float64Var(&eccentricity, "eccentricity", config.DefaultEccentricity, "eccentricity of the pair's orbit")
	f.Float64Var(&separation, "separation", config.DefaultSeparation, "distance of the pair (semi-major axis if eccentric), AU")
	f.Float64SliceVar(&third, "third", nil, "third body x,y,vx,vy in AU and AU/yr")
	f.Float64Var(&duration, "duration", config.DefaultDuration, "simulated years")
	f.StringVar(&policy, "policy", string(orbit.Distance), "step policy ("+strings.Join(policies, ", ")+")")
	f.StringVar(&integrator, "integrator", integrators.Default, "integrator ("+strings.Join(integrators.Names(), ", ")+")")
}

// loadScenario starts from the config file or the default scenario,
// replaces it with the preset if one is named, then applies the flags that
// were set explicitly.
func loadScenario(cmd *cobra.Command) (*config.Scenario, error) {
	sc := config.DefaultScenario()
	if configFile != "" {
		var err error
		if sc, err = config.Load(configFile); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}
	if preset != "" {
		p, err := config.ParsePreset(preset)
		if err != nil {
			return nil, err
		}
		if sc, err = config.Resolve(p, sc); err != nil {
			return nil, err
		}
	}

	f := cmd.Flags()
	if f.Changed("names") {
		sc.Names = names
	}
	if f.Changed("masses") {
		sc.Masses = masses
	}
	if f.Changed("eccentricity") {
		sc.Eccentricity = eccentricity
	}
	if f.Changed("separation") {
		sc.Separation = separation
	}
	if f.Changed("third") {
		if len(third) != 4 {
			return nil, fmt.Errorf("--third needs x,y,vx,vy, got %d values", len(third))
		}
		sc.Third = config.ThirdBody{X: third[0], Y: third[1], VX: third[2], VY: third[3]}
	}
	if f.Changed("duration") {
		sc.Duration = duration
	}
	if f.Changed("policy") {
		sc.StepPolicy = policy
	}
	if f.Changed("integrator") {
		sc.Integrator = integrator
	}

	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return sc, nil
}
