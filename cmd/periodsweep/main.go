package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/periodsweep/internal/analysis"
	"github.com/san-kum/periodsweep/internal/config"
	"github.com/san-kum/periodsweep/internal/dynamo"
	"github.com/san-kum/periodsweep/internal/export"
	"github.com/san-kum/periodsweep/internal/storage"
	"github.com/san-kum/periodsweep/internal/viz"
)

var (
	dataDir string
	// Sweep parameters; applied only when set on the command line.
	dt              float64
	orbits          int
	samples         int
	minVelocity     float64
	maxVelocity     float64
	velocityRange   float64
	skipMidpoint    bool
	workers         int
	maxSteps        int
	collisionRadius float64
	angleMode       string
	// Config sources
	configFile string
	preset     string
	// Outputs
	outFile     string
	metricsAddr string
	useTUI      bool
	quiet       bool
	// Plot options
	plotOrbit  int
	plotWidth  int
	plotHeight int
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "periodsweep",
		Short:         "orbital period sweep over tangential launch velocity",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a velocity sweep",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addSweepFlags(runCmd)
	runCmd.Flags().StringVar(&outFile, "out", "", "also write the period table to this CSV file")
	runCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address during the sweep")
	runCmd.Flags().BoolVar(&useTUI, "tui", false, "show the terminal progress view")
	runCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not print a line per sample")

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "integrate one circular orbit and compare with Kepler",
		Args:  cobra.NoArgs,
		RunE:  checkCircular,
	}
	addSweepFlags(checkCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "per-sample period summary",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot orbit completion time against launch velocity",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&plotOrbit, "orbit", 1, "orbit to plot (1-based)")
	plotCmd.Flags().IntVar(&plotWidth, "width", 80, "plot width")
	plotCmd.Flags().IntVar(&plotHeight, "height", 15, "plot height")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "write a run's period table to stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "write a run and its samples to stdout as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "write the completion plot of one orbit to stdout as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().IntVar(&plotOrbit, "orbit", 1, "orbit to plot (1-based)")
	exportSVGCmd.Flags().IntVar(&plotWidth, "width", 800, "image width")
	exportSVGCmd.Flags().IntVar(&plotHeight, "height", 400, "image height")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted sequence of sweeps",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE:  listPresets,
	}

	rootCmd.AddCommand(runCmd, checkCmd, listCmd, showCmd, plotCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd, scenarioCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSweepFlags(cmd *cobra.Command) {
	def := config.DefaultConfig()
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().Float64Var(&dt, "dt", def.Dt, "timestep (s)")
	cmd.Flags().IntVar(&orbits, "orbits", def.Orbits, "orbits to time per sample")
	cmd.Flags().IntVar(&samples, "samples", def.Sweep.Samples, "sweep intervals; indices run 0..samples")
	cmd.Flags().Float64Var(&minVelocity, "min-velocity", def.Sweep.MinVelocity, "lowest tangential velocity (m/s)")
	cmd.Flags().Float64Var(&maxVelocity, "max-velocity", def.Sweep.MaxVelocity, "highest tangential velocity (m/s)")
	cmd.Flags().Float64Var(&velocityRange, "range", config.DefaultVelocityRange, "sweep ±range × circular velocity")
	cmd.Flags().BoolVar(&skipMidpoint, "skip-midpoint", def.Sweep.SkipMidpoint, "skip the middle index")
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel samples (0 = number of CPUs)")
	cmd.Flags().IntVar(&maxSteps, "max-steps", def.MaxSteps, "step limit per sample (0 = unlimited)")
	cmd.Flags().Float64Var(&collisionRadius, "collision-radius", def.CollisionRadius, "collision distance from the primary (m, 0 = off)")
	cmd.Flags().StringVar(&angleMode, "angle-mode", string(def.AngleMode), "swept angle measure: unsigned or signed")
}

// loadConfig layers defaults, preset, config file and explicitly set flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			names := config.ListPresets()
			sort.Strings(names)
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, names)
		}
	}

	if configFile != "" {
		loaded, err := config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("orbits") {
		cfg.Orbits = orbits
	}
	if flags.Changed("max-steps") {
		cfg.MaxSteps = maxSteps
	}
	if flags.Changed("collision-radius") {
		cfg.CollisionRadius = collisionRadius
	}
	if flags.Changed("angle-mode") {
		cfg.AngleMode = dynamo.AngleMode(angleMode)
	}
	if flags.Changed("samples") {
		cfg.Sweep.Samples = samples
	}
	if flags.Changed("range") {
		cfg.SetSymmetricRange(velocityRange)
	}
	if flags.Changed("min-velocity") {
		cfg.Sweep.MinVelocity = minVelocity
	}
	if flags.Changed("max-velocity") {
		cfg.Sweep.MaxVelocity = maxVelocity
	}
	if flags.Changed("skip-midpoint") {
		cfg.Sweep.SkipMidpoint = skipMidpoint
	}
	if flags.Changed("workers") {
		cfg.Sweep.Workers = workers
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tSAMPLES\tORBITS\tDT\tELAPSED\tSTATUS")

	for _, run := range runs {
		status := "complete"
		if !run.Complete {
			status = "partial"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.4fs\t%s\t%s\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Summary.Samples,
			run.Config.Orbits,
			run.Config.Dt,
			run.Summary.Elapsed.Round(time.Millisecond),
			status,
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	sim := meta.Config.SimConfig()
	fmt.Fprintf(out, "run: %s (%s)\n", meta.ID, meta.Name)
	fmt.Fprintf(out, "dt: %g s, orbits: %d, angle: %s\n\n", sim.Dt, sim.Orbits, sim.AngleMode)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "INDEX\tV_TAN\tOUTCOME\tORBITS\tMEAN PERIOD\tSTDDEV\tKEPLER\tRESIDUAL\tSTEPS\t")
	for _, s := range samples {
		stats := analysis.Summarize(s)
		kepler := analysis.KeplerPeriod(sim, s.Velocity)
		fmt.Fprintf(w, "%d\t%.3f\t%s\t%d/%d\t%s\t%s\t%s\t%.2e\t%d\t\n",
			s.Index,
			s.Velocity,
			s.Outcome,
			stats.Orbits, len(s.Times),
			viz.FormatTime(stats.Mean),
			viz.FormatTime(stats.StdDev),
			viz.FormatTime(kepler),
			(stats.Mean-kepler)/kepler,
			s.Steps,
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	counts := analysis.OutcomeCounts(samples)
	outcomes := make([]dynamo.Outcome, 0, len(counts))
	for o := range counts {
		outcomes = append(outcomes, o)
	}
	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i] < outcomes[j] })
	fmt.Fprintln(out)
	for _, o := range outcomes {
		fmt.Fprintf(out, "%s %d\n", viz.MetricLabel.Render(o.String()), counts[o])
	}
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}

	if plotOrbit < 1 || plotOrbit > meta.Config.Orbits {
		return fmt.Errorf("orbit must be in 1..%d", meta.Config.Orbits)
	}

	graph := analysis.PlotCompletion(samples, plotOrbit-1, plotWidth, plotHeight)
	if graph == "" {
		return fmt.Errorf("no sample completed orbit %d", plotOrbit)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run: %s\n", meta.ID)
	fmt.Fprintf(out, "samples: %d\n\n", len(samples))
	fmt.Fprintln(out, graph)
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}

	return storage.WriteCSV(cmd.OutOrStdout(), meta.Config.Orbits, samples)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}

	return storage.ExportJSON(cmd.OutOrStdout(), meta, samples)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}

	if plotOrbit < 1 || plotOrbit > meta.Config.Orbits {
		return fmt.Errorf("orbit must be in 1..%d", meta.Config.Orbits)
	}

	svg := export.CompletionToSVG(samples, plotOrbit-1, plotWidth, plotHeight, "#00ff88")
	if svg == "" {
		return fmt.Errorf("not enough samples completed orbit %d", plotOrbit)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), svg)
	return err
}

func listPresets(cmd *cobra.Command, args []string) error {
	names := config.ListPresets()
	sort.Strings(names)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDT\tORBITS\tSAMPLES\tV_TAN RANGE\tCOLLISION")
	for _, name := range names {
		cfg := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%g\t%d\t%d\t%.1f..%.1f\t%g\n",
			name, cfg.Dt, cfg.Orbits, cfg.Sweep.Samples,
			cfg.Sweep.MinVelocity, cfg.Sweep.MaxVelocity, cfg.CollisionRadius)
	}
	return w.Flush()
}
