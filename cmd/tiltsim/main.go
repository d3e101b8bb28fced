package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/tiltsim/internal/analysis"
	"github.com/san-kum/tiltsim/internal/automation"
	"github.com/san-kum/tiltsim/internal/config"
	"github.com/san-kum/tiltsim/internal/export"
	"github.com/san-kum/tiltsim/internal/gui"
	"github.com/san-kum/tiltsim/internal/sensor"
	"github.com/san-kum/tiltsim/internal/sim"
	"github.com/san-kum/tiltsim/internal/storage"
	"github.com/san-kum/tiltsim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
	logLevel   string
	logJSON    bool

	seed      int64
	frameRate int
	duration  float64
	rotation  int
	particles int
	damping   float32
	source    string
	tiltX     float64
	tiltY     float64
	stream    bool

	// Window and export surface
	winWidth  int
	winHeight int
	winDPI    float32
	svgWidth  int
	svgHeight int
	svgCanvas bool
	theme     string

	// Batch runs
	sweepParam   string
	sweepMin     float64
	sweepMax     float64
	sweepSteps   int
	ensembleRuns int
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "tiltsim",
		Short:         "tilt-driven particle simulation",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(logLevel, logJSON)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".tiltsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "log as JSON")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation and record it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)
	runCmd.Flags().BoolVar(&stream, "stream", false, "write the trace to stdout as CSV instead of saving the run")

	recordCmd := &cobra.Command{
		Use:   "record [file]",
		Short: "write the configured source as a replayable sample CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  recordSamples,
	}
	addSimFlags(recordCmd)

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted sequence of simulations",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	addSimFlags(scenarioCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run a parameter sweep",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addSimFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", automation.ParamDamping, "parameter to sweep (damping, tilt_x, tilt_y)")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 1, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 10, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 10, "number of values")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble",
		Short: "run one configuration over consecutive seeds",
		Args:  cobra.NoArgs,
		RunE:  runEnsemble,
	}
	addSimFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&ensembleRuns, "runs", 8, "number of runs")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot particle positions over time",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run trace to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and trace to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render particle trajectories as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 400, "image width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 700, "image height")
	exportSVGCmd.Flags().BoolVar(&svgCanvas, "canvas", false, "render as braille dots like the live view")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of particle motion",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSOURCE\tTILT\tDURATION\tSCREEN")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%s\t%+.0f %+.0f\t%.1fs\t%dx%d@%.0f\n",
					name,
					p.Source.Kind,
					p.Source.TiltX,
					p.Source.TiltY,
					p.Duration,
					p.Screen.WidthPx,
					p.Screen.HeightPx,
					p.Screen.XDPI,
				)
			}
			return w.Flush()
		},
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the simulation in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addSimFlags(liveCmd)
	liveCmd.Flags().StringVar(&theme, "theme", "", "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "run the simulation in a window",
		Args:  cobra.NoArgs,
		RunE:  runGUI,
	}
	addSimFlags(guiCmd)
	guiCmd.Flags().IntVar(&winWidth, "width", 540, "window width")
	guiCmd.Flags().IntVar(&winHeight, "height", 960, "window height")
	guiCmd.Flags().Float32Var(&winDPI, "dpi", 160, "window pixel density")

	rootCmd.AddCommand(runCmd, recordCmd, scenarioCmd, sweepCmd, ensembleCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd, analyzeCmd, presetsCmd, liveCmd, guiCmd)

	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "err", err)
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed for initial positions")
	cmd.Flags().IntVar(&frameRate, "fps", config.DefaultFrameRate, "frame rate")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration in seconds")
	cmd.Flags().IntVar(&rotation, "rotation", 0, "screen rotation in degrees (0, 90, 180, 270)")
	cmd.Flags().IntVar(&particles, "particles", 5, "number of particles")
	cmd.Flags().Float32Var(&damping, "damping", 5, "acceleration damping factor")
	cmd.Flags().StringVar(&source, "source", config.SourceTilt, "sensor source (tilt, circle, shake, replay)")
	cmd.Flags().Float64Var(&tiltX, "tilt-x", 0, "tilt about the device y axis in degrees")
	cmd.Flags().Float64Var(&tiltY, "tilt-y", 0, "tilt about the device x axis in degrees")
}

func setupLogging(level string, asJSON bool) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	opts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if asJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
	return nil
}

// loadConfig starts from defaults, applies the preset, then the config
// file, then any flag set on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("fps") {
		cfg.FrameRate = frameRate
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("rotation") {
		cfg.Rotation = rotation
	}
	if flags.Changed("particles") {
		cfg.Particles = particles
	}
	if flags.Changed("damping") {
		cfg.Damping = damping
	}
	if flags.Changed("source") {
		cfg.Source.Kind = source
	}
	if flags.Changed("tilt-x") {
		cfg.Source.TiltX = tiltX
	}
	if flags.Changed("tilt-y") {
		cfg.Source.TiltY = tiltY
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	// A replay runs for its whole recording unless --time says otherwise.
	if !flags.Changed("time") {
		if err := cfg.FitReplay(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func newHost(cfg *config.Config) (*sim.Host, error) {
	opts, err := cfg.HostOptions()
	if err != nil {
		return nil, err
	}
	opts.Logger = slog.Default().With("component", "host")
	return sim.NewHost(opts)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if stream {
		return streamSimulation(ctx, cfg)
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	slog.Info("running simulation",
		"source", cfg.Source.Kind,
		"particles", cfg.Particles,
		"fps", cfg.FrameRate,
		"duration", cfg.Duration,
	)
	start := time.Now()

	result, err := automation.Execute(ctx, cfg, slog.Default().With("component", "host"))
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(automation.Info(cfg, preset), result)
	if err != nil {
		return err
	}

	slog.Info("run complete",
		"id", runID,
		"frames", len(result.Frames),
		"samples", result.Samples,
		"elapsed", elapsed,
	)

	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("frames: %d\n", len(result.Frames))
	fmt.Println("\nmetrics:")
	printMetrics(result.Metrics)

	return nil
}

func streamSimulation(ctx context.Context, cfg *config.Config) error {
	tw := storage.NewTraceWriter(os.Stdout)
	var writeErr error
	err := automation.Stream(ctx, cfg, slog.Default().With("component", "host"), func(f sim.Frame) bool {
		writeErr = tw.WriteFrame(f)
		return writeErr == nil
	})
	if err != nil {
		return err
	}
	if writeErr != nil {
		return writeErr
	}
	slog.Info("stream complete", "frames", tw.Frames())
	return nil
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, m[name])
	}
}

func runScenario(cmd *cobra.Command, args []string) error {
	base, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := automation.RunScenario(ctx, sc, base, st, slog.Default())
	for _, r := range results {
		fmt.Printf("%s: %s\n", r.Name, r.RunID)
		printMetrics(r.Result.Metrics)
	}
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	base, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sweep := automation.ParameterSweep{Param: sweepParam, Min: sweepMin, Max: sweepMax, NumSteps: sweepSteps}
	results, err := automation.RunSweep(ctx, sweep, base, slog.Default())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tMEAN SPEED\tMAX SPEED\tWALL CONTACT\tSPREAD\n", strings.ToUpper(sweepParam))
	for _, r := range results {
		fmt.Fprintf(w, "%.3f\t%.4f\t%.4f\t%.3f\t%.4f\n",
			r.ParamValue,
			r.Metrics["mean_speed"],
			r.Metrics["max_speed"],
			r.Metrics["wall_contact"],
			r.Metrics["spread"],
		)
	}
	return w.Flush()
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	base, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	results, err := automation.NewEnsemble(base, ensembleRuns, base.Seed).Run(ctx)
	if err != nil {
		return err
	}
	slog.Info("ensemble complete", "runs", len(results), "elapsed", time.Since(start))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tMEAN\tSTDDEV\tMIN\tMAX")
	for _, s := range automation.Summarize(results) {
		fmt.Fprintf(w, "%s\t%.4f\t%.4f\t%.4f\t%.4f\n", s.Name, s.Mean, s.StdDev, s.Min, s.Max)
	}
	return w.Flush()
}

func recordSamples(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if strings.EqualFold(cfg.Source.Kind, config.SourceReplay) {
		return fmt.Errorf("cannot record a replay source")
	}
	src, err := cfg.NewSource()
	if err != nil {
		return err
	}

	steps := int(cfg.Duration * float64(cfg.FrameRate))
	rows := make([]sensor.SampleRow, 0, steps+1)
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(cfg.FrameRate)
		v := src.Sample(t)
		rows = append(rows, sensor.SampleRow{Time: t, X: v.X, Y: v.Y, Z: v.Z})
	}

	if err := sensor.WriteSamples(args[0], rows); err != nil {
		return err
	}
	slog.Info("samples written", "path", args[0], "rows", len(rows), "source", cfg.Source.Kind)
	return nil
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
	fmt.Fprintln(w, "ID\tSOURCE\tTIME\tDURATION\tFPS\tPARTICLES\tROT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%d\t%d\t%d\n",
			run.ID,
			run.Source,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.FrameRate,
			run.Particles,
			run.Rotation,
		)
	}

	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, []storage.Track, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	rows, err := st.LoadTrace(runID)
	if err != nil {
		return nil, nil, err
	}
	tracks := storage.Tracks(rows)
	if len(tracks) == 0 || len(tracks[0].Points) == 0 {
		return nil, nil, fmt.Errorf("no data for run %s", runID)
	}
	return meta, tracks, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, tracks, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("source: %s\n", meta.Source)
	fmt.Printf("frames: %d\n\n", len(tracks[0].Points))

	maxPlots := 3
	if len(tracks) < maxPlots {
		maxPlots = len(tracks)
	}

	for _, tr := range tracks[:maxPlots] {
		xs, ys := axes(tr)
		for _, series := range []struct {
			name string
			data []float64
		}{{"x", xs}, {"y", ys}} {
			graph := asciigraph.Plot(series.data,
				asciigraph.Height(10),
				asciigraph.Width(80),
				asciigraph.Caption(fmt.Sprintf("particle %d %s (m) vs time", tr.Particle, series.name)),
			)
			fmt.Println(graph)
			fmt.Println()
		}
	}

	return nil
}

func axes(tr storage.Track) (xs, ys []float64) {
	xs = make([]float64, len(tr.Points))
	ys = make([]float64, len(tr.Points))
	for i, p := range tr.Points {
		xs[i] = float64(p.X)
		ys[i] = float64(p.Y)
	}
	return xs, ys
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	rows, err := st.LoadTrace(args[0])
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no data to export")
	}
	return storage.ExportCSV(os.Stdout, rows)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	rows, err := st.LoadTrace(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, meta, rows)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	meta, tracks, err := loadRun(args[0])
	if err != nil {
		return err
	}
	var svg string
	if svgCanvas {
		c := export.TracksToCanvas(tracks, meta.Bounds, svgWidth/8, svgHeight/16)
		svg = export.CanvasToSVG(c, 4, export.LeadColor)
	} else {
		svg = export.TrajectoriesToSVG(tracks, meta.Bounds, svgWidth, svgHeight)
	}
	if svg == "" {
		return fmt.Errorf("nothing to render for run %s", meta.ID)
	}
	_, err = fmt.Fprintln(os.Stdout, svg)
	return err
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, tracks, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("source: %s\n\n", meta.Source)

	rate := float64(meta.FrameRate)
	xs, _ := axes(tracks[0])
	ps := analysis.PowerSpectrum(xs)
	plotData := ps
	if len(plotData) > 100 {
		plotData = plotData[:100]
	}
	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum (particle 0 x)"),
	)
	fmt.Println(graph)
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARTICLE\tX HZ\tY HZ")
	for _, tr := range tracks {
		xs, ys := axes(tr)
		fmt.Fprintf(w, "%d\t%.3f\t%.3f\n",
			tr.Particle,
			analysis.DominantFrequency(xs, rate),
			analysis.DominantFrequency(ys, rate),
		)
	}
	return w.Flush()
}

// liveSource returns nil for a constant tilt so the host starts in manual
// mode at that tilt.
func liveSource(cfg *config.Config) (sensor.Source, error) {
	if strings.EqualFold(cfg.Source.Kind, config.SourceTilt) {
		return nil, nil
	}
	return cfg.NewSource()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	host, err := newHost(cfg)
	if err != nil {
		return err
	}
	src, err := liveSource(cfg)
	if err != nil {
		return err
	}

	m := viz.NewModel(host, viz.Options{
		Source:       src,
		TiltX:        cfg.Source.TiltX,
		TiltY:        cfg.Source.TiltY,
		BallDiameter: cfg.Screen.BallDiameter,
		Theme:        theme,
	})
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	host, err := newHost(cfg)
	if err != nil {
		return err
	}
	src, err := liveSource(cfg)
	if err != nil {
		return err
	}

	return gui.Run(host, gui.Options{
		Width:        int32(winWidth),
		Height:       int32(winHeight),
		FPS:          int32(cfg.FrameRate),
		DPI:          winDPI,
		BallDiameter: cfg.Screen.BallDiameter,
		Source:       src,
		TiltX:        cfg.Source.TiltX,
		TiltY:        cfg.Source.TiltY,
		Logger:       slog.Default().With("component", "gui"),
	})
}
