package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/slrsim/internal/analysis"
	"github.com/san-kum/slrsim/internal/automation"
	"github.com/san-kum/slrsim/internal/config"
	"github.com/san-kum/slrsim/internal/control"
	"github.com/san-kum/slrsim/internal/experiment"
	"github.com/san-kum/slrsim/internal/export"
	"github.com/san-kum/slrsim/internal/metrics"
	"github.com/san-kum/slrsim/internal/observability"
	"github.com/san-kum/slrsim/internal/optim"
	"github.com/san-kum/slrsim/internal/physics"
	"github.com/san-kum/slrsim/internal/projection"
	"github.com/san-kum/slrsim/internal/render"
	"github.com/san-kum/slrsim/internal/storage"
	"github.com/san-kum/slrsim/internal/viz"
)

const (
	svgWidth       = 800
	svgHeight      = 400
	svgSettleLimit = 10000
)

var (
	configFile  string
	preset      string
	dataDir     string
	knotsFile   string
	logLevel    string
	logFormat   string
	logFile     string
	seed        int64
	metricsFile string

	theme     string
	startup   bool
	maxFrames int
	runName   string
	series    []string
	svgOut    string
	plotWidth int
	runs      int
	outFile   string
	tuneGrid  []string
	objective string
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "slrsim",
		Short:        "interactive sea-level-rise fluid chart",
		SilenceUsage: true,
		RunE:         runChart,
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (yaml)")
	rootCmd.PersistentFlags().StringVarP(&preset, "preset", "p", "", "physics preset")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	rootCmd.PersistentFlags().StringVar(&knotsFile, "knots", "", "projection knots file (yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", config.DefaultLogFormat, "log format (json|text)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "log file (chart default: <data>/slrsim.log)")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "random seed for particles (0 = time based)")
	rootCmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "", "write prometheus metrics here on exit")

	chartCmd := &cobra.Command{
		Use:   "chart",
		Short: "run the interactive chart",
		RunE:  runChart,
	}
	for _, c := range []*cobra.Command{rootCmd, chartCmd} {
		c.Flags().StringVar(&theme, "theme", "", "color theme ("+fmt.Sprint(viz.ThemeNames())+")")
	}

	registry := experiment.NewRegistry()
	sweepCmd := &cobra.Command{
		Use:   "sweep [script]",
		Short: "run a scripted pointer sweep headless and store the trace",
		Long: "Plays a named script (" + fmt.Sprint(registry.Names()) + ") or an inline one such as\n" +
			"\"move:0.2,wait:30,move:0.8,wait:60,leave\" and stores the per-frame trace.",
		Args: cobra.MaximumNArgs(1),
		RunE: runSweep,
	}
	sweepCmd.Flags().BoolVar(&startup, "startup", false, "play the startup ripple first")
	sweepCmd.Flags().IntVar(&maxFrames, "max-frames", experiment.DefaultMaxFrames, "frame limit")
	sweepCmd.Flags().StringVar(&runName, "name", "", "run name (default: script name)")
	sweepCmd.Flags().IntVar(&runs, "runs", 1, "replay under this many consecutive seeds")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run every step of a yaml scenario and store the traces",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().IntVar(&maxFrames, "max-frames", experiment.DefaultMaxFrames, "frame limit per step")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "overshoot, ringing and phase portrait of a stored trace",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	tuneCmd := &cobra.Command{
		Use:   "tune [script]",
		Short: "grid search physics parameters against a script",
		Long: "Each --grid flag is name=v1,v2,... over base_strength, damping, wave_response,\n" +
			"wave_kick, wave_decay or wave_advance. The combination minimizing --objective wins.",
		Args: cobra.MaximumNArgs(1),
		RunE: tuneParams,
	}
	tuneCmd.Flags().StringArrayVar(&tuneGrid, "grid", []string{"damping=0.85,0.9,0.95", "base_strength=0.1,0.15,0.2"}, "parameter grid")
	tuneCmd.Flags().StringVar(&objective, "objective", "settle_frame", "summary metric to minimize")
	tuneCmd.Flags().IntVar(&maxFrames, "max-frames", experiment.DefaultMaxFrames, "frame limit per run")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored trace",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringSliceVar(&series, "series", []string{"cost", "wave_velocity"}, "series to plot")
	plotCmd.Flags().IntVar(&plotWidth, "width", 80, "plot width")
	plotCmd.Flags().StringVar(&svgOut, "svg", "", "also write the first series as SVG")

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "print run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a stored trace with its rows as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")

	curveCmd := &cobra.Command{
		Use:   "curve",
		Short: "plot the interpolated cost curve",
		RunE:  plotCurve,
	}
	curveCmd.Flags().IntVar(&plotWidth, "width", 80, "plot width")

	knotsCmd := &cobra.Command{
		Use:   "knots",
		Short: "print the projection dataset",
		RunE:  listKnots,
	}

	sampleCmd := &cobra.Command{
		Use:   "sample [p]",
		Short: "print the readout at a normalized chart position",
		Args:  cobra.ExactArgs(1),
		RunE:  samplePosition,
	}

	svgCmd := &cobra.Command{
		Use:   "svg [p]",
		Short: "render the settled chart at a normalized position to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  renderSVG,
	}
	svgCmd.Flags().StringVarP(&svgOut, "output", "o", "chart.svg", "output file")
	svgCmd.Flags().StringVar(&theme, "theme", "", "color theme")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage config files",
	}
	configCmd.AddCommand(&cobra.Command{
		Use:   "init [path]",
		Short: "write the default config",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "slrsim.yaml"
			if len(args) > 0 {
				path = args[0]
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := config.Save(path, cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", path)
			return nil
		},
	})

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list physics presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("presets:")
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
			fmt.Println("\nscripts:")
			for _, s := range registry.Names() {
				fmt.Printf("  %s\n", s)
			}
			return nil
		},
	}

	rootCmd.AddCommand(chartCmd, sweepCmd, scenarioCmd, analyzeCmd, tuneCmd, listCmd, plotCmd, showCmd, exportCmd, curveCmd, knotsCmd, sampleCmd, svgCmd, configCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig applies the preset, then the config file, then any flags the
// user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		p, err := config.GetPreset(preset)
		if err != nil {
			return nil, err
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
	if flags.Changed("data") || cfg.DataDir == "" {
		cfg.DataDir = dataDir
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = logFormat
	}
	if flags.Changed("log-file") {
		cfg.Log.File = logFile
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("theme") {
		cfg.Chart.Theme = theme
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger writes to stderr unless a log file is configured. The chart
// always logs to a file since the terminal belongs to the UI.
func newLogger(cfg *config.Config, tui bool) (*slog.Logger, func(), error) {
	path := cfg.Log.File
	if path == "" && tui {
		path = filepath.Join(cfg.DataDir, "slrsim.log")
	}
	if path == "" {
		return observability.NewLogger(cfg.Log, os.Stderr), func() {}, nil
	}

	f, err := observability.OpenLogFile(path)
	if err != nil {
		return nil, nil, err
	}
	return observability.NewLogger(cfg.Log, f), func() { f.Close() }, nil
}

func loadDataset(cfg *config.Config) (*projection.Dataset, error) {
	knots := projection.Default().Knots()
	if knotsFile != "" {
		var err error
		if knots, err = config.LoadKnots(knotsFile); err != nil {
			return nil, err
		}
	}
	return projection.New(knots, projection.WithCostCeiling(cfg.Chart.CostCeiling))
}

func newRecorder() *metrics.Recorder {
	if metricsFile == "" {
		return nil
	}
	return metrics.New()
}

func writeMetrics(rec *metrics.Recorder, log *slog.Logger) {
	if rec == nil {
		return
	}
	if err := rec.WriteTextfile(metricsFile); err != nil {
		log.Error("write metrics", "path", metricsFile, "error", err)
		return
	}
	log.Info("metrics written", "path", metricsFile)
}

func runChart(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, closeLog, err := newLogger(cfg, true)
	if err != nil {
		return err
	}
	defer closeLog()

	ds, err := loadDataset(cfg)
	if err != nil {
		return err
	}

	rec := newRecorder()
	defer writeMetrics(rec, log)

	ctrlOpts := []control.Option{
		control.WithRecorder(rec),
		control.WithResetDelay(cfg.Input.ResetDelay),
		control.WithInput(cfg.ControlInput()),
		control.WithRenderOptions(cfg.RenderOptions()),
	}
	if cfg.Seed != 0 {
		s := uint64(cfg.Seed)
		ctrlOpts = append(ctrlOpts, control.WithRand(rand.New(rand.NewPCG(s, s))))
	}

	snapDir := filepath.Join(cfg.DataDir, "snapshots")
	m, err := viz.NewModel(ds, cfg.PhysicsParams(), viz.Options{
		FPS:          cfg.Chart.FPS,
		StartupDelay: cfg.Input.StartupDelay,
		Theme:        cfg.Chart.Theme,
		Logger:       log,
		Snapshot: func(f render.Frame, t viz.Theme) (string, error) {
			path := filepath.Join(snapDir, fmt.Sprintf("chart_%s.svg", time.Now().Format("20060102_150405.000")))
			return path, export.WriteFile(path, export.FrameToSVG(f, svgWidth, svgHeight, t))
		},
	}, ctrlOpts...)
	if err != nil {
		return err
	}

	log.Info("chart started", "fps", cfg.Chart.FPS, "theme", cfg.Chart.Theme, "preset", preset)
	if err := viz.Run(m); err != nil {
		log.Error("chart exited", "error", err)
		return err
	}
	return nil
}

func resolveScript(args []string) (experiment.Script, string, error) {
	name := "sweep"
	if len(args) > 0 {
		name = args[0]
	}
	registry := experiment.NewRegistry()
	script, err := registry.Resolve(name)
	if err != nil {
		return nil, "", err
	}
	if _, err := registry.Get(name); err != nil {
		name = "custom"
	}
	return script, name, nil
}

func experimentConfig(cfg *config.Config, ds *projection.Dataset, rec *metrics.Recorder, log *slog.Logger) experiment.Config {
	return experiment.Config{
		Dataset:       ds,
		Params:        cfg.PhysicsParams(),
		Render:        cfg.RenderOptions(),
		Input:         cfg.ControlInput(),
		ResetDelay:    cfg.Input.ResetDelay,
		FrameInterval: cfg.FrameInterval(),
		MaxFrames:     maxFrames,
		Width:         experiment.DefaultWidth,
		Seed:          uint64(cfg.Seed),
		Startup:       startup,
		Recorder:      rec,
		Logger:        log,
	}
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, closeLog, err := newLogger(cfg, false)
	if err != nil {
		return err
	}
	defer closeLog()

	ds, err := loadDataset(cfg)
	if err != nil {
		return err
	}
	script, name, err := resolveScript(args)
	if err != nil {
		return err
	}
	if runName == "" {
		runName = name
	}

	rec := newRecorder()
	defer writeMetrics(rec, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ecfg := experimentConfig(cfg, ds, rec, log)

	fmt.Printf("running %s x%d (%d scripted frames)...\n", runName, max(runs, 1), script.Frames())
	start := time.Now()

	traces, err := experiment.NewEnsemble(script, max(runs, 1), ecfg.Seed).Run(ctx, ecfg)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	for i, trace := range traces {
		runID, err := st.Save(storage.RunMetadata{
			Name:    runName,
			Preset:  preset,
			Seed:    ecfg.Seed + uint64(i),
			FrameMs: float64(ecfg.FrameInterval) / float64(time.Millisecond),
			Metrics: analysis.Respond(trace).Metrics(),
		}, trace)
		if err != nil {
			return err
		}
		printTrace(runID, trace)
	}
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, closeLog, err := newLogger(cfg, false)
	if err != nil {
		return err
	}
	defer closeLog()

	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	ds, err := loadDataset(cfg)
	if err != nil {
		return err
	}

	rec := newRecorder()
	defer writeMetrics(rec, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ecfg := experimentConfig(cfg, ds, rec, log)
	fmt.Printf("running scenario %s (%d steps)...\n", sc.Name, len(sc.Steps))
	results, runErr := automation.RunScenario(ctx, sc, experiment.NewRegistry(), ecfg)

	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}
	for _, r := range results {
		seed := r.Step.Seed
		if seed == 0 {
			seed = ecfg.Seed
		}
		runID, err := st.Save(storage.RunMetadata{
			Name:    r.Name,
			Preset:  r.Step.Preset,
			Seed:    seed,
			FrameMs: float64(ecfg.FrameInterval) / float64(time.Millisecond),
			Metrics: analysis.Respond(r.Trace).Metrics(),
		}, r.Trace)
		if err != nil {
			return err
		}
		printTrace(runID, r.Trace)
	}
	return runErr
}

func printTrace(runID string, trace *experiment.Trace) {
	fmt.Printf("\nrun id: %s\n", runID)
	fmt.Printf("frames: %d\n", len(trace.Rows))
	switch {
	case trace.Truncated:
		fmt.Printf("settled: no (hit %d frame limit)\n", maxFrames)
	case trace.Settled:
		fmt.Printf("settled: frame %d\n", trace.SettleFrame)
	}
	fmt.Printf("readout: %s, %s, %s\n", trace.Readout.Year, trace.Readout.SLR, trace.Readout.Cost)

	fmt.Println("metrics:")
	printMetrics(trace.Summary())
}

func printMetrics(m map[string]float64) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("  %s: %.6f\n", k, m[k])
	}
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	st := storage.New(cfg.DataDir)
	meta, trace, err := st.LoadTrace(args[0])
	if err != nil {
		return err
	}
	if len(trace.Rows) == 0 {
		return fmt.Errorf("no data to analyze")
	}

	r := analysis.Respond(trace)
	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("script: %s\n\n", meta.Script)
	fmt.Printf("cost: %.2f%% -> %.2f%%\n", r.Start, r.Final)
	fmt.Printf("overshoot: %.3f%%\n", r.Overshoot)
	fmt.Printf("rings: %d\n", r.Rings)
	if r.Period > 0 {
		fmt.Printf("period: %.1f frames (%.0fms)\n", r.Period, r.Period*meta.FrameMs)
	}
	if r.Settled {
		fmt.Printf("settled: frame %d\n", r.SettleFrame)
	} else {
		fmt.Println("settled: no")
	}

	fmt.Println("\nphase portrait (cost vs cost velocity):")
	fmt.Print(analysis.NewPhasePortrait(trace).ASCII(60, 16))
	return nil
}

func traceMetrics(trace *experiment.Trace) map[string]float64 {
	m := trace.Summary()
	for k, v := range analysis.Respond(trace).Metrics() {
		m[k] = v
	}
	return m
}

// objectives lists the metric names a tune run can minimize.
func objectives() map[string]float64 {
	return traceMetrics(&experiment.Trace{Rows: make([]experiment.Row, 1)})
}

// parseGrid reads name=v1,v2,... flags.
func parseGrid(entries []string) ([]string, [][]float64, error) {
	names := make([]string, 0, len(entries))
	ranges := make([][]float64, 0, len(entries))
	for _, entry := range entries {
		name, list, ok := strings.Cut(entry, "=")
		if !ok || name == "" || list == "" {
			return nil, nil, fmt.Errorf("invalid grid %q (want name=v1,v2)", entry)
		}
		var values []float64
		for _, f := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("invalid grid value in %q: %w", entry, err)
			}
			values = append(values, v)
		}
		names = append(names, strings.TrimSpace(name))
		ranges = append(ranges, values)
	}
	return names, ranges, nil
}

func tuneParams(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, closeLog, err := newLogger(cfg, false)
	if err != nil {
		return err
	}
	defer closeLog()

	ds, err := loadDataset(cfg)
	if err != nil {
		return err
	}
	script, name, err := resolveScript(args)
	if err != nil {
		return err
	}
	names, ranges, err := parseGrid(tuneGrid)
	if err != nil {
		return err
	}
	if _, ok := objectives()[objective]; !ok {
		return fmt.Errorf("unknown objective %q", objective)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ecfg := experimentConfig(cfg, ds, nil, observability.Discard())
	eval := func(ctx context.Context, p physics.Params) (float64, error) {
		c := ecfg
		c.Params = p
		trace, err := experiment.Run(ctx, script, c)
		if err != nil {
			return 0, err
		}
		if trace.Truncated {
			return math.Inf(1), nil
		}
		return traceMetrics(trace)[objective], nil
	}

	fmt.Printf("tuning %v against %s, minimizing %s...\n", names, name, objective)
	res, err := optim.NewGridSearch(names, ranges).Search(ctx, cfg.PhysicsParams(), eval)
	if err != nil {
		return err
	}
	log.Info("tune finished", "script", name, "objective", objective, "value", res.Value,
		"evaluated", res.Evaluated, "skipped", res.Skipped)

	fmt.Printf("evaluated %d, skipped %d\n", res.Evaluated, res.Skipped)
	fmt.Printf("best %s: %.4f\n", objective, res.Value)
	printMetrics(res.Params)
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	st := storage.New(cfg.DataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tFRAMES\tSETTLED\tPRESET\tSEED")

	for _, run := range runs {
		settled := "no"
		if run.Settled {
			settled = strconv.Itoa(int(run.Metrics["settle_frame"]))
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\t%d\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Frames,
			settled,
			orDash(run.Preset),
			run.Seed,
		)
	}

	return w.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	st := storage.New(cfg.DataDir)
	meta, trace, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}

	if len(trace.Rows) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("script: %s\n", meta.Script)
	fmt.Printf("frames: %d\n\n", len(trace.Rows))

	for _, name := range series {
		data, err := trace.Series(name)
		if err != nil {
			return err
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(plotWidth),
			asciigraph.Caption(name+" vs frame"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	if svgOut == "" || len(series) == 0 {
		return nil
	}
	data, err := trace.Series(series[0])
	if err != nil {
		return err
	}
	points := make([]export.Point, len(data))
	for i, v := range data {
		points[i] = export.Point{X: trace.Rows[i].TimeMs, Y: v}
	}
	if err := export.WriteFile(svgOut, export.SeriesToSVG(points, svgWidth, svgHeight, string(viz.Themes[0].Primary))); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", svgOut)
	return nil
}

func showRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	st := storage.New(cfg.DataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	st := storage.New(cfg.DataDir)
	meta, trace, err := st.LoadTrace(args[0])
	if err != nil {
		return err
	}

	if outFile == "" {
		return export.TraceJSON(os.Stdout, meta, trace)
	}
	f, err := os.Create(outFile)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := export.TraceJSON(f, meta, trace); err != nil {
		return err
	}
	fmt.Printf("exported %d frames to %s\n", len(trace.Rows), outFile)
	return nil
}

func plotCurve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ds, err := loadDataset(cfg)
	if err != nil {
		return err
	}

	n := max(plotWidth, 2)
	costs := make([]float64, n)
	for i := range costs {
		costs[i] = ds.ValueAt(float64(i) / float64(n-1)).Cost
	}
	first, last := ds.First(), ds.Last()
	fmt.Println(asciigraph.Plot(costs,
		asciigraph.Height(12),
		asciigraph.Width(plotWidth),
		asciigraph.Caption(fmt.Sprintf("economic loss ($T), %d to %d", first.Year, last.Year)),
	))
	return nil
}

func listKnots(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ds, err := loadDataset(cfg)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "YEAR\tSLR\tCOST\tDISPLACED\tIMPACT")
	for _, k := range ds.Knots() {
		fmt.Fprintf(w, "%d\t%.2fm\t$%.1fT\t%s\t%s\n", k.Year, k.SeaLevelRise, k.Cost, k.DisplacedLabel, k.Impact)
	}
	return w.Flush()
}

func parsePosition(s string) (float64, error) {
	p, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid position %q: %w", s, err)
	}
	if p < 0 || p > 1 {
		return 0, fmt.Errorf("position %v outside [0, 1]", p)
	}
	return p, nil
}

func samplePosition(cmd *cobra.Command, args []string) error {
	p, err := parsePosition(args[0])
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ds, err := loadDataset(cfg)
	if err != nil {
		return err
	}

	s := ds.ValueAt(p)
	printSample(os.Stdout, s)
	fmt.Println(viz.Separator(40, viz.GetTheme(cfg.Chart.Theme)))
	fmt.Printf("x %.1f%%  cost %.1f%%  people %.1f%%\n", s.XPercent, s.CostPercent, s.PeoplePercent)
	return nil
}

func printSample(w io.Writer, s projection.Sample) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "year\t%s\n", projection.FormatYear(s.Year))
	fmt.Fprintf(tw, "sea level\t%s\n", projection.FormatSLR(s.SeaLevelRise))
	fmt.Fprintf(tw, "damages\t%s\n", projection.FormatCost(s.Cost))
	fmt.Fprintf(tw, "headline\t%s\n", projection.FormatHeadline(s.Cost))
	fmt.Fprintf(tw, "displaced\t%s\n", s.DisplacedText)
	fmt.Fprintf(tw, "impact\t%s\n", s.Impact)
	tw.Flush()
}

// renderSVG moves a fresh chart to p by touch, runs frames until the fluid
// settles and writes the result.
func renderSVG(cmd *cobra.Command, args []string) error {
	p, err := parsePosition(args[0])
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ds, err := loadDataset(cfg)
	if err != nil {
		return err
	}

	ctrl, err := control.New(ds, cfg.PhysicsParams(),
		control.WithBounds(control.Rect{Width: svgWidth, Height: svgHeight}),
		control.WithRenderOptions(cfg.RenderOptions()),
		control.WithInput(cfg.ControlInput()),
	)
	if err != nil {
		return err
	}
	sched := &control.ManualScheduler{}
	loop := control.NewLoop(ctrl, sched)

	loop.Kick(ctrl.TouchMove(p * svgWidth))
	frames := 0
	for sched.Pending() > 0 && frames < svgSettleLimit {
		frames += sched.Flush()
	}

	doc := export.FrameToSVG(ctrl.Render(), svgWidth, svgHeight, viz.GetTheme(cfg.Chart.Theme))
	if err := export.WriteFile(svgOut, doc); err != nil {
		return err
	}
	r := ctrl.Readout()
	fmt.Printf("wrote %s (%s, %s, settled after %d frames)\n", svgOut, r.Year, r.Cost, frames)
	return nil
}
