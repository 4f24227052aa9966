package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"text/tabwriter"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/chemscene/internal/config"
	"github.com/san-kum/chemscene/internal/driver"
	"github.com/san-kum/chemscene/internal/energy"
	"github.com/san-kum/chemscene/internal/export"
	"github.com/san-kum/chemscene/internal/reaction"
	"github.com/san-kum/chemscene/internal/scene"
	"github.com/san-kum/chemscene/internal/store"
	"github.com/san-kum/chemscene/internal/viz"
)

var (
	configFile  string
	storePath   string
	storeDriver string
	logLevel    string
	preset      string

	view     string
	progress float64
	asJSON   bool

	rate        float64
	loop        bool
	fps         int
	theme       string
	metricsAddr string

	outFile    string
	width      int
	height     int
	frameCount int

	markerAt   float64
	plotWidth  int
	plotHeight int
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "chemscene",
		Short:         "reaction scene composition and animation",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&storePath, "store", config.DefaultStorePath, "reaction store path")
	rootCmd.PersistentFlags().StringVar(&storeDriver, "driver", config.DriverFile, "store driver (file, sqlite, memory)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "write the sample reactions to the store",
		Args:  cobra.NoArgs,
		RunE:  initStore,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list reactions",
		Args:  cobra.NoArgs,
		RunE:  listReactions,
	}

	resolveCmd := &cobra.Command{
		Use:   "resolve [reaction_id]",
		Short: "resolve one frame of a scene",
		Args:  cobra.ExactArgs(1),
		RunE:  resolveScene,
	}
	resolveCmd.Flags().StringVar(&view, "view", "macro", "view level (macro, micro, nano)")
	resolveCmd.Flags().Float64Var(&progress, "progress", 0, "reaction progress in [0, 1]")
	resolveCmd.Flags().BoolVar(&asJSON, "json", false, "print the description as JSON")

	profileCmd := &cobra.Command{
		Use:   "profile [reaction_id]",
		Short: "plot the energy profile",
		Args:  cobra.ExactArgs(1),
		RunE:  plotProfile,
	}
	profileCmd.Flags().Float64Var(&markerAt, "progress", 0.5, "marker progress in [0, 1]")
	profileCmd.Flags().IntVar(&plotWidth, "width", 60, "plot width")
	profileCmd.Flags().IntVar(&plotHeight, "height", 10, "plot height")

	rulesCmd := &cobra.Command{
		Use:   "rules [reaction_id] [view] [file]",
		Short: "replace the visual rules of one view level from a yaml or json file",
		Args:  cobra.ExactArgs(3),
		RunE:  updateRules,
	}

	liveCmd := &cobra.Command{
		Use:   "live [reaction_id]",
		Short: "animate a reaction in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addAnimationFlags(liveCmd)
	liveCmd.Flags().StringVar(&theme, "theme", config.DefaultTheme, "color theme")

	playCmd := &cobra.Command{
		Use:   "play [reaction_id]",
		Short: "animate a reaction headless, printing each frame",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runPlay,
	}
	addAnimationFlags(playCmd)
	playCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [reaction_id]",
		Short: "export a scene frame and the energy profile to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVar(&view, "view", "macro", "view level (macro, micro, nano)")
	exportSVGCmd.Flags().Float64Var(&progress, "progress", 0, "reaction progress in [0, 1]")
	exportSVGCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default <id>.svg)")
	exportSVGCmd.Flags().IntVar(&width, "width", config.DefaultWidth, "canvas width in cells")
	exportSVGCmd.Flags().IntVar(&height, "height", config.DefaultHeight, "canvas height in cells")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [reaction_id]",
		Short: "export a resolved scene to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVar(&view, "view", "macro", "view level (macro, micro, nano)")
	exportJSONCmd.Flags().Float64Var(&progress, "progress", 0, "reaction progress in [0, 1]")
	exportJSONCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default <id>.json)")

	exportFramesCmd := &cobra.Command{
		Use:   "export-frames [reaction_id]",
		Short: "export evenly spaced frames as JSON lines",
		Args:  cobra.ExactArgs(1),
		RunE:  exportFrames,
	}
	exportFramesCmd.Flags().StringVar(&view, "view", "macro", "view level (macro, micro, nano)")
	exportFramesCmd.Flags().IntVar(&frameCount, "frames", 20, "number of intervals between progress 0 and 1")
	exportFramesCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("presets:")
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	rootCmd.AddCommand(initCmd, listCmd, resolveCmd, profileCmd, rulesCmd, liveCmd, playCmd, exportSVGCmd, exportJSONCmd, exportFramesCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		if errors.Is(err, store.ErrStorage) && errors.Is(err, os.ErrNotExist) {
			fmt.Fprintln(os.Stderr, "hint: run `chemscene init` to create the store")
		}
		os.Exit(1)
	}
}

func addAnimationFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&view, "view", "macro", "initial view level (macro, micro, nano)")
	cmd.Flags().Float64Var(&rate, "rate", config.DefaultRate, "progress per second")
	cmd.Flags().BoolVar(&loop, "loop", false, "wrap to the start instead of holding at the end")
	cmd.Flags().IntVar(&fps, "fps", config.DefaultFPS, "frame rate")
}

// loadConfig layers defaults, a preset, the config file and changed flags, in
// that order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if preset != "" {
		p := config.GetPreset(preset, cfg)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	flags := cmd.Flags()
	if flags.Changed("store") || cfg.Store.Path == "" {
		cfg.Store.Path = storePath
	}
	if flags.Changed("driver") || cfg.Store.Driver == "" {
		cfg.Store.Driver = storeDriver
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("view") {
		cfg.View = view
	}
	if flags.Changed("rate") {
		cfg.Animation.Rate = rate
	}
	if flags.Changed("loop") {
		cfg.Animation.Loop = loop
	}
	if flags.Changed("fps") {
		cfg.Animation.FPS = fps
	}
	if flags.Changed("theme") {
		cfg.Render.Theme = theme
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})), nil
}

// setup loads configuration, a logger and the configured store. The caller
// closes the store.
func setup(cmd *cobra.Command) (*config.Config, *slog.Logger, store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	st, err := store.Open(cfg.Store)
	if err != nil {
		return nil, nil, nil, err
	}
	logger.Debug("store opened", "driver", cfg.Store.Driver, "path", cfg.Store.Path)
	return cfg, logger, st, nil
}

func reactionID(cfg *config.Config, args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return cfg.Reaction
}

func initStore(cmd *cobra.Command, args []string) error {
	_, logger, st, err := setup(cmd)
	if err != nil {
		return err
	}
	defer store.Close(st)

	samples := reaction.Samples()
	if err := st.Save(cmd.Context(), samples); err != nil {
		return err
	}
	logger.Info("store initialised", "reactions", len(samples))
	fmt.Printf("wrote %d reactions\n", len(samples))
	return nil
}

func listReactions(cmd *cobra.Command, args []string) error {
	_, _, st, err := setup(cmd)
	if err != nil {
		return err
	}
	defer store.Close(st)

	records, err := st.Load(cmd.Context())
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("no reactions found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEQUATION\tEA\tVIEWS")
	for _, r := range records {
		var views []string
		for _, v := range reaction.Levels {
			if r.Rules(v) != nil {
				views = append(views, v.String())
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%s\n",
			r.ID,
			r.Name,
			r.Equation,
			r.ActivationEnergy,
			strings.Join(views, ","),
		)
	}
	return w.Flush()
}

func resolveFrame(cmd *cobra.Command, cfg *config.Config, st store.Store, id string) (*reaction.Record, *scene.Description, error) {
	v, err := cfg.ViewLevel()
	if err != nil {
		return nil, nil, err
	}
	rec, err := st.Reaction(cmd.Context(), id)
	if err != nil {
		return nil, nil, err
	}
	return rec, scene.Resolve(rec, v, progress), nil
}

func resolveScene(cmd *cobra.Command, args []string) error {
	cfg, _, st, err := setup(cmd)
	if err != nil {
		return err
	}
	defer store.Close(st)

	_, d, err := resolveFrame(cmd, cfg, st, args[0])
	if err != nil {
		return err
	}
	if asJSON {
		return export.WriteScene(os.Stdout, d)
	}

	fmt.Printf("%s  view=%s  progress=%.2f", d.ReactionID, d.View, d.Progress)
	if d.Fallback {
		fmt.Print("  (default rules)")
	}
	fmt.Printf("\nenergy marker: (%.3f, %.3f)\n\n", d.EnergyMarker.X, d.EnergyMarker.Y)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SLOT\tKIND\tVISIBLE\tPOSITION\tSCALE\tPARTS\tINSTANCES\tCOLOR")
	for _, e := range d.Entities {
		p, s := e.Transform.Position, e.Transform.Scale
		fmt.Fprintf(w, "%s\t%s\t%t\t(%.2f, %.2f, %.2f)\t(%.2f, %.2f, %.2f)\t%d\t%d\t%s\n",
			e.Slot, e.Kind, e.Visible,
			p.X, p.Y, p.Z, s.X, s.Y, s.Z,
			len(e.Parts), len(e.Instances), e.Material.Color,
		)
	}
	return w.Flush()
}

func plotProfile(cmd *cobra.Command, args []string) error {
	_, _, st, err := setup(cmd)
	if err != nil {
		return err
	}
	defer store.Close(st)

	rec, err := st.Reaction(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	p := energy.New(rec.ActivationEnergy)
	marker := p.Marker(scene.ClampProgress(markerAt))
	fmt.Println(viz.EnergyPlot(p, marker, plotWidth, plotHeight))
	return nil
}

func updateRules(cmd *cobra.Command, args []string) error {
	_, logger, st, err := setup(cmd)
	if err != nil {
		return err
	}
	defer store.Close(st)

	v, err := reaction.ParseViewLevel(args[1])
	if err != nil {
		return err
	}
	rules, err := readRules(args[2])
	if err != nil {
		return err
	}
	if !scene.Valid(rules) {
		logger.Warn("rules are incomplete and will resolve to defaults", "id", args[0], "view", v)
	}
	rec, err := st.UpdateVisualRules(cmd.Context(), args[0], v, rules)
	if err != nil {
		return err
	}
	fmt.Printf("updated %s %s view (%d slots)\n", rec.ID, v, len(rules.Slots))
	return nil
}

func readRules(path string) (*reaction.VisualRules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	rules := &reaction.VisualRules{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, rules)
	default:
		err = yaml.Unmarshal(data, rules)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse rules %s: %w", path, err)
	}
	return rules, nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, logger, st, err := setup(cmd)
	if err != nil {
		return err
	}
	defer store.Close(st)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	v, err := cfg.ViewLevel()
	if err != nil {
		return err
	}

	// The terminal is owned by the UI; logs go to a file next to the store.
	logPath := filepath.Join(filepath.Dir(cfg.Store.Path), ".chemscene.log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err == nil {
		defer logFile.Close()
		level, _ := cfg.SlogLevel()
		logger = slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: level}))
	}

	mem, err := snapshot(ctx, st)
	if err != nil {
		return err
	}
	reload := make(chan struct{}, 1)
	follow(ctx, st, mem, logger, func() {
		select {
		case reload <- struct{}{}:
		default:
		}
	})

	id := reactionID(cfg, args)
	rec, err := mem.Reaction(ctx, id)
	if err != nil {
		return err
	}

	drv := driver.New(mem, id,
		driver.WithConfig(cfg.Driver()),
		driver.WithView(v),
		driver.WithLogger(logger),
	)

	m := viz.NewModel(ctx, drv,
		viz.WithSize(cfg.Render.Width, cfg.Render.Height),
		viz.WithTheme(cfg.Render.Theme),
		viz.WithRecord(rec),
	)
	return viz.Run(ctx, m, reload)
}

// snapshot copies the store into memory so frames never read from disk.
func snapshot(ctx context.Context, st store.Store) (*store.Memory, error) {
	mem, err := store.NewMemory(nil)
	if err != nil {
		return nil, err
	}
	if err := mem.Sync(ctx, st); err != nil {
		return nil, err
	}
	return mem, nil
}

// follow keeps mem in sync with a file-backed store until ctx is done.
// changed runs after every successful reload. Stores without a path are not
// watched.
func follow(ctx context.Context, st store.Store, mem *store.Memory, logger *slog.Logger, changed func()) {
	p, ok := st.(interface{ Path() string })
	if !ok {
		return
	}
	go func() {
		err := store.Watch(ctx, p.Path(), logger, func() {
			if err := mem.Sync(ctx, st); err != nil {
				logger.Error("reload failed", "err", err)
				return
			}
			if changed != nil {
				changed()
			}
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("watch stopped", "err", err)
		}
	}()
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, logger, st, err := setup(cmd)
	if err != nil {
		return err
	}
	defer store.Close(st)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	id := reactionID(cfg, args)
	v, err := cfg.ViewLevel()
	if err != nil {
		return err
	}

	opts := []driver.Option{
		driver.WithConfig(cfg.Driver()),
		driver.WithView(v),
		driver.WithLogger(logger),
	}
	if metricsAddr != "" {
		reg := prometheus.NewRegistry()
		opts = append(opts, driver.WithMetrics(driver.NewMetrics(reg)))
		srv := &http.Server{Addr: metricsAddr, Handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{})}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server stopped", "err", err)
			}
		}()
		defer srv.Close()
		logger.Info("serving metrics", "addr", metricsAddr)
	}

	mem, err := snapshot(ctx, st)
	if err != nil {
		return err
	}
	drv := driver.New(mem, id, opts...)
	follow(ctx, st, mem, logger, func() {
		if err := drv.Refresh(ctx); err != nil {
			logger.Error("refresh failed", "err", err)
		}
	})
	done := make(chan struct{})
	var once sync.Once
	hold := !cfg.Animation.Loop
	drv.AddSink(driver.SinkFunc(func(d *scene.Description) {
		visible := 0
		for _, e := range d.Entities {
			if e.Visible {
				visible++
			}
		}
		fmt.Printf("%s %-5s %s %.3f  energy %.3f  visible %d/%d\n",
			d.ReactionID, d.View, viz.ProgressBar(d.Progress, 20), d.Progress,
			d.EnergyMarker.Y, visible, len(d.Entities))
		if hold && d.Progress >= 1 {
			once.Do(func() { close(done) })
		}
	}))

	if err := drv.Refresh(ctx); err != nil {
		return err
	}
	if err := drv.Play(ctx); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-done:
			cancel()
		case <-runCtx.Done():
		}
	}()

	err = drv.Run(runCtx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func exportSVG(cmd *cobra.Command, args []string) error {
	cfg, logger, st, err := setup(cmd)
	if err != nil {
		return err
	}
	defer store.Close(st)

	rec, d, err := resolveFrame(cmd, cfg, st, args[0])
	if err != nil {
		return err
	}

	path := outFile
	if path == "" {
		path = rec.ID + ".svg"
	}
	if err := os.WriteFile(path, []byte(export.SceneToSVG(d, nil, width, height, 4)), 0o644); err != nil {
		return err
	}

	profilePath := strings.TrimSuffix(path, filepath.Ext(path)) + "_energy.svg"
	p := energy.New(rec.ActivationEnergy)
	if err := os.WriteFile(profilePath, []byte(export.ProfileToSVG(p, d.EnergyMarker, 400, 240)), 0o644); err != nil {
		return err
	}

	logger.Debug("svg exported", "scene", path, "profile", profilePath)
	fmt.Printf("wrote %s and %s\n", path, profilePath)
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	cfg, _, st, err := setup(cmd)
	if err != nil {
		return err
	}
	defer store.Close(st)

	rec, d, err := resolveFrame(cmd, cfg, st, args[0])
	if err != nil {
		return err
	}
	path := outFile
	if path == "" {
		path = rec.ID + ".json"
	}
	if err := export.SceneJSON(path, d); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func exportFrames(cmd *cobra.Command, args []string) error {
	cfg, _, st, err := setup(cmd)
	if err != nil {
		return err
	}
	defer store.Close(st)

	v, err := cfg.ViewLevel()
	if err != nil {
		return err
	}
	rec, err := st.Reaction(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	frames, err := export.Frames(cmd.Context(), rec, v, frameCount)
	if err != nil {
		return err
	}

	if outFile == "" {
		return export.WriteFrames(os.Stdout, frames)
	}
	file, err := os.Create(outFile)
	if err != nil {
		return err
	}
	if err := export.WriteFrames(file, frames); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}
	fmt.Printf("wrote %d frames to %s\n", len(frames), outFile)
	return nil
}
