// Package main provides the CLI entry point for imgload.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ideamans/go-l10n"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"

	"github.com/user/imgload/pkg/adapters/eventqueue"
	"github.com/user/imgload/pkg/adapters/filesink"
	"github.com/user/imgload/pkg/adapters/fswatch"
	"github.com/user/imgload/pkg/adapters/ggrenderer"
	"github.com/user/imgload/pkg/adapters/imagebackend"
	"github.com/user/imgload/pkg/adapters/logger"
	"github.com/user/imgload/pkg/adapters/nullsink"
	"github.com/user/imgload/pkg/adapters/osfilesystem"
	"github.com/user/imgload/pkg/adapters/prommetrics"
	"github.com/user/imgload/pkg/config"
	"github.com/user/imgload/pkg/loader"
	"github.com/user/imgload/pkg/orchestrator"
	"github.com/user/imgload/pkg/pipeline"
	"github.com/user/imgload/pkg/player"
	"github.com/user/imgload/pkg/ports"
	"github.com/user/imgload/pkg/stages/advance"
	"github.com/user/imgload/pkg/stages/banner"
	"github.com/user/imgload/pkg/stages/encode"
	"github.com/user/imgload/pkg/stages/layout"
	"github.com/user/imgload/pkg/stages/open"
	"github.com/user/imgload/pkg/summarizer"
)

var version = "dev"

// stdin is where "-" sources are read from.
var stdin io.Reader = os.Stdin

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "imgload",
		Usage:   l10n.T("Decode and play images and animations"),
		Version: version,
		Description: l10n.T("imgload decodes still images and animations in the background, " +
			"plays them with their own frame timing and extracts their frames."),
		Flags: commonFlags(),
		Commands: []*cli.Command{
			{
				Name:      "play",
				Usage:     l10n.T("Play an image or animation in real time"),
				ArgsUsage: "<file|->",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "loops", Aliases: []string{"n"}, Usage: l10n.T("Stop after this many cycles (0 = until interrupted)"), Category: l10n.T("Playback")},
					&cli.IntFlag{Name: "tick-ms", Usage: l10n.T("Animation clock period in milliseconds"), Category: l10n.T("Playback")},
					&cli.BoolFlag{Name: "watch", Aliases: []string{"w"}, Usage: l10n.T("Reload the file whenever it changes"), Category: l10n.T("Playback")},
					summaryFlag(),
				},
				Action: playAction,
			},
			{
				Name:      "frames",
				Usage:     l10n.T("Write every frame of an animation as an image"),
				ArgsUsage: "<file|->",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Required: true, Usage: l10n.T("Output directory (required)"), Category: l10n.T("Output")},
					&cli.StringFlag{Name: "format", Usage: l10n.T("Image format (png, jpeg)"), Category: l10n.T("Output")},
					&cli.StringFlag{Name: "quality", Aliases: []string{"q"}, Usage: l10n.T("Quality preset (low, medium, high)"), Category: l10n.T("Output")},
					summaryFlag(),
				},
				Action: framesAction,
			},
			{
				Name:      "sheet",
				Usage:     l10n.T("Create a contact sheet of an animation"),
				ArgsUsage: "<file|->",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Required: true, Usage: l10n.T("Output image path (required)"), Category: l10n.T("Output")},
					&cli.StringFlag{Name: "format", Usage: l10n.T("Image format (png, jpeg)"), Category: l10n.T("Output")},
					&cli.StringFlag{Name: "quality", Aliases: []string{"q"}, Usage: l10n.T("Quality preset (low, medium, high)"), Category: l10n.T("Output")},
					&cli.IntFlag{Name: "columns", Aliases: []string{"c"}, Usage: l10n.T("Number of columns (min: 1)"), Category: l10n.T("Layout and Style")},
					&cli.IntFlag{Name: "cell-width", Usage: l10n.T("Width of each frame in pixels"), Category: l10n.T("Layout and Style")},
					&cli.StringFlag{Name: "background", Usage: l10n.T("Background color (hex, e.g., #dcdcdc)"), Category: l10n.T("Layout and Style")},
					&cli.BoolFlag{Name: "no-banner", Usage: l10n.T("Omit the header banner"), Category: l10n.T("Layout and Style")},
					summaryFlag(),
				},
				Action: sheetAction,
			},
			{
				Name:  "version",
				Usage: l10n.T("Show version information"),
				Action: func(c *cli.Context) error {
					fmt.Fprintln(c.App.Writer, l10n.F("imgload version %s", version))
					return nil
				},
			},
		},
	}
}

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "config", Usage: l10n.T("Configuration file (YAML or TOML)"), EnvVars: []string{"IMGLOAD_CONFIG"}},
		&cli.StringFlag{Name: "log-level", Aliases: []string{"l"}, Usage: l10n.T("Log level (debug, info, warn, error)"), Category: l10n.T("Logging")},
		&cli.BoolFlag{Name: "quiet", Aliases: []string{"Q"}, Usage: l10n.T("Suppress all log output"), Category: l10n.T("Logging")},
		&cli.IntFlag{Name: "default-frame-ms", Usage: l10n.T("Duration of frames that specify none, in milliseconds"), Category: l10n.T("Decoding")},
		&cli.Int64Flag{Name: "max-file-bytes", Usage: l10n.T("Largest file that will be read (0 = unlimited)"), Category: l10n.T("Decoding")},
		&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: l10n.T("Enable debug output"), Category: l10n.T("Debug")},
		&cli.StringFlag{Name: "debug-dir", Usage: l10n.T("Directory for debug output"), Category: l10n.T("Debug")},
		&cli.StringFlag{Name: "metrics-listen", Usage: l10n.T("Serve Prometheus metrics on this address"), Category: l10n.T("Debug")},
	}
}

func summaryFlag() cli.Flag {
	return &cli.StringFlag{Name: "summary", Aliases: []string{"s"}, Usage: l10n.T("Output execution summary to file (Markdown format)"), Category: l10n.T("Output")}
}

// buildConfig loads the configuration file, if any, and applies flags.
func buildConfig(c *cli.Context) (config.Config, error) {
	base := config.Defaults()
	if path := c.String("config"); path != "" {
		loaded, err := config.LoadFromFile(path)
		if err != nil {
			return base, fmt.Errorf("load config: %w", err)
		}
		base = loaded
	}

	builder := config.NewBuilder(base)
	if c.IsSet("log-level") {
		builder.WithLogLevel(c.String("log-level"))
	}
	if c.Bool("quiet") {
		builder.WithLogLevel("quiet")
	}
	if c.IsSet("default-frame-ms") {
		builder.WithDefaultFrameMs(c.Int("default-frame-ms"))
	}
	if c.IsSet("max-file-bytes") {
		builder.WithMaxFileBytes(c.Int64("max-file-bytes"))
	}
	if c.Bool("debug") {
		builder.WithDebug(c.String("debug-dir"))
	}
	if c.IsSet("metrics-listen") {
		builder.WithMetrics(c.String("metrics-listen"))
	}
	if c.IsSet("loops") {
		builder.WithLoops(c.Int("loops"))
	}
	if c.IsSet("tick-ms") {
		builder.WithTickMs(c.Int("tick-ms"))
	}
	if c.Bool("watch") {
		builder.WithWatch(true)
	}
	if c.IsSet("quality") {
		builder.WithQualityPreset(config.QualityPreset(c.String("quality")))
	}
	if c.IsSet("format") {
		builder.WithFormat(c.String("format"))
	}
	if c.IsSet("columns") {
		builder.WithColumns(c.Int("columns"))
	}
	if c.IsSet("cell-width") {
		builder.WithCellWidth(c.Int("cell-width"))
	}
	if c.IsSet("background") {
		builder.WithBackgroundColor(c.String("background"))
	}
	if c.Bool("no-banner") {
		builder.WithBanner(false)
	}

	cfg := builder.Build()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// app holds the adapters shared by every command.
type app struct {
	cfg      config.Config
	log      ports.Logger
	fs       *osfilesystem.FileSystem
	renderer *ggrenderer.Renderer
	sink     ports.DebugSink
	queue    *eventqueue.Queue
	loader   *loader.Loader
	player   *player.Player
	server   *http.Server
}

func setup(c *cli.Context) (*app, error) {
	cfg, err := buildConfig(c)
	if err != nil {
		return nil, cli.Exit(err.Error(), 2)
	}

	a := &app{cfg: cfg}

	// Create logger
	if cfg.LogLevel == "quiet" {
		a.log = logger.NewNoop()
	} else {
		a.log = logger.NewConsole(ports.ParseLogLevel(cfg.LogLevel))
	}

	// Create adapters
	a.fs = osfilesystem.New(cfg.MaxFileBytes)
	a.renderer = ggrenderer.New()

	// Create debug sink
	if cfg.Debug {
		if err := a.fs.MkdirAll(cfg.DebugDir); err != nil {
			return nil, fmt.Errorf("create debug directory: %w", err)
		}
		a.sink = filesink.New(cfg.DebugDir, a.fs, a.renderer)
	} else {
		a.sink = nullsink.New()
	}

	// Create metrics
	var metrics ports.LoaderMetrics
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		metrics = prommetrics.New(reg)
		mux := http.NewServeMux()
		mux.Handle("/metrics", prommetrics.Handler(reg))
		a.server = &http.Server{Addr: cfg.Metrics.Listen, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.log.Warn("Metrics server stopped: %v", err)
			}
		}()
	}

	// Create loader and player
	a.queue = eventqueue.New()
	a.loader = loader.New(
		open.New(imagebackend.New(), a.fs, a.log),
		advance.New(a.log),
		a.queue,
		a.log,
		cfg.ToLoaderOptions(metrics),
	)
	a.player = player.New(a.loader, a.queue, a.sink, a.log, cfg.ToPlayerOptions())

	return a, nil
}

func (a *app) Close() {
	a.loader.Close()
	a.queue.Close()
	if a.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		a.server.Shutdown(ctx)
	}
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func (a *app) signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		defer signal.Stop(sigCh)
		select {
		case <-sigCh:
			a.log.Warn(l10n.T("Interrupted, shutting down..."))
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// source resolves the command argument. "-" reads standard input.
func (a *app) source(c *cli.Context) (pipeline.Source, error) {
	if c.NArg() != 1 {
		return pipeline.Source{}, cli.Exit(l10n.T("Exactly one file argument is required"), 2)
	}
	arg := c.Args().First()
	if arg != pipeline.StdinName {
		return pipeline.PathSource(arg), nil
	}

	r := stdin
	if a.cfg.MaxFileBytes > 0 {
		r = io.LimitReader(stdin, a.cfg.MaxFileBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return pipeline.Source{}, fmt.Errorf("read stdin: %w", err)
	}
	if a.cfg.MaxFileBytes > 0 && int64(len(data)) > a.cfg.MaxFileBytes {
		return pipeline.Source{}, fmt.Errorf("read stdin: %w", osfilesystem.ErrTooLarge)
	}
	return pipeline.BytesSource(pipeline.StdinName, data), nil
}

func playAction(c *cli.Context) error {
	a, err := setup(c)
	if err != nil {
		return err
	}
	defer a.Close()

	src, err := a.source(c)
	if err != nil {
		return err
	}

	ctx, cancel := a.signalContext(c.Context)
	defer cancel()

	var reload <-chan struct{}
	if a.cfg.Watch && !src.InMemory() {
		w, err := fswatch.New(ctx, src.Path, -1, a.log)
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
		defer w.Close()
		reload = w.Changes()
	}

	result, err := a.player.Run(ctx, src, reload)
	if err != nil && !errors.Is(err, context.Canceled) {
		return cli.Exit(err.Error(), 1)
	}

	builder := summaryBuilder("play", result, a.cfg)
	return a.writeSummary(c, builder.Build())
}

func framesAction(c *cli.Context) error {
	return runOrchestrator(c, "frames", (*orchestrator.Orchestrator).Frames)
}

func sheetAction(c *cli.Context) error {
	return runOrchestrator(c, "sheet", (*orchestrator.Orchestrator).Sheet)
}

func runOrchestrator(
	c *cli.Context,
	command string,
	run func(*orchestrator.Orchestrator, context.Context, orchestrator.Config) (orchestrator.RunResult, error),
) error {
	a, err := setup(c)
	if err != nil {
		return err
	}
	defer a.Close()

	src, err := a.source(c)
	if err != nil {
		return err
	}

	ctx, cancel := a.signalContext(c.Context)
	defer cancel()

	orch := orchestrator.New(
		a.player,
		layout.NewStage(),
		banner.NewStage(a.renderer, a.log),
		encode.NewStage(a.renderer, a.log),
		a.renderer,
		a.fs,
		a.sink,
		a.log,
	)

	output := c.String("output")
	result, err := run(orch, ctx, a.cfg.ToOrchestratorConfig(src, output))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	a.log.Info(l10n.F("Output saved to %s", output))

	builder := summaryBuilder(command, result.Playback, a.cfg)
	for _, f := range result.Frames {
		builder.WithFrame(f.Index, time.Duration(f.Duration)*time.Millisecond)
	}
	return a.writeSummary(c, builder.Build())
}

func summaryBuilder(command string, result player.Result, cfg config.Config) *summarizer.Builder {
	builder := summarizer.NewBuilder().
		WithCommand(command).
		WithSource(summarizer.SourceInfo{
			ID:         result.Source,
			Format:     string(result.Format),
			Width:      result.Width,
			Height:     result.Height,
			FrameCount: result.NumFrames,
		}).
		WithPlayback(summarizer.PlaybackInfo{
			FramesShown:   result.FramesShown,
			Loops:         result.Loops,
			Reloads:       result.Reloads,
			Elapsed:       result.Elapsed,
			CycleDuration: result.CycleDuration,
		}).
		WithSettings(summarizer.Settings{
			TickInterval:         time.Duration(cfg.TickMs) * time.Millisecond,
			DefaultFrameDuration: time.Duration(cfg.DefaultFrameMs) * time.Millisecond,
			MaxFileBytes:         cfg.MaxFileBytes,
			LoopLimit:            cfg.Loops,
		})
	for _, f := range result.Failures {
		builder.WithFailure(f)
	}
	return builder
}

// writeSummary saves the summary to the --summary path and the debug sink.
func (a *app) writeSummary(c *cli.Context, summary *summarizer.Summary) error {
	writer := summarizer.NewWriter(summarizer.NewMarkdownFormatter(), a.fs)

	if a.sink.Enabled() {
		if err := a.sink.SaveSummary(writer.Render(summary)); err != nil {
			a.log.Warn(l10n.F("Failed to write summary: %s", err))
		}
	}

	path := c.String("summary")
	if path == "" {
		return nil
	}
	if err := writer.Write(path, summary); err != nil {
		return cli.Exit(l10n.F("Failed to write summary: %s", err), 1)
	}
	a.log.Info(l10n.F("Summary saved to %s", path))
	return nil
}
