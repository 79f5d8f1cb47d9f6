// Package orchestrator coordinates frame extraction and the contact sheet
// stages.
package orchestrator

import (
	"context"
	"fmt"
	"image/color"
	"path/filepath"

	"github.com/ideamans/go-l10n"

	"github.com/user/imgload/pkg/pipeline"
	"github.com/user/imgload/pkg/player"
	"github.com/user/imgload/pkg/ports"
)

// Extractor steps a source through every frame once.
type Extractor interface {
	Extract(ctx context.Context, src pipeline.Source) ([]player.Frame, player.Result, error)
}

// Config contains all configuration for the orchestrator.
type Config struct {
	// Input
	Source     pipeline.Source
	OutputPath string // Sheet file, or the directory frames are written to

	// Layout
	Columns     int
	CellWidth   int
	Gap         int
	Padding     int
	LabelHeight int

	// Style
	BackgroundColor [4]uint8 // RGBA
	BorderColor     [4]uint8 // RGBA

	// Banner
	BannerEnabled bool
	BannerHeight  int

	// Encoding
	Encoding ports.Encoding
	Quality  int
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Columns:       4,
		CellWidth:     160,
		Gap:           12,
		Padding:       16,
		LabelHeight:   18,
		BannerEnabled: true,
		BannerHeight:  72,
		Encoding:      ports.EncodePNG,
		Quality:       90,
	}
}

// Orchestrator coordinates extraction and the sheet stages.
type Orchestrator struct {
	extractor   Extractor
	layoutStage pipeline.Stage[pipeline.LayoutInput, pipeline.LayoutResult]
	bannerStage pipeline.Stage[pipeline.BannerInput, pipeline.BannerResult]
	encodeStage pipeline.Stage[pipeline.EncodeInput, pipeline.EncodeResult]
	renderer    ports.Renderer
	fs          ports.FileSystem
	sink        ports.DebugSink
	logger      ports.Logger
}

// New creates a new Orchestrator.
func New(
	extractor Extractor,
	layoutStage pipeline.Stage[pipeline.LayoutInput, pipeline.LayoutResult],
	bannerStage pipeline.Stage[pipeline.BannerInput, pipeline.BannerResult],
	encodeStage pipeline.Stage[pipeline.EncodeInput, pipeline.EncodeResult],
	renderer ports.Renderer,
	fs ports.FileSystem,
	sink ports.DebugSink,
	logger ports.Logger,
) *Orchestrator {
	return &Orchestrator{
		extractor:   extractor,
		layoutStage: layoutStage,
		bannerStage: bannerStage,
		encodeStage: encodeStage,
		renderer:    renderer,
		fs:          fs,
		sink:        sink,
		logger:      logger,
	}
}

// RunResult contains the results of a run for summary generation.
type RunResult struct {
	Playback player.Result
	Frames   []FrameInfo

	// Files written
	Outputs []string

	// Sheet information, zero for frame extraction
	SheetWidth    int
	SheetHeight   int
	SheetFileSize int64
}

// FrameInfo describes one extracted frame.
type FrameInfo struct {
	Index    int
	Duration int // in ms
}

// Sheet extracts every frame of the source and writes a contact sheet.
func (o *Orchestrator) Sheet(ctx context.Context, config Config) (RunResult, error) {
	o.logger.Info(l10n.T("Starting pipeline"))

	// 1. Extract frames
	frames, playback, err := o.extract(ctx, config)
	if err != nil {
		return RunResult{}, err
	}
	result := newRunResult(frames, playback)

	// 2. Layout calculation
	o.logger.Info(l10n.T("Calculating layout"))
	layout, err := o.layoutStage.Execute(ctx, o.buildLayoutInput(config, playback))
	if err != nil {
		o.logger.Error(l10n.F("Failed to calculate layout: %s", err))
		return result, fmt.Errorf("layout stage: %w", err)
	}
	o.logger.Info(l10n.F("Layout calculated: %dx%d sheet, %d rows", layout.Width, layout.Height, layout.Rows))

	theme := buildTheme(config)

	// 3. Generate banner (optional)
	var banner *pipeline.BannerResult
	if config.BannerEnabled && layout.BannerArea.Height > 0 {
		o.logger.Info(l10n.T("Generating banner"))
		b, err := o.bannerStage.Execute(ctx, pipeline.BannerInput{
			Width:         layout.BannerArea.Width,
			Height:        layout.BannerArea.Height,
			Source:        playback.Source,
			Format:        string(playback.Format),
			FrameWidth:    playback.Width,
			FrameHeight:   playback.Height,
			FrameCount:    len(frames),
			CycleDuration: playback.CycleDuration,
			Theme:         theme,
		})
		if err != nil {
			o.logger.Error(l10n.F("Failed to generate banner: %s", err))
			return result, fmt.Errorf("banner stage: %w", err)
		}
		banner = &b
	}

	// 4. Compose and encode the sheet
	o.logger.Info(l10n.F("Composing sheet of %d frames", len(frames)))
	encoded, err := o.encodeStage.Execute(ctx, pipeline.EncodeInput{
		Frames:   toSheetFrames(frames),
		Layout:   layout,
		Banner:   banner,
		Theme:    theme,
		Encoding: config.Encoding,
		Quality:  config.Quality,
	})
	if err != nil {
		o.logger.Error(l10n.F("Failed to compose sheet: %s", err))
		return result, fmt.Errorf("encode stage: %w", err)
	}

	if o.sink.Enabled() {
		if err := o.sink.SaveSheet(encoded.Image); err != nil {
			o.logger.Warn("Failed to save sheet: %v", err)
		}
	}

	// 5. Write output file
	if err := o.fs.WriteFile(config.OutputPath, encoded.Data); err != nil {
		o.logger.Error(l10n.F("Failed to write output: %s", err))
		return result, fmt.Errorf("write output: %w", err)
	}

	o.logger.Info(l10n.T("Pipeline completed successfully"))

	result.Outputs = []string{config.OutputPath}
	result.SheetWidth = layout.Width
	result.SheetHeight = layout.Height
	result.SheetFileSize = int64(len(encoded.Data))
	return result, nil
}

// Frames extracts every frame of the source and writes each one as an
// image into the output directory.
func (o *Orchestrator) Frames(ctx context.Context, config Config) (RunResult, error) {
	frames, playback, err := o.extract(ctx, config)
	if err != nil {
		return RunResult{}, err
	}
	result := newRunResult(frames, playback)

	if err := o.fs.MkdirAll(config.OutputPath); err != nil {
		return result, fmt.Errorf("create output directory: %w", err)
	}

	ext := ".png"
	if config.Encoding == ports.EncodeJPEG {
		ext = ".jpg"
	}

	for _, frame := range frames {
		if err := pipeline.Checkpoint(ctx); err != nil {
			return result, err
		}
		data, err := o.renderer.EncodeImage(frame.Image, config.Encoding, config.Quality)
		if err != nil {
			return result, fmt.Errorf("encode frame %d: %w", frame.Index, err)
		}
		path := filepath.Join(config.OutputPath, fmt.Sprintf("frame-%04d%s", frame.Index, ext))
		if err := o.fs.WriteFile(path, data); err != nil {
			return result, fmt.Errorf("write frame %d: %w", frame.Index, err)
		}
		result.Outputs = append(result.Outputs, path)
	}

	o.logger.Info(l10n.F("Wrote %d frames to %s", len(frames), config.OutputPath))
	return result, nil
}

func (o *Orchestrator) extract(ctx context.Context, config Config) ([]player.Frame, player.Result, error) {
	frames, playback, err := o.extractor.Extract(ctx, config.Source)
	if err != nil {
		o.logger.Error(l10n.F("Failed to extract frames: %s", err))
		return nil, playback, fmt.Errorf("extract: %w", err)
	}
	o.logger.Info(l10n.F("Extracted %d frames", len(frames)))
	return frames, playback, nil
}

func (o *Orchestrator) buildLayoutInput(config Config, playback player.Result) pipeline.LayoutInput {
	return pipeline.LayoutInput{
		FrameCount:   playback.FramesShown,
		FrameWidth:   playback.Width,
		FrameHeight:  playback.Height,
		Columns:      config.Columns,
		CellWidth:    config.CellWidth,
		Gap:          config.Gap,
		Padding:      config.Padding,
		LabelHeight:  config.LabelHeight,
		BannerHeight: conditionalInt(config.BannerEnabled, config.BannerHeight, 0),
	}
}

func buildTheme(config Config) pipeline.SheetTheme {
	theme := pipeline.DefaultSheetTheme()
	// Override theme colors if specified
	if config.BackgroundColor != [4]uint8{} {
		theme.BackgroundColor = rgbaFromArray(config.BackgroundColor)
	}
	if config.BorderColor != [4]uint8{} {
		theme.BorderColor = rgbaFromArray(config.BorderColor)
	}
	return theme
}

func newRunResult(frames []player.Frame, playback player.Result) RunResult {
	result := RunResult{Playback: playback}
	for _, f := range frames {
		result.Frames = append(result.Frames, FrameInfo{
			Index:    f.Index,
			Duration: int(f.Duration.Milliseconds()),
		})
	}
	return result
}

func toSheetFrames(frames []player.Frame) []pipeline.SheetFrame {
	out := make([]pipeline.SheetFrame, len(frames))
	for i, f := range frames {
		out[i] = pipeline.SheetFrame{Index: f.Index, Image: f.Image, Duration: f.Duration}
	}
	return out
}

func conditionalInt(condition bool, trueVal, falseVal int) int {
	if condition {
		return trueVal
	}
	return falseVal
}

func rgbaFromArray(c [4]uint8) color.RGBA {
	return color.RGBA{R: c[0], G: c[1], B: c[2], A: c[3]}
}
