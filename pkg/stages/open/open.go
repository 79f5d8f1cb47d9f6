// Package open implements the stage that acquires a source and decodes its
// first frame.
package open

import (
	"context"
	"fmt"

	"github.com/user/imgload/pkg/compositor"
	"github.com/user/imgload/pkg/pipeline"
	"github.com/user/imgload/pkg/ports"
)

// Stage opens a source and produces the canvas of frame 0.
type Stage struct {
	backend ports.DecodeBackend
	fs      ports.FileSystem
	logger  ports.Logger
}

// New creates a new open stage.
func New(backend ports.DecodeBackend, fs ports.FileSystem, logger ports.Logger) *Stage {
	return &Stage{
		backend: backend,
		fs:      fs,
		logger:  logger.WithComponent("open"),
	}
}

// Execute acquires the source bytes, detects the format, opens the
// sequence and decodes frame 0. On success the caller owns the returned
// sequence. When ctx is cancelled at a checkpoint, everything opened so
// far is released and ctx.Err() is returned.
func (s *Stage) Execute(ctx context.Context, input pipeline.OpenInput) (pipeline.OpenResult, error) {
	src := input.Source

	data := src.Data
	if !src.InMemory() {
		b, err := s.fs.ReadFile(src.Path)
		if err != nil {
			return pipeline.OpenResult{}, fmt.Errorf("%w: %v", ports.ErrSourceUnavailable, err)
		}
		data = b
	}

	format := s.backend.DetectFormat(data)
	if format == ports.FormatUnknown {
		return pipeline.OpenResult{}, ports.ErrUnknownFormat
	}
	s.logger.Debug("Detected %s (%d bytes)", format, len(data))

	if err := pipeline.Checkpoint(ctx); err != nil {
		return pipeline.OpenResult{}, err
	}

	seq, err := s.backend.Open(format, data)
	if err != nil {
		return pipeline.OpenResult{}, fmt.Errorf("%w: %v", ports.ErrDecodeFailure, err)
	}

	frame, meta, err := seq.DecodeFrame(0)
	if err != nil {
		seq.Close()
		return pipeline.OpenResult{}, fmt.Errorf("%w: frame 0: %v", ports.ErrDecodeFailure, err)
	}

	// Raw frame decoded; conversion to RGBA is the expensive part.
	if err := pipeline.Checkpoint(ctx); err != nil {
		seq.Close()
		return pipeline.OpenResult{}, err
	}

	// Stills take their size from the decoded frame.
	width, height := seq.Size()
	if width <= 0 || height <= 0 {
		b := frame.Bounds()
		width, height = b.Dx(), b.Dy()
	}

	canvas := compositor.Expand(frame, meta, width, height)

	numFrames := seq.FrameCount()
	if numFrames < 1 {
		numFrames = 1
	}

	return pipeline.OpenResult{
		Sequence:  seq,
		Format:    format,
		NumFrames: numFrames,
		Canvas:    canvas,
		Metadata:  meta,
	}, nil
}
