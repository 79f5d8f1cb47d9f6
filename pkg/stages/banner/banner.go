// Package banner implements the contact sheet header stage.
package banner

import (
	"context"
	"fmt"

	"github.com/user/imgload/pkg/pipeline"
	"github.com/user/imgload/pkg/ports"
)

// Stage generates a banner image displaying source metadata.
type Stage struct {
	renderer ports.Renderer
	logger   ports.Logger
}

// NewStage creates a new banner stage.
func NewStage(renderer ports.Renderer, logger ports.Logger) *Stage {
	return &Stage{
		renderer: renderer,
		logger:   logger.WithComponent("banner"),
	}
}

// Execute renders the banner text template onto a canvas of the requested
// size, one template line per row.
func (s *Stage) Execute(ctx context.Context, input pipeline.BannerInput) (pipeline.BannerResult, error) {
	result := pipeline.BannerResult{}

	if input.Width <= 0 || input.Height <= 0 {
		return result, fmt.Errorf("invalid banner size %dx%d", input.Width, input.Height)
	}

	s.logger.Debug("Generating banner")

	vars := NewTemplateVars(
		input.Source,
		input.Format,
		input.FrameWidth,
		input.FrameHeight,
		input.FrameCount,
		input.CycleDuration,
	)
	lines, err := RenderLines(vars)
	if err != nil {
		return result, fmt.Errorf("render banner: %w", err)
	}
	if err := pipeline.Checkpoint(ctx); err != nil {
		return result, err
	}

	theme := input.Theme
	fontSize := theme.FontSize
	if fontSize <= 0 {
		fontSize = pipeline.DefaultSheetTheme().FontSize
	}
	lineHeight := int(fontSize * 1.5)

	canvas := s.renderer.CreateCanvas(input.Width, input.Height, theme.BackgroundColor)
	style := ports.TextStyle{
		FontSize: fontSize,
		Color:    theme.TextColor,
		Align:    ports.AlignLeft,
	}
	for i, line := range lines {
		y := 8 + (i+1)*lineHeight
		if y > input.Height {
			break
		}
		canvas.DrawText(line, 12, y, style)
	}
	canvas.DrawRect(0, input.Height-1, input.Width, 1, theme.BorderColor)

	result.Image = canvas.ToImage()
	result.Lines = lines
	s.logger.Debug("Banner generated: %dx%d", input.Width, input.Height)

	return result, nil
}
