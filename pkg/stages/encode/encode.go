// Package encode implements the contact sheet encoding stage.
package encode

import (
	"context"
	"fmt"

	"github.com/user/imgload/pkg/pipeline"
	"github.com/user/imgload/pkg/ports"
)

// Stage draws extracted frames onto a contact sheet and encodes it.
type Stage struct {
	renderer ports.Renderer
	logger   ports.Logger
}

// NewStage creates a new encode stage.
func NewStage(renderer ports.Renderer, logger ports.Logger) *Stage {
	return &Stage{
		renderer: renderer,
		logger:   logger.WithComponent("encode"),
	}
}

// Execute composes all frames into the layout's cells and encodes the
// resulting sheet.
func (s *Stage) Execute(ctx context.Context, input pipeline.EncodeInput) (pipeline.EncodeResult, error) {
	result := pipeline.EncodeResult{}

	if len(input.Frames) == 0 {
		return result, fmt.Errorf("no frames to encode")
	}
	if len(input.Frames) > len(input.Layout.Cells) {
		return result, fmt.Errorf("layout has %d cells for %d frames", len(input.Layout.Cells), len(input.Frames))
	}

	theme := input.Theme
	canvas := s.renderer.CreateCanvas(input.Layout.Width, input.Layout.Height, theme.BackgroundColor)

	if input.Banner != nil && input.Banner.Image != nil {
		area := input.Layout.BannerArea
		canvas.DrawImage(input.Banner.Image, area.X, area.Y)
	}

	labelStyle := ports.TextStyle{
		FontSize: theme.FontSize,
		Color:    theme.TextColor,
		Align:    ports.AlignCenter,
	}

	// Draw each frame
	for i, frame := range input.Frames {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		cell := input.Layout.Cells[i]
		scaled := s.renderer.ResizeImage(frame.Image, cell.Width, cell.Height)
		canvas.DrawImage(scaled, cell.X, cell.Y)
		canvas.DrawRectStroke(cell.X, cell.Y, cell.Width, cell.Height, theme.BorderColor, 1)

		if i < len(input.Layout.Labels) {
			label := input.Layout.Labels[i]
			if label.Height > 0 {
				canvas.DrawText(Label(frame), label.X+label.Width/2, label.Y+label.Height-3, labelStyle)
			}
		}
	}

	result.Image = canvas.ToImage()

	data, err := s.renderer.EncodeImage(result.Image, input.Encoding, input.Quality)
	if err != nil {
		return result, fmt.Errorf("encode sheet: %w", err)
	}
	result.Data = data

	s.logger.Debug("Sheet encoded: %d frames, %d bytes", len(input.Frames), len(data))

	return result, nil
}

// Label returns the caption drawn under a frame.
func Label(frame pipeline.SheetFrame) string {
	if frame.Duration <= 0 {
		return fmt.Sprintf("#%d", frame.Index)
	}
	return fmt.Sprintf("#%d  %d ms", frame.Index, frame.Duration.Milliseconds())
}
