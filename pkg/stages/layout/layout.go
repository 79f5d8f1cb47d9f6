// Package layout implements the contact sheet layout stage.
package layout

import (
	"context"

	"github.com/user/imgload/pkg/pipeline"
)

// Stage calculates the grid of a contact sheet.
// This is a pure function with no external dependencies.
type Stage struct{}

// NewStage creates a new layout stage.
func NewStage() *Stage {
	return &Stage{}
}

// Execute calculates the layout based on the input parameters.
func (s *Stage) Execute(ctx context.Context, input pipeline.LayoutInput) (pipeline.LayoutResult, error) {
	return ComputeLayout(input), nil
}

// ComputeLayout performs the layout calculation.
// This is exposed as a standalone function for testing and reuse.
//
// Frames are placed left to right, top to bottom, below the banner. Each
// cell keeps the aspect ratio of the source and carries a label strip.
func ComputeLayout(input pipeline.LayoutInput) pipeline.LayoutResult {
	count := input.FrameCount
	if count < 1 {
		count = 1
	}
	columns := input.Columns
	if columns < 1 {
		columns = 1
	}
	if columns > count {
		columns = count
	}
	rows := (count + columns - 1) / columns

	cellWidth := input.CellWidth
	if cellWidth <= 0 {
		cellWidth = input.FrameWidth
	}
	if cellWidth <= 0 {
		cellWidth = 1
	}
	cellHeight := cellWidth
	if input.FrameWidth > 0 && input.FrameHeight > 0 {
		cellHeight = (input.FrameHeight*cellWidth + input.FrameWidth/2) / input.FrameWidth
	}
	if cellHeight < 1 {
		cellHeight = 1
	}
	rowHeight := cellHeight + input.LabelHeight

	width := input.Padding*2 + columns*cellWidth + (columns-1)*input.Gap
	height := input.BannerHeight + input.Padding*2 + rows*rowHeight + (rows-1)*input.Gap

	bannerArea := pipeline.Rectangle{}
	if input.BannerHeight > 0 {
		bannerArea = pipeline.Rectangle{
			X:      0,
			Y:      0,
			Width:  width,
			Height: input.BannerHeight,
		}
	}

	cells := make([]pipeline.Rectangle, count)
	labels := make([]pipeline.Rectangle, count)
	for i := 0; i < count; i++ {
		col := i % columns
		row := i / columns
		x := input.Padding + col*(cellWidth+input.Gap)
		y := input.BannerHeight + input.Padding + row*(rowHeight+input.Gap)

		cells[i] = pipeline.Rectangle{X: x, Y: y, Width: cellWidth, Height: cellHeight}
		labels[i] = pipeline.Rectangle{X: x, Y: y + cellHeight, Width: cellWidth, Height: input.LabelHeight}
	}

	return pipeline.LayoutResult{
		Width:      width,
		Height:     height,
		Rows:       rows,
		BannerArea: bannerArea,
		Cells:      cells,
		Labels:     labels,
	}
}
