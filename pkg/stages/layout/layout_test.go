package layout

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/user/imgload/pkg/pipeline"
)

func TestComputeLayout_Grid(t *testing.T) {
	input := pipeline.LayoutInput{
		FrameCount:   5,
		FrameWidth:   200,
		FrameHeight:  100,
		Columns:      3,
		CellWidth:    100,
		Gap:          10,
		Padding:      20,
		LabelHeight:  16,
		BannerHeight: 40,
	}

	result := ComputeLayout(input)

	// width = 20*2 + 3*100 + 2*10 = 360
	// height = 40 + 20*2 + 2*(50+16) + 10 = 222
	if result.Width != 360 || result.Height != 222 {
		t.Errorf("expected 360x222, got %dx%d", result.Width, result.Height)
	}
	if result.Rows != 2 {
		t.Errorf("expected 2 rows, got %d", result.Rows)
	}
	if want := (pipeline.Rectangle{X: 0, Y: 0, Width: 360, Height: 40}); result.BannerArea != want {
		t.Errorf("banner area: expected %+v, got %+v", want, result.BannerArea)
	}

	wantCells := []pipeline.Rectangle{
		{X: 20, Y: 60, Width: 100, Height: 50},
		{X: 130, Y: 60, Width: 100, Height: 50},
		{X: 240, Y: 60, Width: 100, Height: 50},
		{X: 20, Y: 136, Width: 100, Height: 50},
		{X: 130, Y: 136, Width: 100, Height: 50},
	}
	if diff := cmp.Diff(wantCells, result.Cells); diff != "" {
		t.Errorf("cells mismatch (-want +got):\n%s", diff)
	}
	if want := (pipeline.Rectangle{X: 20, Y: 110, Width: 100, Height: 16}); result.Labels[0] != want {
		t.Errorf("labels[0]: expected %+v, got %+v", want, result.Labels[0])
	}
}

func TestComputeLayout_ColumnClamping(t *testing.T) {
	tests := []struct {
		name         string
		frameCount   int
		columns      int
		expectedCols int
		expectedRows int
	}{
		{name: "fewer frames than columns", frameCount: 2, columns: 4, expectedCols: 2, expectedRows: 1},
		{name: "exact fit", frameCount: 6, columns: 3, expectedCols: 3, expectedRows: 2},
		{name: "partial last row", frameCount: 7, columns: 3, expectedCols: 3, expectedRows: 3},
		{name: "zero columns", frameCount: 3, columns: 0, expectedCols: 1, expectedRows: 3},
		{name: "no frames", frameCount: 0, columns: 3, expectedCols: 1, expectedRows: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ComputeLayout(pipeline.LayoutInput{
				FrameCount:  tt.frameCount,
				FrameWidth:  10,
				FrameHeight: 10,
				Columns:     tt.columns,
				CellWidth:   10,
			})
			if result.Rows != tt.expectedRows {
				t.Errorf("expected %d rows, got %d", tt.expectedRows, result.Rows)
			}
			if result.Width != tt.expectedCols*10 {
				t.Errorf("expected width %d, got %d", tt.expectedCols*10, result.Width)
			}
		})
	}
}

func TestComputeLayout_AspectRatio(t *testing.T) {
	tests := []struct {
		name           string
		frameWidth     int
		frameHeight    int
		cellWidth      int
		expectedWidth  int
		expectedHeight int
	}{
		{name: "landscape", frameWidth: 320, frameHeight: 240, cellWidth: 160, expectedWidth: 160, expectedHeight: 120},
		{name: "portrait", frameWidth: 100, frameHeight: 300, cellWidth: 50, expectedWidth: 50, expectedHeight: 150},
		{name: "rounding", frameWidth: 3, frameHeight: 2, cellWidth: 10, expectedWidth: 10, expectedHeight: 7},
		{name: "native size", frameWidth: 64, frameHeight: 32, cellWidth: 0, expectedWidth: 64, expectedHeight: 32},
		{name: "very wide", frameWidth: 1000, frameHeight: 1, cellWidth: 10, expectedWidth: 10, expectedHeight: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ComputeLayout(pipeline.LayoutInput{
				FrameCount:  1,
				FrameWidth:  tt.frameWidth,
				FrameHeight: tt.frameHeight,
				Columns:     1,
				CellWidth:   tt.cellWidth,
			})
			got := result.Cells[0]
			if got.Width != tt.expectedWidth || got.Height != tt.expectedHeight {
				t.Errorf("expected %dx%d, got %dx%d", tt.expectedWidth, tt.expectedHeight, got.Width, got.Height)
			}
		})
	}
}

func TestStage_Execute(t *testing.T) {
	stage := NewStage()
	input := pipeline.LayoutInput{FrameCount: 4, FrameWidth: 10, FrameHeight: 10, Columns: 2, CellWidth: 10}

	result, err := stage.Execute(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(ComputeLayout(input), result); diff != "" {
		t.Errorf("Execute differs from ComputeLayout (-want +got):\n%s", diff)
	}
}
