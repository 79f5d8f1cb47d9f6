package orchestrator

import (
	"context"
	"errors"
	"image"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/user/imgload/pkg/adapters/logger"
	"github.com/user/imgload/pkg/mocks"
	"github.com/user/imgload/pkg/pipeline"
	"github.com/user/imgload/pkg/player"
	"github.com/user/imgload/pkg/ports"
)

// mockExtractor is a mock for the frame extractor.
type mockExtractor struct {
	frames []player.Frame
	result player.Result
	err    error
}

func (m *mockExtractor) Extract(ctx context.Context, src pipeline.Source) ([]player.Frame, player.Result, error) {
	if m.err != nil {
		return nil, player.Result{Source: src.ID()}, m.err
	}
	return m.frames, m.result, nil
}

// mockLayoutStage is a mock for the layout stage.
type mockLayoutStage struct {
	result pipeline.LayoutResult
	err    error
	input  pipeline.LayoutInput
}

func (m *mockLayoutStage) Execute(ctx context.Context, input pipeline.LayoutInput) (pipeline.LayoutResult, error) {
	m.input = input
	if m.err != nil {
		return pipeline.LayoutResult{}, m.err
	}
	return m.result, nil
}

// mockBannerStage is a mock for the banner stage.
type mockBannerStage struct {
	result pipeline.BannerResult
	err    error
	calls  int
}

func (m *mockBannerStage) Execute(ctx context.Context, input pipeline.BannerInput) (pipeline.BannerResult, error) {
	m.calls++
	if m.err != nil {
		return pipeline.BannerResult{}, m.err
	}
	return m.result, nil
}

// mockEncodeStage is a mock for the encode stage.
type mockEncodeStage struct {
	result pipeline.EncodeResult
	err    error
	input  pipeline.EncodeInput
}

func (m *mockEncodeStage) Execute(ctx context.Context, input pipeline.EncodeInput) (pipeline.EncodeResult, error) {
	m.input = input
	if m.err != nil {
		return pipeline.EncodeResult{}, m.err
	}
	return m.result, nil
}

func testExtractor() *mockExtractor {
	return &mockExtractor{
		frames: []player.Frame{
			{Index: 0, Image: image.NewRGBA(image.Rect(0, 0, 4, 4)), Duration: 100 * time.Millisecond},
			{Index: 1, Image: image.NewRGBA(image.Rect(0, 0, 4, 4)), Duration: 200 * time.Millisecond},
		},
		result: player.Result{
			Source:        "anim.gif",
			Format:        ports.FormatGIF,
			Width:         4,
			Height:        4,
			NumFrames:     2,
			FramesShown:   2,
			CycleDuration: 300 * time.Millisecond,
		},
	}
}

func testLayout() pipeline.LayoutResult {
	return pipeline.LayoutResult{
		Width:      100,
		Height:     80,
		Rows:       1,
		BannerArea: pipeline.Rectangle{Width: 100, Height: 30},
		Cells: []pipeline.Rectangle{
			{X: 10, Y: 40, Width: 30, Height: 30},
			{X: 50, Y: 40, Width: 30, Height: 30},
		},
	}
}

func TestOrchestrator_Sheet(t *testing.T) {
	layoutStage := &mockLayoutStage{result: testLayout()}
	bannerStage := &mockBannerStage{
		result: pipeline.BannerResult{Image: image.NewRGBA(image.Rect(0, 0, 100, 30))},
	}
	encodeStage := &mockEncodeStage{
		result: pipeline.EncodeResult{
			Image: image.NewRGBA(image.Rect(0, 0, 100, 80)),
			Data:  []byte{0x89, 'P', 'N', 'G'},
		},
	}

	mockFS := mocks.NewFileSystem()
	mockSink := mocks.NewDebugSink(true)

	orch := New(testExtractor(), layoutStage, bannerStage, encodeStage,
		&mocks.Renderer{}, mockFS, mockSink, logger.NewNoop())

	config := DefaultConfig()
	config.Source = pipeline.PathSource("anim.gif")
	config.OutputPath = "sheet.png"

	result, err := orch.Sheet(context.Background(), config)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, ok := mockFS.GetFile("sheet.png")
	if !ok {
		t.Fatal("expected output file to be written")
	}
	if len(data) != 4 {
		t.Errorf("expected 4 bytes, got %d", len(data))
	}

	if bannerStage.calls != 1 {
		t.Errorf("expected banner stage to be called once, got %d", bannerStage.calls)
	}
	if encodeStage.input.Banner == nil {
		t.Error("expected banner to be passed to the encode stage")
	}
	if len(encodeStage.input.Frames) != 2 {
		t.Errorf("expected 2 frames to encode, got %d", len(encodeStage.input.Frames))
	}
	if layoutStage.input.FrameCount != 2 || layoutStage.input.BannerHeight != config.BannerHeight {
		t.Errorf("unexpected layout input %+v", layoutStage.input)
	}
	if mockSink.Sheet == nil {
		t.Error("expected sheet to be saved to debug sink")
	}

	wantFrames := []FrameInfo{{Index: 0, Duration: 100}, {Index: 1, Duration: 200}}
	if diff := cmp.Diff(wantFrames, result.Frames); diff != "" {
		t.Errorf("frames mismatch (-want +got):\n%s", diff)
	}
	if result.SheetWidth != 100 || result.SheetHeight != 80 || result.SheetFileSize != 4 {
		t.Errorf("unexpected sheet info %dx%d %d bytes", result.SheetWidth, result.SheetHeight, result.SheetFileSize)
	}
}

func TestOrchestrator_Sheet_WithoutBanner(t *testing.T) {
	layoutStage := &mockLayoutStage{result: testLayout()}
	bannerStage := &mockBannerStage{}
	encodeStage := &mockEncodeStage{result: pipeline.EncodeResult{Data: []byte{0x00}}}

	orch := New(testExtractor(), layoutStage, bannerStage, encodeStage,
		&mocks.Renderer{}, mocks.NewFileSystem(), mocks.NewDebugSink(false), logger.NewNoop())

	config := DefaultConfig()
	config.OutputPath = "sheet.png"
	config.BannerEnabled = false

	if _, err := orch.Sheet(context.Background(), config); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bannerStage.calls != 0 {
		t.Error("expected banner stage to be skipped when BannerEnabled is false")
	}
	if layoutStage.input.BannerHeight != 0 {
		t.Errorf("expected no banner space, got %d", layoutStage.input.BannerHeight)
	}
}

func TestOrchestrator_Sheet_Errors(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name      string
		extractor *mockExtractor
		layout    *mockLayoutStage
		banner    *mockBannerStage
		encode    *mockEncodeStage
	}{
		{
			name:      "extract",
			extractor: &mockExtractor{err: boom},
			layout:    &mockLayoutStage{result: testLayout()},
			banner:    &mockBannerStage{},
			encode:    &mockEncodeStage{},
		},
		{
			name:      "layout",
			extractor: testExtractor(),
			layout:    &mockLayoutStage{err: boom},
			banner:    &mockBannerStage{},
			encode:    &mockEncodeStage{},
		},
		{
			name:      "banner",
			extractor: testExtractor(),
			layout:    &mockLayoutStage{result: testLayout()},
			banner:    &mockBannerStage{err: boom},
			encode:    &mockEncodeStage{},
		},
		{
			name:      "encode",
			extractor: testExtractor(),
			layout:    &mockLayoutStage{result: testLayout()},
			banner:    &mockBannerStage{},
			encode:    &mockEncodeStage{err: boom},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockFS := mocks.NewFileSystem()
			orch := New(tt.extractor, tt.layout, tt.banner, tt.encode,
				&mocks.Renderer{}, mockFS, mocks.NewDebugSink(false), logger.NewNoop())

			config := DefaultConfig()
			config.OutputPath = "sheet.png"

			_, err := orch.Sheet(context.Background(), config)
			if !errors.Is(err, boom) {
				t.Errorf("expected wrapped error, got %v", err)
			}
			if exists, _ := mockFS.Exists("sheet.png"); exists {
				t.Error("expected no output on failure")
			}
		})
	}
}

func TestOrchestrator_Frames(t *testing.T) {
	var encodings []ports.Encoding
	renderer := &mocks.Renderer{
		EncodeImageFunc: func(img image.Image, enc ports.Encoding, quality int) ([]byte, error) {
			encodings = append(encodings, enc)
			return []byte("img"), nil
		},
	}
	mockFS := mocks.NewFileSystem()

	orch := New(testExtractor(), &mockLayoutStage{}, &mockBannerStage{}, &mockEncodeStage{},
		renderer, mockFS, mocks.NewDebugSink(false), logger.NewNoop())

	config := DefaultConfig()
	config.Source = pipeline.PathSource("anim.gif")
	config.OutputPath = "out"
	config.Encoding = ports.EncodeJPEG

	result, err := orch.Frames(context.Background(), config)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"out/frame-0000.jpg", "out/frame-0001.jpg"}
	if diff := cmp.Diff(want, result.Outputs); diff != "" {
		t.Errorf("outputs mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, mockFS.FileNames()); diff != "" {
		t.Errorf("written files mismatch (-want +got):\n%s", diff)
	}
	if len(encodings) != 2 || encodings[0] != ports.EncodeJPEG {
		t.Errorf("expected two JPEG encodes, got %v", encodings)
	}
	if exists, _ := mockFS.Exists("out"); !exists {
		t.Error("expected output directory to be created")
	}
}

func TestOrchestrator_Frames_Cancelled(t *testing.T) {
	orch := New(testExtractor(), &mockLayoutStage{}, &mockBannerStage{}, &mockEncodeStage{},
		&mocks.Renderer{}, mocks.NewFileSystem(), mocks.NewDebugSink(false), logger.NewNoop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	config := DefaultConfig()
	config.OutputPath = "out"

	_, err := orch.Frames(ctx, config)
	if err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
