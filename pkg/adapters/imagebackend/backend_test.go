package imagebackend

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"testing"
	"time"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/user/imgload/pkg/compositor"
	"github.com/user/imgload/pkg/ports"
)

var palette = color.Palette{
	color.RGBA{},
	color.RGBA{R: 255, A: 255},
	color.RGBA{B: 255, A: 255},
}

func encodeAnimation(t *testing.T) []byte {
	t.Helper()

	full := image.NewPaletted(image.Rect(0, 0, 4, 4), palette)
	for i := range full.Pix {
		full.Pix[i] = 1
	}
	inset := image.NewPaletted(image.Rect(1, 1, 3, 3), palette)
	for i := range inset.Pix {
		inset.Pix[i] = 2
	}

	var buf bytes.Buffer
	err := gif.EncodeAll(&buf, &gif.GIF{
		Image:    []*image.Paletted{full, inset},
		Delay:    []int{10, 0},
		Disposal: []byte{gif.DisposalNone, gif.DisposalBackground},
	})
	if err != nil {
		t.Fatalf("encode gif: %v", err)
	}
	return buf.Bytes()
}

func testImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 6, 3))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+1] = 200
		img.Pix[i+3] = 255
	}
	return img
}

func TestBackend_DetectFormat(t *testing.T) {
	b := New()

	var pngBuf, jpegBuf, bmpBuf, tiffBuf bytes.Buffer
	png.Encode(&pngBuf, testImage())
	jpeg.Encode(&jpegBuf, testImage(), nil)
	bmp.Encode(&bmpBuf, testImage())
	tiff.Encode(&tiffBuf, testImage(), nil)

	tests := []struct {
		name string
		data []byte
		want ports.Format
	}{
		{"gif", encodeAnimation(t), ports.FormatGIF},
		{"gif87a", []byte("GIF87a......"), ports.FormatGIF},
		{"png", pngBuf.Bytes(), ports.FormatPNG},
		{"jpeg", jpegBuf.Bytes(), ports.FormatJPEG},
		{"bmp", bmpBuf.Bytes(), ports.FormatBMP},
		{"tiff", tiffBuf.Bytes(), ports.FormatTIFF},
		{"webp", []byte("RIFF\x10\x00\x00\x00WEBPVP8L"), ports.FormatWebP},
		{"empty", nil, ports.FormatUnknown},
		{"text", []byte("hello, world"), ports.FormatUnknown},
		{"short gif", []byte("GIF8"), ports.FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.DetectFormat(tt.data); got != tt.want {
				t.Errorf("DetectFormat() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBackend_OpenGIF(t *testing.T) {
	b := New()
	seq, err := b.Open(ports.FormatGIF, encodeAnimation(t))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer seq.Close()

	if seq.FrameCount() != 2 {
		t.Fatalf("expected 2 frames, got %d", seq.FrameCount())
	}
	if w, h := seq.Size(); w != 4 || h != 4 {
		t.Errorf("expected 4x4 logical screen, got %dx%d", w, h)
	}

	_, meta0, err := seq.DecodeFrame(0)
	if err != nil {
		t.Fatalf("DecodeFrame(0): %v", err)
	}
	if meta0.Duration != 100*time.Millisecond || meta0.Disposal != ports.DisposalComposite {
		t.Errorf("frame 0: unexpected metadata %+v", meta0)
	}

	frame1, meta1, err := seq.DecodeFrame(1)
	if err != nil {
		t.Fatalf("DecodeFrame(1): %v", err)
	}
	if meta1.OffsetX != 1 || meta1.OffsetY != 1 {
		t.Errorf("frame 1: expected offset (1,1), got (%d,%d)", meta1.OffsetX, meta1.OffsetY)
	}
	if meta1.Duration != 0 || meta1.Disposal != ports.DisposalBackground {
		t.Errorf("frame 1: unexpected metadata %+v", meta1)
	}
	if meta1.DisplayDuration(0) != ports.DefaultFrameDuration {
		t.Errorf("frame 1: expected default duration, got %v", meta1.DisplayDuration(0))
	}

	// The inset frame lands at its offset once expanded.
	canvas := compositor.Expand(frame1, meta1, 4, 4)
	if a := canvas.Pix[3]; a != 0 {
		t.Errorf("pixel (0,0): expected transparent, got alpha %d", a)
	}
	i := 4 * (1*4 + 1)
	if canvas.Pix[i+2] != 255 || canvas.Pix[i+3] != 255 {
		t.Errorf("pixel (1,1): expected blue, got %v", canvas.Pix[i:i+4])
	}

	if _, _, err := seq.DecodeFrame(2); err == nil {
		t.Error("expected error for out-of-range frame")
	}
}

func TestBackend_OpenGIFColourTables(t *testing.T) {
	frame := func(c uint8) *image.Paletted {
		img := image.NewPaletted(image.Rect(0, 0, 2, 2), palette)
		for i := range img.Pix {
			img.Pix[i] = c
		}
		return img
	}

	tests := []struct {
		name   string
		config image.Config
	}{
		{"local palettes only", image.Config{}},
		{"global palette", image.Config{ColorModel: palette, Width: 2, Height: 2}},
	}

	b := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := gif.EncodeAll(&buf, &gif.GIF{
				Image:  []*image.Paletted{frame(1), frame(2)},
				Delay:  []int{5, 5},
				Config: tt.config,
			})
			if err != nil {
				t.Fatalf("encode gif: %v", err)
			}

			seq, err := b.Open(ports.FormatGIF, buf.Bytes())
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			defer seq.Close()

			if seq.FrameCount() != 2 {
				t.Errorf("expected 2 frames, got %d", seq.FrameCount())
			}
			if w, h := seq.Size(); w != 2 || h != 2 {
				t.Errorf("expected 2x2, got %dx%d", w, h)
			}
		})
	}
}

func TestBackend_OpenStills(t *testing.T) {
	var pngBuf, bmpBuf, tiffBuf bytes.Buffer
	png.Encode(&pngBuf, testImage())
	bmp.Encode(&bmpBuf, testImage())
	tiff.Encode(&tiffBuf, testImage(), nil)

	tests := []struct {
		format ports.Format
		data   []byte
	}{
		{ports.FormatPNG, pngBuf.Bytes()},
		{ports.FormatBMP, bmpBuf.Bytes()},
		{ports.FormatTIFF, tiffBuf.Bytes()},
	}

	b := New()
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			seq, err := b.Open(tt.format, tt.data)
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			if seq.FrameCount() != 1 {
				t.Errorf("expected 1 frame, got %d", seq.FrameCount())
			}
			img, meta, err := seq.DecodeFrame(0)
			if err != nil {
				t.Fatalf("DecodeFrame: %v", err)
			}
			if img.Bounds().Dx() != 6 || img.Bounds().Dy() != 3 {
				t.Errorf("expected 6x3, got %v", img.Bounds())
			}
			if meta != (ports.FrameMetadata{}) {
				t.Errorf("expected zero metadata, got %+v", meta)
			}
			if w, h := seq.Size(); w != 6 || h != 3 {
				t.Errorf("expected size 6x3, got %dx%d", w, h)
			}

			seq.Close()
			if _, _, err := seq.DecodeFrame(0); err == nil {
				t.Error("expected error after Close")
			}
		})
	}
}

func TestBackend_OpenCorrupt(t *testing.T) {
	b := New()
	if _, err := b.Open(ports.FormatGIF, []byte("GIF89a\x01")); err == nil {
		t.Error("expected error for truncated gif")
	}
	if _, err := b.Open(ports.FormatPNG, []byte("\x89PNG\r\n\x1a\nxx")); err == nil {
		t.Error("expected error for truncated png")
	}
	if _, err := b.Open(ports.FormatUnknown, []byte("x")); err == nil {
		t.Error("expected error for unknown format")
	}
}
