package ports

import (
	"image"
	"image/color"
)

// Renderer abstracts encoding, scaling and drawing of decoded frames.
type Renderer interface {
	// CreateCanvas creates a drawing canvas filled with bg.
	CreateCanvas(width, height int, bg color.Color) Canvas

	// EncodeImage encodes img; quality only applies to JPEG.
	EncodeImage(img image.Image, enc Encoding, quality int) ([]byte, error)

	// ResizeImage scales img to exactly width x height.
	ResizeImage(img image.Image, width, height int) image.Image
}

// Canvas is a drawing surface.
type Canvas interface {
	DrawImage(img image.Image, x, y int)
	DrawRect(x, y, w, h int, c color.Color)
	DrawRectStroke(x, y, w, h int, c color.Color, strokeWidth float64)
	DrawText(text string, x, y int, style TextStyle)
	ToImage() image.Image
}

// TextStyle defines text rendering properties.
type TextStyle struct {
	FontSize float64
	FontPath string
	Color    color.Color
	Align    TextAlign
}

// TextAlign specifies horizontal text anchoring.
type TextAlign int

const (
	AlignLeft TextAlign = iota
	AlignCenter
	AlignRight
)

// Encoding selects an output image encoding.
type Encoding int

const (
	EncodePNG Encoding = iota
	EncodeJPEG
)
