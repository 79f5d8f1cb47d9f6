// Package ports defines the interfaces between the loader core and its
// external collaborators: decoding, event delivery, files, logging, metrics
// and debug output.
package ports

import (
	"image"
	"time"
)

// Format identifies an image container format.
type Format string

const (
	FormatUnknown Format = ""
	FormatGIF     Format = "gif"
	FormatPNG     Format = "png"
	FormatJPEG    Format = "jpeg"
	FormatBMP     Format = "bmp"
	FormatTIFF    Format = "tiff"
	FormatWebP    Format = "webp"
)

// Disposal is the directive describing what happens to the canvas after a
// frame has been displayed and before the next one is drawn.
type Disposal int

const (
	// DisposalUnspecified leaves the choice to the viewer; it is treated
	// like DisposalComposite.
	DisposalUnspecified Disposal = iota
	// DisposalComposite keeps the canvas so the next frame is drawn over it.
	DisposalComposite
	// DisposalBackground restores the frame area to the background.
	DisposalBackground
	// DisposalPrevious restores the canvas to its state before the frame.
	DisposalPrevious
)

// String returns a short name for the disposal method.
func (d Disposal) String() string {
	switch d {
	case DisposalUnspecified:
		return "unspecified"
	case DisposalComposite:
		return "composite"
	case DisposalBackground:
		return "background"
	case DisposalPrevious:
		return "previous"
	default:
		return "unknown"
	}
}

// DefaultFrameDuration is substituted for frames that report no duration.
const DefaultFrameDuration = 100 * time.Millisecond

// FrameMetadata describes how a single decoded frame is placed and timed.
type FrameMetadata struct {
	Disposal Disposal
	OffsetX  int // Placement of the frame within the canvas
	OffsetY  int
	Duration time.Duration // Zero means unspecified
}

// DisplayDuration returns the frame duration, substituting fallback for an
// unspecified value. A non-positive fallback means DefaultFrameDuration.
func (m FrameMetadata) DisplayDuration(fallback time.Duration) time.Duration {
	if m.Duration > 0 {
		return m.Duration
	}
	if fallback <= 0 {
		return DefaultFrameDuration
	}
	return fallback
}

// DecodeBackend abstracts format sniffing and container decoding.
type DecodeBackend interface {
	// DetectFormat sniffs data and returns FormatUnknown when no
	// supported format matches.
	DetectFormat(data []byte) Format

	// Open parses data as the given format and returns a frame sequence.
	Open(format Format, data []byte) (Sequence, error)
}

// Sequence is an opened image: one frame for stills, several for
// animations. A Sequence is used by one task at a time.
type Sequence interface {
	// Format returns the container format the sequence was opened as.
	Format() Format

	// FrameCount returns the number of frames, at least 1.
	FrameCount() int

	// Size returns the dimensions of the full animation canvas.
	Size() (width, height int)

	// DecodeFrame decodes frame index in its native pixel format. The
	// returned image bounds are relative to the frame, not the canvas;
	// placement comes from the metadata offsets.
	DecodeFrame(index int) (image.Image, FrameMetadata, error)

	// Close releases the resources held by the sequence.
	Close() error
}
