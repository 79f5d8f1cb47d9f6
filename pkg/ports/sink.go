package ports

import (
	"image"
)

// DebugSink receives intermediate results for inspection.
type DebugSink interface {
	// Enabled reports whether anything is kept. Callers skip the
	// encoding work when it returns false.
	Enabled() bool

	// SaveFrame saves the canvas displayed as the seq-th frame of a run.
	SaveFrame(seq int, img image.Image) error

	// SaveSheet saves a contact sheet of an animation.
	SaveSheet(img image.Image) error

	// SaveSummary saves a formatted playback summary.
	SaveSummary(data []byte) error
}
