// Package compositor turns decoded frames into full animation canvases.
//
// Everything here is a pure function of its arguments: no locks, no
// cancellation, no shared state. Inputs are never modified.
package compositor

import (
	"image"

	"golang.org/x/image/draw"

	"github.com/user/imgload/pkg/pipeline"
	"github.com/user/imgload/pkg/ports"
)

// ToRGBA converts a frame in its native pixel format to RGBA with bounds
// starting at (0, 0). An *image.RGBA already anchored at the origin is
// returned unchanged.
func ToRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) {
		return rgba
	}
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// Expand places frame onto a transparent width x height canvas at the
// offset recorded in meta. A frame that already spans the whole canvas at
// the origin is copied as is. Pixels falling outside the canvas are
// clipped.
func Expand(frame image.Image, meta ports.FrameMetadata, width, height int) *pipeline.Canvas {
	src := ToRGBA(frame)
	fb := src.Bounds()
	if fb.Dx() == width && fb.Dy() == height && meta.OffsetX == 0 && meta.OffsetY == 0 {
		return pipeline.CanvasFromRGBA(src)
	}

	canvas := pipeline.NewCanvas(width, height)
	dr := image.Rect(meta.OffsetX, meta.OffsetY, meta.OffsetX+fb.Dx(), meta.OffsetY+fb.Dy())
	draw.Draw(canvas.RGBA(), dr, src, image.Point{}, draw.Src)
	return canvas
}

// Compose produces the width x height canvas for frame index of an
// animation.
//
// prior is the disposal directive of the frame being replaced. For
// Unspecified and Composite the expanded frame is alpha-blended over a copy
// of previous, unless index is 0 or there is no previous canvas. Background
// and Previous both use the expanded frame directly; restoring the
// background colour or the pre-frame snapshot is not implemented.
func Compose(previous *pipeline.Canvas, frame image.Image, meta ports.FrameMetadata, index int, prior ports.Disposal, width, height int) *pipeline.Canvas {
	expanded := Expand(frame, meta, width, height)

	if !blendsOver(prior) || index == 0 || previous == nil {
		return expanded
	}
	if previous.Width != width || previous.Height != height {
		return expanded
	}

	out := previous.Clone()
	draw.Draw(out.RGBA(), out.RGBA().Bounds(), expanded.RGBA(), image.Point{}, draw.Over)
	return out
}

func blendsOver(d ports.Disposal) bool {
	return d == ports.DisposalUnspecified || d == ports.DisposalComposite
}
