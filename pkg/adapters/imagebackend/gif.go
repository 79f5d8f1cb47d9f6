package imagebackend

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"time"

	"github.com/user/imgload/pkg/ports"
)

// gifSequence serves the frames of a decoded GIF. Frames keep their own
// bounds; the offset of each frame within the logical screen is reported
// in its metadata.
type gifSequence struct {
	g      *gif.GIF
	width  int
	height int
}

// openGIF decodes all frames and validates the per-frame tables.
func openGIF(data []byte) (*gifSequence, error) {
	g, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode gif: %w", err)
	}
	if len(g.Image) == 0 {
		return nil, fmt.Errorf("gif has no frames")
	}
	if len(g.Image) != len(g.Delay) && g.Delay != nil {
		return nil, fmt.Errorf("mismatched image count and delay count: %d != %d", len(g.Image), len(g.Delay))
	}
	if len(g.Image) != len(g.Disposal) && g.Disposal != nil {
		return nil, fmt.Errorf("mismatched image count and disposal count: %d != %d", len(g.Image), len(g.Disposal))
	}
	// An empty palette means there is no global colour table and every
	// frame carries its own.
	pal, ok := g.Config.ColorModel.(color.Palette)
	if idx := int(g.BackgroundIndex); ok && len(pal) > 0 && idx >= len(pal) {
		return nil, fmt.Errorf("global background colour index not in palette: %d", idx)
	}

	width, height := g.Config.Width, g.Config.Height
	if width <= 0 || height <= 0 {
		// No logical screen: use the union of the frame rectangles.
		var r image.Rectangle
		for _, frame := range g.Image {
			r = r.Union(frame.Bounds())
		}
		width, height = r.Max.X, r.Max.Y
	}

	return &gifSequence{g: g, width: width, height: height}, nil
}

func (s *gifSequence) Format() ports.Format { return ports.FormatGIF }

func (s *gifSequence) FrameCount() int {
	if s.g == nil {
		return 1
	}
	return len(s.g.Image)
}

func (s *gifSequence) Size() (int, int) { return s.width, s.height }

func (s *gifSequence) DecodeFrame(index int) (image.Image, ports.FrameMetadata, error) {
	if s.g == nil {
		return nil, ports.FrameMetadata{}, ErrClosed
	}
	if index < 0 || index >= len(s.g.Image) {
		return nil, ports.FrameMetadata{}, fmt.Errorf("frame %d out of range [0, %d)", index, len(s.g.Image))
	}

	frame := s.g.Image[index]
	meta := ports.FrameMetadata{
		OffsetX: frame.Bounds().Min.X,
		OffsetY: frame.Bounds().Min.Y,
	}
	if s.g.Delay != nil {
		meta.Duration = 10 * time.Duration(s.g.Delay[index]) * time.Millisecond
	}
	if s.g.Disposal != nil {
		meta.Disposal = disposalOf(s.g.Disposal[index])
	}
	return frame, meta, nil
}

func (s *gifSequence) Close() error {
	s.g = nil
	return nil
}

// disposalOf maps a GIF disposal byte to a ports.Disposal. Unknown values
// are treated as unspecified.
func disposalOf(d byte) ports.Disposal {
	switch d {
	case gif.DisposalNone:
		return ports.DisposalComposite
	case gif.DisposalBackground:
		return ports.DisposalBackground
	case gif.DisposalPrevious:
		return ports.DisposalPrevious
	default:
		return ports.DisposalUnspecified
	}
}

var _ ports.Sequence = (*gifSequence)(nil)
