// Package imagebackend decodes image files with the standard image
// decoders and golang.org/x/image.
//
// GIF files are opened as frame sequences; every other supported format is
// a single-frame sequence.
package imagebackend

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	// Still image decoders registered with image.Decode.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/user/imgload/pkg/ports"
)

// ErrClosed is returned when decoding from a closed sequence.
var ErrClosed = errors.New("imagebackend: sequence closed")

// magics maps file signatures to formats. '?' matches any byte.
var magics = []struct {
	magic  string
	format ports.Format
}{
	{"GIF8?a", ports.FormatGIF},
	{"\x89PNG\r\n\x1a\n", ports.FormatPNG},
	{"\xff\xd8", ports.FormatJPEG},
	{"BM", ports.FormatBMP},
	{"II*\x00", ports.FormatTIFF},
	{"MM\x00*", ports.FormatTIFF},
	{"RIFF????WEBPVP8", ports.FormatWebP},
}

// Backend implements ports.DecodeBackend.
type Backend struct{}

// New creates a new Backend.
func New() *Backend {
	return &Backend{}
}

// DetectFormat sniffs data by its leading signature.
func (b *Backend) DetectFormat(data []byte) ports.Format {
	for _, m := range magics {
		if hasMagic(m.magic, data) {
			return m.format
		}
	}
	return ports.FormatUnknown
}

// Open parses data as format. GIF data is fully decoded here; other
// formats only have their header read until frame 0 is requested.
func (b *Backend) Open(format ports.Format, data []byte) (ports.Sequence, error) {
	switch format {
	case ports.FormatGIF:
		return openGIF(data)
	case ports.FormatPNG, ports.FormatJPEG, ports.FormatBMP, ports.FormatTIFF, ports.FormatWebP:
		return openStill(format, data)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

// hasMagic returns whether data starts with the provided magic bytes.
func hasMagic(magic string, data []byte) bool {
	if len(data) < len(magic) {
		return false
	}
	for i := 0; i < len(magic); i++ {
		if magic[i] != data[i] && magic[i] != '?' {
			return false
		}
	}
	return true
}

// stillSequence is a single decoded-on-demand image.
type stillSequence struct {
	format ports.Format
	data   []byte
	width  int
	height int
}

func openStill(format ports.Format, data []byte) (*stillSequence, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("read %s header: %w", format, err)
	}
	return &stillSequence{
		format: format,
		data:   data,
		width:  cfg.Width,
		height: cfg.Height,
	}, nil
}

func (s *stillSequence) Format() ports.Format { return s.format }

func (s *stillSequence) FrameCount() int { return 1 }

func (s *stillSequence) Size() (int, int) { return s.width, s.height }

// DecodeFrame decodes the image. The size reported to callers comes from
// the decoded pixels, which may differ from a malformed header.
func (s *stillSequence) DecodeFrame(index int) (image.Image, ports.FrameMetadata, error) {
	if s.data == nil {
		return nil, ports.FrameMetadata{}, ErrClosed
	}
	if index != 0 {
		return nil, ports.FrameMetadata{}, fmt.Errorf("frame %d out of range [0, 1)", index)
	}
	img, _, err := image.Decode(bytes.NewReader(s.data))
	if err != nil {
		return nil, ports.FrameMetadata{}, fmt.Errorf("decode %s: %w", s.format, err)
	}
	b := img.Bounds()
	s.width, s.height = b.Dx(), b.Dy()
	return img, ports.FrameMetadata{}, nil
}

func (s *stillSequence) Close() error {
	s.data = nil
	return nil
}

var (
	_ ports.DecodeBackend = (*Backend)(nil)
	_ ports.Sequence      = (*stillSequence)(nil)
)
