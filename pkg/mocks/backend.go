// Package mocks provides mock implementations of the ports for testing.
package mocks

import (
	"errors"
	"image"
	"image/color"
	"sync"

	"github.com/user/imgload/pkg/ports"
)

// Frame is one scripted frame of a mock Sequence.
type Frame struct {
	Image image.Image
	Meta  ports.FrameMetadata
}

// SolidFrame returns a width x height frame filled with c.
func SolidFrame(width, height int, c color.RGBA, meta ports.FrameMetadata) Frame {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}
	return Frame{Image: img, Meta: meta}
}

// Sequence is a mock implementation of ports.Sequence serving scripted
// frames. It is safe for concurrent use.
type Sequence struct {
	FormatValue ports.Format
	Width       int
	Height      int
	Frames      []Frame

	DecodeFrameFunc func(index int) (image.Image, ports.FrameMetadata, error)
	CloseFunc       func() error

	mu      sync.Mutex
	decoded []int
	closed  int
}

// NewSequence creates a GIF sequence of the given canvas size.
func NewSequence(width, height int, frames ...Frame) *Sequence {
	return &Sequence{
		FormatValue: ports.FormatGIF,
		Width:       width,
		Height:      height,
		Frames:      frames,
	}
}

func (m *Sequence) Format() ports.Format {
	return m.FormatValue
}

func (m *Sequence) FrameCount() int {
	if len(m.Frames) == 0 {
		return 1
	}
	return len(m.Frames)
}

func (m *Sequence) Size() (int, int) {
	return m.Width, m.Height
}

func (m *Sequence) DecodeFrame(index int) (image.Image, ports.FrameMetadata, error) {
	m.mu.Lock()
	m.decoded = append(m.decoded, index)
	m.mu.Unlock()

	if m.DecodeFrameFunc != nil {
		return m.DecodeFrameFunc(index)
	}
	if index < 0 || index >= len(m.Frames) {
		return nil, ports.FrameMetadata{}, errors.New("frame index out of range")
	}
	f := m.Frames[index]
	return f.Image, f.Meta, nil
}

func (m *Sequence) Close() error {
	m.mu.Lock()
	m.closed++
	m.mu.Unlock()

	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// Decoded returns the frame indices requested so far, in call order.
func (m *Sequence) Decoded() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.decoded...)
}

// CloseCount returns how many times Close was called.
func (m *Sequence) CloseCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

var _ ports.Sequence = (*Sequence)(nil)

// Backend is a mock implementation of ports.DecodeBackend.
type Backend struct {
	DetectFormatFunc func(data []byte) ports.Format
	OpenFunc         func(format ports.Format, data []byte) (ports.Sequence, error)

	mu     sync.Mutex
	opened int
}

func (m *Backend) DetectFormat(data []byte) ports.Format {
	if m.DetectFormatFunc != nil {
		return m.DetectFormatFunc(data)
	}
	if len(data) == 0 {
		return ports.FormatUnknown
	}
	return ports.FormatGIF
}

func (m *Backend) Open(format ports.Format, data []byte) (ports.Sequence, error) {
	m.mu.Lock()
	m.opened++
	m.mu.Unlock()

	if m.OpenFunc != nil {
		return m.OpenFunc(format, data)
	}
	return NewSequence(1, 1, SolidFrame(1, 1, color.RGBA{A: 255}, ports.FrameMetadata{})), nil
}

// OpenCount returns how many sequences were opened.
func (m *Backend) OpenCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opened
}

var _ ports.DecodeBackend = (*Backend)(nil)
