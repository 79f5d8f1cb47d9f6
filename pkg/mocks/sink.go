package mocks

import (
	"image"
	"sync"

	"github.com/user/imgload/pkg/ports"
)

// DebugSink is a mock implementation of ports.DebugSink.
type DebugSink struct {
	mu sync.RWMutex

	enabled bool

	Frames  map[int]image.Image
	Sheet   image.Image
	Summary []byte
}

// NewDebugSink creates a new mock DebugSink.
func NewDebugSink(enabled bool) *DebugSink {
	return &DebugSink{
		enabled: enabled,
		Frames:  make(map[int]image.Image),
	}
}

func (m *DebugSink) Enabled() bool {
	return m.enabled
}

func (m *DebugSink) SaveFrame(seq int, img image.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Frames[seq] = img
	return nil
}

func (m *DebugSink) SaveSheet(img image.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sheet = img
	return nil
}

func (m *DebugSink) SaveSummary(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Summary = data
	return nil
}

// FrameCount returns the number of saved frames.
func (m *DebugSink) FrameCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.Frames)
}

var _ ports.DebugSink = (*DebugSink)(nil)

// NullSink is a no-op implementation of ports.DebugSink.
type NullSink struct{}

func (m *NullSink) Enabled() bool                            { return false }
func (m *NullSink) SaveFrame(seq int, img image.Image) error { return nil }
func (m *NullSink) SaveSheet(img image.Image) error          { return nil }
func (m *NullSink) SaveSummary(data []byte) error            { return nil }

var _ ports.DebugSink = (*NullSink)(nil)
