// Package filesink provides a file-based debug sink implementation.
package filesink

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/user/imgload/pkg/ports"
)

// Sink writes displayed frames, contact sheets and summaries under a base
// directory.
type Sink struct {
	baseDir  string
	fs       ports.FileSystem
	renderer ports.Renderer
}

// New creates a new file sink rooted at baseDir.
func New(baseDir string, fs ports.FileSystem, renderer ports.Renderer) *Sink {
	return &Sink{
		baseDir:  baseDir,
		fs:       fs,
		renderer: renderer,
	}
}

// Enabled returns true as this sink saves output.
func (s *Sink) Enabled() bool {
	return true
}

// SaveFrame saves the seq-th displayed canvas as frames/frame-NNNN.png.
func (s *Sink) SaveFrame(seq int, img image.Image) error {
	dir := filepath.Join(s.baseDir, "frames")
	if err := s.fs.MkdirAll(dir); err != nil {
		return err
	}
	data, err := s.renderer.EncodeImage(img, ports.EncodePNG, 0)
	if err != nil {
		return fmt.Errorf("encode frame %d: %w", seq, err)
	}
	return s.fs.WriteFile(filepath.Join(dir, fmt.Sprintf("frame-%04d.png", seq)), data)
}

// SaveSheet saves a contact sheet as sheet.png.
func (s *Sink) SaveSheet(img image.Image) error {
	data, err := s.renderer.EncodeImage(img, ports.EncodePNG, 0)
	if err != nil {
		return fmt.Errorf("encode sheet: %w", err)
	}
	return s.fs.WriteFile(filepath.Join(s.baseDir, "sheet.png"), data)
}

// SaveSummary saves a formatted playback summary as summary.md.
func (s *Sink) SaveSummary(data []byte) error {
	return s.fs.WriteFile(filepath.Join(s.baseDir, "summary.md"), data)
}

var _ ports.DebugSink = (*Sink)(nil)
