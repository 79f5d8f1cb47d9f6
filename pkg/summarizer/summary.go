// Package summarizer provides summary generation for playback and
// extraction runs.
package summarizer

import "time"

// Summary contains the data collected while a source was played or
// extracted.
type Summary struct {
	// Metadata
	GeneratedAt time.Time
	Command     string

	// Source information
	Source SourceInfo

	// Playback results
	Playback PlaybackInfo

	// Per-frame timing, in display order
	Frames []FrameInfo

	// Failure messages, in the order they were reported
	Failures []string

	// Settings in effect
	Settings Settings
}

// SourceInfo describes the loaded image.
type SourceInfo struct {
	ID         string
	Format     string
	Width      int
	Height     int
	FrameCount int
}

// PlaybackInfo contains what the timing driver observed.
type PlaybackInfo struct {
	FramesShown int
	Loops       int
	Reloads     int
	Elapsed     time.Duration

	// CycleDuration is the nominal length of one pass through the animation.
	CycleDuration time.Duration
}

// FrameInfo describes one frame of an extracted animation.
type FrameInfo struct {
	Index    int
	Duration time.Duration
}

// Settings contains the configuration of the run.
type Settings struct {
	TickInterval         time.Duration
	DefaultFrameDuration time.Duration
	MaxFileBytes         int64
	LoopLimit            int
}

// Animated reports whether the source has more than one frame.
func (s *Summary) Animated() bool {
	return s.Source.FrameCount > 1
}

// NewSummary creates a new Summary with the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Now(),
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithCommand sets the command that produced the summary.
func (b *Builder) WithCommand(command string) *Builder {
	b.summary.Command = command
	return b
}

// WithSource sets source information.
func (b *Builder) WithSource(source SourceInfo) *Builder {
	b.summary.Source = source
	return b
}

// WithPlayback sets playback information.
func (b *Builder) WithPlayback(playback PlaybackInfo) *Builder {
	b.summary.Playback = playback
	return b
}

// WithFrame appends one frame's timing.
func (b *Builder) WithFrame(index int, d time.Duration) *Builder {
	b.summary.Frames = append(b.summary.Frames, FrameInfo{Index: index, Duration: d})
	return b
}

// WithFailure records a failure message.
func (b *Builder) WithFailure(msg string) *Builder {
	b.summary.Failures = append(b.summary.Failures, msg)
	return b
}

// WithSettings sets the run settings.
func (b *Builder) WithSettings(settings Settings) *Builder {
	b.summary.Settings = settings
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}
