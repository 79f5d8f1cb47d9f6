// Package loader decodes images and animations in the background and
// publishes the results to an event queue.
//
// A Loader holds one current source. Load replaces it and supersedes any
// task still working on an older request: only the most recently issued
// load can ever commit. AdvanceToNextFrame steps an animation one frame at
// a time, strictly in call order. Tick drives the animation clock.
//
// Every result is delivered as a ports.Message carrying a *ports.NewImage,
// *ports.FrameAdvanced or *ports.LoadFailed payload.
package loader

import (
	"context"
	"sync"
	"time"

	"github.com/user/imgload/pkg/pipeline"
	"github.com/user/imgload/pkg/ports"
)

// Default event types used until SetEventTypes is called.
const (
	DefaultNewImageType ports.EventType = 1
	DefaultBadImageType ports.EventType = 2
)

// Options configures a Loader.
type Options struct {
	// DefaultFrameDuration is used for frames reporting no duration.
	DefaultFrameDuration time.Duration

	// Metrics receives activity counters; nil disables them.
	Metrics ports.LoaderMetrics
}

// DefaultOptions returns the default loader options.
func DefaultOptions() Options {
	return Options{
		DefaultFrameDuration: ports.DefaultFrameDuration,
	}
}

// State is a snapshot of the loader's current image and animation cursor.
type State struct {
	Source    string
	Format    ports.Format
	Width     int
	Height    int
	NumFrames int // Zero until a source has been committed
	Frame     int
	NextFrame int
	Remaining time.Duration
}

// Animated reports whether the current source has more than one frame.
func (s State) Animated() bool {
	return s.NumFrames > 1
}

// sequenceRef is a committed sequence plus the advance tasks reading it.
// The sequence is closed once it has been replaced and its readers are done.
type sequenceRef struct {
	seq    ports.Sequence
	source string // identifier reported when a frame fails to decode
	users  sync.WaitGroup
}

// state is everything guarded by Loader.mu.
type state struct {
	gen    uint64
	source pipeline.Source
	closed bool

	newImageType ports.EventType
	badImageType ports.EventType

	seq       *sequenceRef
	format    ports.Format
	width     int
	height    int
	canvas    *pipeline.Canvas
	meta      ports.FrameMetadata // of the frame on display
	numFrames int
	frame     int
	next      int
	remaining time.Duration
}

// Loader is the asynchronous image loader. All methods are safe for
// concurrent use.
type Loader struct {
	openStage    pipeline.Stage[pipeline.OpenInput, pipeline.OpenResult]
	advanceStage pipeline.Stage[pipeline.AdvanceInput, pipeline.AdvanceResult]
	queue        ports.EventQueue
	logger       ports.Logger
	metrics      ports.LoaderMetrics
	opts         Options

	mu sync.Mutex
	st state

	run runner
}

// New creates a Loader publishing to queue.
func New(
	openStage pipeline.Stage[pipeline.OpenInput, pipeline.OpenResult],
	advanceStage pipeline.Stage[pipeline.AdvanceInput, pipeline.AdvanceResult],
	queue ports.EventQueue,
	logger ports.Logger,
	opts Options,
) *Loader {
	if opts.DefaultFrameDuration <= 0 {
		opts.DefaultFrameDuration = ports.DefaultFrameDuration
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &Loader{
		openStage:    openStage,
		advanceStage: advanceStage,
		queue:        queue,
		logger:       logger.WithComponent("loader"),
		metrics:      metrics,
		opts:         opts,
		st: state{
			newImageType: DefaultNewImageType,
			badImageType: DefaultBadImageType,
		},
	}
}

// SetEventTypes registers the message types used for new images and frame
// advances (newImage) and for load failures (badImage).
func (l *Loader) SetEventTypes(newImage, badImage ports.EventType) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.st.newImageType = newImage
	l.st.badImageType = badImage
}

// Load replaces the current source. Any task still in flight is cancelled
// and detached; Load does not wait for it. Eventually a NewImage or a
// LoadFailed message is published for src, unless a newer Load supersedes
// it first.
func (l *Loader) Load(src pipeline.Source) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.st.closed {
		return
	}

	// The generation bump and the spawn happen under one lock so that
	// concurrent Loads start in the order they were issued.
	l.st.gen++
	l.st.source = src
	gen := l.st.gen

	l.metrics.LoadStarted()
	l.run.supersede(func(ctx context.Context, id string) {
		l.openTask(ctx, id, gen, src)
	})
}

// LoadPath loads the file at path.
func (l *Loader) LoadPath(path string) {
	l.Load(pipeline.PathSource(path))
}

// LoadBytes loads an in-memory image identified by name.
func (l *Loader) LoadBytes(name string, data []byte) {
	l.Load(pipeline.BytesSource(name, data))
}

// AdvanceToNextFrame waits for the task in flight, if any, and then starts
// decoding the next frame of the current animation. It does not wait for
// the new frame itself. It has no effect on single-frame sources.
func (l *Loader) AdvanceToNextFrame() {
	l.run.serialize(l.advanceTask)
}

// Tick advances the animation clock by elapsed. When the time remaining
// on the displayed frame drops below zero, one advance is triggered.
// For single-frame sources the remaining time is held at zero.
func (l *Loader) Tick(elapsed time.Duration) {
	l.mu.Lock()
	if l.st.numFrames < 2 {
		l.st.remaining = 0
		l.mu.Unlock()
		return
	}
	l.st.remaining -= elapsed
	expired := l.st.remaining < 0
	l.mu.Unlock()

	if expired {
		l.AdvanceToNextFrame()
	}
}

// RemainingTime returns how long the displayed frame has left. It may be
// negative while an advance is pending.
func (l *Loader) RemainingTime() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.st.remaining
}

// State returns a snapshot of the committed image state.
func (l *Loader) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	s := State{
		Source:    l.st.source.ID(),
		Format:    l.st.format,
		Width:     l.st.width,
		Height:    l.st.height,
		NumFrames: l.st.numFrames,
		Frame:     l.st.frame,
		NextFrame: l.st.next,
		Remaining: l.st.remaining,
	}
	if l.st.seq == nil {
		s.NumFrames = 0
	}
	return s
}

// Close cancels the task in flight, waits for every task started so far,
// including detached ones, and releases the current sequence. Calls made
// after Close have no effect.
func (l *Loader) Close() error {
	l.mu.Lock()
	if l.st.closed {
		l.mu.Unlock()
		return nil
	}
	l.st.closed = true
	l.mu.Unlock()

	l.run.close()

	l.mu.Lock()
	ref := l.st.seq
	l.st.seq = nil
	l.st.canvas = nil
	l.mu.Unlock()

	if ref != nil {
		return ref.seq.Close()
	}
	return nil
}

// retireLocked releases the committed sequence once its readers finish.
func (l *Loader) retireLocked() {
	ref := l.st.seq
	if ref == nil {
		return
	}
	l.st.seq = nil
	l.run.goTracked(func() {
		ref.users.Wait()
		if err := ref.seq.Close(); err != nil {
			l.logger.Warn("Failed to close sequence: %v", err)
		}
	})
}

type nopMetrics struct{}

func (nopMetrics) LoadStarted()                              {}
func (nopMetrics) LoadSuperseded()                           {}
func (nopMetrics) LoadCompleted(ports.Format, time.Duration) {}
func (nopMetrics) LoadFailed(string)                         {}
func (nopMetrics) FrameAdvanced(time.Duration)               {}
