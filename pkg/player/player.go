// Package player drives a loader in real time: it feeds the animation
// clock, consumes the loader's messages and keeps track of what was shown.
package player

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/ideamans/go-l10n"

	"github.com/user/imgload/pkg/loader"
	"github.com/user/imgload/pkg/pipeline"
	"github.com/user/imgload/pkg/ports"
)

// DefaultTickInterval is how often the animation clock is advanced.
const DefaultTickInterval = 10 * time.Millisecond

// Loader is the part of *loader.Loader the player drives.
type Loader interface {
	Load(src pipeline.Source)
	AdvanceToNextFrame()
	Tick(elapsed time.Duration)
	RemainingTime() time.Duration
	State() loader.State
}

// Queue is where the player reads the loader's messages from.
type Queue interface {
	Poll() (ports.Message, bool)
	Wait(ctx context.Context) (ports.Message, error)
}

// Options configures a Player.
type Options struct {
	// TickInterval is the period of the animation clock.
	TickInterval time.Duration

	// Loops stops Run after this many complete animation cycles. Stills
	// stop after their first image. Zero plays until the context ends.
	Loops int
}

// DefaultOptions returns the default player options.
func DefaultOptions() Options {
	return Options{
		TickInterval: DefaultTickInterval,
	}
}

// Result describes a finished run.
type Result struct {
	Source    string
	Format    ports.Format
	Width     int
	Height    int
	NumFrames int

	FramesShown int
	Loops       int
	Reloads     int
	Failures    []string
	Elapsed     time.Duration

	// CycleDuration is the nominal length of one animation cycle for
	// Extract, and the measured length of the last complete cycle for Run.
	CycleDuration time.Duration
}

// Frame is one fully composited animation frame.
type Frame struct {
	Index    int
	Image    image.Image
	Duration time.Duration
}

// Player consumes a loader's output.
type Player struct {
	loader Loader
	queue  Queue
	sink   ports.DebugSink
	logger ports.Logger
	opts   Options
}

// New creates a Player.
func New(l Loader, q Queue, sink ports.DebugSink, logger ports.Logger, opts Options) *Player {
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultTickInterval
	}
	return &Player{
		loader: l,
		queue:  q,
		sink:   sink,
		logger: logger.WithComponent("player"),
		opts:   opts,
	}
}

// run is the bookkeeping of one Run call.
type run struct {
	result     Result
	cycleStart time.Time
	done       bool
}

// Run loads src and plays it until Loops cycles have been shown or ctx
// ends. Every value received from reload loads src again. Without a
// reload channel any failure ends the run, including a frame that cannot
// be decoded; with one, failures after the first image are logged and the
// last good image stays on display.
func (p *Player) Run(ctx context.Context, src pipeline.Source, reload <-chan struct{}) (Result, error) {
	started := time.Now()
	r := &run{result: Result{Source: src.ID()}}

	p.drain()
	p.logger.Info(l10n.F("Playing %s", src.ID()))
	p.loader.Load(src)

	ticker := time.NewTicker(p.opts.TickInterval)
	defer ticker.Stop()
	last := started

	for {
		select {
		case <-ctx.Done():
			r.result.Elapsed = time.Since(started)
			return r.result, ctx.Err()

		case _, ok := <-reload:
			if !ok {
				reload = nil
				continue
			}
			r.result.Reloads++
			p.logger.Info(l10n.F("Reloading %s", src.ID()))
			p.loader.Load(src)

		case now := <-ticker.C:
			p.loader.Tick(now.Sub(last))
			last = now
		}

		if err := p.consume(r, reload != nil); err != nil {
			r.result.Elapsed = time.Since(started)
			return r.result, err
		}
		if r.done {
			r.result.Elapsed = time.Since(started)
			return r.result, nil
		}
	}
}

// consume handles every message currently queued.
func (p *Player) consume(r *run, watching bool) error {
	for {
		msg, ok := p.queue.Poll()
		if !ok {
			return nil
		}
		switch ev := msg.Payload.(type) {
		case *ports.NewImage:
			r.cycleStart = time.Now()
			st := p.loader.State()
			r.result.Format = st.Format
			r.result.Width = st.Width
			r.result.Height = st.Height
			r.result.NumFrames = st.NumFrames
			p.logger.Info(l10n.F("Loaded %s: %s %dx%d, %d frames", st.Source, st.Format, st.Width, st.Height, st.NumFrames))
			p.show(r, ev.Image)
			if p.opts.Loops > 0 && !st.Animated() && !watching {
				r.done = true
				return nil
			}

		case *ports.FrameAdvanced:
			p.show(r, ev.Image)
			if ev.Frame != 0 {
				continue
			}
			now := time.Now()
			r.result.CycleDuration = now.Sub(r.cycleStart)
			r.cycleStart = now
			r.result.Loops++
			p.logger.Debug("Cycle %d completed in %v", r.result.Loops, r.result.CycleDuration)
			if p.opts.Loops > 0 && r.result.Loops >= p.opts.Loops {
				r.done = true
				return nil
			}

		case *ports.LoadFailed:
			r.result.Failures = append(r.result.Failures, ev.String())
			if !watching {
				return ev.Err
			}
			p.logger.Warn(l10n.F("Failed to load %s: %v", ev.Source, ev.Err))

		default:
			p.logger.Debug("Ignoring message of type %d", msg.Type)
		}
	}
}

func (p *Player) show(r *run, img ports.Image) {
	r.result.FramesShown++
	if !p.sink.Enabled() {
		return
	}
	if err := p.sink.SaveFrame(r.result.FramesShown, toRGBA(img)); err != nil {
		p.logger.Warn("Failed to save frame %d: %v", r.result.FramesShown, err)
	}
}

// Extract loads src and steps through every frame once without regard to
// frame timing. Frames are returned in display order with the duration
// each one is shown for.
func (p *Player) Extract(ctx context.Context, src pipeline.Source) ([]Frame, Result, error) {
	started := time.Now()
	result := Result{Source: src.ID()}

	p.drain()
	p.loader.Load(src)

	first, err := p.next(ctx)
	if err != nil {
		return nil, result, err
	}
	ni, ok := first.Payload.(*ports.NewImage)
	if !ok {
		return nil, result, fmt.Errorf("unexpected message %T", first.Payload)
	}

	st := p.loader.State()
	result.Format = st.Format
	result.Width = st.Width
	result.Height = st.Height
	result.NumFrames = st.NumFrames

	frames := []Frame{{Index: 0, Image: toRGBA(ni.Image)}}
	if !st.Animated() {
		result.FramesShown = 1
		result.Elapsed = time.Since(started)
		return frames, result, nil
	}

	p.logger.Info(l10n.F("Extracting %d frames from %s", st.NumFrames, st.Source))

	prev := p.loader.RemainingTime()
	for i := 1; i <= st.NumFrames; i++ {
		p.loader.AdvanceToNextFrame()
		msg, err := p.next(ctx)
		if err != nil {
			return nil, result, err
		}
		fa, ok := msg.Payload.(*ports.FrameAdvanced)
		if !ok {
			return nil, result, fmt.Errorf("unexpected message %T", msg.Payload)
		}
		want := i % st.NumFrames
		if fa.Frame != want {
			return nil, result, fmt.Errorf("expected frame %d, got %d", want, fa.Frame)
		}

		remaining := p.loader.RemainingTime()
		d := remaining - prev
		prev = remaining
		result.CycleDuration += d

		if want == 0 {
			frames[0].Duration = d
			break
		}
		frames = append(frames, Frame{Index: want, Image: toRGBA(fa.Image), Duration: d})
	}

	result.FramesShown = len(frames)
	result.Loops = 1
	result.Elapsed = time.Since(started)
	return frames, result, nil
}

// next waits for the next message, turning a load failure into an error.
func (p *Player) next(ctx context.Context) (ports.Message, error) {
	msg, err := p.queue.Wait(ctx)
	if err != nil {
		return msg, err
	}
	if ev, ok := msg.Payload.(*ports.LoadFailed); ok {
		return msg, ev.Err
	}
	return msg, nil
}

// drain discards messages left over from earlier sources.
func (p *Player) drain() {
	for {
		if _, ok := p.queue.Poll(); !ok {
			return
		}
	}
}

func toRGBA(img ports.Image) *image.RGBA {
	return &image.RGBA{
		Pix:    img.Pix,
		Stride: 4 * img.Width,
		Rect:   image.Rect(0, 0, img.Width, img.Height),
	}
}
