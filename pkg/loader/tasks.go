package loader

import (
	"context"
	"time"

	"github.com/user/imgload/pkg/pipeline"
	"github.com/user/imgload/pkg/ports"
)

// openTask decodes frame 0 of src and commits it if gen is still current.
func (l *Loader) openTask(ctx context.Context, id string, gen uint64, src pipeline.Source) {
	start := time.Now()
	l.logger.Debug("Task %s: opening %s", shortID(id), src.ID())

	result, err := l.openStage.Execute(ctx, pipeline.OpenInput{Source: src})
	if err != nil {
		if ctx.Err() != nil {
			l.logger.Debug("Task %s: superseded before commit", shortID(id))
			l.metrics.LoadSuperseded()
			return
		}
		l.fail(ctx, id, gen, src, err)
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if ctx.Err() != nil || gen != l.st.gen || l.st.closed {
		if err := result.Sequence.Close(); err != nil {
			l.logger.Warn("Failed to close sequence: %v", err)
		}
		l.logger.Debug("Task %s: superseded at commit", shortID(id))
		l.metrics.LoadSuperseded()
		return
	}

	l.retireLocked()
	l.st.seq = &sequenceRef{seq: result.Sequence, source: src.ID()}
	l.st.format = result.Format
	l.st.width = result.Canvas.Width
	l.st.height = result.Canvas.Height
	l.st.canvas = result.Canvas
	l.st.meta = result.Metadata
	l.st.numFrames = result.NumFrames
	l.st.frame = 0
	l.st.next = 1 % result.NumFrames
	l.st.remaining = 0

	l.logger.Debug("Task %s: committed %s %dx%d, %d frame(s)",
		shortID(id), result.Format, result.Canvas.Width, result.Canvas.Height, result.NumFrames)

	l.publishLocked(l.st.newImageType, &ports.NewImage{
		Image:        result.Canvas.Export(),
		IsFirstFrame: true,
	})
	l.metrics.LoadCompleted(result.Format, time.Since(start))
}

// fail publishes a LoadFailed for src unless the request was superseded.
func (l *Loader) fail(ctx context.Context, id string, gen uint64, src pipeline.Source, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if ctx.Err() != nil || gen != l.st.gen || l.st.closed {
		l.logger.Debug("Task %s: dropping failure of superseded request: %v", shortID(id), err)
		l.metrics.LoadSuperseded()
		return
	}

	lerr := &LoadError{Source: src.ID(), Err: err}
	l.logger.Debug("Task %s: %v", shortID(id), lerr)

	l.publishLocked(l.st.badImageType, &ports.LoadFailed{
		Source: src.ID(),
		Err:    lerr,
	})
	l.metrics.LoadFailed(reason(err))
}

// advanceTask decodes and commits the next frame of the current animation.
func (l *Loader) advanceTask(ctx context.Context, id string) {
	start := time.Now()

	l.mu.Lock()
	if ctx.Err() != nil || l.st.closed || l.st.seq == nil || l.st.numFrames < 2 {
		l.mu.Unlock()
		return
	}
	gen := l.st.gen
	ref := l.st.seq
	ref.users.Add(1)
	defer ref.users.Done()

	numFrames := l.st.numFrames
	input := pipeline.AdvanceInput{
		Sequence: ref.seq,
		Index:    l.st.next,
		Width:    l.st.width,
		Height:   l.st.height,
		Previous: l.st.canvas,
		Disposal: l.st.meta.Disposal,
	}
	l.mu.Unlock()

	result, err := l.advanceStage.Execute(ctx, input)
	if err != nil {
		if ctx.Err() != nil {
			l.logger.Debug("Task %s: advance superseded", shortID(id))
			return
		}
		l.failAdvance(ctx, id, gen, ref, input.Index, err)
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if ctx.Err() != nil || gen != l.st.gen || l.st.seq != ref {
		l.logger.Debug("Task %s: advance superseded at commit", shortID(id))
		return
	}

	l.st.canvas = result.Canvas
	l.st.meta = result.Metadata
	l.st.frame = input.Index
	l.st.next = (input.Index + 1) % numFrames
	l.st.remaining += result.Metadata.DisplayDuration(l.opts.DefaultFrameDuration)

	l.publishLocked(l.st.newImageType, &ports.FrameAdvanced{
		Image: result.Canvas.Export(),
		Frame: input.Index,
	})
	l.metrics.FrameAdvanced(time.Since(start))
}

// failAdvance publishes a LoadFailed for the sequence being stepped. The
// displayed frame and cursor are kept; the next attempt is deferred by the
// display time of the current frame so a broken frame is not retried on
// every tick.
func (l *Loader) failAdvance(ctx context.Context, id string, gen uint64, ref *sequenceRef, index int, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if ctx.Err() != nil || gen != l.st.gen || l.st.seq != ref {
		l.logger.Debug("Task %s: dropping advance failure of superseded sequence: %v", shortID(id), err)
		return
	}

	l.logger.Warn("Failed to advance to frame %d: %v", index, err)

	if l.st.remaining < 0 {
		l.st.remaining += l.st.meta.DisplayDuration(l.opts.DefaultFrameDuration)
	}
	l.publishLocked(l.st.badImageType, &ports.LoadFailed{
		Source: ref.source,
		Err:    &LoadError{Source: ref.source, Err: err},
	})
	l.metrics.LoadFailed(reason(err))
}

// publishLocked pushes a message. It is called with l.mu held so that
// messages are queued in commit order.
func (l *Loader) publishLocked(t ports.EventType, payload interface{}) {
	if err := l.queue.Push(ports.Message{Type: t, Payload: payload}); err != nil {
		l.logger.Warn("Failed to publish %T: %v", payload, err)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
