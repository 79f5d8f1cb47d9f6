package loader

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// task is one background decode task and its cancellation handle.
type task struct {
	id     string
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func (t *task) finished() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

// runner keeps at most one active task. Superseded tasks are detached but
// still tracked so that close can wait for them.
type runner struct {
	mu     sync.Mutex
	active *task
	closed bool
	wg     sync.WaitGroup

	// serializes callers of serialize
	advMu sync.Mutex
}

// supersede cancels and detaches the active task, if any, and starts fn as
// the new active task without waiting. It reports false once closed.
func (r *runner) supersede(fn func(ctx context.Context, id string)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false
	}
	if r.active != nil {
		r.active.cancel()
	}
	r.active = r.spawnLocked(fn)
	return true
}

// serialize waits until the active task has finished and then starts fn
// as the new active task. Concurrent callers start in call order.
func (r *runner) serialize(fn func(ctx context.Context, id string)) bool {
	r.advMu.Lock()
	defer r.advMu.Unlock()

	for {
		r.mu.Lock()
		if r.closed {
			r.mu.Unlock()
			return false
		}
		prev := r.active
		if prev == nil || prev.finished() {
			r.active = r.spawnLocked(fn)
			r.mu.Unlock()
			return true
		}
		r.mu.Unlock()

		// A load may replace prev while we wait; loop to wait for that one too.
		<-prev.done
	}
}

// goTracked runs fn in a goroutine that close waits for.
func (r *runner) goTracked(fn func()) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		fn()
	}()
}

func (r *runner) spawnLocked(fn func(ctx context.Context, id string)) *task {
	ctx, cancel := context.WithCancel(context.Background())
	t := &task{
		id:     uuid.NewString(),
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer close(t.done)
		defer cancel()
		fn(ctx, t.id)
	}()
	return t
}

// close cancels the active task and waits for every task ever started.
func (r *runner) close() {
	r.mu.Lock()
	r.closed = true
	if r.active != nil {
		r.active.cancel()
	}
	r.mu.Unlock()

	r.wg.Wait()
}
