// Package eventqueue provides an in-process implementation of
// ports.EventQueue.
//
// The queue is an unbounded FIFO. Push never blocks, so producers may call
// it while holding their own locks. Consumers either Poll from a tick loop
// or block in Wait.
package eventqueue

import (
	"context"
	"errors"
	"sync"

	"github.com/user/imgload/pkg/ports"
)

// ErrClosed is returned by Push after Close, and by Wait once the queue is
// closed and drained.
var ErrClosed = errors.New("eventqueue: closed")

// Queue is an unbounded message FIFO safe for concurrent use.
type Queue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []ports.Message
	closed bool
}

// New creates an empty queue.
func New() *Queue {
	q := &Queue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push appends msg and wakes one waiting consumer.
func (q *Queue) Push(msg ports.Message) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrClosed
	}
	q.items = append(q.items, msg)
	q.cond.Signal()
	return nil
}

// Poll removes and returns the oldest message without blocking.
func (q *Queue) Poll() (ports.Message, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.popLocked()
}

// Wait blocks until a message is available, ctx is done, or the queue is
// closed and empty.
func (q *Queue) Wait(ctx context.Context) (ports.Message, error) {
	// Wake the cond wait below when ctx ends.
	stop := context.AfterFunc(ctx, func() {
		q.mu.Lock()
		q.cond.Broadcast()
		q.mu.Unlock()
	})
	defer stop()

	q.mu.Lock()
	defer q.mu.Unlock()

	for {
		if msg, ok := q.popLocked(); ok {
			return msg, nil
		}
		if q.closed {
			return ports.Message{}, ErrClosed
		}
		if err := ctx.Err(); err != nil {
			return ports.Message{}, err
		}
		q.cond.Wait()
	}
}

// Len returns the number of queued messages.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Close rejects further pushes and wakes all waiters. Queued messages can
// still be drained.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.cond.Broadcast()
}

func (q *Queue) popLocked() (ports.Message, bool) {
	if len(q.items) == 0 {
		return ports.Message{}, false
	}
	msg := q.items[0]
	q.items[0] = ports.Message{}
	q.items = q.items[1:]
	if len(q.items) == 0 {
		q.items = nil
	}
	return msg, true
}

var _ ports.EventQueue = (*Queue)(nil)
