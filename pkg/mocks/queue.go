package mocks

import (
	"sync"
	"time"

	"github.com/user/imgload/pkg/ports"
)

// EventQueue is a mock implementation of ports.EventQueue that records
// every pushed message.
type EventQueue struct {
	PushFunc func(msg ports.Message) error

	mu       sync.Mutex
	messages []ports.Message
}

func (m *EventQueue) Push(msg ports.Message) error {
	m.mu.Lock()
	m.messages = append(m.messages, msg)
	m.mu.Unlock()

	if m.PushFunc != nil {
		return m.PushFunc(msg)
	}
	return nil
}

// Messages returns a copy of the messages pushed so far.
func (m *EventQueue) Messages() []ports.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ports.Message(nil), m.messages...)
}

// WaitFor polls until at least n messages have been pushed or timeout
// elapses, and returns the messages seen.
func (m *EventQueue) WaitFor(n int, timeout time.Duration) []ports.Message {
	deadline := time.Now().Add(timeout)
	for {
		msgs := m.Messages()
		if len(msgs) >= n || time.Now().After(deadline) {
			return msgs
		}
		time.Sleep(time.Millisecond)
	}
}

var _ ports.EventQueue = (*EventQueue)(nil)
