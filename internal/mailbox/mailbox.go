// Package mailbox is an unbounded multi-producer FIFO with a select-friendly
// readiness signal.
package mailbox

import (
	"context"
	"sync"
)

type Mailbox[T any] struct {
	mu     sync.Mutex
	items  []T
	ready  chan struct{}
	closed bool
	done   chan struct{}
}

func New[T any]() *Mailbox[T] {
	return &Mailbox[T]{
		ready: make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
}

// Push appends v. It never blocks and returns false once the mailbox is closed.
func (m *Mailbox[T]) Push(v T) bool {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return false
	}
	m.items = append(m.items, v)
	m.mu.Unlock()

	select {
	case m.ready <- struct{}{}:
	default:
	}
	return true
}

// TryNext pops the oldest item without blocking.
func (m *Mailbox[T]) TryNext() (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var zero T
	if len(m.items) == 0 {
		return zero, false
	}
	v := m.items[0]
	m.items[0] = zero
	m.items = m.items[1:]
	return v, true
}

// Next blocks until an item is available, the mailbox is closed and empty, or ctx ends.
func (m *Mailbox[T]) Next(ctx context.Context) (T, bool) {
	for {
		if v, ok := m.TryNext(); ok {
			return v, true
		}
		select {
		case <-m.ready:
		case <-m.done:
			return m.TryNext()
		case <-ctx.Done():
			var zero T
			return zero, false
		}
	}
}

// Drain removes and returns everything queued, in order.
func (m *Mailbox[T]) Drain() []T {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := m.items
	m.items = nil
	return out
}

// Ready fires at least once after a Push. Consumers must re-check with TryNext or Drain.
func (m *Mailbox[T]) Ready() <-chan struct{} { return m.ready }

// Done is closed by Close.
func (m *Mailbox[T]) Done() <-chan struct{} { return m.done }

func (m *Mailbox[T]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// Close stops accepting new items. Queued items stay readable.
func (m *Mailbox[T]) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.closed = true
	close(m.done)
}
