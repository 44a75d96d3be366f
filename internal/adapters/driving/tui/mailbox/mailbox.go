// Package mailbox hands values produced on arbitrary goroutines to the
// Bubbletea event loop.
//
// A Mailbox keeps only the newest undelivered value. Producers never block,
// and a slow renderer skips intermediate states instead of queueing them.
package mailbox

import "sync"

// Mailbox is a one-slot, overwriting channel.
type Mailbox[T any] struct {
	mu      sync.Mutex
	value   T
	full    bool
	closed  bool
	signal  chan struct{}
	done    chan struct{}
	closeMu sync.Once
}

// New creates an empty mailbox.
func New[T any]() *Mailbox[T] {
	return &Mailbox[T]{
		signal: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// Post stores v, replacing any value not yet received. Posting to a closed
// mailbox does nothing.
func (m *Mailbox[T]) Post(v T) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.value = v
	m.full = true
	m.mu.Unlock()

	select {
	case m.signal <- struct{}{}:
	default:
	}
}

// Receive blocks until a value is posted or the mailbox is closed. ok is
// false once the mailbox is closed, even if a value was still pending.
func (m *Mailbox[T]) Receive() (v T, ok bool) {
	for {
		m.mu.Lock()
		if m.closed {
			m.mu.Unlock()
			return v, false
		}
		if m.full {
			v = m.value
			var zero T
			m.value, m.full = zero, false
			m.mu.Unlock()
			return v, true
		}
		m.mu.Unlock()

		select {
		case <-m.done:
		case <-m.signal:
		}
	}
}

// Close wakes every pending Receive. It is safe to call more than once.
func (m *Mailbox[T]) Close() {
	m.closeMu.Do(func() {
		m.mu.Lock()
		m.closed = true
		m.mu.Unlock()
		close(m.done)
	})
}
