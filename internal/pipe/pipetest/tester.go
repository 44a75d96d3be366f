// Package pipetest provides utilities for testing code built on pipes.
package pipetest

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/imgsearch/internal/pipe"
)

// Tester records every value delivered by a pipe.
type Tester[T any] struct {
	mu     sync.Mutex
	values []T
	sub    *pipe.Subscription
}

// Observe subscribes a new Tester to p. The subscription is released when
// the test finishes.
func Observe[T any](tb testing.TB, p pipe.Pipe[T]) *Tester[T] {
	tb.Helper()
	t := &Tester[T]{}
	t.sub = p.Subscribe(t.record)
	tb.Cleanup(t.sub.Unsubscribe)
	return t
}

func (t *Tester[T]) record(v T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.values = append(t.values, v)
}

// Values returns a copy of the recorded values.
func (t *Tester[T]) Values() []T {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]T, len(t.values))
	copy(out, t.values)
	return out
}

// Last returns the most recent value and whether there is one.
func (t *Tester[T]) Last() (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	var zero T
	if len(t.values) == 0 {
		return zero, false
	}
	return t.values[len(t.values)-1], true
}

// Len returns the number of recorded values.
func (t *Tester[T]) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.values)
}

// Stop unsubscribes the tester.
func (t *Tester[T]) Stop() {
	t.sub.Unsubscribe()
}

// AssertValues asserts that exactly want was recorded, in order.
func (t *Tester[T]) AssertValues(tb testing.TB, want ...T) {
	tb.Helper()
	if want == nil {
		want = []T{}
	}
	assert.Equal(tb, want, t.Values())
}

// AssertEmpty asserts that nothing was recorded.
func (t *Tester[T]) AssertEmpty(tb testing.TB) {
	tb.Helper()
	assert.Empty(tb, t.Values())
}

// WaitFor blocks until at least n values are recorded or timeout elapses.
func (t *Tester[T]) WaitFor(tb testing.TB, n int, timeout time.Duration) {
	tb.Helper()
	require.Eventually(tb, func() bool { return t.Len() >= n }, timeout, time.Millisecond,
		"expected at least %d values", n)
}
