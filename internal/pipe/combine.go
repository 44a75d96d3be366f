package pipe

import "sync"

// slot holds the latest value of one combined input.
type slot[T any] struct {
	set   bool
	value T
}

func (s *slot[T]) put(v T) {
	s.value = v
	s.set = true
}

// Combined is the output of Combine3 together with its input subscriptions.
type Combined[R any] struct {
	out  *Source[R]
	subs Subscriptions
}

// Pipe returns the combined stream.
func (c *Combined[R]) Pipe() Pipe[R] {
	return c.out.Pipe()
}

// Close detaches the combined stream from its inputs.
func (c *Combined[R]) Close() {
	c.subs.Unsubscribe()
}

// Combine3 derives a stream from three inputs. Once every input has
// produced a value, each further input update runs mapper with the latest
// value of all three and pushes the result. Identical results are pushed
// again; nothing is de-duplicated.
//
// mapper runs on the goroutine that delivered the triggering update.
func Combine3[A, B, C, R any](a Pipe[A], b Pipe[B], c Pipe[C], mapper func(A, B, C) R) Pipe[R] {
	return NewCombined3(a, b, c, mapper).Pipe()
}

// NewCombined3 is like Combine3 but returns a handle that can be closed.
func NewCombined3[A, B, C, R any](a Pipe[A], b Pipe[B], c Pipe[C], mapper func(A, B, C) R) *Combined[R] {
	if mapper == nil {
		panic("pipe: nil mapper")
	}

	var (
		mu    sync.Mutex
		slotA slot[A]
		slotB slot[B]
		slotC slot[C]
	)
	out := NewSource[R]()

	// emit is called with mu held.
	emit := func() {
		if !slotA.set || !slotB.set || !slotC.set {
			return
		}
		// A nil result has nowhere to go; the inputs stay recorded.
		_ = out.Push(mapper(slotA.value, slotB.value, slotC.value))
	}

	subs := Subscriptions{
		a.Subscribe(func(v A) {
			mu.Lock()
			defer mu.Unlock()
			slotA.put(v)
			emit()
		}),
		b.Subscribe(func(v B) {
			mu.Lock()
			defer mu.Unlock()
			slotB.put(v)
			emit()
		}),
		c.Subscribe(func(v C) {
			mu.Lock()
			defer mu.Unlock()
			slotC.put(v)
			emit()
		}),
	}

	return &Combined[R]{out: out, subs: subs}
}
