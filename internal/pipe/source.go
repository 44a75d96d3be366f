package pipe

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

// ErrAbsentValue is returned by Push when given a nil value.
var ErrAbsentValue = errors.New("pipe: value must not be nil")

// Pipe is the read side of a stream.
type Pipe[T any] interface {
	// Subscribe registers consumer and replays the latest value to it,
	// if there is one, before returning.
	Subscribe(consumer func(T)) *Subscription
}

// Source is a thread-safe multicast stream that remembers its latest value.
type Source[T any] struct {
	mu        sync.Mutex
	consumers []*consumerEntry[T]
	hasValue  bool
	value     T
}

type consumerEntry[T any] struct {
	fn func(T)
}

// Ensure Source implements Pipe.
var _ Pipe[int] = (*Source[int])(nil)

// NewSource creates a source with no value.
func NewSource[T any]() *Source[T] {
	return &Source[T]{}
}

// NewSourceWith creates a source whose latest value is initial.
// It panics if initial is nil.
func NewSourceWith[T any](initial T) *Source[T] {
	s := &Source[T]{}
	s.MustPush(initial)
	return s
}

// Push records value as the latest value and delivers it to every
// registered consumer before returning.
func (s *Source[T]) Push(value T) error {
	if isNil(value) {
		return fmt.Errorf("push %T: %w", value, ErrAbsentValue)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.value = value
	s.hasValue = true

	for _, c := range s.consumers {
		c.fn(value)
	}
	return nil
}

// MustPush is like Push but panics on error.
func (s *Source[T]) MustPush(value T) {
	if err := s.Push(value); err != nil {
		panic(err)
	}
}

// Subscribe registers consumer. If the source already holds a value it is
// delivered to consumer before Subscribe returns. Replay and registration
// happen under the same lock, so a concurrent push is seen exactly once.
func (s *Source[T]) Subscribe(consumer func(T)) *Subscription {
	if consumer == nil {
		panic("pipe: nil consumer")
	}

	entry := &consumerEntry[T]{fn: consumer}

	s.mu.Lock()
	if s.hasValue {
		consumer(s.value)
	}
	s.consumers = append(s.consumers, entry)
	s.mu.Unlock()

	return &Subscription{cancel: func() { s.remove(entry) }}
}

// Latest returns the latest value and whether one has been pushed.
func (s *Source[T]) Latest() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, s.hasValue
}

// Pipe returns a read-only view of the source.
func (s *Source[T]) Pipe() Pipe[T] {
	return readOnly[T]{source: s}
}

// Len returns the number of registered consumers.
func (s *Source[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.consumers)
}

func (s *Source[T]) remove(entry *consumerEntry[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, c := range s.consumers {
		if c == entry {
			s.consumers = append(s.consumers[:i], s.consumers[i+1:]...)
			return
		}
	}
}

// readOnly hides Push from holders of a Pipe.
type readOnly[T any] struct {
	source *Source[T]
}

func (r readOnly[T]) Subscribe(consumer func(T)) *Subscription {
	return r.source.Subscribe(consumer)
}

// isNil reports whether v is a nil pointer, interface, func, chan or
// unsafe pointer. Nil maps and slices are valid empty values.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return rv.IsNil()
	default:
		return false
	}
}
