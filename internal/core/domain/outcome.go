package domain

// Outcome is the settled result of an operation: either a value or an
// error, never both.
type Outcome[T any] struct {
	value T
	err   error
}

// Success returns an outcome holding value.
func Success[T any](value T) Outcome[T] {
	return Outcome[T]{value: value}
}

// Failure returns an outcome holding err. A nil err is replaced with
// ErrInvalidArgument so the outcome is never mistaken for a success.
func Failure[T any](err error) Outcome[T] {
	if err == nil {
		err = ErrInvalidArgument
	}
	return Outcome[T]{err: err}
}

// IsSuccess reports whether the outcome holds a value.
func (o Outcome[T]) IsSuccess() bool {
	return o.err == nil
}

// Value returns the value, or the zero value for a failure.
func (o Outcome[T]) Value() T {
	return o.value
}

// Err returns the error, or nil for a success.
func (o Outcome[T]) Err() error {
	return o.err
}

// Get returns the value and error.
func (o Outcome[T]) Get() (T, error) {
	return o.value, o.err
}

// MatchOutcome calls onSuccess or onFailure depending on the variant of o.
func MatchOutcome[T, R any](o Outcome[T], onSuccess func(T) R, onFailure func(error) R) R {
	if o.err != nil {
		return onFailure(o.err)
	}
	return onSuccess(o.value)
}
