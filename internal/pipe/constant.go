package pipe

// Constant returns a pipe that delivers value to every subscriber and
// nothing else. It panics if value is nil.
func Constant[T any](value T) Pipe[T] {
	return NewSourceWith(value).Pipe()
}
