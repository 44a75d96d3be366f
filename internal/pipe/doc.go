// Package pipe provides a minimal hot value stream with latest-value replay.
//
// A Source is written to with Push and read through its Pipe. Every
// subscriber receives the latest value immediately on Subscribe and then
// every subsequent push, synchronously on the pushing goroutine.
//
// # Concurrency
//
// Each Source serialises pushes and subscription changes with its own
// mutex, and consumers run while that mutex is held. A consumer must
// therefore not push to, subscribe to or unsubscribe from the stream that is
// currently delivering to it.
//
// # Absent values
//
// A Source that has never been pushed to holds no value; this is tracked
// explicitly rather than with a zero value, so false, 0 and empty slices are
// all valid values. Nil pointers, interfaces, funcs and channels are rejected
// by Push.
package pipe
