// Package concurrent provides executors and the debounce primitives used to
// coalesce bursts of search requests.
package concurrent

import (
	"github.com/sourcegraph/conc/pool"
)

// Executor runs units of work.
type Executor interface {
	Execute(work func())
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(work func())

// Execute calls f(work).
func (f ExecutorFunc) Execute(work func()) {
	f(work)
}

// Inline runs work on the calling goroutine.
var Inline Executor = ExecutorFunc(func(work func()) { work() })

// PoolExecutor runs work on a bounded set of goroutines.
type PoolExecutor struct {
	pool *pool.Pool
}

// NewPoolExecutor creates an executor with at most maxWorkers goroutines.
// Execute blocks while all workers are busy.
func NewPoolExecutor(maxWorkers int) *PoolExecutor {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &PoolExecutor{
		pool: pool.New().WithMaxGoroutines(maxWorkers),
	}
}

// Execute submits work to the pool.
func (p *PoolExecutor) Execute(work func()) {
	p.pool.Go(work)
}

// Wait blocks until all submitted work has finished. A panic raised by
// work is re-raised here.
func (p *PoolExecutor) Wait() {
	p.pool.Wait()
}
