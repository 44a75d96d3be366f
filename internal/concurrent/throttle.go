package concurrent

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
)

// DefaultWindow is the quiet period used to debounce search requests.
const DefaultWindow = 200 * time.Millisecond

// ThrottlingExecutor waits for a quiet window and then hands only the last
// work submitted during it to the delegate. Every submission restarts the
// window.
type ThrottlingExecutor struct {
	delegate  Executor
	scheduler *Scheduler
	window    atomic.Int64

	// mu makes cancel-then-schedule atomic across concurrent submissions.
	mu sync.Mutex
}

// Ensure ThrottlingExecutor implements Executor.
var _ Executor = (*ThrottlingExecutor)(nil)

// NewThrottlingExecutor wraps delegate with a window of the given length.
// A non-positive window uses DefaultWindow.
func NewThrottlingExecutor(delegate Executor, window time.Duration) *ThrottlingExecutor {
	return NewThrottlingExecutorWithClock(delegate, window, clock.New())
}

// NewThrottlingExecutorWithClock is like NewThrottlingExecutor but uses c
// for timing.
func NewThrottlingExecutorWithClock(delegate Executor, window time.Duration, c clock.Clock) *ThrottlingExecutor {
	if window <= 0 {
		window = DefaultWindow
	}
	e := &ThrottlingExecutor{
		delegate:  delegate,
		scheduler: NewSchedulerWithClock(c),
	}
	e.window.Store(int64(window))
	return e
}

// Execute discards any work still waiting and schedules work to be handed
// to the delegate after the window.
func (e *ThrottlingExecutor) Execute(work func()) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.scheduler.CancelAll()
	e.scheduler.Schedule(func() {
		e.delegate.Execute(work)
	}, e.Window())
}

// Cancel discards any work still waiting.
func (e *ThrottlingExecutor) Cancel() {
	e.scheduler.CancelAll()
}

// Window returns the configured window.
func (e *ThrottlingExecutor) Window() time.Duration {
	return time.Duration(e.window.Load())
}

// SetWindow changes the window for subsequent submissions. A non-positive
// window is ignored.
func (e *ThrottlingExecutor) SetWindow(window time.Duration) {
	if window > 0 {
		e.window.Store(int64(window))
	}
}
