package concurrent

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// Scheduler runs tasks after a delay and can cancel every pending task at
// once.
type Scheduler struct {
	clock clock.Clock

	mu      sync.Mutex
	pending map[*scheduledTask]struct{}
}

type scheduledTask struct {
	timer *clock.Timer
}

// NewScheduler creates a scheduler backed by the wall clock.
func NewScheduler() *Scheduler {
	return NewSchedulerWithClock(clock.New())
}

// NewSchedulerWithClock creates a scheduler backed by c.
func NewSchedulerWithClock(c clock.Clock) *Scheduler {
	return &Scheduler{
		clock:   c,
		pending: make(map[*scheduledTask]struct{}),
	}
}

// Schedule runs task once delay has elapsed, unless CancelAll is called
// first. When the delay elapses the entry is removed from the pending set
// and task runs only if that removal succeeded.
func (s *Scheduler) Schedule(task func(), delay time.Duration) {
	entry := &scheduledTask{}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending[entry] = struct{}{}
	entry.timer = s.clock.AfterFunc(delay, func() {
		if s.remove(entry) {
			task()
		}
	})
}

// CancelAll cancels every pending task.
func (s *Scheduler) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for entry := range s.pending {
		entry.timer.Stop()
	}
	clear(s.pending)
}

// Pending returns the number of tasks waiting to run.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

func (s *Scheduler) remove(entry *scheduledTask) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.pending[entry]; !ok {
		return false
	}
	delete(s.pending, entry)
	return true
}
