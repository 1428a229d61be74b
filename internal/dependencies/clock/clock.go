package clock

import "time"

// Scheduler runs deferred actions. Scheduled actions cannot be cancelled;
// callers guard against stale firings themselves.
type Scheduler interface {
	AfterFunc(d time.Duration, f func())
}

// RealScheduler implements Scheduler with time.AfterFunc
type RealScheduler struct{}

// New creates a new RealScheduler
func New() *RealScheduler {
	return &RealScheduler{}
}

// AfterFunc runs f on its own goroutine once d has elapsed
func (s *RealScheduler) AfterFunc(d time.Duration, f func()) {
	time.AfterFunc(d, f)
}

// Clock provides time operations that can be mocked for testing
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the system clock
type RealClock struct{}

// NewClock creates a new RealClock
func NewClock() *RealClock {
	return &RealClock{}
}

// Now returns the current time
func (c *RealClock) Now() time.Time {
	return time.Now()
}
