package mocks

import (
	"sync"
	"time"

	"github.com/jaminalder/tictactoe-ai/internal/dependencies/clock"
)

// ManualScheduler collects deferred actions and runs them only when told to
type ManualScheduler struct {
	mu      sync.Mutex
	pending []func()
	delays  []time.Duration
}

// Ensure ManualScheduler implements Scheduler
var _ clock.Scheduler = (*ManualScheduler)(nil)

// NewManualScheduler creates an empty ManualScheduler
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// AfterFunc records f without running it
func (s *ManualScheduler) AfterFunc(d time.Duration, f func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, f)
	s.delays = append(s.delays, d)
}

// Pending returns how many actions are waiting to fire
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Delays returns the delay requested for every action scheduled so far
func (s *ManualScheduler) Delays() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]time.Duration, len(s.delays))
	copy(out, s.delays)
	return out
}

// RunPending fires every waiting action in scheduling order and returns how
// many ran. Actions scheduled while running are left for the next call.
func (s *ManualScheduler) RunPending() int {
	s.mu.Lock()
	fns := s.pending
	s.pending = nil
	s.mu.Unlock()

	for _, f := range fns {
		f()
	}
	return len(fns)
}
