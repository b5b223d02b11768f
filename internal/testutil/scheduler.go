package testutil

import "sync"

// ManualScheduler queues scheduled callbacks until the test runs them.
//
// It satisfies history.Scheduler. With it the restore guard's fallback
// release happens exactly where a test calls RunPending, standing in for
// "the next turn of the host's task queue".
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type ManualScheduler struct {
	mu      sync.Mutex
	pending []func()
}

// NewManualScheduler creates a scheduler with an empty queue.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// Schedule queues fn.
func (s *ManualScheduler) Schedule(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, fn)
}

// RunPending runs every queued callback in scheduling order and returns how
// many ran. Callbacks scheduled while running wait for the next call.
func (s *ManualScheduler) RunPending() int {
	s.mu.Lock()
	batch := s.pending
	s.pending = nil
	s.mu.Unlock()

	for _, fn := range batch {
		fn()
	}
	return len(batch)
}

// Pending returns the number of queued callbacks.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}
