// Package scheduler provides cancelable delayed tasks and a recurring
// ticker. It backs the staggered marker transitions and the
// auto-refresh loop: every pending callback is keyed, so a superseding
// report load can cancel exactly the tasks for stale markers without
// leaking timers.
package scheduler

import (
	"sync"
	"time"
)

// Scheduler owns a registry of cancelable delayed tasks keyed by
// string. Scheduling under an existing key replaces the pending task.
type Scheduler struct {
	mu     sync.Mutex
	timers map[string]*time.Timer
	closed bool
}

// New creates an empty scheduler.
func New() *Scheduler {
	return &Scheduler{
		timers: make(map[string]*time.Timer),
	}
}

// After runs fn after d, replacing any pending task with the same key.
// The key is released before fn runs, so fn may reschedule itself.
// No-op after Close.
func (s *Scheduler) After(key string, d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if t, ok := s.timers[key]; ok {
		t.Stop()
	}
	s.timers[key] = time.AfterFunc(d, func() {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return
		}
		delete(s.timers, key)
		s.mu.Unlock()
		fn()
	})
}

// Cancel stops the pending task for key. Returns true if a task was
// pending.
func (s *Scheduler) Cancel(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.timers[key]
	if !ok {
		return false
	}
	t.Stop()
	delete(s.timers, key)
	return true
}

// CancelAll stops every pending task and returns how many were pending.
func (s *Scheduler) CancelAll() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.timers)
	for key, t := range s.timers {
		t.Stop()
		delete(s.timers, key)
	}
	return n
}

// Pending returns the number of scheduled tasks.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Close cancels everything and rejects further scheduling.
func (s *Scheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, t := range s.timers {
		t.Stop()
		delete(s.timers, key)
	}
	s.closed = true
}
