package scheduler

import (
	"sync"
	"time"
)

// Ticker runs a function on a fixed interval. At most one loop runs
// per Ticker: Start while running first stops the previous loop, and
// Stop is idempotent.
type Ticker struct {
	mu       sync.Mutex
	stopChan chan struct{}
	running  bool
}

// NewTicker creates a stopped ticker.
func NewTicker() *Ticker {
	return &Ticker{}
}

// Start begins invoking fn every interval. A previous loop is stopped
// first so only one is ever active.
func (t *Ticker) Start(interval time.Duration, fn func()) {
	t.mu.Lock()
	if t.running {
		close(t.stopChan)
	}
	stop := make(chan struct{})
	t.stopChan = stop
	t.running = true
	t.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				fn()
			}
		}
	}()
}

// Stop halts the loop. Safe to call when not running.
func (t *Ticker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		return
	}
	close(t.stopChan)
	t.running = false
}

// Running reports whether a loop is active.
func (t *Ticker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}
