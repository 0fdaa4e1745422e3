// Package session owns per-session state: the report cache and the
// currently visualized bundle. It replaces the global "last results"
// variable of earlier iterations; consumers receive the Context
// explicitly from the orchestrating layer.
package session

import (
	"sync"

	"github.com/vraq/scene/pkg/core"
)

// Context holds the session-local report cache and the current bundle.
type Context struct {
	mu      sync.RWMutex
	reports map[string]*core.AnalysisReport
	current *Bundle
}

// NewContext creates an empty session context.
func NewContext() *Context {
	return &Context{
		reports: make(map[string]*core.AnalysisReport),
	}
}

// GetReport retrieves a cached report by analysis id.
func (c *Context) GetReport(id string) (*core.AnalysisReport, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.reports[id]
	return r, ok
}

// PutReport caches a report under its analysis id. Reports are
// immutable after receipt; a second put with the same id is a no-op so
// the first received copy stays authoritative.
func (c *Context) PutReport(r *core.AnalysisReport) {
	if r == nil || r.AnalysisID == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.reports[r.AnalysisID]; !ok {
		c.reports[r.AnalysisID] = r
	}
}

// Current returns the currently visualized bundle, or nil before the
// first load.
func (c *Context) Current() *Bundle {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// SetCurrent replaces the currently visualized bundle.
func (c *Context) SetCurrent(b *Bundle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = b
}

// Reset clears the cache and the current bundle.
func (c *Context) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reports = make(map[string]*core.AnalysisReport)
	c.current = nil
}
