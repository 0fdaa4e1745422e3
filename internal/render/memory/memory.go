// Package memory implements a render backend that keeps the scene in
// memory. It drives headless runs and tests: every call is recorded
// and the current entity set is queryable.
package memory

import (
	"fmt"
	"sync"

	"github.com/vraq/scene/pkg/core"
)

// Call records one host invocation for inspection.
type Call struct {
	Op      string // "reset", "spawn", "transition", "remove", "selection", "hover", "statistics"
	Payload any
}

// Backend is an in-memory render host.
type Backend struct {
	mu         sync.RWMutex
	analysisID string
	entities   map[string]core.MarkerDescriptor
	calls      []Call
	stats      core.Statistics
	overall    string
}

// New creates an empty in-memory backend.
func New() *Backend {
	return &Backend{
		entities: make(map[string]core.MarkerDescriptor),
	}
}

// Init initializes the backend.
func (b *Backend) Init() error {
	return nil
}

// Close cleans up resources.
func (b *Backend) Close() error {
	return nil
}

// ResetScene clears all entities and starts a new visualization.
func (b *Backend) ResetScene(analysisID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.analysisID = analysisID
	b.entities = make(map[string]core.MarkerDescriptor)
	b.calls = append(b.calls, Call{Op: "reset", Payload: analysisID})
	return nil
}

// SpawnMarker creates a marker entity. Duplicate ids are an error:
// the lifecycle manager guarantees no two live entities share an id.
func (b *Backend) SpawnMarker(m core.MarkerDescriptor, interactive bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.entities[m.ID]; exists {
		return fmt.Errorf("duplicate marker id %q", m.ID)
	}
	b.entities[m.ID] = m
	b.calls = append(b.calls, Call{Op: "spawn", Payload: m})
	return nil
}

// ApplyTransition records a transition intent for an existing entity.
func (b *Backend) ApplyTransition(t core.TransitionIntent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.entities[t.MarkerID]; !exists {
		return fmt.Errorf("transition for unknown marker %q", t.MarkerID)
	}
	b.calls = append(b.calls, Call{Op: "transition", Payload: t})
	return nil
}

// RemoveMarker destroys a marker entity.
func (b *Backend) RemoveMarker(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.entities[id]; !exists {
		return fmt.Errorf("remove of unknown marker %q", id)
	}
	delete(b.entities, id)
	b.calls = append(b.calls, Call{Op: "remove", Payload: id})
	return nil
}

// NotifySelection records a selection notification.
func (b *Backend) NotifySelection(e core.SelectionEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, Call{Op: "selection", Payload: e})
	return nil
}

// NotifyHover records a hover notification.
func (b *Backend) NotifyHover(id string, entered bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, Call{Op: "hover", Payload: [2]any{id, entered}})
	return nil
}

// NotifyStatistics records the per-report summary.
func (b *Backend) NotifyStatistics(overallStatus string, s core.Statistics) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.overall = overallStatus
	b.stats = s
	b.calls = append(b.calls, Call{Op: "statistics", Payload: s})
	return nil
}

// EntityCount returns the number of live entities.
func (b *Backend) EntityCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.entities)
}

// Entity returns a live entity by id.
func (b *Backend) Entity(id string) (core.MarkerDescriptor, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	m, ok := b.entities[id]
	return m, ok
}

// Calls returns a copy of the recorded call log.
func (b *Backend) Calls() []Call {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Call, len(b.calls))
	copy(out, b.calls)
	return out
}

// CallsOf returns recorded calls matching the given op.
func (b *Backend) CallsOf(op string) []Call {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var out []Call
	for _, c := range b.calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Statistics returns the last notified summary.
func (b *Backend) Statistics() (string, core.Statistics) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.overall, b.stats
}
