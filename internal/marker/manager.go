// Package marker owns the authoritative set of live marker entities
// and their lifecycle state machine. The manager is host-agnostic: it
// produces transition intents and entity calls against render.Host and
// never touches scene-engine state directly.
package marker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/vraq/scene/internal/geo"
	"github.com/vraq/scene/internal/render"
	"github.com/vraq/scene/internal/scheduler"
	"github.com/vraq/scene/internal/session"
	"github.com/vraq/scene/pkg/core"
)

// Logger interface for pluggable logging. *slog.Logger satisfies it.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Dependencies holds all dependencies for the lifecycle manager.
type Dependencies struct {
	Host    render.Host
	Session *session.Context
	Mapper  geo.Mapper
	Logger  Logger
}

// Option configures manager timing.
type Option func(*config)

type config struct {
	entranceStagger  time.Duration
	entranceDuration time.Duration
	exitStagger      time.Duration
	exitDuration     time.Duration
	hoverDuration    time.Duration
	hoverScale       float64
	refreshFloor     time.Duration
}

func defaultConfig() config {
	return config{
		entranceStagger:  120 * time.Millisecond,
		entranceDuration: 350 * time.Millisecond,
		exitStagger:      60 * time.Millisecond,
		exitDuration:     250 * time.Millisecond,
		hoverDuration:    150 * time.Millisecond,
		hoverScale:       1.4,
		refreshFloor:     MinRefreshInterval,
	}
}

// WithEntranceTiming sets the per-index stagger and the duration of
// the entrance transition.
func WithEntranceTiming(stagger, duration time.Duration) Option {
	return func(c *config) {
		c.entranceStagger = stagger
		c.entranceDuration = duration
	}
}

// WithExitTiming sets the per-index stagger and the duration of the
// exit transition.
func WithExitTiming(stagger, duration time.Duration) Option {
	return func(c *config) {
		c.exitStagger = stagger
		c.exitDuration = duration
	}
}

// WithHoverEmphasis sets the hover scale multiplier and transition
// duration.
func WithHoverEmphasis(scale float64, duration time.Duration) Option {
	return func(c *config) {
		c.hoverScale = scale
		c.hoverDuration = duration
	}
}

// liveMarker is one live entity plus its state-machine phase.
type liveMarker struct {
	desc  core.MarkerDescriptor
	phase core.MarkerPhase
	index int
}

// Manager maintains the live marker set. All mutation happens under a
// single mutex; scheduled callbacks re-enter through it, so there is
// no interleaving beyond the cancelation points of the scheduler.
type Manager struct {
	deps Dependencies
	cfg  config

	sched   *scheduler.Scheduler
	refresh *scheduler.Ticker

	mu    sync.Mutex
	live  map[string]*liveMarker
	order []string // ids of the current report's markers, ascending index

	// OTEL metrics
	markersCreated metric.Int64Counter
	markersRemoved metric.Int64Counter
	reportsLoaded  metric.Int64Counter
	notifyDropped  metric.Int64Counter
}

// NewManager creates a lifecycle manager.
// Uses the global OTel meter for metrics (no-op if not configured).
func NewManager(deps Dependencies, opts ...Option) (*Manager, error) {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	m := &Manager{
		deps:    deps,
		cfg:     cfg,
		sched:   scheduler.New(),
		refresh: scheduler.NewTicker(),
		live:    make(map[string]*liveMarker),
	}

	mt := meter()

	var err error
	m.markersCreated, err = mt.Int64Counter(
		"marker.created",
		metric.WithDescription("Marker entities created"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating marker counter: %w", err)
	}
	m.markersRemoved, err = mt.Int64Counter(
		"marker.removed",
		metric.WithDescription("Marker entities removed"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating removal counter: %w", err)
	}
	m.reportsLoaded, err = mt.Int64Counter(
		"marker.reports_loaded",
		metric.WithDescription("Reports loaded into the scene"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating report counter: %w", err)
	}
	m.notifyDropped, err = mt.Int64Counter(
		"marker.notifications_dropped",
		metric.WithDescription("Host notifications that failed to deliver"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating drop counter: %w", err)
	}

	return m, nil
}

// LoadReport replaces the visualized marker set with the given
// report's components. Current markers begin staggered exit
// transitions; new markers spawn in Entering and settle to Idle.
// The swap is atomic with respect to concurrent LoadReport calls: a
// superseding load cancels the pending staggered tasks of this one.
//
// A nil report is a no-op with a logged warning. A report without a
// components field renders as an empty scene, which is not an error.
func (m *Manager) LoadReport(report *core.AnalysisReport) {
	if report == nil {
		m.deps.Logger.Warn("LoadReport called with nil report, keeping current scene")
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if report.Components == nil {
		m.deps.Logger.Warn("Report has no components field, rendering empty scene",
			"analysisID", report.AnalysisID)
	}

	bundle := session.BuildBundle(report, m.deps.Mapper)
	if bundle.AssumedDims {
		m.deps.Logger.Warn("Report missing image dimensions, assuming fallback resolution",
			"analysisID", report.AnalysisID,
			"width", geo.DefaultImageWidth,
			"height", geo.DefaultImageHeight)
	}

	// Retire the current set. Markers already exiting keep their
	// pending removal tasks; the rest begin staggered exits now.
	for i, id := range m.order {
		lm, ok := m.live[id]
		if !ok || lm.phase == core.PhaseExiting {
			continue
		}
		m.beginExitLocked(lm, time.Duration(i)*m.cfg.exitStagger)
	}

	newOrder := make([]string, 0, len(bundle.Markers))
	for i := range bundle.Markers {
		desc := bundle.Markers[i]

		// Reloading the same analysis: the old entity still holds this
		// id, so finish its exit immediately before respawning.
		if _, exists := m.live[desc.ID]; exists {
			m.finalizeRemoveLocked(desc.ID)
		}

		if err := m.deps.Host.SpawnMarker(desc, true); err != nil {
			m.deps.Logger.Error("Spawn failed, skipping marker", "id", desc.ID, "error", err)
			continue
		}

		m.live[desc.ID] = &liveMarker{desc: desc, phase: core.PhaseEntering, index: i}
		newOrder = append(newOrder, desc.ID)
		m.markersCreated.Add(context.Background(), 1)

		id := desc.ID
		m.sched.After(id+"/enter", time.Duration(i)*m.cfg.entranceStagger, func() {
			m.playEntrance(id)
		})
	}
	m.order = newOrder

	m.deps.Session.PutReport(report)
	m.deps.Session.SetCurrent(bundle)

	if err := m.deps.Host.NotifyStatistics(report.OverallStatus, bundle.Stats); err != nil {
		m.deps.Logger.Error("Statistics notification failed", "error", err)
		m.notifyDropped.Add(context.Background(), 1)
	}

	m.reportsLoaded.Add(context.Background(), 1)
	m.deps.Logger.Info("Report loaded",
		"analysisID", report.AnalysisID,
		"markers", len(newOrder),
		"total", bundle.Stats.Total,
		"defects", bundle.Stats.Missing+bundle.Stats.Misaligned)
}

// playEntrance emits the one-shot scale-up for a marker and schedules
// its settle into Idle.
func (m *Manager) playEntrance(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	lm, ok := m.live[id]
	if !ok || lm.phase != core.PhaseEntering {
		return
	}

	m.applyTransitionLocked(core.TransitionIntent{
		MarkerID: id,
		Property: core.PropertyScale,
		Target:   lm.desc.Scale,
		Duration: m.cfg.entranceDuration,
		Easing:   core.EaseOut,
	})

	m.sched.After(id+"/settle", m.cfg.entranceDuration, func() {
		m.settle(id)
	})
}

// settle completes the entrance transition.
func (m *Manager) settle(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	lm, ok := m.live[id]
	if ok && lm.phase == core.PhaseEntering {
		lm.phase = core.PhaseIdle
	}
}

// beginExitLocked flips a marker to Exiting and schedules its shrink
// and removal. Pending entrance tasks are canceled so a half-entered
// marker cannot settle to Idle after it started leaving.
func (m *Manager) beginExitLocked(lm *liveMarker, delay time.Duration) {
	id := lm.desc.ID
	lm.phase = core.PhaseExiting

	m.sched.Cancel(id + "/enter")
	m.sched.Cancel(id + "/settle")

	m.sched.After(id+"/exit", delay, func() {
		m.playExit(id)
	})
	m.sched.After(id+"/remove", delay+m.cfg.exitDuration, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.finalizeRemoveLocked(id)
	})
}

// playExit emits the one-shot shrink for an exiting marker.
func (m *Manager) playExit(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.live[id]; !ok {
		return
	}

	m.applyTransitionLocked(core.TransitionIntent{
		MarkerID: id,
		Property: core.PropertyScale,
		Target:   0,
		Duration: m.cfg.exitDuration,
		Easing:   core.EaseIn,
	})
}

// finalizeRemoveLocked destroys the entity and deletes it from the
// live set. No further events may target the marker afterwards.
func (m *Manager) finalizeRemoveLocked(id string) {
	lm, ok := m.live[id]
	if !ok {
		return
	}

	m.sched.Cancel(id + "/enter")
	m.sched.Cancel(id + "/settle")
	m.sched.Cancel(id + "/exit")
	m.sched.Cancel(id + "/remove")

	lm.phase = core.PhaseRemoved
	delete(m.live, id)

	if err := m.deps.Host.RemoveMarker(id); err != nil {
		m.deps.Logger.Error("Remove failed", "id", id, "error", err)
	}
	m.markersRemoved.Add(context.Background(), 1)
}

func (m *Manager) applyTransitionLocked(t core.TransitionIntent) {
	if err := m.deps.Host.ApplyTransition(t); err != nil {
		m.deps.Logger.Error("Transition failed",
			"id", t.MarkerID, "property", t.Property, "error", err)
	}
}

// PointerEnter handles intersection-start for a marker. Only Idle
// markers become Hovered; entering and exiting markers ignore pointer
// events.
func (m *Manager) PointerEnter(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	lm, ok := m.live[id]
	if !ok || lm.phase != core.PhaseIdle {
		return
	}

	lm.phase = core.PhaseHovered
	m.applyTransitionLocked(core.TransitionIntent{
		MarkerID: id,
		Property: core.PropertyScale,
		Target:   lm.desc.Scale * m.cfg.hoverScale,
		Duration: m.cfg.hoverDuration,
		Easing:   core.EaseOut,
	})
	if err := m.deps.Host.NotifyHover(id, true); err != nil {
		m.deps.Logger.Error("Hover notification failed", "id", id, "error", err)
		m.notifyDropped.Add(context.Background(), 1)
	}
}

// PointerLeave returns a hovered marker to Idle.
func (m *Manager) PointerLeave(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	lm, ok := m.live[id]
	if !ok || lm.phase != core.PhaseHovered {
		return
	}

	lm.phase = core.PhaseIdle
	m.applyTransitionLocked(core.TransitionIntent{
		MarkerID: id,
		Property: core.PropertyScale,
		Target:   lm.desc.Scale,
		Duration: m.cfg.hoverDuration,
		Easing:   core.EaseOut,
	})
	if err := m.deps.Host.NotifyHover(id, false); err != nil {
		m.deps.Logger.Error("Hover notification failed", "id", id, "error", err)
		m.notifyDropped.Add(context.Background(), 1)
	}
}

// Select fires a selection notification for a marker in Idle or
// Hovered. Selection does not change marker state.
func (m *Manager) Select(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	lm, ok := m.live[id]
	if !ok || (lm.phase != core.PhaseIdle && lm.phase != core.PhaseHovered) {
		return
	}

	event := core.SelectionEvent{
		MarkerID:         lm.desc.ID,
		Name:             lm.desc.Name,
		Status:           lm.desc.Status,
		Confidence:       lm.desc.Confidence,
		ExpectedPosition: lm.desc.ExpectedPosition,
		DetectedPosition: lm.desc.DetectedPosition,
		DeviationPixels:  lm.desc.DeviationPixels,
	}
	if err := m.deps.Host.NotifySelection(event); err != nil {
		m.deps.Logger.Error("Selection notification failed", "id", id, "error", err)
		m.notifyDropped.Add(context.Background(), 1)
	}
}

// LiveCount returns the number of live markers, exiting ones included.
func (m *Manager) LiveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.live)
}

// Phase returns the lifecycle phase of a live marker. The second
// return is false for unknown or already removed ids.
func (m *Manager) Phase(id string) (core.MarkerPhase, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	lm, ok := m.live[id]
	if !ok {
		return core.PhaseRemoved, false
	}
	return lm.phase, true
}

// Close tears down the manager: stops auto-refresh, cancels all
// pending staggered tasks, clears the live set, and resets the host
// scene.
func (m *Manager) Close() {
	m.refresh.Stop()
	m.sched.Close()

	m.mu.Lock()
	defer m.mu.Unlock()

	for id := range m.live {
		delete(m.live, id)
	}
	m.order = nil

	if err := m.deps.Host.ResetScene(""); err != nil {
		m.deps.Logger.Error("Scene reset failed during teardown", "error", err)
	}
}
