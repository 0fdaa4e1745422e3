package marker

import (
	"context"
	"time"

	"github.com/vraq/scene/pkg/core"
)

// Auto-refresh interval bounds.
const (
	MinRefreshInterval     = time.Second
	DefaultRefreshInterval = 30 * time.Second
)

// FetchFunc requests a fresh report for auto-refresh.
type FetchFunc func(ctx context.Context) (*core.AnalysisReport, error)

// clampRefreshInterval maps non-positive intervals to the default and
// raises anything below floor up to it.
func clampRefreshInterval(interval, floor time.Duration) time.Duration {
	if interval <= 0 {
		return DefaultRefreshInterval
	}
	if interval < floor {
		return floor
	}
	return interval
}

// StartAutoRefresh begins requesting a fresh report every interval and
// loading it into the scene. Starting while already running replaces
// the previous timer, so at most one is ever active per manager.
func (m *Manager) StartAutoRefresh(interval time.Duration, fetch FetchFunc) {
	interval = clampRefreshInterval(interval, m.cfg.refreshFloor)

	m.deps.Logger.Info("Auto-refresh started", "interval", interval)
	m.refresh.Start(interval, func() {
		report, err := fetch(context.Background())
		if err != nil {
			// Keep the current scene; the next tick retries.
			m.deps.Logger.Error("Auto-refresh fetch failed", "error", err)
			return
		}
		m.LoadReport(report)
	})
}

// StopAutoRefresh cancels the refresh timer. Safe to call when not
// running.
func (m *Manager) StopAutoRefresh() {
	m.refresh.Stop()
}

// AutoRefreshRunning reports whether the refresh timer is active.
func (m *Manager) AutoRefreshRunning() bool {
	return m.refresh.Running()
}
