// Package websocket streams scene mutations to a live render host.
package websocket

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/vraq/scene/pkg/core"
	"github.com/vraq/scene/pkg/streaming"
)

// Config holds WebSocket backend configuration.
type Config struct {
	URL    string
	Secret string
}

// Backend streams scene mutations over WebSocket to a render host.
// It implements render.Host.
type Backend struct {
	conn *connection
	cfg  Config
}

// New creates a new WebSocket render backend.
func New(cfg Config, logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.Default()
	}
	return &Backend{
		conn: newConnection(logger),
		cfg:  cfg,
	}
}

// Init connects to the render host.
func (b *Backend) Init() error {
	return b.conn.dial(b.cfg.URL, b.cfg.Secret)
}

// Close disconnects from the render host.
func (b *Backend) Close() error {
	return b.conn.close()
}

// marshalEnvelope builds a JSON-encoded Envelope from a message type and payload.
func marshalEnvelope(msgType string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", msgType, err)
	}
	env := streaming.Envelope{Type: msgType, Payload: raw}
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("marshal %s envelope: %w", msgType, err)
	}
	return data, nil
}

// sendEnvelope marshals the payload into an Envelope and pushes it
// to the write loop (fire-and-forget).
func (b *Backend) sendEnvelope(msgType string, payload any) error {
	data, err := marshalEnvelope(msgType, payload)
	if err != nil {
		return err
	}
	b.conn.send(data)
	return nil
}

// ResetScene announces a new visualization and waits for the host ack
// so marker spawns never race the teardown. The message is cached for
// reconnect replay.
func (b *Backend) ResetScene(analysisID string) error {
	data, err := marshalEnvelope(streaming.TypeSceneReset, streaming.SceneResetPayload{
		AnalysisID: analysisID,
	})
	if err != nil {
		return err
	}

	b.conn.mu.Lock()
	b.conn.cachedResetMsg = data
	b.conn.mu.Unlock()

	return b.conn.sendAndWait(data, streaming.TypeSceneReset, ackTimeout)
}

// SpawnMarker creates a marker entity on the host.
func (b *Backend) SpawnMarker(m core.MarkerDescriptor, interactive bool) error {
	return b.sendEnvelope(streaming.TypeSpawnMarker, streaming.SpawnMarkerPayload{
		Marker:      m,
		Interactive: interactive,
	})
}

// ApplyTransition forwards a transition intent.
func (b *Backend) ApplyTransition(t core.TransitionIntent) error {
	return b.sendEnvelope(streaming.TypeTransition, t)
}

// RemoveMarker destroys a marker entity on the host.
func (b *Backend) RemoveMarker(id string) error {
	return b.sendEnvelope(streaming.TypeRemoveMarker, streaming.RemoveMarkerPayload{
		MarkerID: id,
	})
}

// NotifySelection forwards a selection notification.
func (b *Backend) NotifySelection(e core.SelectionEvent) error {
	return b.sendEnvelope(streaming.TypeSelection, e)
}

// NotifyHover forwards a hover notification.
func (b *Backend) NotifyHover(id string, entered bool) error {
	return b.sendEnvelope(streaming.TypeHover, streaming.HoverPayload{
		MarkerID: id,
		Entered:  entered,
	})
}

// NotifyStatistics forwards the per-report summary.
func (b *Backend) NotifyStatistics(overallStatus string, s core.Statistics) error {
	return b.sendEnvelope(streaming.TypeStatistics, streaming.StatisticsPayload{
		OverallStatus: overallStatus,
		Statistics:    s,
	})
}
