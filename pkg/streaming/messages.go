// Package streaming defines the envelope protocol spoken to a live
// render host over WebSocket.
package streaming

import (
	"encoding/json"

	"github.com/vraq/scene/pkg/core"
)

// Message type constants matching the streaming protocol.
const (
	TypeSceneReset   = "scene_reset"
	TypeSpawnMarker  = "spawn_marker"
	TypeTransition   = "marker_transition"
	TypeRemoveMarker = "remove_marker"
	TypeSelection    = "selection"
	TypeHover        = "hover"
	TypeStatistics   = "statistics"
)

// Envelope wraps all messages sent over the WebSocket.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// AckMessage is the host's acknowledgement response.
type AckMessage struct {
	Type string `json:"type"` // always "ack"
	For  string `json:"for"`  // the message type being acknowledged
}

// SceneResetPayload announces a new visualization and clears the host
// scene. Sent with ack so marker spawns never race the teardown.
type SceneResetPayload struct {
	AnalysisID string `json:"analysis_id"`
}

// SpawnMarkerPayload carries one marker descriptor plus its
// interactivity flag.
type SpawnMarkerPayload struct {
	Marker      core.MarkerDescriptor `json:"marker"`
	Interactive bool                  `json:"interactive"`
}

// RemoveMarkerPayload destroys one marker entity.
type RemoveMarkerPayload struct {
	MarkerID string `json:"marker_id"`
}

// HoverPayload re-emits a pointer enter/leave as a host notification.
type HoverPayload struct {
	MarkerID string `json:"marker_id"`
	Entered  bool   `json:"entered"`
}

// StatisticsPayload carries the per-report defect summary.
type StatisticsPayload struct {
	OverallStatus string          `json:"overall_status"`
	Statistics    core.Statistics `json:"statistics"`
}
