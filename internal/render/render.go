// Package render defines the boundary to the scene engine. The marker
// lifecycle manager emits entity calls and transition intents through
// the Host interface; backends apply them to a real engine or record
// them for headless use.
package render

import "github.com/vraq/scene/pkg/core"

// Host is the interface all render backends must satisfy.
type Host interface {
	// Lifecycle
	Init() error
	Close() error

	// Scene management. ResetScene announces a new visualization and
	// clears everything previously spawned.
	ResetScene(analysisID string) error

	// Entity calls
	SpawnMarker(m core.MarkerDescriptor, interactive bool) error
	ApplyTransition(t core.TransitionIntent) error
	RemoveMarker(id string) error

	// Host-level notifications
	NotifySelection(e core.SelectionEvent) error
	NotifyHover(id string, entered bool) error
	NotifyStatistics(overallStatus string, s core.Statistics) error
}
