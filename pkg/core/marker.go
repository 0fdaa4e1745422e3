package core

import "time"

// WorldPosition is a point in board-local units. The board is centered
// at the origin: x spans [-width/2, width/2], z spans [-depth/2,
// depth/2], y is height above the board surface.
type WorldPosition struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// AnimationKind is the looping idle animation a marker plays.
type AnimationKind string

const (
	AnimationGlow   AnimationKind = "gentle-glow"
	AnimationPulse  AnimationKind = "pulse"
	AnimationBounce AnimationKind = "bounce"
	AnimationFlash  AnimationKind = "flash"
	AnimationNone   AnimationKind = "none"
)

// MarkerDescriptor is the derived visual entity for one component
// record. Descriptors are rebuilt wholesale on every report load and
// never mutated in place.
type MarkerDescriptor struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	ComponentType    string         `json:"component_type"`
	Status           string         `json:"status"`
	Confidence       float64        `json:"confidence"`
	Color            string         `json:"color"`
	Animation        AnimationKind  `json:"animation"`
	Severity         int            `json:"severity"`
	Scale            float64        `json:"scale"`
	ExpectedPosition WorldPosition  `json:"expected_position"`
	DetectedPosition *WorldPosition `json:"detected_position,omitempty"`
	DeviationPixels  *float64       `json:"deviation_pixels,omitempty"`
}

// MarkerPhase is the lifecycle state of a live marker.
type MarkerPhase int

const (
	PhaseEntering MarkerPhase = iota
	PhaseIdle
	PhaseHovered
	PhaseExiting
	PhaseRemoved
)

// String returns the phase name for logging.
func (p MarkerPhase) String() string {
	switch p {
	case PhaseEntering:
		return "entering"
	case PhaseIdle:
		return "idle"
	case PhaseHovered:
		return "hovered"
	case PhaseExiting:
		return "exiting"
	case PhaseRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// TransitionProperty names the visual property a transition animates.
type TransitionProperty string

const (
	PropertyScale    TransitionProperty = "scale"
	PropertyOpacity  TransitionProperty = "opacity"
	PropertyEmissive TransitionProperty = "emissive"
)

// Easing names the interpolation curve of a transition.
type Easing string

const (
	EaseIn  Easing = "ease-in"
	EaseOut Easing = "ease-out"
	Linear  Easing = "linear"
)

// TransitionIntent is a host-agnostic description of one visual
// transition. The lifecycle state machine emits intents; a render
// adapter applies them.
type TransitionIntent struct {
	MarkerID string             `json:"marker_id"`
	Property TransitionProperty `json:"property"`
	Target   float64            `json:"target"`
	Duration time.Duration      `json:"duration"`
	Easing   Easing             `json:"easing"`
}

// SelectionEvent is emitted to the host when a marker is clicked while
// idle or hovered.
type SelectionEvent struct {
	MarkerID         string         `json:"marker_id"`
	Name             string         `json:"name"`
	Status           string         `json:"status"`
	Confidence       float64        `json:"confidence"`
	ExpectedPosition WorldPosition  `json:"expected_position"`
	DetectedPosition *WorldPosition `json:"detected_position,omitempty"`
	DeviationPixels  *float64       `json:"deviation_pixels,omitempty"`
}
