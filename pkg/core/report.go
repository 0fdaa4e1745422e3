// Package core contains the wire and domain types shared between the
// scene pipeline and render hosts. These types mirror the analysis
// service's JSON report format and carry no dependencies.
package core

import (
	"encoding/json"
	"fmt"
)

// Component status values reported by the analysis service.
const (
	StatusOK         = "OK"
	StatusMissing    = "MISSING"
	StatusMisaligned = "MISALIGNED"
	StatusError      = "ERROR"
)

// Overall report status values.
const (
	OverallOK           = "OK"
	OverallDefectsFound = "DEFECTS_FOUND"
	OverallError        = "ERROR"
)

// PixelPoint is a location in source-image pixel space.
// The wire format is a two-element [x, y] array.
type PixelPoint struct {
	X float64
	Y float64

	// incomplete marks a point decoded from an array with fewer than
	// two elements. Such a point carries no usable coordinates.
	incomplete bool
}

// Incomplete reports whether the point has no usable coordinates. A
// nil point and a point decoded from a short array are both treated as
// "unknown location" by placement.
func (p *PixelPoint) Incomplete() bool {
	return p == nil || p.incomplete
}

// MarshalJSON encodes the point as a [x, y] array.
func (p PixelPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.X, p.Y})
}

// UnmarshalJSON decodes a [x, y] array. An array with fewer than two
// elements decodes as an incomplete point rather than an error: one
// malformed component must not abort the whole report, and a missing
// coordinate must never read as pixel 0.
func (p *PixelPoint) UnmarshalJSON(data []byte) error {
	var coords []float64
	if err := json.Unmarshal(data, &coords); err != nil {
		return fmt.Errorf("pixel point must be a numeric array: %w", err)
	}
	if len(coords) < 2 {
		*p = PixelPoint{incomplete: true}
		return nil
	}
	*p = PixelPoint{X: coords[0], Y: coords[1]}
	return nil
}

// ImageDimensions is the pixel size of the analyzed test image.
type ImageDimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ComponentRecord is the per-component inspection outcome.
// DetectedLocation and DeviationPixels are nil when the component was
// not found in the test image; nil must propagate as "no detected
// marker", never as a zero coordinate.
type ComponentRecord struct {
	Name             string      `json:"name"`
	ComponentType    string      `json:"component_type"`
	Status           string      `json:"status"`
	Confidence       float64     `json:"confidence"`
	ExpectedLocation *PixelPoint `json:"expected_location"`
	DetectedLocation *PixelPoint `json:"detected_location"`
	DeviationPixels  *float64    `json:"deviation_pixels"`
}

// VRData carries the service's own pre-computed defect markers. The
// pipeline ignores them and recomputes placement locally so expected
// and detected positions share one mapping, but the field must decode.
type VRData struct {
	DefectMarkers []json.RawMessage `json:"defect_markers"`
}

// AnalysisReport is one analysis service result. Immutable after
// receipt; cached by AnalysisID for the session.
type AnalysisReport struct {
	AnalysisID      string            `json:"analysis_id"`
	Timestamp       string            `json:"timestamp"`
	OverallStatus   string            `json:"overall_status"`
	Components      []ComponentRecord `json:"components"`
	ImageDimensions *ImageDimensions  `json:"image_dimensions,omitempty"`
	VRData          *VRData           `json:"vr_data,omitempty"`
	Error           string            `json:"error,omitempty"`
}

// Statistics is the per-report defect summary. Always recomputed from
// the full component list, never incrementally updated.
// Invariant: Total == OK + Missing + Misaligned + Other.
type Statistics struct {
	Total      int `json:"total"`
	OK         int `json:"ok"`
	Missing    int `json:"missing"`
	Misaligned int `json:"misaligned"`
	Other      int `json:"other"`
}
