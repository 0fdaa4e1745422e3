package core

import (
	"encoding/json"
	"testing"
)

func TestPixelPointDecode(t *testing.T) {
	var p PixelPoint
	if err := json.Unmarshal([]byte(`[102.5, 198]`), &p); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if p.X != 102.5 || p.Y != 198 {
		t.Errorf("decoded (%g, %g), want (102.5, 198)", p.X, p.Y)
	}
	if p.Incomplete() {
		t.Error("two-element array must not decode as incomplete")
	}
}

func TestPixelPointDecode_ShortArray(t *testing.T) {
	for _, raw := range []string{`[]`, `[100]`} {
		var p PixelPoint
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			t.Fatalf("short array %s returned error: %v", raw, err)
		}
		if !p.Incomplete() {
			t.Errorf("short array %s must decode as incomplete", raw)
		}
	}
}

func TestPixelPointDecode_NotAnArray(t *testing.T) {
	var p PixelPoint
	if err := json.Unmarshal([]byte(`{"x": 1}`), &p); err == nil {
		t.Error("expected error for non-array pixel point")
	}
}

// A single component with a truncated location must not abort the
// whole report decode; the rest of the components stay usable.
func TestAnalysisReportDecode_ShortLocationArray(t *testing.T) {
	raw := []byte(`{
		"analysis_id": "a1",
		"overall_status": "DEFECTS_FOUND",
		"components": [
			{"name": "R1", "status": "OK", "expected_location": [100], "detected_location": null},
			{"name": "C3", "status": "MISSING", "expected_location": [300, 400], "detected_location": null}
		]
	}`)

	var report AnalysisReport
	if err := json.Unmarshal(raw, &report); err != nil {
		t.Fatalf("report with short location array failed to decode: %v", err)
	}
	if len(report.Components) != 2 {
		t.Fatalf("expected 2 components, got %d", len(report.Components))
	}

	if !report.Components[0].ExpectedLocation.Incomplete() {
		t.Error("truncated expected_location must decode as incomplete")
	}
	if report.Components[0].DetectedLocation != nil {
		t.Error("null detected_location must stay nil")
	}

	loc := report.Components[1].ExpectedLocation
	if loc.Incomplete() || loc.X != 300 || loc.Y != 400 {
		t.Errorf("well-formed location corrupted: %+v", loc)
	}
}
