package export

import (
	"compress/gzip"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/vraq/scene/pkg/core"
)

func sampleReport() *core.AnalysisReport {
	deviation := 12.34
	return &core.AnalysisReport{
		AnalysisID:    "exp-1",
		Timestamp:     "2026-08-26T10:15:30.123456",
		OverallStatus: core.OverallDefectsFound,
		Components: []core.ComponentRecord{
			{
				Name:             "R1",
				ComponentType:    "resistor",
				Status:           core.StatusOK,
				Confidence:       0.95,
				ExpectedLocation: &core.PixelPoint{X: 100, Y: 200},
				DetectedLocation: &core.PixelPoint{X: 102, Y: 198},
				DeviationPixels:  &deviation,
			},
			{
				Name:             "C3",
				ComponentType:    "capacitor",
				Status:           core.StatusMissing,
				Confidence:       0.88,
				ExpectedLocation: &core.PixelPoint{X: 300, Y: 400},
			},
		},
		ImageDimensions: &core.ImageDimensions{Width: 1920, Height: 1080},
	}
}

func TestToJSON_RoundTrip(t *testing.T) {
	report := sampleReport()

	data, err := ToJSON(report)
	if err != nil {
		t.Fatal(err)
	}

	var decoded core.AnalysisReport
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("exported JSON does not decode: %v", err)
	}
	if decoded.AnalysisID != report.AnalysisID {
		t.Errorf("analysis id lost: %q", decoded.AnalysisID)
	}
	if len(decoded.Components) != 2 {
		t.Fatalf("expected 2 components, got %d", len(decoded.Components))
	}
	if decoded.Components[1].DetectedLocation != nil {
		t.Error("absent detected location decoded as present")
	}
	if decoded.Components[0].ExpectedLocation.X != 100 {
		t.Errorf("expected location lost: %+v", decoded.Components[0].ExpectedLocation)
	}
}

func TestToJSON_Stable(t *testing.T) {
	report := sampleReport()

	first, err := ToJSON(report)
	if err != nil {
		t.Fatal(err)
	}
	second, err := ToJSON(report)
	if err != nil {
		t.Fatal(err)
	}
	if string(first) != string(second) {
		t.Error("repeated export of the same report differs")
	}
}

func TestToCSV(t *testing.T) {
	out, err := ToCSV(sampleReport())
	if err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	wantHeader := "Component,Type,Status,Confidence,Expected X,Expected Y,Detected X,Detected Y,Deviation"
	if lines[0] != wantHeader {
		t.Errorf("header mismatch:\n got %s\nwant %s", lines[0], wantHeader)
	}
	if lines[1] != "R1,resistor,OK,0.950,100,200,102,198,12.3" {
		t.Errorf("unexpected row: %s", lines[1])
	}
	if lines[2] != "C3,capacitor,MISSING,0.880,300,400,N/A,N/A,N/A" {
		t.Errorf("missing component row should use N/A: %s", lines[2])
	}
}

func TestArtifactName(t *testing.T) {
	name := ArtifactName(sampleReport())
	want := "vraq_analysis_2026-08-26T101530123456"
	if name != want {
		t.Errorf("got %q, want %q", name, want)
	}
	if strings.ContainsAny(name, ":.") {
		t.Errorf("artifact name contains forbidden characters: %q", name)
	}
}

func TestWriteArtifact_Gzip(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteArtifact(sampleReport(), dir, "json", true)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(path, ".json.gz") {
		t.Errorf("unexpected artifact path %q", path)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		t.Fatalf("artifact is not valid gzip: %v", err)
	}
	var decoded core.AnalysisReport
	if err := json.NewDecoder(gz).Decode(&decoded); err != nil {
		t.Fatalf("compressed artifact does not decode: %v", err)
	}
	if decoded.AnalysisID != "exp-1" {
		t.Errorf("unexpected analysis id %q", decoded.AnalysisID)
	}
}

func TestWriteArtifact_UnknownFormat(t *testing.T) {
	if _, err := WriteArtifact(sampleReport(), t.TempDir(), "xml", false); err == nil {
		t.Error("expected error for unknown format")
	}
}
