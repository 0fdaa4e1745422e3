// Package export renders analysis reports into shareable artifacts.
// JSON preserves the full wire structure; CSV is the flat spreadsheet
// view the inspection team imports into their tooling.
package export

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vraq/scene/pkg/core"
)

// csvHeader is the fixed column set of the CSV view.
var csvHeader = []string{
	"Component", "Type", "Status", "Confidence",
	"Expected X", "Expected Y", "Detected X", "Detected Y", "Deviation",
}

// ToJSON renders the report as indented JSON, byte-stable for a given
// report.
func ToJSON(report *core.AnalysisReport) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("no report to export")
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}
	return data, nil
}

// ToCSV renders the per-component table. Absent detected locations and
// deviations appear as N/A. Confidence prints with three decimals,
// deviation with one.
//
// Fields are joined with bare commas; component names containing commas
// would shift columns. The analysis service restricts names to
// identifier characters, so no quoting layer is applied here.
func ToCSV(report *core.AnalysisReport) (string, error) {
	if report == nil {
		return "", fmt.Errorf("no report to export")
	}

	var b strings.Builder
	b.WriteString(strings.Join(csvHeader, ","))
	b.WriteByte('\n')

	for _, c := range report.Components {
		expectedX, expectedY := "N/A", "N/A"
		if c.ExpectedLocation != nil {
			expectedX = fmt.Sprintf("%g", c.ExpectedLocation.X)
			expectedY = fmt.Sprintf("%g", c.ExpectedLocation.Y)
		}

		detectedX, detectedY := "N/A", "N/A"
		if c.DetectedLocation != nil {
			detectedX = fmt.Sprintf("%g", c.DetectedLocation.X)
			detectedY = fmt.Sprintf("%g", c.DetectedLocation.Y)
		}

		deviation := "N/A"
		if c.DeviationPixels != nil {
			deviation = fmt.Sprintf("%.1f", *c.DeviationPixels)
		}

		row := []string{
			c.Name,
			c.ComponentType,
			c.Status,
			fmt.Sprintf("%.3f", c.Confidence),
			expectedX,
			expectedY,
			detectedX,
			detectedY,
			deviation,
		}
		b.WriteString(strings.Join(row, ","))
		b.WriteByte('\n')
	}

	return b.String(), nil
}

// ArtifactName builds the base filename for an exported report from
// its timestamp, with characters that upset filesystems stripped.
func ArtifactName(report *core.AnalysisReport) string {
	ts := report.Timestamp
	ts = strings.ReplaceAll(ts, ":", "")
	ts = strings.ReplaceAll(ts, ".", "")
	return "vraq_analysis_" + ts
}

// WriteArtifact writes the report to dir in the given format ("json"
// or "csv"), gzip-compressed when compress is set. Returns the full
// path of the written file.
func WriteArtifact(report *core.AnalysisReport, dir, format string, compress bool) (string, error) {
	var (
		data []byte
		err  error
	)
	switch format {
	case "json":
		data, err = ToJSON(report)
	case "csv":
		var s string
		s, err = ToCSV(report)
		data = []byte(s)
	default:
		return "", fmt.Errorf("unknown export format %q", format)
	}
	if err != nil {
		return "", err
	}

	name := ArtifactName(report) + "." + format
	if compress {
		name += ".gz"
	}
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	if compress {
		gz := gzip.NewWriter(f)
		if _, err := gz.Write(data); err != nil {
			return "", fmt.Errorf("failed to write export: %w", err)
		}
		if err := gz.Close(); err != nil {
			return "", fmt.Errorf("failed to finalize export: %w", err)
		}
	} else {
		if _, err := f.Write(data); err != nil {
			return "", fmt.Errorf("failed to write export: %w", err)
		}
	}

	return path, nil
}
