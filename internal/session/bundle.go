package session

import (
	"fmt"

	"github.com/vraq/scene/internal/classify"
	"github.com/vraq/scene/internal/geo"
	"github.com/vraq/scene/internal/stats"
	"github.com/vraq/scene/pkg/core"
)

// Marker scale: base size plus a severity bump so defects read larger
// than healthy components.
const (
	baseMarkerScale     = 0.08
	severityScaleFactor = 0.02
)

// Bundle pairs a raw report with everything derived from it: marker
// descriptors and statistics. Rebuilt wholesale on every load; the
// raw report is never mutated.
type Bundle struct {
	Report      *core.AnalysisReport
	Markers     []core.MarkerDescriptor
	Stats       core.Statistics
	AssumedDims bool // image dimensions were defaulted during mapping
}

// MarkerID builds the deterministic entity id for a component record.
// Ids embed the analysis id so consecutive loads of different reports
// can never collide while old markers are still exiting.
func MarkerID(analysisID string, index int, name string) string {
	return fmt.Sprintf("%s:%d:%s", analysisID, index, name)
}

// BuildBundle derives marker descriptors and statistics from a raw
// report. Pure given the report and mapper: identical input yields
// identical output. Descriptor order follows component order.
func BuildBundle(report *core.AnalysisReport, mapper geo.Mapper) *Bundle {
	dims, assumed := mapper.Resolve(report.ImageDimensions)

	markers := make([]core.MarkerDescriptor, 0, len(report.Components))
	for i, c := range report.Components {
		cls := classify.Classify(c.Status)

		desc := core.MarkerDescriptor{
			ID:               MarkerID(report.AnalysisID, i, c.Name),
			Name:             c.Name,
			ComponentType:    c.ComponentType,
			Status:           c.Status,
			Confidence:       c.Confidence,
			Color:            cls.Color,
			Animation:        cls.Animation,
			Severity:         cls.Severity,
			Scale:            baseMarkerScale + severityScaleFactor*float64(cls.Severity),
			ExpectedPosition: mapper.Map(c.ExpectedLocation, dims),
			DeviationPixels:  c.DeviationPixels,
		}

		// Absence of a detected location must stay absent, never (0,0).
		if c.DetectedLocation != nil {
			pos := mapper.Map(c.DetectedLocation, dims)
			desc.DetectedPosition = &pos
		}

		markers = append(markers, desc)
	}

	return &Bundle{
		Report:      report,
		Markers:     markers,
		Stats:       stats.Aggregate(report.Components),
		AssumedDims: assumed,
	}
}
