package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vraq/scene/internal/classify"
	"github.com/vraq/scene/internal/geo"
	"github.com/vraq/scene/pkg/core"
)

func sampleReport() *core.AnalysisReport {
	deviation := 14.2
	return &core.AnalysisReport{
		AnalysisID:    "a1",
		Timestamp:     "2025-01-01T00:00:00Z",
		OverallStatus: core.OverallDefectsFound,
		ImageDimensions: &core.ImageDimensions{
			Width: 1920, Height: 1080,
		},
		Components: []core.ComponentRecord{
			{
				Name:             "R1",
				ComponentType:    "resistor",
				Status:           "OK",
				Confidence:       0.97,
				ExpectedLocation: &core.PixelPoint{X: 960, Y: 540},
				DetectedLocation: &core.PixelPoint{X: 962, Y: 541},
				DeviationPixels:  &deviation,
			},
			{
				Name:             "C2",
				ComponentType:    "capacitor",
				Status:           "MISSING",
				Confidence:       0.31,
				ExpectedLocation: &core.PixelPoint{X: 100, Y: 100},
			},
		},
	}
}

func TestBuildBundle_DerivesMarkersAndStats(t *testing.T) {
	b := BuildBundle(sampleReport(), geo.Default())

	require.Len(t, b.Markers, 2)
	assert.False(t, b.AssumedDims)

	assert.Equal(t, core.Statistics{Total: 2, OK: 1, Missing: 1}, b.Stats)

	r1 := b.Markers[0]
	assert.Equal(t, "a1:0:R1", r1.ID)
	assert.Equal(t, classify.ColorOK, r1.Color)
	assert.Equal(t, core.AnimationGlow, r1.Animation)
	assert.InDelta(t, 0, r1.ExpectedPosition.X, 1e-9)
	assert.InDelta(t, geo.DefaultClearance, r1.ExpectedPosition.Y, 1e-9)
	assert.InDelta(t, 0, r1.ExpectedPosition.Z, 1e-9)
	require.NotNil(t, r1.DetectedPosition)
	require.NotNil(t, r1.DeviationPixels)

	c2 := b.Markers[1]
	assert.Equal(t, "a1:1:C2", c2.ID)
	assert.Equal(t, classify.ColorMissing, c2.Color)
	assert.Equal(t, core.AnimationPulse, c2.Animation)
	assert.Nil(t, c2.DetectedPosition, "missing detected location must stay absent")
	assert.Nil(t, c2.DeviationPixels)
	assert.Greater(t, c2.Scale, r1.Scale, "higher severity renders larger")
}

func TestBuildBundle_Deterministic(t *testing.T) {
	a := BuildBundle(sampleReport(), geo.Default())
	b := BuildBundle(sampleReport(), geo.Default())

	require.Equal(t, len(a.Markers), len(b.Markers))
	for i := range a.Markers {
		assert.Equal(t, a.Markers[i].ID, b.Markers[i].ID)
		assert.Equal(t, a.Markers[i].ExpectedPosition, b.Markers[i].ExpectedPosition)
	}
	assert.Equal(t, a.Stats, b.Stats)
}

func TestBuildBundle_MissingDimensionsFlagged(t *testing.T) {
	r := sampleReport()
	r.ImageDimensions = nil

	b := BuildBundle(r, geo.Default())

	assert.True(t, b.AssumedDims)
	require.Len(t, b.Markers, 2)
}

func TestContext_ReportCache(t *testing.T) {
	ctx := NewContext()

	_, ok := ctx.GetReport("a1")
	assert.False(t, ok)

	first := sampleReport()
	ctx.PutReport(first)

	got, ok := ctx.GetReport("a1")
	require.True(t, ok)
	assert.Same(t, first, got)

	// Second put with the same id keeps the first copy.
	ctx.PutReport(sampleReport())
	got, _ = ctx.GetReport("a1")
	assert.Same(t, first, got)
}

func TestContext_CurrentAndReset(t *testing.T) {
	ctx := NewContext()
	assert.Nil(t, ctx.Current())

	b := BuildBundle(sampleReport(), geo.Default())
	ctx.SetCurrent(b)
	assert.Same(t, b, ctx.Current())

	ctx.Reset()
	assert.Nil(t, ctx.Current())
	_, ok := ctx.GetReport("a1")
	assert.False(t, ok)
}
