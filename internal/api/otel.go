package api

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/vraq/scene/internal/api"

// meter returns the meter from the global OTel provider.
// Returns a no-op meter if OTel is not configured.
func meter() metric.Meter {
	return otel.Meter(meterName)
}
