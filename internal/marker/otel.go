package marker

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/vraq/scene/internal/marker"

// meter returns the meter from the global OTel provider.
// Returns a no-op meter if OTel is not configured.
func meter() metric.Meter {
	return otel.Meter(meterName)
}
