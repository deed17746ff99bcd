package metrics

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// NewMeterProvider builds the SDK meter provider and installs it globally.
// Readers are attached by the deployment's collector configuration; without
// one the instruments are recorded and dropped.
func NewMeterProvider() metric.MeterProvider {
	provider := sdkmetric.NewMeterProvider()
	otel.SetMeterProvider(provider)
	return provider
}
