package telemetry

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

const serviceName = "tomato"

// Provider owns the SDK meter provider. Its manual reader is collected on demand,
// typically once when the app shuts down.
type Provider struct {
	provider *sdkmetric.MeterProvider
	reader   *sdkmetric.ManualReader
}

// NewProvider creates the meter provider and installs it as the global one.
func NewProvider(ctx context.Context, version string) (*Provider, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(reader),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(provider)

	return &Provider{provider: provider, reader: reader}, nil
}

// MeterProvider returns the provider to build instruments on.
func (p *Provider) MeterProvider() metric.MeterProvider {
	return p.provider
}

// Totals collects every int64 sum, summed over its attribute sets, keyed by instrument name.
func (p *Provider) Totals(ctx context.Context) (map[string]int64, error) {
	var data metricdata.ResourceMetrics
	if err := p.reader.Collect(ctx, &data); err != nil {
		return nil, fmt.Errorf("collecting metrics: %w", err)
	}

	totals := make(map[string]int64)
	for _, scope := range data.ScopeMetrics {
		for _, instrument := range scope.Metrics {
			sum, ok := instrument.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, point := range sum.DataPoints {
				totals[instrument.Name] += point.Value
			}
		}
	}
	return totals, nil
}

// LogTotals writes the collected totals as one log line.
func (p *Provider) LogTotals(ctx context.Context, logger zerolog.Logger) {
	totals, err := p.Totals(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("session totals unavailable")
		return
	}

	names := make([]string, 0, len(totals))
	for name := range totals {
		names = append(names, name)
	}
	sort.Strings(names)

	event := logger.Info()
	for _, name := range names {
		event = event.Int64(name, totals[name])
	}
	event.Msg("session totals")
}

// Shutdown flushes and stops the provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	if err := p.provider.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down meter provider: %w", err)
	}
	return nil
}
