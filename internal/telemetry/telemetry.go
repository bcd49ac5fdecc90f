// internal/telemetry/telemetry.go
// Package telemetry records theme compile and apply metrics through
// OpenTelemetry. When metrics are disabled every instrument is a no-op.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/codr1/brandkit/internal/tokens"
)

const (
	serviceName = "brandkit"
	meterName   = "github.com/codr1/brandkit"
)

// Apply outcomes.
const (
	OutcomeApplied   = "applied"
	OutcomeUnchanged = "unchanged"
	OutcomeEmpty     = "empty"
)

// Config selects the OTLP exporter.
type Config struct {
	Enabled        bool
	Endpoint       string
	Insecure       bool
	ServiceVersion string
}

// Metrics holds the theme instruments. A nil *Metrics records nothing.
type Metrics struct {
	provider        *sdkmetric.MeterProvider
	compiles        metric.Int64Counter
	applies         metric.Int64Counter
	diagnostics     metric.Int64Counter
	compileDuration metric.Float64Histogram
}

// New builds the instruments. With cfg.Enabled unset it returns no-op
// instruments and never dials the collector.
func New(ctx context.Context, cfg Config) (*Metrics, error) {
	if !cfg.Enabled {
		return NewWithMeter(noop.NewMeterProvider().Meter(meterName))
	}
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("metrics enabled but no endpoint configured")
	}

	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}

	exp, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	version := cfg.ServiceVersion
	if version == "" {
		version = "dev"
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(provider)

	m, err := NewWithMeter(provider.Meter(meterName))
	if err != nil {
		_ = provider.Shutdown(ctx)
		return nil, err
	}
	m.provider = provider
	return m, nil
}

// NewWithMeter creates the instruments on an existing meter.
func NewWithMeter(meter metric.Meter) (*Metrics, error) {
	compiles, err := meter.Int64Counter(
		"brandkit_theme_compiles_total",
		metric.WithDescription("Theme compilations"),
		metric.WithUnit("{compile}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating compiles counter: %w", err)
	}

	applies, err := meter.Int64Counter(
		"brandkit_theme_applies_total",
		metric.WithDescription("Theme applications by outcome"),
		metric.WithUnit("{apply}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating applies counter: %w", err)
	}

	diagnostics, err := meter.Int64Counter(
		"brandkit_theme_diagnostics_total",
		metric.WithDescription("Compiler diagnostics by kind"),
		metric.WithUnit("{diagnostic}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating diagnostics counter: %w", err)
	}

	compileDuration, err := meter.Float64Histogram(
		"brandkit_theme_compile_duration_seconds",
		metric.WithDescription("Theme compile duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating compile duration histogram: %w", err)
	}

	return &Metrics{
		compiles:        compiles,
		applies:         applies,
		diagnostics:     diagnostics,
		compileDuration: compileDuration,
	}, nil
}

// RecordCompile counts one compile for scope and its diagnostics per kind.
func (m *Metrics) RecordCompile(ctx context.Context, scope string, d time.Duration, diags tokens.Diagnostics) {
	if m == nil {
		return
	}
	opt := metric.WithAttributes(attribute.String("scope", scope))
	m.compiles.Add(ctx, 1, opt)
	m.compileDuration.Record(ctx, d.Seconds(), opt)

	counts := make(map[tokens.Kind]int64)
	for _, diag := range diags {
		counts[diag.Kind]++
	}
	for kind, n := range counts {
		m.diagnostics.Add(ctx, n, metric.WithAttributes(
			attribute.String("scope", scope),
			attribute.String("kind", string(kind)),
		))
	}
}

// RecordApply counts one apply attempt for scope.
func (m *Metrics) RecordApply(ctx context.Context, scope, outcome string) {
	if m == nil {
		return
	}
	m.applies.Add(ctx, 1, metric.WithAttributes(
		attribute.String("scope", scope),
		attribute.String("outcome", outcome),
	))
}

// Shutdown flushes and stops the exporter, if one was started.
func (m *Metrics) Shutdown(ctx context.Context) error {
	if m == nil || m.provider == nil {
		return nil
	}
	return m.provider.Shutdown(ctx)
}
