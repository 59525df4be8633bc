package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/shellkit/logger"
	"github.com/kbukum/shellkit/version"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName identifies the tool in exported metrics.
	ServiceName string
	// ServiceVersion is the tool's version.
	ServiceVersion string
	// Environment is the deployment environment (dev, staging, prod).
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: version.GetVersionInfo().Version,
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider.
// Returns a MeterProvider that should be shut down on application exit.
func InitMeter(ctx context.Context, config *MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"app", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds metric instruments for command and stream activity.
type Metrics struct {
	commandTotal    metric.Int64Counter
	commandDuration metric.Float64Histogram
	commandActive   metric.Int64UpDownCounter
	linesTotal      metric.Int64Counter
	memoHits        metric.Int64Counter
	errorTotal      metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	commandTotal, err := meter.Int64Counter("command.total",
		metric.WithDescription("Total number of spawned commands"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating command.total counter: %w", err)
	}

	commandDuration, err := meter.Float64Histogram("command.duration",
		metric.WithDescription("Wall-clock duration of commands in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating command.duration histogram: %w", err)
	}

	commandActive, err := meter.Int64UpDownCounter("command.active",
		metric.WithDescription("Number of currently running commands"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating command.active gauge: %w", err)
	}

	linesTotal, err := meter.Int64Counter("stream.lines.total",
		metric.WithDescription("Total stream lines produced, by source"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating stream.lines.total counter: %w", err)
	}

	memoHits, err := meter.Int64Counter("memo.replays.total",
		metric.WithDescription("Total memoized stream replays, by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating memo.replays.total counter: %w", err)
	}

	errorTotal, err := meter.Int64Counter("error.total",
		metric.WithDescription("Total errors by type and component"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating error.total counter: %w", err)
	}

	return &Metrics{
		commandTotal:    commandTotal,
		commandDuration: commandDuration,
		commandActive:   commandActive,
		linesTotal:      linesTotal,
		memoHits:        memoHits,
		errorTotal:      errorTotal,
	}, nil
}

// RecordCommandStart increments the active command count.
func (m *Metrics) RecordCommandStart(ctx context.Context) {
	m.commandActive.Add(ctx, 1)
}

// RecordCommandEnd decrements active commands and records the completed run.
func (m *Metrics) RecordCommandEnd(ctx context.Context, binary, status string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("binary", binary),
		attribute.String("status", status),
	)
	m.commandActive.Add(ctx, -1)
	m.commandTotal.Add(ctx, 1, attrs)
	m.commandDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("binary", binary),
	))
}

// RecordLines records lines produced by a stream source.
func (m *Metrics) RecordLines(ctx context.Context, source string, n int64) {
	m.linesTotal.Add(ctx, n, metric.WithAttributes(
		attribute.String("source", source),
	))
}

// RecordMemo records a memoization outcome ("replay" or "record").
func (m *Metrics) RecordMemo(ctx context.Context, outcome string) {
	m.memoHits.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}

// RecordError records an error by type and component.
func (m *Metrics) RecordError(ctx context.Context, errType, component string) {
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("type", errType),
		attribute.String("component", component),
	))
}
