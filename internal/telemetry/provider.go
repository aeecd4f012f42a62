package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Config controls span export.
type Config struct {
	// Enabled false yields a no-op provider.
	Enabled bool
	// Endpoint is the OTLP/HTTP collector host:port. Required when Enabled.
	Endpoint string
	// Insecure sends spans over plain HTTP.
	Insecure bool
	// SampleRate is the fraction of root spans kept, within [0, 1].
	SampleRate  float64
	ServiceName string
}

// ShutdownFunc flushes pending spans and releases the exporter.
type ShutdownFunc func(context.Context) error

func noopShutdown(context.Context) error { return nil }

// NewProvider builds a tracer provider exporting to an OTLP/HTTP collector.
// The provider is returned, not installed globally.
func NewProvider(ctx context.Context, cfg Config) (trace.TracerProvider, ShutdownFunc, error) {
	if !cfg.Enabled {
		return noop.NewTracerProvider(), noopShutdown, nil
	}
	if cfg.Endpoint == "" {
		return nil, nil, fmt.Errorf("tracing enabled without an endpoint")
	}

	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(cfg.Endpoint),
		otlptracehttp.WithCompression(otlptracehttp.GzipCompression),
	}
	if cfg.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	tp := NewExportingProvider(cfg, exporter)
	return tp, tp.Shutdown, nil
}

// NewExportingProvider builds an SDK provider that batches spans to exporter.
func NewExportingProvider(cfg Config, exporter sdktrace.SpanExporter) *sdktrace.TracerProvider {
	name := cfg.ServiceName
	if name == "" {
		name = "staffplan"
	}

	sampler := sdktrace.AlwaysSample()
	if cfg.SampleRate < 1 {
		sampler = sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRate))
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", name))),
		sdktrace.WithSampler(sampler),
		sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(5*time.Second)),
	)
}
