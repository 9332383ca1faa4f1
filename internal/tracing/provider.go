// Package tracing sets up OpenTelemetry for template store operations and
// critique requests.
package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/SoloveyLS/xml-prompt-manager/internal/config"
	"github.com/SoloveyLS/xml-prompt-manager/internal/paths"
)

// ServiceName identifies xpm in exported spans.
const ServiceName = "xpm"

// Provider owns the SDK tracer provider, if tracing is on.
type Provider struct {
	sdk    *sdktrace.TracerProvider
	tracer trace.Tracer
}

// NewProvider builds a provider from cfg and installs it globally, so
// packages that call otel.Tracer pick it up. When tracing is disabled the
// returned provider is a no-op and the global provider is left alone.
func NewProvider(cfg config.TracingConfig) (*Provider, error) {
	if !cfg.Enabled {
		return &Provider{tracer: noop.NewTracerProvider().Tracer(ServiceName)}, nil
	}

	exporter, err := newExporter(cfg)
	if err != nil {
		return nil, err
	}

	rate := cfg.SampleRate
	if rate <= 0 {
		rate = 1.0
	}
	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", ServiceName))),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(rate))),
	}
	if exporter != nil {
		opts = append(opts, sdktrace.WithBatcher(exporter))
	}

	sdk := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(sdk)
	return &Provider{sdk: sdk, tracer: sdk.Tracer(ServiceName)}, nil
}

func newExporter(cfg config.TracingConfig) (sdktrace.SpanExporter, error) {
	switch cfg.Exporter {
	case "file":
		if cfg.FilePath == "" {
			return nil, fmt.Errorf("tracing.file_path required for file exporter")
		}
		exp, err := NewFileExporter(paths.Expand(cfg.FilePath))
		if err != nil {
			return nil, fmt.Errorf("create file exporter: %w", err)
		}
		return exp, nil
	case "stdout":
		exp, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("create stdout exporter: %w", err)
		}
		return exp, nil
	case "otlp":
		endpoint := cfg.OTLPEndpoint
		if endpoint == "" {
			endpoint = "localhost:4317"
		}
		exp, err := otlptracegrpc.New(context.Background(),
			otlptracegrpc.WithEndpoint(endpoint),
			otlptracegrpc.WithInsecure(),
		)
		if err != nil {
			return nil, fmt.Errorf("create otlp exporter: %w", err)
		}
		return exp, nil
	case "none", "":
		return nil, nil
	}
	return nil, fmt.Errorf("unsupported exporter type: %s", cfg.Exporter)
}

// Tracer is never nil.
func (p *Provider) Tracer() trace.Tracer {
	return p.tracer
}

// Enabled reports whether spans are recorded.
func (p *Provider) Enabled() bool {
	return p.sdk != nil
}

// Shutdown flushes pending spans.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.sdk == nil {
		return nil
	}
	return p.sdk.Shutdown(ctx)
}
