// Package observability wires OpenTelemetry tracing and Prometheus metrics
// for the pipeline, grounded in shared/go/observability from the teacher
// pack. Non-goals in spec.md exclude outward-facing dashboards and
// multi-tenant concerns, but tracing/metrics are ambient infrastructure
// carried regardless, the same way the teacher pack carries them into
// every service.
package observability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

// Config controls tracer provider initialization.
type Config struct {
	ServiceName string
	Environment string
	Endpoint    string
	Protocol    string // "grpc" or "http"
	Insecure    bool
}

// Provider wraps the SDK tracer provider. A nil/empty Endpoint yields a
// degraded no-op provider rather than an error, so pipeline runs are never
// blocked by an unreachable collector.
type Provider struct {
	tp       *sdktrace.TracerProvider
	fallback bool
}

// Fallback reports whether tracing is running in no-op/degraded mode.
func (p *Provider) Fallback() bool {
	return p == nil || p.fallback
}

// Shutdown flushes and stops the tracer provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil || p.tp == nil {
		return nil
	}
	return p.tp.Shutdown(ctx)
}

// Init configures the global tracer provider. If Endpoint is empty it
// installs a no-op provider. If the gRPC exporter (the default protocol)
// cannot be built it falls back to HTTP, and any remaining failure yields
// a no-op provider rather than failing pipeline startup over an
// observability sidecar being down.
func Init(ctx context.Context, cfg Config) (*Provider, error) {
	if cfg.Endpoint == "" {
		return degradedProvider(), nil
	}

	provider, err := initWithConfig(ctx, cfg)
	if err == nil {
		return provider, nil
	}
	recordExporterFailure(cfg.ServiceName, cfg.Protocol)
	otel.Handle(fmt.Errorf("tracing init failed for %s exporter: %w", cfg.Protocol, err))

	if cfg.Protocol == "grpc" || cfg.Protocol == "" {
		httpCfg := cfg
		httpCfg.Protocol = "http"
		if httpProvider, httpErr := initWithConfig(ctx, httpCfg); httpErr == nil {
			return httpProvider, nil
		} else {
			recordExporterFailure(cfg.ServiceName, "http")
			err = errors.Join(err, httpErr)
			otel.Handle(fmt.Errorf("tracing http fallback failed: %w", httpErr))
		}
	}
	return degradedProvider(), nil
}

func initWithConfig(ctx context.Context, cfg Config) (*Provider, error) {
	client, err := buildClient(cfg)
	if err != nil {
		return nil, err
	}
	exporter, err := otlptrace.New(ctx, client)
	if err != nil {
		return nil, fmt.Errorf("create otlp exporter: %w", err)
	}
	res, err := resource.New(ctx, resource.WithAttributes(
		semconv.ServiceName(cfg.ServiceName),
		semconv.DeploymentEnvironment(cfg.Environment),
	))
	if err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{},
	))
	return &Provider{tp: tp}, nil
}

func degradedProvider() *Provider {
	otel.SetTracerProvider(trace.NewNoopTracerProvider())
	return &Provider{fallback: true}
}

func buildClient(cfg Config) (otlptrace.Client, error) {
	switch cfg.Protocol {
	case "http":
		opts := []otlptracehttp.Option{
			otlptracehttp.WithEndpoint(cfg.Endpoint),
			otlptracehttp.WithRetry(otlptracehttp.RetryConfig{
				Enabled:         true,
				InitialInterval: 100 * time.Millisecond,
				MaxInterval:     5 * time.Second,
			}),
		}
		if cfg.Insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		return otlptracehttp.NewClient(opts...), nil
	case "grpc", "":
		opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.Endpoint)}
		if cfg.Insecure {
			opts = append(opts, otlptracegrpc.WithInsecure())
		}
		return otlptracegrpc.NewClient(opts...), nil
	default:
		return nil, fmt.Errorf("unsupported telemetry protocol %q", cfg.Protocol)
	}
}

// Tracer returns a named tracer from the global provider.
func Tracer(name string) trace.Tracer {
	return otel.Tracer(name)
}
