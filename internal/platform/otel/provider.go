// Package otel wires OpenTelemetry trace export for service binaries.
package otel

import (
	"context"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const (
	envEndpoint = "LEAGUEPOOL_OTEL_ENDPOINT"
	envEnabled  = "LEAGUEPOOL_OTEL_ENABLED"
)

// ShutdownFunc flushes buffered spans before the process exits.
type ShutdownFunc func(context.Context) error

var noopShutdown ShutdownFunc = func(context.Context) error { return nil }

// Setup installs the global tracer provider for serviceName.
//
// Tracing is opt-in: when no OTLP endpoint is configured, or when
// LEAGUEPOOL_OTEL_ENABLED is "false", Setup returns a no-op shutdown and
// leaves the global provider untouched. Callers defer the returned shutdown.
func Setup(ctx context.Context, serviceName string) (ShutdownFunc, error) {
	endpoint, ok := exportTarget()
	if !ok {
		return noopShutdown, nil
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(endpoint))
	if err != nil {
		return noopShutdown, err
	}

	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(serviceName)))
	if err != nil {
		return noopShutdown, err
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return provider.Shutdown, nil
}

func exportTarget() (string, bool) {
	if strings.EqualFold(os.Getenv(envEnabled), "false") {
		return "", false
	}
	endpoint := os.Getenv(envEndpoint)
	return endpoint, endpoint != ""
}
