package telemetry

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

// ErrUnknownExporter is returned by Setup for an unsupported exporter name.
var ErrUnknownExporter = stderrors.New("unknown telemetry exporter")

// Config selects where OpenTelemetry signals go.
type Config struct {
	// Exporter is "none" or "stdout".
	Exporter string
	// ServiceName is recorded on the resource.
	ServiceName string
	// Writer receives stdout exports; nil means os.Stderr.
	Writer io.Writer
}

// Setup installs global tracer and meter providers for cfg and returns a
// function that flushes and shuts them down. With the "none" exporter the
// global no-op providers are left in place.
func Setup(ctx context.Context, cfg Config) (func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }
	switch cfg.Exporter {
	case "", "none":
		return noop, nil
	case "stdout":
	default:
		return noop, fmt.Errorf("%w: %s", ErrUnknownExporter, cfg.Exporter)
	}

	w := cfg.Writer
	if w == nil {
		w = os.Stderr
	}
	name := cfg.ServiceName
	if name == "" {
		name = "ironwood"
	}
	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceNameKey.String(name)))
	if err != nil {
		return noop, fmt.Errorf("create resource: %w", err)
	}

	traceExp, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return noop, fmt.Errorf("create stdout trace exporter: %w", err)
	}
	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(traceExp), sdktrace.WithResource(res))

	metricExp, err := stdoutmetric.New(stdoutmetric.WithWriter(w))
	if err != nil {
		return noop, fmt.Errorf("create stdout metric exporter: %w", err)
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExp)))

	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)

	return func(ctx context.Context) error {
		return stderrors.Join(tp.Shutdown(ctx), mp.Shutdown(ctx))
	}, nil
}
