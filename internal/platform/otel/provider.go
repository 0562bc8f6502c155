// Package otel wires OpenTelemetry tracing for skirmish binaries.
package otel

import (
	"context"
	"fmt"

	"github.com/louisbranch/skirmish/internal/platform/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Config controls trace export.
type Config struct {
	Endpoint    string  `env:"SKIRMISH_OTEL_ENDPOINT"`
	Enabled     bool    `env:"SKIRMISH_OTEL_ENABLED" envDefault:"true"`
	SampleRatio float64 `env:"SKIRMISH_OTEL_SAMPLE_RATIO" envDefault:"1"`
}

// Setup initialises OpenTelemetry tracing for the given service.
//
// Tracing is opt-in: when SKIRMISH_OTEL_ENDPOINT is empty or
// SKIRMISH_OTEL_ENABLED is "false", Setup returns a no-op shutdown
// function and no global provider is registered.
//
// The returned shutdown function flushes pending spans and should be deferred
// by the caller.
func Setup(ctx context.Context, serviceName string) (shutdown func(context.Context) error, err error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return func(context.Context) error { return nil }, err
	}
	return SetupWithConfig(ctx, serviceName, cfg)
}

// SetupWithConfig is Setup with an explicit configuration.
func SetupWithConfig(ctx context.Context, serviceName string, cfg Config) (shutdown func(context.Context) error, err error) {
	noop := func(context.Context) error { return nil }

	if !cfg.Enabled || cfg.Endpoint == "" {
		return noop, nil
	}
	if cfg.SampleRatio < 0 || cfg.SampleRatio > 1 {
		return noop, fmt.Errorf("otel sample ratio %v out of range [0,1]", cfg.SampleRatio)
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(cfg.Endpoint),
	)
	if err != nil {
		return noop, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceNamespace("skirmish"),
		),
	)
	if err != nil {
		return noop, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}
