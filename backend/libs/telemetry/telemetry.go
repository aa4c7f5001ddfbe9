package telemetry

import (
	"context"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.uber.org/zap"
)

// Shutdown flushes and stops the tracer provider.
type Shutdown func(context.Context) error

func noop(context.Context) error { return nil }

// Setup installs a global tracer provider exporting over OTLP/gRPC when
// OTEL_EXPORTER_OTLP_ENDPOINT is set. Without an endpoint tracing stays a no-op.
func Setup(ctx context.Context, serviceName string, logger *zap.Logger) Shutdown {
	endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if endpoint == "" {
		return noop
	}

	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(endpoint)}
	if os.Getenv("OTEL_EXPORTER_OTLP_INSECURE") == "true" {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}

	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		logger.Warn("otel exporter disabled", zap.Error(err))
		return noop
	}

	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(serviceName)))
	if err != nil {
		logger.Warn("otel resource incomplete", zap.Error(err))
	}

	provider := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(res),
	)
	otel.SetTracerProvider(provider)
	logger.Info("tracing enabled", zap.String("endpoint", endpoint))

	return provider.Shutdown
}
