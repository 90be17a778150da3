package observability

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/sandevgo/loopbot/internal/core"
	"github.com/sandevgo/loopbot/pkg/log"
)

const (
	metricInterval  = 30 * time.Second
	shutdownTimeout = 5 * time.Second
)

type TelemetryOptions struct {
	// TraceFile receives pretty printed spans. Empty disables tracing.
	TraceFile string
	// MetricFile receives periodic otel metric dumps. Empty disables them.
	MetricFile string
}

// InitTelemetry installs global tracer and meter providers that export to
// rotating files. The returned cleanup flushes and closes everything.
func InitTelemetry(ctx context.Context, opts TelemetryOptions) (func(), error) {
	noop := func() {}
	if opts.TraceFile == "" && opts.MetricFile == "" {
		return noop, nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(core.LoopName),
			semconv.ServiceVersion(core.LoopVersion),
		),
	)
	if err != nil {
		return noop, fmt.Errorf("failed to create resource: %w", err)
	}

	var closers []func(context.Context) error

	if opts.TraceFile != "" {
		file, err := rotatingFile(opts.TraceFile)
		if err != nil {
			return noop, err
		}
		exporter, err := stdouttrace.New(stdouttrace.WithWriter(file), stdouttrace.WithPrettyPrint())
		if err != nil {
			file.Close()
			return noop, fmt.Errorf("failed to create trace exporter: %w", err)
		}
		tp := sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exporter),
			sdktrace.WithResource(res),
		)
		otel.SetTracerProvider(tp)
		closers = append(closers, tp.Shutdown, closeFile(file))
	}

	if opts.MetricFile != "" {
		file, err := rotatingFile(opts.MetricFile)
		if err != nil {
			shutdownAll(ctx, closers)
			return noop, err
		}
		exporter, err := stdoutmetric.New(stdoutmetric.WithWriter(file), stdoutmetric.WithPrettyPrint())
		if err != nil {
			file.Close()
			shutdownAll(ctx, closers)
			return noop, fmt.Errorf("failed to create metric exporter: %w", err)
		}
		mp := sdkmetric.NewMeterProvider(
			sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(metricInterval))),
			sdkmetric.WithResource(res),
		)
		otel.SetMeterProvider(mp)
		closers = append(closers, mp.Shutdown, closeFile(file))
	}

	log.FromCtx(ctx).Info().
		Str("traces", opts.TraceFile).
		Str("metrics", opts.MetricFile).
		Msg("telemetry initialised")

	return func() { shutdownAll(ctx, closers) }, nil
}

func rotatingFile(path string) (*lumberjack.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create telemetry directory: %w", err)
	}
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	}, nil
}

func closeFile(f *lumberjack.Logger) func(context.Context) error {
	return func(context.Context) error { return f.Close() }
}

func shutdownAll(ctx context.Context, closers []func(context.Context) error) {
	logger := log.FromCtx(ctx)
	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	for _, c := range closers {
		if err := c(sctx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown telemetry")
		}
	}
}
