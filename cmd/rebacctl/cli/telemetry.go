package cli

import (
	"context"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// tracingShutdownKey is the context key PersistentPreRunE stashes the
// tracer provider's shutdown func under, for PersistentPostRunE to
// retrieve and call.
type tracingShutdownKey struct{}

// setupTracing installs an SDK-backed TracerProvider as the global
// default so the spans storage/sql.Store records around every query
// (tracer.Start(ctx, "sql.FindDirectTuple"), etc.) are real spans with
// real trace/span IDs instead of the package default's no-op provider.
// No exporter is wired: rebacctl has no collector endpoint to ship to,
// so this is deliberately export-less, giving storage/sql something
// real to record into rather than silently discarding every span.
func setupTracing() (shutdown func(context.Context) error) {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	otel.SetTracerProvider(tp)

	return tp.Shutdown
}

var _ trace.TracerProvider = (*sdktrace.TracerProvider)(nil)
