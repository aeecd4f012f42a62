// Package telemetry provides OpenTelemetry span helpers for scheduling runs.
//
// Tracers are injected, never looked up globally, so each engine can be traced
// independently. A nil TracerProvider falls back to the otel no-op provider.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// InstrumentationName is the tracer name used for all staffplan spans.
const InstrumentationName = "github.com/VladislavFirsov/staffplan"

// Tracer returns the staffplan tracer from tp.
func Tracer(tp trace.TracerProvider) trace.Tracer {
	if tp == nil {
		tp = noop.NewTracerProvider()
	}
	return tp.Tracer(InstrumentationName)
}

// StartRunSpan starts the root span of a scheduling run.
//
//	ctx, span := telemetry.StartRunSpan(ctx, tracer, runID, "greedy")
//	defer span.End()
func StartRunSpan(ctx context.Context, tracer trace.Tracer, runID, strategy string) (context.Context, trace.Span) {
	ctx, span := tracer.Start(ctx, "schedule.run")
	span.SetAttributes(
		attribute.String("run_id", runID),
		attribute.String("strategy.requested", strategy),
	)
	return ctx, span
}

// StartStageSpan starts a child span for one pipeline stage (resolve, solve, summarize, evaluate).
func StartStageSpan(ctx context.Context, tracer trace.Tracer, stage string) (context.Context, trace.Span) {
	ctx, span := tracer.Start(ctx, "schedule."+stage)
	span.SetAttributes(attribute.String("stage", stage))
	return ctx, span
}

// RecordSuccess sets result attributes and marks the span ok.
func RecordSuccess(span trace.Span, attrs ...attribute.KeyValue) {
	span.SetAttributes(attrs...)
	span.SetStatus(codes.Ok, "")
}

// RecordError records err on the span and marks it failed. A nil err is ignored.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
