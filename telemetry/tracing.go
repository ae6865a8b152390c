package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// TracerName is the instrumentation name used by Tracer.
const TracerName = "github.com/smallnest/langworkflow"

// Tracer returns the langworkflow tracer of a provider.
func Tracer(tp trace.TracerProvider) trace.Tracer {
	return tp.Tracer(TracerName)
}

// Span wraps an OpenTelemetry span with workflow helpers. A nil *Span is valid.
type Span struct {
	span trace.Span
}

// StartRun starts the root span of a workflow run.
func StartRun(ctx context.Context, tracer trace.Tracer, runID, workflow string) (context.Context, *Span) {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer(TracerName)
	}
	ctx, span := tracer.Start(ctx, fmt.Sprintf("workflow.run: %s", workflow),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("workflow.name", workflow),
			attribute.String("workflow.run_id", runID),
		),
	)
	return ctx, &Span{span: span}
}

// StartStep starts the span of one step, as a child of the run span in ctx.
func StartStep(ctx context.Context, tracer trace.Tracer, step, kind string) (context.Context, *Span) {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer(TracerName)
	}
	ctx, span := tracer.Start(ctx, fmt.Sprintf("step: %s", step),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("step.name", step),
			attribute.String("step.kind", kind),
		),
	)
	return ctx, &Span{span: span}
}

// SetAttribute adds a string attribute.
func (s *Span) SetAttribute(key, value string) {
	if s == nil || s.span == nil {
		return
	}
	s.span.SetAttributes(attribute.String(key, value))
}

// RecordError marks the span as failed.
func (s *Span) RecordError(err error) {
	if s == nil || s.span == nil || err == nil {
		return
	}
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

// End completes the span. Spans that recorded no error end with status Ok.
func (s *Span) End(err error) {
	if s == nil || s.span == nil {
		return
	}
	if err != nil {
		s.RecordError(err)
	} else {
		s.span.SetStatus(codes.Ok, "")
	}
	s.span.End()
}
