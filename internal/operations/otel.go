package operations

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"facultypanel/internal/infrastructure"
)

// TracerName names the operation spans
const TracerName = "facultypanel.operation"

// OperationTracer wraps runs and stages in spans and records stage metrics
type OperationTracer struct {
	tracer  trace.Tracer
	metrics *infrastructure.RunMetrics
}

// NewOperationTracer creates a tracer over providers. Nil providers give a
// tracer that records nothing.
func NewOperationTracer(providers *infrastructure.OTelProviders) *OperationTracer {
	if providers == nil {
		return &OperationTracer{tracer: noop.NewTracerProvider().Tracer(TracerName)}
	}
	return &OperationTracer{tracer: providers.Tracer, metrics: providers.Metrics}
}

// Metrics returns the run metrics, or nil when none are collected
func (t *OperationTracer) Metrics() *infrastructure.RunMetrics {
	return t.metrics
}

// TraceOperation starts the span covering a whole run
func (t *OperationTracer) TraceOperation(ctx context.Context, operationID string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "operation.execute",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("operation.id", operationID)))
}

// TraceStage starts the span of one stage
func (t *OperationTracer) TraceStage(ctx context.Context, step Step) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "operation.stage."+step.ID(),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("stage.id", step.ID()),
			attribute.String("stage.name", step.Name())))
}

// EndStage closes a stage span and records its duration
func (t *OperationTracer) EndStage(ctx context.Context, span trace.Span, stageID string, duration time.Duration, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.SetAttributes(attribute.Float64("stage.duration_seconds", duration.Seconds()))
	span.End()

	infrastructure.RecordStageMetrics(ctx, t.metrics, stageID, duration, err == nil)
}
