package tracing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Span attribute keys.
const (
	AttrBufferID    = "buffer.id"
	AttrBufferLines = "buffer.lines"
	AttrFilePath    = "file.path"
	AttrBlameFormat = "blame.format"
	AttrRecordCount = "blame.records"
	AttrDirty       = "blame.dirty"
	AttrCommitID    = "commit.id"
	AttrChangeCount = "changes.count"
	AttrQueuedEdits = "edits.queued"
)

// Span names.
const (
	SpanOpen    = "annotator.open"
	SpanRefresh = "annotator.refresh"
	SpanBlame   = "git.blame"
	SpanChanges = "annotator.changes"
)

// Start opens a span on tracer. A nil tracer yields a non-recording span.
func Start(ctx context.Context, tracer trace.Tracer, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer(defaultServiceName)
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// End records err on span, if any, and ends it.
func End(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
