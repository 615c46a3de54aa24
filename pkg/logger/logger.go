package logger

import (
	"context"
	"log/slog"

	"github.com/abgdnv/skuservice/pkg/correlation"
	"go.opentelemetry.io/otel/trace"
)

// ContextHandler is a wrapper around slog.Handler that adds context information.
type ContextHandler struct {
	slog.Handler
}

// NewContextHandler creates a new ContextHandler.
func NewContextHandler(handler slog.Handler) *ContextHandler {
	return &ContextHandler{
		Handler: handler,
	}
}

// Enabled reports whether the handler records at the given level.
func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.Handler.Enabled(ctx, level)
}

// Handle adds the correlation value, the request id and the active span's trace id to the record.
func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if traceID, ok := correlation.TraceID(ctx); ok {
		r.AddAttrs(slog.String("trace_id", traceID))
	}
	if reqID, ok := correlation.RequestID(ctx); ok {
		r.AddAttrs(slog.String("request_id", reqID))
	}
	if corrID, ok := correlation.CorrelationID(ctx); ok {
		r.AddAttrs(slog.String("correlation_id", corrID))
	}
	if span := trace.SpanFromContext(ctx); span.SpanContext().IsValid() {
		r.AddAttrs(slog.String("otel_trace_id", span.SpanContext().TraceID().String()))
	}
	return h.Handler.Handle(ctx, r)
}

// WithAttrs returns a new ContextHandler with the given attributes added.
func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{
		Handler: h.Handler.WithAttrs(attrs),
	}
}

// WithGroup returns a new ContextHandler with the given group added.
func (h *ContextHandler) WithGroup(group string) slog.Handler {
	return &ContextHandler{
		Handler: h.Handler.WithGroup(group),
	}
}
