// Package correlation carries the X-Trace-Id correlation value and the request id through a context.
package correlation

import (
	"context"

	"github.com/google/uuid"
)

// Header is the HTTP and message header that carries the correlation value.
const Header = "X-Trace-Id"

// CorrelationHeader is the HTTP header that carries a caller supplied correlation id.
const CorrelationHeader = "X-Correlation-Id"

// Unknown is used for inbound messages that arrive without a correlation header.
const Unknown = "unknown"

type traceIDKey struct{}

type requestIDKey struct{}

type correlationIDKey struct{}

// WithTraceID returns a copy of ctx carrying the given trace id.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, traceID)
}

// TraceID retrieves the trace id from the context.
// Returns the trace id and a boolean indicating whether it was found.
func TraceID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(traceIDKey{}).(string)
	return id, ok && id != ""
}

// TraceIDOrNew returns the trace id stored in ctx, or a freshly generated one.
func TraceIDOrNew(ctx context.Context) string {
	if id, ok := TraceID(ctx); ok {
		return id
	}
	return NewID()
}

// NewID generates a new correlation value.
func NewID() string {
	return uuid.NewString()
}

// WithRequestID returns a copy of ctx carrying the given request id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID retrieves the request id from the context.
func RequestID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey{}).(string)
	return id, ok && id != ""
}

// WithCorrelationID returns a copy of ctx carrying the given correlation id.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, id)
}

// CorrelationID retrieves the correlation id from the context.
func CorrelationID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(correlationIDKey{}).(string)
	return id, ok && id != ""
}
