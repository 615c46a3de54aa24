package messaging

import (
	"context"

	"github.com/abgdnv/skuservice/pkg/correlation"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// OutboundHeaders builds the headers of an outgoing message: the W3C trace context of the
// active span and the X-Trace-Id correlation value. A correlation value is generated only
// when ctx carries none.
func OutboundHeaders(ctx context.Context) map[string]string {
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	carrier.Set(correlation.Header, correlation.TraceIDOrNew(ctx))
	return carrier
}

// InboundContext restores the trace context and the correlation value of a received message.
// Messages without X-Trace-Id get correlation.Unknown.
func InboundContext(ctx context.Context, headers map[string]string) (context.Context, string) {
	carrier := propagation.MapCarrier(headers)
	ctx = otel.GetTextMapPropagator().Extract(ctx, carrier)
	traceID := ""
	if headers != nil {
		traceID = headers[correlation.Header]
	}
	if traceID == "" {
		traceID = correlation.Unknown
	}
	return correlation.WithTraceID(ctx, traceID), traceID
}
