// Package consumer handles inbound product events independently of the broker that delivers them.
package consumer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/abgdnv/skuservice/internal/events"
	"github.com/abgdnv/skuservice/pkg/messaging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// Handler processes a decoded product creation event.
type Handler func(ctx context.Context, event events.ProductCreated) error

// Consumer restores the message context, decodes the payload and hands it to the handler.
// Any failure is returned so the delivery loop leaves the message unacknowledged.
type Consumer struct {
	handler  Handler
	logger   *slog.Logger
	consumed metric.Int64Counter
	rejected metric.Int64Counter
}

// New creates a Consumer. A nil handler only logs the received events.
func New(handler Handler, logger *slog.Logger) *Consumer {
	meter := otel.Meter("product-service")
	consumed, err := meter.Int64Counter("product_events_consumed", metric.WithDescription("Total number of product events processed"))
	if err != nil {
		panic(fmt.Sprintf("failed to create product_events_consumed counter: %v", err))
	}
	rejected, err := meter.Int64Counter("product_events_rejected", metric.WithDescription("Total number of product events that failed processing"))
	if err != nil {
		panic(fmt.Sprintf("failed to create product_events_rejected counter: %v", err))
	}
	c := &Consumer{
		handler:  handler,
		logger:   logger.With("component", "product_consumer"),
		consumed: consumed,
		rejected: rejected,
	}
	if c.handler == nil {
		c.handler = c.logReceived
	}
	return c
}

// Handle processes one inbound message.
func (c *Consumer) Handle(ctx context.Context, headers map[string]string, data []byte) error {
	ctx, traceID := messaging.InboundContext(ctx, headers)

	event, err := events.DecodeProductCreated(data)
	if err != nil {
		c.rejected.Add(ctx, 1)
		c.logger.ErrorContext(ctx, "failed to decode product event", "error", err, "payload_size", len(data))
		return err
	}
	if err := c.handler(ctx, event); err != nil {
		c.rejected.Add(ctx, 1)
		c.logger.ErrorContext(ctx, "failed to process product event", "sku", event.SKU, "error", err)
		return fmt.Errorf("process product event %s: %w", event.SKU, err)
	}
	c.consumed.Add(ctx, 1)
	c.logger.DebugContext(ctx, "product event processed", "sku", event.SKU, "x_trace_id", traceID)
	return nil
}

func (c *Consumer) logReceived(ctx context.Context, event events.ProductCreated) error {
	c.logger.InfoContext(ctx, "product created event received",
		"id", event.ID,
		"sku", event.SKU,
		"name", event.Name,
		"created_at", event.CreatedAt,
	)
	return nil
}
