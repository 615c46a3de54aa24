// Package subscriber drives the product event consumer from NATS JetStream or Kafka.
package subscriber

import "context"

// MessageHandler processes one inbound message. A non-nil error leaves the message
// unacknowledged so the broker can redeliver it.
type MessageHandler interface {
	Handle(ctx context.Context, headers map[string]string, data []byte) error
}
