package messaging

import (
	"context"
	"errors"
)

var (
	// ErrPublish wraps every failure to hand an event over to the broker.
	ErrPublish = errors.New("event publish failed")
	// ErrPayload marks failures to serialize an event. They are never retried.
	ErrPayload = errors.New("event payload")
)

type Event interface {
	// Subject is the outbound channel (NATS subject or Kafka topic).
	Subject() string
	// Key orders related events on partitioned brokers.
	Key() string
	Payload() ([]byte, error)
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Envelope is an event ready to be sent: serialized body plus message headers.
type Envelope struct {
	Subject string
	Key     string
	Data    []byte
	Headers map[string]string
}

// Encode serializes the event and attaches the outbound headers taken from ctx.
func Encode(ctx context.Context, event Event) (Envelope, error) {
	data, err := event.Payload()
	if err != nil {
		return Envelope{}, errors.Join(ErrPublish, ErrPayload, err)
	}
	return Envelope{
		Subject: event.Subject(),
		Key:     event.Key(),
		Data:    data,
		Headers: OutboundHeaders(ctx),
	}, nil
}
