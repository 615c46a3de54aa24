// Package kafka publishes events to Apache Kafka with segmentio/kafka-go.
package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/abgdnv/skuservice/pkg/messaging"
	"github.com/segmentio/kafka-go"
)

// messageWriter is the part of *kafka.Writer used by the publisher.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer messageWriter
}

// NewWriter creates a writer that partitions by message key and waits for all in-sync replicas.
func NewWriter(brokers []string, writeTimeout time.Duration) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
		WriteTimeout:           writeTimeout,
		// retries are handled by messaging.ResilientPublisher
		MaxAttempts: 1,
	}
}

func NewKafkaPublisher(writer messageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: writer}
}

// Publish writes the event to the topic named by its subject, keyed by the event key.
func (p *KafkaPublisher) Publish(ctx context.Context, event messaging.Event) error {
	env, err := messaging.Encode(ctx, event)
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Topic:   env.Subject,
		Key:     []byte(env.Key),
		Value:   env.Data,
		Headers: make([]kafka.Header, 0, len(env.Headers)),
	}
	for k, v := range env.Headers {
		msg.Headers = append(msg.Headers, kafka.Header{Key: k, Value: []byte(v)})
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("%w: topic %s: %w", messaging.ErrPublish, env.Subject, err)
	}
	return nil
}

// Close flushes pending messages and closes the writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// HeadersMap converts kafka message headers to a map, the last value wins on duplicate keys.
func HeadersMap(headers []kafka.Header) map[string]string {
	out := make(map[string]string, len(headers))
	for _, h := range headers {
		out[h.Key] = string(h.Value)
	}
	return out
}
