package nats

import (
	"context"
	"fmt"

	"github.com/abgdnv/skuservice/pkg/messaging"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

type NatsPublisher struct {
	js jetstream.JetStream
}

func NewNatsPublisher(js jetstream.JetStream) *NatsPublisher {
	return &NatsPublisher{js: js}
}

// Publish sends the event to JetStream with the correlation and trace headers attached.
func (p *NatsPublisher) Publish(ctx context.Context, event messaging.Event) error {
	env, err := messaging.Encode(ctx, event)
	if err != nil {
		return err
	}
	msg := nats.NewMsg(env.Subject)
	msg.Data = env.Data
	for k, v := range env.Headers {
		msg.Header.Set(k, v)
	}
	if _, err = p.js.PublishMsg(ctx, msg); err != nil {
		return fmt.Errorf("%w: subject %s: %w", messaging.ErrPublish, env.Subject, err)
	}
	return nil
}
