package subscriber

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/abgdnv/skuservice/pkg/config"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"golang.org/x/sync/errgroup"
)

// ackableMsg is the subset of jetstream.Msg used by the subscriber.
type ackableMsg interface {
	Data() []byte
	Headers() nats.Header
	Subject() string
	Ack() error
	Nak() error
}

// StartNATS creates the durable pull consumer and starts worker goroutines to process messages.
// It returns when ctx is cancelled.
func StartNATS(ctx context.Context, js jetstream.JetStream, subscriberCfg config.SubscriberConfig, handler MessageHandler, logger *slog.Logger) error {
	logger = logger.With("component", "nats_subscriber", "subject", subscriberCfg.Subject)
	cfg := jetstream.ConsumerConfig{
		FilterSubject: subscriberCfg.Subject,
		Durable:       subscriberCfg.Consumer,
		AckPolicy:     jetstream.AckExplicitPolicy,
		MaxDeliver:    subscriberCfg.MaxDeliver,
		AckWait:       30 * time.Second,
	}
	consumer, err := js.CreateOrUpdateConsumer(ctx, subscriberCfg.Stream, cfg)
	if err != nil {
		return err
	}
	logger.Info("subscriber started", "consumer", subscriberCfg.Consumer, "workers", subscriberCfg.Workers)
	g, gCtx := errgroup.WithContext(ctx)
	for i := 0; i < subscriberCfg.Workers; i++ {
		g.Go(func() error {
			return runWorker(gCtx, consumer, subscriberCfg, handler, logger)
		})
	}
	return g.Wait()
}

// runWorker fetches messages from the NATS JetStream consumer and processes them.
func runWorker(ctx context.Context, consumer jetstream.Consumer, cfg config.SubscriberConfig, handler MessageHandler, logger *slog.Logger) error {
	for {
		select {
		case <-ctx.Done():
			// ctx was cancelled or timed out (e.g., application shutdown)
			return ctx.Err()
		default:
			batch, err := consumer.Fetch(cfg.Batch, jetstream.FetchMaxWait(cfg.Timeout))
			if err != nil {
				// if the error is a timeout, we can just continue to the next iteration
				if errors.Is(err, nats.ErrTimeout) {
					continue
				}
				logger.Error("failed to fetch messages", "error", err)
				// for other errors, we can log and retry
				sleep(ctx, cfg.Interval)
				continue
			}
			for msg := range batch.Messages() {
				handleMessage(ctx, msg, handler, logger)
			}
			if err := batch.Error(); err != nil && !errors.Is(err, nats.ErrTimeout) && ctx.Err() == nil {
				logger.Warn("fetch batch ended with error", "error", err)
			}
		}
	}
}

// handleMessage processes a single message and acknowledges it only on success.
func handleMessage(ctx context.Context, msg ackableMsg, handler MessageHandler, logger *slog.Logger) {
	if msg == nil {
		logger.Error("received nil message")
		return
	}
	if err := handler.Handle(ctx, flattenHeaders(msg.Headers()), msg.Data()); err != nil {
		logger.Error("message rejected, leaving it for redelivery", "error", err, "msg_subject", msg.Subject())
		if err := msg.Nak(); err != nil {
			logger.Error("failed to nack message", "error", err)
		}
		return
	}
	if err := msg.Ack(); err != nil {
		logger.Error("failed to ack message", "error", err)
	}
}

// flattenHeaders keeps the first value of every header.
func flattenHeaders(h nats.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k := range h {
		out[k] = h.Get(k)
	}
	return out
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
