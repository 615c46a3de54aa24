package subscriber

import (
	"context"
	"log/slog"

	"github.com/abgdnv/skuservice/pkg/config"
	kafkapub "github.com/abgdnv/skuservice/pkg/kafka"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"
)

// messageReader is the subset of *kafka.Reader used by the subscriber.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// StartKafka runs one group reader per worker on the inbound topic. A rejected message is
// redelivered to the handler up to subscriber.maxdeliver times before its offset is committed,
// so a later message never moves the group offset past it.
func StartKafka(ctx context.Context, kafkaCfg config.KafkaConfig, subscriberCfg config.SubscriberConfig, handler MessageHandler, logger *slog.Logger) error {
	logger = logger.With("component", "kafka_subscriber", "topic", subscriberCfg.Subject)
	deadLettered, err := otel.Meter("product-service").Int64Counter("product_events_dead_lettered",
		metric.WithDescription("Total number of inbound product events given up on after max deliveries"))
	if err != nil {
		return err
	}
	g, gCtx := errgroup.WithContext(ctx)
	for i := 0; i < subscriberCfg.Workers; i++ {
		reader := kafka.NewReader(kafka.ReaderConfig{
			Brokers:  kafkaCfg.Brokers,
			GroupID:  kafkaCfg.GroupID,
			Topic:    subscriberCfg.Subject,
			MinBytes: 1,
			MaxBytes: 10e6,
			MaxWait:  subscriberCfg.Timeout,
		})
		g.Go(func() error {
			defer func() {
				if err := reader.Close(); err != nil {
					logger.Warn("failed to close kafka reader", "error", err)
				}
			}()
			return runKafkaWorker(gCtx, reader, subscriberCfg, handler, deadLettered, logger)
		})
	}
	logger.Info("subscriber started", "group_id", kafkaCfg.GroupID, "workers", subscriberCfg.Workers)
	return g.Wait()
}

func runKafkaWorker(ctx context.Context, reader messageReader, cfg config.SubscriberConfig, handler MessageHandler, deadLettered metric.Int64Counter, logger *slog.Logger) error {
	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.Error("failed to fetch message", "error", err)
			sleep(ctx, cfg.Interval)
			continue
		}
		if !deliverKafka(ctx, msg, cfg, handler, deadLettered, logger) {
			// offset stays uncommitted, the group resumes from this message
			return ctx.Err()
		}
		if err := reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			logger.Error("failed to commit message", "error", err, "offset", msg.Offset)
		}
	}
}

// deliverKafka hands msg to the handler until it is accepted or the delivery bound is reached.
// It reports false when ctx ends before the message was settled.
func deliverKafka(ctx context.Context, msg kafka.Message, cfg config.SubscriberConfig, handler MessageHandler, deadLettered metric.Int64Counter, logger *slog.Logger) bool {
	headers := kafkapub.HeadersMap(msg.Headers)
	for attempt := 1; ; attempt++ {
		err := handler.Handle(ctx, headers, msg.Value)
		if err == nil {
			return true
		}
		if cfg.MaxDeliver > 0 && attempt >= cfg.MaxDeliver {
			logger.Error("message dead-lettered after max deliveries",
				"error", err,
				"partition", msg.Partition,
				"offset", msg.Offset,
				"deliveries", attempt,
			)
			deadLettered.Add(ctx, 1)
			return true
		}
		logger.Error("message rejected, redelivering",
			"error", err,
			"partition", msg.Partition,
			"offset", msg.Offset,
			"delivery", attempt,
		)
		sleep(ctx, cfg.Interval)
		if ctx.Err() != nil {
			return false
		}
	}
}
