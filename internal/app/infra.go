package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/abgdnv/skuservice/internal/config"
	"github.com/abgdnv/skuservice/internal/store"
	"github.com/abgdnv/skuservice/internal/subscriber"
	"github.com/abgdnv/skuservice/migrations"
	"github.com/abgdnv/skuservice/pkg/bootstrap"
	pkgconfig "github.com/abgdnv/skuservice/pkg/config"
	"github.com/abgdnv/skuservice/pkg/kafka"
	"github.com/abgdnv/skuservice/pkg/messaging"
	"github.com/abgdnv/skuservice/pkg/nats"
	natsgo "github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
)

// NewStore opens the configured product store, applying migrations and putting the Redis
// cache in front of it when enabled. The returned func releases all connections.
func NewStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store.ProductStore, func(), error) {
	var (
		productStore store.ProductStore
		closers      []func()
	)
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if cfg.Database.UsesMemory() {
		logger.Warn("Using the in-memory product store, data is lost on restart")
		productStore = store.NewInMemoryStore()
	} else {
		if cfg.Database.Migrate {
			if err := bootstrap.RunMigrations(migrations.FS, cfg.Database.URL); err != nil {
				return nil, nil, err
			}
			logger.Info("Database migrations applied")
		}
		dbPool, err := bootstrap.NewDbPool(ctx, cfg.Database.URL, cfg.Database.Timeout)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, dbPool.Close)
		logger.Info("Successfully connected to the database!")
		productStore = store.NewPgStore(dbPool)
	}

	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		closers = append(closers, func() {
			if err := client.Close(); err != nil {
				logger.Warn("Failed to close redis client", "error", err)
			}
		})
		if err := client.Ping(ctx).Err(); err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("failed to ping redis: %w", err)
		}
		logger.Info("Product cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.TTL)
		productStore = store.NewCachedStore(productStore, client, cfg.Redis.TTL, logger)
	}

	return productStore, closeAll, nil
}

// Broker is the connection to the configured message broker.
type Broker struct {
	Publisher messaging.Publisher
	subscribe func(ctx context.Context, handler subscriber.MessageHandler) error
	close     func()
}

// NewBroker connects to NATS JetStream or Kafka. With NATS the stream is created or updated
// to bind the outbound subject and, when the subscriber is enabled, the inbound one.
func NewBroker(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Broker, error) {
	switch cfg.Broker.Driver {
	case pkgconfig.BrokerKafka:
		publisher := kafka.NewKafkaPublisher(kafka.NewWriter(cfg.Kafka.Brokers, cfg.Kafka.WriteTimeout))
		logger.Info("Kafka publisher ready", "brokers", cfg.Kafka.Brokers)
		return &Broker{
			Publisher: publisher,
			subscribe: func(ctx context.Context, handler subscriber.MessageHandler) error {
				return subscriber.StartKafka(ctx, cfg.Kafka, cfg.Subscriber, handler, logger)
			},
			close: func() {
				if err := publisher.Close(); err != nil {
					logger.Warn("Failed to close kafka writer", "error", err)
				}
			},
		}, nil
	default:
		nc, err := nats.NewClient(cfg.Nats.URL, cfg.Nats.Timeout)
		if err != nil {
			return nil, err
		}
		return newNATSBroker(ctx, nc, cfg, logger)
	}
}

// newNATSBroker provisions the stream on an open connection. It owns nc and closes it on
// every error path.
func newNATSBroker(ctx context.Context, nc *natsgo.Conn, cfg *config.Config, logger *slog.Logger) (broker *Broker, err error) {
	defer func() {
		if err != nil {
			nc.Close()
		}
	}()
	js, err := nats.NewJetStreamContext(nc)
	if err != nil {
		return nil, err
	}
	subjects := []string{cfg.Broker.Subject}
	if cfg.Subscriber.Enabled {
		subjects = append(subjects, cfg.Subscriber.Subject)
	}
	if _, err = nats.EnsureStream(ctx, js, cfg.Broker.Stream, subjects...); err != nil {
		return nil, err
	}
	logger.Info("Successfully connected to NATS", "stream", cfg.Broker.Stream, "subjects", subjects)
	return &Broker{
		Publisher: nats.NewNatsPublisher(js),
		subscribe: func(ctx context.Context, handler subscriber.MessageHandler) error {
			return subscriber.StartNATS(ctx, js, cfg.Subscriber, handler, logger)
		},
		close: func() {
			if err := nc.Drain(); err != nil {
				logger.Warn("Failed to drain NATS connection", "error", err)
			}
		},
	}, nil
}

// Subscribe runs the inbound delivery loop until ctx is cancelled.
func (b *Broker) Subscribe(ctx context.Context, handler subscriber.MessageHandler) error {
	return b.subscribe(ctx, handler)
}

// Close releases the broker connection, flushing pending messages.
func (b *Broker) Close() {
	b.close()
}
