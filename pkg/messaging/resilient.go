package messaging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/abgdnv/skuservice/pkg/config"
	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker/v2"
)

// ResilientPublisher retries transient publish failures with exponential backoff and
// stops calling the broker while the circuit breaker is open.
type ResilientPublisher struct {
	next    Publisher
	breaker *gobreaker.CircuitBreaker[struct{}]
	retry   config.RetryConfig
	logger  *slog.Logger
}

// NewResilientPublisher wraps next with retry and circuit breaker policies.
func NewResilientPublisher(next Publisher, cfg config.ResilienceConfig, logger *slog.Logger) *ResilientPublisher {
	logger = logger.With("component", "resilient_publisher")
	st := gobreaker.Settings{
		Name:        "event-publisher-cb",
		MaxRequests: 1,
		Timeout:     cfg.CircuitBreaker.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > cfg.CircuitBreaker.ConsecutiveFailures ||
				(counts.TotalSuccesses+counts.TotalFailures > cfg.CircuitBreaker.ConsecutiveFailures &&
					float64(counts.TotalFailures)/float64(counts.TotalSuccesses+counts.TotalFailures)*100 > float64(cfg.CircuitBreaker.ErrorRatePercent))
		},
		IsSuccessful: func(err error) bool {
			// a payload that cannot be serialized says nothing about the broker
			return err == nil || errors.Is(err, ErrPayload)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	}
	return &ResilientPublisher{
		next:    next,
		breaker: gobreaker.NewCircuitBreaker[struct{}](st),
		retry:   cfg.Retry,
		logger:  logger,
	}
}

// Publish sends the event, retrying up to the configured number of attempts.
func (p *ResilientPublisher) Publish(ctx context.Context, event Event) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.retry.InitialBackoff
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(p.retry.MaxAttempts-1)), ctx)

	attempt := 0
	operation := func() error {
		attempt++
		_, err := p.breaker.Execute(func() (struct{}, error) {
			return struct{}{}, p.next.Publish(ctx, event)
		})
		switch {
		case err == nil:
			return nil
		case errors.Is(err, ErrPayload):
			return backoff.Permanent(err)
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			return backoff.Permanent(fmt.Errorf("%w: %w", ErrPublish, err))
		default:
			p.logger.WarnContext(ctx, "publish attempt failed", "subject", event.Subject(), "attempt", attempt, "error", err)
			return err
		}
	}
	if err := backoff.Retry(operation, policy); err != nil {
		if !errors.Is(err, ErrPublish) {
			err = fmt.Errorf("%w: %w", ErrPublish, err)
		}
		return err
	}
	return nil
}
