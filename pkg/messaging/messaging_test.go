package messaging

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/abgdnv/skuservice/pkg/config"
	"github.com/abgdnv/skuservice/pkg/correlation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testEvent struct {
	payloadErr error
}

func (e testEvent) Subject() string { return "products-out" }
func (e testEvent) Key() string     { return "SKU-1" }
func (e testEvent) Payload() ([]byte, error) {
	if e.payloadErr != nil {
		return nil, e.payloadErr
	}
	return []byte(`{"sku":"SKU-1"}`), nil
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, event Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func testResilience() config.ResilienceConfig {
	return config.ResilienceConfig{
		Retry: config.RetryConfig{
			MaxAttempts:    3,
			InitialBackoff: time.Millisecond,
		},
		CircuitBreaker: config.CircuitBreakerConfig{
			ConsecutiveFailures: 5,
			ErrorRatePercent:    60,
			OpenTimeout:         time.Minute,
		},
	}
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestOutboundHeaders(t *testing.T) {
	t.Run("uses correlation value from context", func(t *testing.T) {
		ctx := correlation.WithTraceID(context.Background(), "abc-123")

		headers := OutboundHeaders(ctx)

		assert.Equal(t, "abc-123", headers[correlation.Header])
	})
	t.Run("generates correlation value when absent", func(t *testing.T) {
		headers := OutboundHeaders(context.Background())

		assert.NotEmpty(t, headers[correlation.Header])
	})
}

func TestInboundContext(t *testing.T) {
	testCases := []struct {
		name     string
		headers  map[string]string
		expected string
	}{
		{"header present", map[string]string{correlation.Header: "abc-123"}, "abc-123"},
		{"header empty", map[string]string{correlation.Header: ""}, correlation.Unknown},
		{"no headers", nil, correlation.Unknown},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx, traceID := InboundContext(context.Background(), tc.headers)

			assert.Equal(t, tc.expected, traceID)
			fromCtx, ok := correlation.TraceID(ctx)
			assert.True(t, ok)
			assert.Equal(t, tc.expected, fromCtx)
		})
	}
}

func TestEncode(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		ctx := correlation.WithTraceID(context.Background(), "abc-123")

		env, err := Encode(ctx, testEvent{})

		require.NoError(t, err)
		assert.Equal(t, "products-out", env.Subject)
		assert.Equal(t, "SKU-1", env.Key)
		assert.JSONEq(t, `{"sku":"SKU-1"}`, string(env.Data))
		assert.Equal(t, "abc-123", env.Headers[correlation.Header])
	})
	t.Run("payload error", func(t *testing.T) {
		_, err := Encode(context.Background(), testEvent{payloadErr: errors.New("boom")})

		assert.ErrorIs(t, err, ErrPublish)
		assert.ErrorIs(t, err, ErrPayload)
	})
}

func TestResilientPublisher_Publish(t *testing.T) {
	transient := errors.New("connection refused")
	testCases := []struct {
		name          string
		results       []error
		expectedErr   error
		expectedCalls int
	}{
		{
			name:          "first attempt succeeds",
			results:       []error{nil},
			expectedCalls: 1,
		},
		{
			name:          "succeeds after transient failures",
			results:       []error{transient, transient, nil},
			expectedCalls: 3,
		},
		{
			name:          "gives up after max attempts",
			results:       []error{transient, transient, transient},
			expectedErr:   ErrPublish,
			expectedCalls: 3,
		},
		{
			name:          "payload error is not retried",
			results:       []error{errors.Join(ErrPublish, ErrPayload)},
			expectedErr:   ErrPayload,
			expectedCalls: 1,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			next := new(mockPublisher)
			for _, res := range tc.results {
				next.On("Publish", mock.Anything, mock.Anything).Return(res).Once()
			}
			publisher := NewResilientPublisher(next, testResilience(), discard)

			// when
			err := publisher.Publish(context.Background(), testEvent{})

			// then
			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
			} else {
				assert.NoError(t, err)
			}
			next.AssertNumberOfCalls(t, "Publish", tc.expectedCalls)
		})
	}
}

func TestResilientPublisher_OpenCircuit(t *testing.T) {
	// given
	cfg := testResilience()
	cfg.Retry.MaxAttempts = 1
	cfg.CircuitBreaker.ConsecutiveFailures = 1
	next := new(mockPublisher)
	next.On("Publish", mock.Anything, mock.Anything).Return(errors.New("broker down"))
	publisher := NewResilientPublisher(next, cfg, discard)

	// when
	for range 2 {
		_ = publisher.Publish(context.Background(), testEvent{})
	}
	err := publisher.Publish(context.Background(), testEvent{})

	// then
	assert.ErrorIs(t, err, ErrPublish)
	next.AssertNumberOfCalls(t, "Publish", 2)
}
