package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestNewMeterProvider(t *testing.T) {
	// given
	metrics, err := NewMeterProvider("sku-service-test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = metrics.Provider.Shutdown(context.Background()) })

	counter, err := otel.Meter("telemetry-test").Int64Counter("test_events")
	require.NoError(t, err)
	counter.Add(context.Background(), 2)

	// when
	rec := httptest.NewRecorder()
	metrics.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	// then
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "test_events_total")
}
