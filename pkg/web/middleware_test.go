package web

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/abgdnv/skuservice/pkg/correlation"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceID(t *testing.T) {
	testCases := []struct {
		name    string
		header  string
		wantNew bool
	}{
		{name: "echoes incoming header", header: "abc-123"},
		{name: "generates when absent", wantNew: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			var seen string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen, _ = correlation.TraceID(r.Context())
			})
			req := httptest.NewRequest(http.MethodGet, "/products/ABC-12", nil)
			if tc.header != "" {
				req.Header.Set(correlation.Header, tc.header)
			}
			rec := httptest.NewRecorder()

			// when
			TraceID(next).ServeHTTP(rec, req)

			// then
			echoed := rec.Header().Get(correlation.Header)
			require.NotEmpty(t, echoed)
			assert.Equal(t, echoed, seen)
			if !tc.wantNew {
				assert.Equal(t, tc.header, echoed)
			}
		})
	}
}

func TestRequestIDInjector(t *testing.T) {
	// given
	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = correlation.RequestID(r.Context())
	})
	handler := middleware.RequestID(RequestIDInjector(next))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-1")
	rec := httptest.NewRecorder()

	// when
	handler.ServeHTTP(rec, req)

	// then
	assert.Equal(t, "req-1", seen)
	assert.Equal(t, "req-1", rec.Header().Get(middleware.RequestIDHeader))
}

func TestCorrelationID(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
	}{
		{name: "echoes incoming id", incoming: "corr-1"},
		{name: "generates id when absent", incoming: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// given
			var seen string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen, _ = correlation.CorrelationID(r.Context())
			})
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.incoming != "" {
				req.Header.Set(correlation.CorrelationHeader, tt.incoming)
			}
			rec := httptest.NewRecorder()

			// when
			CorrelationID(next).ServeHTTP(rec, req)

			// then
			require.NotEmpty(t, seen)
			assert.Equal(t, seen, rec.Header().Get(correlation.CorrelationHeader))
			if tt.incoming != "" {
				assert.Equal(t, tt.incoming, seen)
			}
			assert.Empty(t, rec.Header().Get(correlation.Header))
		})
	}
}

func TestRecoverer(t *testing.T) {
	// given
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	rec := httptest.NewRecorder()

	// when
	Recoverer(logger)(panicking).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	// then
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, ErrorCodeInternal, body.ErrorCode)
	assert.Empty(t, body.Details)
	assert.Contains(t, buf.String(), "Panic recovered")
}

func TestRespondError_NilDetailsRenderedAsEmptyList(t *testing.T) {
	rec := httptest.NewRecorder()

	RespondError(rec, slog.Default(), http.StatusNotFound, "Product not found", "PRODUCT_NOT_FOUND")

	assert.JSONEq(t, `{"message":"Product not found","errorCode":"PRODUCT_NOT_FOUND","details":[]}`, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}
