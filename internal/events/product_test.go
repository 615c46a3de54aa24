package events

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductCreatedEvent(t *testing.T) {
	// given
	id := uuid.MustParse("0d4a3c3e-3c43-4bd5-9d8c-4a4b8ed6e1f1")
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	event := NewProductCreatedEvent("products-out", ProductCreated{
		ID:        id,
		SKU:       "ABC-12",
		Name:      "Widget",
		CreatedAt: created,
	})

	// when
	data, err := event.Payload()

	// then
	require.NoError(t, err)
	assert.Equal(t, "products-out", event.Subject())
	assert.Equal(t, "ABC-12", event.Key())
	assert.JSONEq(t, `{
		"id": "0d4a3c3e-3c43-4bd5-9d8c-4a4b8ed6e1f1",
		"sku": "ABC-12",
		"name": "Widget",
		"createdAt": "2024-05-01T10:00:00Z",
		"updatedAt": null
	}`, string(data))
}

func TestDecodeProductCreated(t *testing.T) {
	testCases := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{
			name: "valid payload",
			data: `{"id":"0d4a3c3e-3c43-4bd5-9d8c-4a4b8ed6e1f1","sku":"ABC-12","name":"Widget","createdAt":"2024-05-01T10:00:00Z","updatedAt":null}`,
		},
		{
			name: "unknown fields are ignored",
			data: `{"id":"0d4a3c3e-3c43-4bd5-9d8c-4a4b8ed6e1f1","sku":"ABC-12","extra":1}`,
		},
		{name: "not json", data: `not-json`, wantErr: true},
		{name: "wrong type", data: `{"sku":42}`, wantErr: true},
		{name: "missing sku", data: `{"id":"0d4a3c3e-3c43-4bd5-9d8c-4a4b8ed6e1f1"}`, wantErr: true},
		{name: "empty", data: ``, wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := DecodeProductCreated([]byte(tc.data))
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrMalformedEvent)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "ABC-12", p.SKU)
		})
	}
}
