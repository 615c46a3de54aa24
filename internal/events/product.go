// Package events defines the product events exchanged over the message broker.
package events

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var ErrMalformedEvent = errors.New("malformed product event")

// ProductCreated is the wire payload of a product creation. It has the shape of the product view.
type ProductCreated struct {
	ID        uuid.UUID  `json:"id"`
	SKU       string     `json:"sku"`
	Name      string     `json:"name"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt"`
}

// ProductCreatedEvent binds the payload to the outbound subject it is published on.
type ProductCreatedEvent struct {
	ProductCreated
	subject string
}

func NewProductCreatedEvent(subject string, payload ProductCreated) ProductCreatedEvent {
	return ProductCreatedEvent{ProductCreated: payload, subject: subject}
}

func (e ProductCreatedEvent) Subject() string {
	return e.subject
}

func (e ProductCreatedEvent) Key() string {
	return e.SKU
}

func (e ProductCreatedEvent) Payload() ([]byte, error) {
	return json.Marshal(e.ProductCreated)
}

// DecodeProductCreated parses an inbound payload. Unknown fields are ignored,
// a payload without id or sku is malformed.
func DecodeProductCreated(data []byte) (ProductCreated, error) {
	var p ProductCreated
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&p); err != nil {
		return ProductCreated{}, fmt.Errorf("%w: %w", ErrMalformedEvent, err)
	}
	if p.ID == uuid.Nil || p.SKU == "" {
		return ProductCreated{}, fmt.Errorf("%w: id and sku are required", ErrMalformedEvent)
	}
	return p, nil
}
