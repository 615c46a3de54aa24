// Package store provides an interface for product storage operations.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Product is the persisted product row.
type Product struct {
	ID        uuid.UUID  `json:"id"`
	SKU       string     `json:"sku"`
	Name      string     `json:"name"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt"`
	DeletedAt *time.Time `json:"deletedAt"`
	Version   int64      `json:"version"`
}

// ProductStore is an interface for product storage operations.
// Lookups only ever see active rows: soft-deleted products are invisible.
type ProductStore interface {
	// FindBySku retrieves the active product with the given SKU.
	// Returns ErrProductNotFound if there is none.
	FindBySku(ctx context.Context, sku string) (*Product, error)

	// FindBySkuOrName retrieves an active product whose SKU or name matches.
	// Returns ErrProductNotFound if there is none.
	FindBySkuOrName(ctx context.Context, sku, name string) (*Product, error)

	// InsertUnique persists a new product inside a transaction.
	// Returns ErrProductConflict if an active product already uses the SKU or the name.
	InsertUnique(ctx context.Context, sku, name string) (*Product, error)

	// Ping reports whether the underlying storage is reachable.
	Ping(ctx context.Context) error
}
