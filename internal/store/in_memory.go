package store

import (
	"context"
	"sync"
	"time"

	"github.com/abgdnv/skuservice/internal/errors"
	"github.com/google/uuid"
)

// inMemory implements ProductStore using an in-memory map.
// It enforces the same active-row uniqueness as the database indexes.
type inMemory struct {
	mu       sync.RWMutex
	products map[uuid.UUID]Product
}

// NewInMemoryStore creates a new instance of ProductStore
func NewInMemoryStore() ProductStore {
	return &inMemory{
		products: make(map[uuid.UUID]Product),
	}
}

// FindBySku retrieves an active product by its SKU.
func (s *inMemory) FindBySku(_ context.Context, sku string) (*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if p.DeletedAt == nil && p.SKU == sku {
			return &p, nil
		}
	}
	return nil, errors.ErrProductNotFound
}

// FindBySkuOrName retrieves an active product that has the SKU or the name.
func (s *inMemory) FindBySkuOrName(_ context.Context, sku, name string) (*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p, ok := s.conflicting(sku, name); ok {
		return &p, nil
	}
	return nil, errors.ErrProductNotFound
}

// InsertUnique creates a new product unless an active one already uses its SKU or name.
func (s *inMemory) InsertUnique(_ context.Context, sku, name string) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.conflicting(sku, name); ok {
		return nil, errors.ErrProductConflict
	}
	product := Product{
		ID:        uuid.New(),
		SKU:       sku,
		Name:      name,
		CreatedAt: time.Now().UTC(),
		Version:   1,
	}
	s.products[product.ID] = product

	return &product, nil
}

func (s *inMemory) Ping(context.Context) error {
	return nil
}

// softDelete marks the active product with the given SKU as deleted.
func (s *inMemory) softDelete(sku string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, p := range s.products {
		if p.DeletedAt == nil && p.SKU == sku {
			now := time.Now().UTC()
			p.DeletedAt = &now
			p.UpdatedAt = &now
			p.Version++
			s.products[id] = p
			return true
		}
	}
	return false
}

// conflicting must be called with the lock held.
func (s *inMemory) conflicting(sku, name string) (Product, bool) {
	for _, p := range s.products {
		if p.DeletedAt == nil && (p.SKU == sku || p.Name == name) {
			return p, true
		}
	}
	return Product{}, false
}
