package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "product:sku:"

// CachedStore is a read-through Redis cache in front of a ProductStore.
// Only found products are cached. Cache failures never fail a lookup.
type CachedStore struct {
	next   ProductStore
	client redis.UniversalClient
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedStore(next ProductStore, client redis.UniversalClient, ttl time.Duration, logger *slog.Logger) *CachedStore {
	return &CachedStore{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: logger.With("component", "product_cache"),
	}
}

func (c *CachedStore) FindBySku(ctx context.Context, sku string) (*Product, error) {
	cached, err := c.get(ctx, sku)
	if err != nil {
		c.logger.WarnContext(ctx, "cache read failed", "sku", sku, "error", err)
	}
	if cached != nil {
		if cached.DeletedAt == nil {
			return cached, nil
		}
		// a soft-deleted entry counts as a miss
		c.evict(ctx, sku)
	}

	product, err := c.next.FindBySku(ctx, sku)
	if err != nil {
		return nil, err
	}
	c.set(ctx, product)
	return product, nil
}

// FindBySkuOrName always reads the underlying store so uniqueness checks never see stale data.
func (c *CachedStore) FindBySkuOrName(ctx context.Context, sku, name string) (*Product, error) {
	return c.next.FindBySkuOrName(ctx, sku, name)
}

func (c *CachedStore) InsertUnique(ctx context.Context, sku, name string) (*Product, error) {
	product, err := c.next.InsertUnique(ctx, sku, name)
	if err != nil {
		return nil, err
	}
	c.set(ctx, product)
	return product, nil
}

func (c *CachedStore) Ping(ctx context.Context) error {
	if err := c.next.Ping(ctx); err != nil {
		return err
	}
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

func (c *CachedStore) get(ctx context.Context, sku string) (*Product, error) {
	data, err := c.client.Get(ctx, cacheKeyPrefix+sku).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get product from redis: %w", err)
	}
	var product Product
	if err := json.Unmarshal(data, &product); err != nil {
		return nil, fmt.Errorf("failed to unmarshal product: %w", err)
	}
	return &product, nil
}

func (c *CachedStore) set(ctx context.Context, product *Product) {
	if product.DeletedAt != nil {
		return
	}
	data, err := json.Marshal(product)
	if err != nil {
		c.logger.WarnContext(ctx, "failed to marshal product for cache", "sku", product.SKU, "error", err)
		return
	}
	if err := c.client.Set(ctx, cacheKeyPrefix+product.SKU, data, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "cache write failed", "sku", product.SKU, "error", err)
	}
}

func (c *CachedStore) evict(ctx context.Context, sku string) {
	if err := c.client.Del(ctx, cacheKeyPrefix+sku).Err(); err != nil {
		c.logger.WarnContext(ctx, "cache evict failed", "sku", sku, "error", err)
	}
}
