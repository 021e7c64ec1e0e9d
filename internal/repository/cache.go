package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/errs"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/logging"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/models"
)

const catalogCacheKey = "catalog:products"

// RedisCatalogCache caches the normalized catalog in Redis. A miss or a
// Redis error both surface as errs.ErrNotFound; the caller reloads from
// the repository either way.
type RedisCatalogCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logging.Logger
}

// NewRedisCatalogCache creates a Redis-backed catalog cache.
func NewRedisCatalogCache(client *redis.Client, ttl time.Duration, logger *logging.Logger) *RedisCatalogCache {
	return &RedisCatalogCache{client: client, ttl: ttl, logger: logger}
}

// Get returns the cached catalog, or errs.ErrNotFound on a miss.
func (c *RedisCatalogCache) Get(ctx context.Context) ([]models.Product, error) {
	data, err := c.client.Get(ctx, catalogCacheKey).Bytes()
	if err == redis.Nil {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		c.logger.Warn("Catalog cache read failed", logging.Fields{"error": err.Error()})
		return nil, errs.ErrNotFound
	}

	var products []models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		c.logger.Warn("Catalog cache entry corrupt, dropping it", logging.Fields{"error": err.Error()})
		c.client.Del(ctx, catalogCacheKey)
		return nil, errs.ErrNotFound
	}
	return products, nil
}

// Set stores the catalog with the configured TTL.
func (c *RedisCatalogCache) Set(ctx context.Context, products []models.Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		return err
	}

	if err := c.client.Set(ctx, catalogCacheKey, data, c.ttl).Err(); err != nil {
		c.logger.Warn("Catalog cache write failed", logging.Fields{"error": err.Error()})
		return err
	}
	return nil
}

// Invalidate drops the cached catalog.
func (c *RedisCatalogCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, catalogCacheKey).Err()
}
