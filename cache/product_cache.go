package cache

import (
	"context"
	"encoding/json"
	"time"

	"catalog-service/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	productCachePrefix = "product:detail:"
	defaultTTL         = 5 * time.Minute
)

// ProductCache caches product detail reads in Redis. Lookups are
// best-effort: any Redis failure falls through to the database.
type ProductCache struct {
	redis  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewProductCache creates a ProductCache with the default TTL.
func NewProductCache(rdb *redis.Client, logger *zap.Logger) *ProductCache {
	return &ProductCache{redis: rdb, ttl: defaultTTL, logger: logger}
}

// Get returns a cached product and whether the lookup hit.
func (c *ProductCache) Get(ctx context.Context, productID string) (*models.Product, bool) {
	data, err := c.redis.Get(ctx, productCachePrefix+productID).Result()
	if err != nil {
		return nil, false
	}

	var p models.Product
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		c.logger.Warn("Failed to unmarshal cached product", zap.Error(err))
		return nil, false
	}
	return &p, true
}

// SetAsync caches a product in the background so reads never wait on Redis.
func (c *ProductCache) SetAsync(productID string, product *models.Product) {
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		data, err := json.Marshal(product)
		if err != nil {
			c.logger.Warn("Failed to marshal product for cache", zap.Error(err), zap.String("product_id", productID))
			return
		}
		if err := c.redis.Set(bgCtx, productCachePrefix+productID, data, c.ttl).Err(); err != nil {
			c.logger.Warn("Failed to cache product", zap.Error(err), zap.String("product_id", productID))
		}
	}()
}

// Invalidate drops the cached entry after a write.
func (c *ProductCache) Invalidate(ctx context.Context, productID string) {
	if err := c.redis.Del(ctx, productCachePrefix+productID).Err(); err != nil {
		c.logger.Warn("Failed to invalidate product cache", zap.Error(err), zap.String("product_id", productID))
	}
}
