package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wyfcoding/storefront/internal/catalog/domain"
	"github.com/wyfcoding/storefront/pkg/cache"
)

// ProductCache 商品读缓存的Redis实现
type ProductCache struct {
	redis *cache.RedisCache
	ttl   time.Duration
}

// NewProductCache 创建商品缓存实例
func NewProductCache(redis *cache.RedisCache, ttl time.Duration) *ProductCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ProductCache{redis: redis, ttl: ttl}
}

func productKey(id uint) string {
	return fmt.Sprintf("catalog:product:%d", id)
}

// GetProduct 从缓存读取商品，未命中返回 nil
func (c *ProductCache) GetProduct(ctx context.Context, id uint) (*domain.Product, error) {
	var product domain.Product
	err := c.redis.GetJSON(ctx, productKey(id), &product)
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// SetProduct 写入商品缓存
func (c *ProductCache) SetProduct(ctx context.Context, product *domain.Product) error {
	return c.redis.SetJSON(ctx, productKey(product.ID), product, c.ttl)
}

// InvalidateProduct 失效商品缓存
func (c *ProductCache) InvalidateProduct(ctx context.Context, id uint) error {
	return c.redis.Delete(ctx, productKey(id))
}
