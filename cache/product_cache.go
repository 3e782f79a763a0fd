package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/junaidrashid-git/storefront-api/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	notFoundMarker = "notfound"
	notFoundTTL    = time.Minute
	versionKey     = "products:version"
)

// CachedProductRepository is a read-through Redis cache in front of a
// ProductRepository. Every key embeds a version counter that each write
// bumps, so one INCR invalidates everything cached. Redis failures never
// fail a request; the wrapped repository answers instead.
type CachedProductRepository struct {
	realRepo repository.ProductRepository
	redis    *redis.Client
	ttl      time.Duration
}

func NewCachedProductRepository(realRepo repository.ProductRepository, rdb *redis.Client, ttl time.Duration) *CachedProductRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedProductRepository{
		realRepo: realRepo,
		redis:    rdb,
		ttl:      ttl,
	}
}

func (c *CachedProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	key := fmt.Sprintf("product:%d:%s", c.version(ctx), id)

	data, err := c.redis.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if string(data) == notFoundMarker {
			return nil, repository.ErrNotFound
		}
		var product models.Product
		if err := json.Unmarshal(data, &product); err == nil {
			return &product, nil
		}
		zap.L().Warn("failed to unmarshal cached product, continuing with DB", zap.String("key", key))
	case errors.Is(err, redis.Nil):
	default:
		zap.L().Warn("redis error, continuing with DB", zap.Error(err))
	}

	product, err := c.realRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			if setErr := c.redis.Set(ctx, key, notFoundMarker, notFoundTTL).Err(); setErr != nil {
				zap.L().Warn("failed to cache notfound", zap.Error(setErr))
			}
		}
		return nil, err
	}

	c.store(ctx, key, product)
	return product, nil
}

func (c *CachedProductRepository) List(ctx context.Context, f repository.ProductFilter) ([]models.Product, error) {
	key := fmt.Sprintf("products:list:%d:%s", c.version(ctx), f.Key())

	var cached []models.Product
	if c.load(ctx, key, &cached) {
		return cached, nil
	}

	products, err := c.realRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, products)
	return products, nil
}

func (c *CachedProductRepository) ListFeatured(ctx context.Context, limit int) ([]models.Product, error) {
	key := fmt.Sprintf("products:featured:%d:%d", c.version(ctx), limit)

	var cached []models.Product
	if c.load(ctx, key, &cached) {
		return cached, nil
	}

	products, err := c.realRepo.ListFeatured(ctx, limit)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, products)
	return products, nil
}

func (c *CachedProductRepository) Create(ctx context.Context, product *models.Product) error {
	if err := c.realRepo.Create(ctx, product); err != nil {
		return err
	}
	c.Invalidate(ctx)
	return nil
}

func (c *CachedProductRepository) Update(ctx context.Context, product *models.Product) error {
	err := c.realRepo.Update(ctx, product)
	c.Invalidate(ctx)
	return err
}

func (c *CachedProductRepository) Delete(ctx context.Context, id string) error {
	err := c.realRepo.Delete(ctx, id)
	c.Invalidate(ctx)
	return err
}

func (c *CachedProductRepository) version(ctx context.Context) int64 {
	v, err := c.redis.Get(ctx, versionKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		zap.L().Warn("failed to read product cache version", zap.Error(err))
	}
	return v
}

// Invalidate drops every cached product and listing. Writers that change
// product rows without going through the repository call it.
func (c *CachedProductRepository) Invalidate(ctx context.Context) {
	if err := c.redis.Incr(ctx, versionKey).Err(); err != nil {
		zap.L().Warn("failed to bump product cache version", zap.Error(err))
	}
}

func (c *CachedProductRepository) load(ctx context.Context, key string, dst any) bool {
	data, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			zap.L().Warn("redis error, continuing with DB", zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		zap.L().Warn("failed to unmarshal cached value", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (c *CachedProductRepository) store(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		zap.L().Warn("failed to marshal value for cache", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
		zap.L().Warn("failed to cache value", zap.String("key", key), zap.Error(err))
	}
}
