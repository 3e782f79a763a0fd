package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/junaidrashid-git/storefront-api/config"
	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/junaidrashid-git/storefront-api/repository"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRepo struct {
	products map[string]models.Product
	gets     int
	lists    int
}

func newCountingRepo() *countingRepo {
	return &countingRepo{products: map[string]models.Product{}}
}

func (r *countingRepo) List(ctx context.Context, f repository.ProductFilter) ([]models.Product, error) {
	r.lists++
	out := []models.Product{}
	for _, p := range r.products {
		out = append(out, p)
	}
	return out, nil
}

func (r *countingRepo) ListFeatured(ctx context.Context, limit int) ([]models.Product, error) {
	return r.List(ctx, repository.ProductFilter{})
}

func (r *countingRepo) GetByID(ctx context.Context, id string) (*models.Product, error) {
	r.gets++
	p, ok := r.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r *countingRepo) Create(ctx context.Context, p *models.Product) error {
	r.products[p.ID] = *p
	return nil
}

func (r *countingRepo) Update(ctx context.Context, p *models.Product) error {
	if _, ok := r.products[p.ID]; !ok {
		return repository.ErrNotFound
	}
	r.products[p.ID] = *p
	return nil
}

func (r *countingRepo) Delete(ctx context.Context, id string) error {
	delete(r.products, id)
	return nil
}

func setup(t *testing.T) (*CachedProductRepository, *countingRepo, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	backing := newCountingRepo()
	return NewCachedProductRepository(backing, rdb, time.Minute), backing, mr
}

func TestGetByID_ReadThrough(t *testing.T) {
	cached, backing, mr := setup(t)
	ctx := context.Background()

	require.NoError(t, cached.Create(ctx, &models.Product{ID: "p1", Name: "Mug", Price: decimal.NewFromInt(7)}))

	for i := 0; i < 3; i++ {
		p, err := cached.GetByID(ctx, "p1")
		require.NoError(t, err)
		assert.Equal(t, "Mug", p.Name)
		assert.True(t, decimal.NewFromInt(7).Equal(p.Price))
	}
	assert.Equal(t, 1, backing.gets)
	assert.True(t, mr.Exists("product:1:p1"))

	require.NoError(t, cached.Update(ctx, &models.Product{ID: "p1", Name: "Big Mug", Price: decimal.NewFromInt(9)}))
	version, err := mr.Get(versionKey)
	require.NoError(t, err)
	assert.Equal(t, "2", version)

	p, err := cached.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Big Mug", p.Name)
	assert.Equal(t, 2, backing.gets)
}

func TestGetByID_NegativeCache(t *testing.T) {
	cached, backing, mr := setup(t)
	ctx := context.Background()

	_, err := cached.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = cached.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Equal(t, 1, backing.gets)

	mr.FastForward(2 * notFoundTTL)
	_, _ = cached.GetByID(ctx, "missing")
	assert.Equal(t, 2, backing.gets)
}

func TestList_InvalidatedByWrites(t *testing.T) {
	cached, backing, _ := setup(t)
	ctx := context.Background()
	f := repository.ProductFilter{Search: "mug"}

	_, err := cached.List(ctx, f)
	require.NoError(t, err)
	_, err = cached.List(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, 1, backing.lists)

	require.NoError(t, cached.Create(ctx, &models.Product{ID: "p2", Name: "Mug"}))

	got, err := cached.List(ctx, f)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, 2, backing.lists)
}

func TestRedisDown_FallsBackToRepository(t *testing.T) {
	cached, backing, mr := setup(t)
	ctx := context.Background()
	require.NoError(t, backing.Create(ctx, &models.Product{ID: "p3", Name: "Cap"}))

	mr.Close()

	p, err := cached.GetByID(ctx, "p3")
	require.NoError(t, err)
	assert.Equal(t, "Cap", p.Name)

	list, err := cached.List(ctx, repository.ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestConnectRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb, err := ConnectRedis(config.RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	_ = rdb.Close()

	mr.Close()
	_, err = ConnectRedis(config.RedisConfig{Addr: mr.Addr()})
	assert.Error(t, err)
}

func TestInvalidate_DropsCachedProduct(t *testing.T) {
	cached, backing, _ := setup(t)
	ctx := context.Background()
	require.NoError(t, backing.Create(ctx, &models.Product{ID: "p9", Name: "Bag", InventoryCount: 3}))

	_, err := cached.GetByID(ctx, "p9")
	require.NoError(t, err)
	bag := backing.products["p9"]
	bag.InventoryCount = 1
	backing.products["p9"] = bag

	p, err := cached.GetByID(ctx, "p9")
	require.NoError(t, err)
	assert.Equal(t, 3, p.InventoryCount)

	cached.Invalidate(ctx)
	p, err = cached.GetByID(ctx, "p9")
	require.NoError(t, err)
	assert.Equal(t, 1, p.InventoryCount)
}
