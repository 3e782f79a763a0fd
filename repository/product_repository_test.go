package repository

import (
	"context"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/junaidrashid-git/storefront-api/database"
	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestRepo(t *testing.T) (ProductRepository, *gorm.DB) {
	t.Helper()
	db, err := database.OpenMemory(uuid.NewString())
	require.NoError(t, err)
	return NewProductRepository(db), db
}

func mustCreate(t *testing.T, repo ProductRepository, p models.Product) models.Product {
	t.Helper()
	require.NoError(t, repo.Create(context.Background(), &p))
	return p
}

func TestProductRepository_CRUD(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	p := mustCreate(t, repo, models.Product{
		Name:           "Linen Shirt",
		Price:          decimal.RequireFromString("39.90"),
		Images:         []string{"a.jpg", "b.jpg"},
		InventoryCount: 3,
	})
	require.NotEmpty(t, p.ID)

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Linen Shirt", got.Name)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, got.Images)
	assert.True(t, decimal.RequireFromString("39.9").Equal(got.Price))

	got.InventoryCount = 0
	got.Images = []string{"b.jpg"}
	require.NoError(t, repo.Update(ctx, got))

	got, err = repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.InventoryCount, "zero values are written")
	assert.Equal(t, []string{"b.jpg"}, got.Images)

	require.NoError(t, repo.Delete(ctx, p.ID))
	_, err = repo.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, p.ID), ErrNotFound)
}

func TestProductRepository_DeleteClearsCartsAndWishlists(t *testing.T) {
	repo, db := newTestRepo(t)
	ctx := context.Background()

	lamp := mustCreate(t, repo, models.Product{Name: "Lamp", Price: decimal.NewFromInt(30), InventoryCount: 2})
	mug := mustCreate(t, repo, models.Product{Name: "Mug", Price: decimal.NewFromInt(10), InventoryCount: 2})
	for _, p := range []models.Product{lamp, mug} {
		require.NoError(t, db.Create(&models.CartItem{UserID: "u1", ProductID: p.ID, Quantity: 1}).Error)
		require.NoError(t, db.Create(&models.WishlistItem{UserID: "u1", ProductID: p.ID}).Error)
	}

	require.NoError(t, repo.Delete(ctx, lamp.ID))

	var cart []models.CartItem
	require.NoError(t, db.Find(&cart).Error)
	require.Len(t, cart, 1)
	assert.Equal(t, mug.ID, cart[0].ProductID)

	var wishlist []models.WishlistItem
	require.NoError(t, db.Find(&wishlist).Error)
	require.Len(t, wishlist, 1)
	assert.Equal(t, mug.ID, wishlist[0].ProductID)
}

func TestProductRepository_RejectsInvalid(t *testing.T) {
	repo, _ := newTestRepo(t)

	err := repo.Create(context.Background(), &models.Product{Name: " ", Price: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, ErrInvalidInput)

	err = repo.Create(context.Background(), &models.Product{Name: "x", Price: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, ErrInvalidInput)

	err = repo.Update(context.Background(), &models.Product{ID: uuid.NewString(), Name: "ghost", Price: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProductRepository_ListFilters(t *testing.T) {
	repo, db := newTestRepo(t)
	ctx := context.Background()

	shoes := models.Category{Name: "Shoes"}
	require.NoError(t, db.Create(&shoes).Error)

	mustCreate(t, repo, models.Product{Name: "Runner", Description: "light trail shoe", Price: decimal.NewFromInt(80), InventoryCount: 5, CategoryID: &shoes.ID})
	mustCreate(t, repo, models.Product{Name: "Boot", Price: decimal.NewFromInt(120), InventoryCount: 0, CategoryID: &shoes.ID})
	mustCreate(t, repo, models.Product{Name: "Cap", Price: decimal.NewFromInt(15), InventoryCount: 9})

	all, err := repo.List(ctx, ProductFilter{SortBy: "price", Order: "asc"})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"Cap", "Runner", "Boot"}, names(all))

	inCategory, err := repo.List(ctx, ProductFilter{CategoryID: shoes.ID, SortBy: "name", Order: "asc"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Boot", "Runner"}, names(inCategory))
	require.NotNil(t, inCategory[0].Category)
	assert.Equal(t, "Shoes", inCategory[0].Category.Name)

	search, err := repo.List(ctx, ProductFilter{Search: "TRAIL"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Runner"}, names(search))

	lo, hi := 20.0, 100.0
	priced, err := repo.List(ctx, ProductFilter{MinPrice: &lo, MaxPrice: &hi})
	require.NoError(t, err)
	assert.Equal(t, []string{"Runner"}, names(priced))

	stocked, err := repo.List(ctx, ProductFilter{InStockOnly: true, SortBy: "name", Order: "asc"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Cap", "Runner"}, names(stocked))

	none, err := repo.List(ctx, ProductFilter{Search: "umbrella"})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestProductRepository_ListFeatured(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	mustCreate(t, repo, models.Product{Name: "Plain", Price: decimal.NewFromInt(1)})
	fallback, err := repo.ListFeatured(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, []string{"Plain"}, names(fallback))

	mustCreate(t, repo, models.Product{Name: "Star", Price: decimal.NewFromInt(1), IsFeatured: true})
	featured, err := repo.ListFeatured(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, []string{"Star"}, names(featured))
}

func TestParseProductFilter(t *testing.T) {
	f, err := ParseProductFilter(url.Values{
		"search":    {"  shirt "},
		"min_price": {"10"},
		"sort_by":   {"price; DROP TABLE products"},
		"order":     {"ASC"},
		"limit":     {"500"},
		"in_stock":  {"true"},
	})
	require.NoError(t, err)
	assert.Equal(t, "shirt", f.Search)
	require.NotNil(t, f.MinPrice)
	assert.Equal(t, 10.0, *f.MinPrice)
	assert.Equal(t, "created_at asc", f.OrderClause())
	assert.Equal(t, maxPageSize, f.Limit)
	assert.True(t, f.InStockOnly)

	_, err = ParseProductFilter(url.Values{"max_price": {"cheap"}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = ParseProductFilter(url.Values{"offset": {"-1"}})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestProductFilter_Key(t *testing.T) {
	a := ProductFilter{Search: "Shirt"}
	b := ProductFilter{Search: "shirt", SortBy: "created_at", Order: "desc"}
	assert.Equal(t, a.Key(), b.Key())

	c := ProductFilter{Search: "shirt", SortBy: "price"}
	assert.NotEqual(t, a.Key(), c.Key())
}

func names(products []models.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.Name)
	}
	return out
}
