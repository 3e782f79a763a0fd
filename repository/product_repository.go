package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/junaidrashid-git/storefront-api/models"
	"gorm.io/gorm"
)

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) List(ctx context.Context, f ProductFilter) ([]models.Product, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{}).Preload("Category")

	if f.Search != "" {
		like := "%" + strings.ToLower(f.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	if f.CategoryID != "" {
		query = query.Where("category_id = ?", f.CategoryID)
	}
	if f.MinPrice != nil {
		query = query.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		query = query.Where("price <= ?", *f.MaxPrice)
	}
	if f.InStockOnly {
		query = query.Where("inventory_count > 0")
	}
	if f.Limit > 0 {
		query = query.Limit(f.Limit)
	}
	if f.Offset > 0 {
		query = query.Offset(f.Offset)
	}

	products := []models.Product{}
	if err := query.Order(f.OrderClause()).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (r *productRepository) ListFeatured(ctx context.Context, limit int) ([]models.Product, error) {
	products := []models.Product{}
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("is_featured = ?", true).
		Order("created_at desc").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("list featured products: %w", err)
	}
	if len(products) > 0 {
		return products, nil
	}

	// Nothing flagged: newest products stand in.
	if err := r.db.WithContext(ctx).Preload("Category").Order("created_at desc").Limit(limit).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("list newest products: %w", err)
	}
	return products, nil
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Preload("Category").First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get product %s: %w", id, err)
	}
	return &product, nil
}

func (r *productRepository) Create(ctx context.Context, product *models.Product) error {
	if err := validateProduct(product); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Omit("Category").Create(product).Error; err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

func (r *productRepository) Update(ctx context.Context, product *models.Product) error {
	if err := validateProduct(product); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", product.ID).
		Select("name", "description", "price", "compare_price", "images", "inventory_count", "category_id", "is_featured", "updated_at").
		Updates(product)
	if result.Error != nil {
		return fmt.Errorf("update product %s: %w", product.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete soft-deletes the product and drops it from every cart and
// wishlist in the same transaction.
func (r *productRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.Product{}, "id = ?", id)
		if result.Error != nil {
			return fmt.Errorf("delete product %s: %w", id, result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.CartItem{}).Error; err != nil {
			return fmt.Errorf("remove product %s from carts: %w", id, err)
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.WishlistItem{}).Error; err != nil {
			return fmt.Errorf("remove product %s from wishlists: %w", id, err)
		}
		return nil
	})
}

func validateProduct(p *models.Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("name is required: %w", ErrInvalidInput)
	}
	if p.Price.IsNegative() {
		return fmt.Errorf("price must not be negative: %w", ErrInvalidInput)
	}
	if p.ComparePrice != nil && p.ComparePrice.IsNegative() {
		return fmt.Errorf("compare price must not be negative: %w", ErrInvalidInput)
	}
	if p.InventoryCount < 0 {
		return fmt.Errorf("inventory count must not be negative: %w", ErrInvalidInput)
	}
	return nil
}
