package repository

import (
	"context"

	"github.com/junaidrashid-git/storefront-api/models"
)

type ProductRepository interface {
	List(ctx context.Context, filter ProductFilter) ([]models.Product, error)
	ListFeatured(ctx context.Context, limit int) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
}
