package productcontroller

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/controllers"
	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/junaidrashid-git/storefront-api/repository"
	"github.com/shopspring/decimal"
)

type productInput struct {
	Name           string           `json:"name" binding:"required"`
	Description    string           `json:"description"`
	Price          decimal.Decimal  `json:"price"`
	ComparePrice   *decimal.Decimal `json:"compare_price"`
	Images         []string         `json:"images"`
	InventoryCount int              `json:"inventory_count"`
	CategoryID     *string          `json:"category_id"`
	IsFeatured     bool             `json:"is_featured"`
}

// apply copies the input onto p. Images are only replaced when sent.
func (in productInput) apply(p *models.Product) {
	p.Name = strings.TrimSpace(in.Name)
	p.Description = in.Description
	p.Price = in.Price
	p.ComparePrice = in.ComparePrice
	p.InventoryCount = in.InventoryCount
	p.IsFeatured = in.IsFeatured
	p.CategoryID = nil
	if in.CategoryID != nil && *in.CategoryID != "" {
		p.CategoryID = in.CategoryID
	}
	if in.Images != nil {
		p.Images = in.Images
	}
}

// CreateProduct adds a product to the catalogue.
func CreateProduct(repo repository.ProductRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in productInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product payload"})
			return
		}

		var product models.Product
		in.apply(&product)
		if err := repo.Create(c.Request.Context(), &product); err != nil {
			controllers.RespondError(c, err, "Failed to create product")
			return
		}
		c.JSON(http.StatusCreated, product)
	}
}
