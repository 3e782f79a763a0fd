package productcontroller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/controllers"
	"github.com/junaidrashid-git/storefront-api/repository"
)

const defaultFeaturedLimit = 8

// GetProducts lists the catalogue.
// Query: search, category_id, min_price, max_price, in_stock, sort_by, order, limit, offset
func GetProducts(repo repository.ProductRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter, err := repository.ParseProductFilter(c.Request.URL.Query())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		products, err := repo.List(c.Request.Context(), filter)
		if err != nil {
			controllers.RespondError(c, err, "Failed to fetch products")
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

// GetFeaturedProducts returns the home page selection. ?limit= caps it.
func GetFeaturedProducts(repo repository.ProductRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := defaultFeaturedLimit
		if v := c.Query("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 || n > 50 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
				return
			}
			limit = n
		}

		products, err := repo.ListFeatured(c.Request.Context(), limit)
		if err != nil {
			controllers.RespondError(c, err, "Failed to fetch featured products")
			return
		}
		c.JSON(http.StatusOK, products)
	}
}
