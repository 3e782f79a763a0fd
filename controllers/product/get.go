package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/controllers"
	"github.com/junaidrashid-git/storefront-api/repository"
)

// GetProductByID returns a single product with its category.
// URL param: /products/:id
func GetProductByID(repo repository.ProductRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			controllers.RespondError(c, err, "Failed to retrieve product")
			return
		}
		c.JSON(http.StatusOK, product)
	}
}
