package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/controllers"
	"github.com/junaidrashid-git/storefront-api/repository"
	"github.com/junaidrashid-git/storefront-api/storage"
)

// UpdateProduct replaces a product's editable fields.
func UpdateProduct(repo repository.ProductRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in productInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product payload"})
			return
		}

		ctx := c.Request.Context()
		product, err := repo.GetByID(ctx, c.Param("id"))
		if err != nil {
			controllers.RespondError(c, err, "Failed to retrieve product")
			return
		}

		in.apply(product)
		product.Category = nil
		if err := repo.Update(ctx, product); err != nil {
			controllers.RespondError(c, err, "Failed to update product")
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

// UploadProductImage stores the "image" form file and appends its URL to
// the product's images.
func UploadProductImage(repo repository.ProductRepository, up storage.Uploader) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		product, err := repo.GetByID(ctx, c.Param("id"))
		if err != nil {
			controllers.RespondError(c, err, "Failed to retrieve product")
			return
		}

		url, ok := controllers.UploadFormImage(c, up, "image", "products")
		if !ok {
			return
		}

		product.Images = append(product.Images, url)
		product.Category = nil
		if err := repo.Update(ctx, product); err != nil {
			_ = up.Delete(ctx, url)
			controllers.RespondError(c, err, "Failed to save product image")
			return
		}
		c.JSON(http.StatusOK, product)
	}
}
