package wishlistControllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/controllers"
	cartControllers "github.com/junaidrashid-git/storefront-api/controllers/cart"
	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/junaidrashid-git/storefront-api/repository"
	"gorm.io/gorm"
)

type wishlistInput struct {
	ProductID string `json:"product_id" binding:"required"`
}

func pagination(c *gin.Context) (page, limit int) {
	page, limit = 1, 20
	if p, err := strconv.Atoi(c.Query("page")); err == nil && p > 0 {
		page = p
	}
	if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 && l <= 100 {
		limit = l
	}
	return page, limit
}

// GET /user/wishlist
// Newest first, with the product preloaded.
func GetWishlist(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := controllers.CurrentUser(c)
		if !ok {
			return
		}
		page, limit := pagination(c)
		q := db.WithContext(c.Request.Context())

		// Rows whose product left the catalogue are neither listed nor counted.
		live := q.Model(&models.WishlistItem{}).
			Joins("JOIN products ON products.id = wishlist_items.product_id AND products.deleted_at IS NULL").
			Where("wishlist_items.user_id = ?", userID)

		var total int64
		if err := live.Session(&gorm.Session{}).Count(&total).Error; err != nil {
			controllers.RespondError(c, err, "Failed to count wishlist items")
			return
		}

		items := []models.WishlistItem{}
		err := live.Session(&gorm.Session{}).
			Preload("Product").
			Order("wishlist_items.created_at desc").
			Limit(limit).
			Offset((page - 1) * limit).
			Find(&items).Error
		if err != nil {
			controllers.RespondError(c, err, "Failed to fetch wishlist")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"items": items,
			"total": total,
			"page":  page,
			"limit": limit,
		})
	}
}

// POST /user/wishlist
// Adding a product that is already saved returns the existing row.
func AddToWishlist(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := controllers.CurrentUser(c)
		if !ok {
			return
		}

		var input wishlistInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
			return
		}

		q := db.WithContext(c.Request.Context())
		var product models.Product
		if err := q.First(&product, "id = ?", input.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
				return
			}
			controllers.RespondError(c, err, "Failed to validate product")
			return
		}

		var item models.WishlistItem
		status := http.StatusOK
		err := q.Where("user_id = ? AND product_id = ?", userID, product.ID).First(&item).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			item = models.WishlistItem{UserID: userID, ProductID: product.ID}
			err = q.Omit("Product").Create(&item).Error
			status = http.StatusCreated
		}
		if err != nil {
			controllers.RespondError(c, err, "Failed to add to wishlist")
			return
		}

		item.Product = &product
		c.JSON(status, item)
	}
}

// DELETE /user/wishlist/:id
// Removes exactly the caller's row with that id.
func RemoveFromWishlist(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := controllers.CurrentUser(c)
		if !ok {
			return
		}

		result := db.WithContext(c.Request.Context()).
			Where("id = ? AND user_id = ?", c.Param("id"), userID).
			Delete(&models.WishlistItem{})
		if result.Error != nil {
			controllers.RespondError(c, result.Error, "Failed to remove from wishlist")
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not found in wishlist"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Item removed from wishlist"})
	}
}

// GET /user/wishlist/status/:product_id
func CheckWishlistStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := controllers.CurrentUser(c)
		if !ok {
			return
		}

		var item models.WishlistItem
		err := db.WithContext(c.Request.Context()).
			Where("user_id = ? AND product_id = ?", userID, c.Param("product_id")).
			First(&item).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusOK, gin.H{"in_wishlist": false})
		case err != nil:
			controllers.RespondError(c, err, "Failed to check wishlist")
		default:
			c.JSON(http.StatusOK, gin.H{"in_wishlist": true, "item_id": item.ID})
		}
	}
}

// DELETE /user/wishlist
func ClearWishlist(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := controllers.CurrentUser(c)
		if !ok {
			return
		}

		result := db.WithContext(c.Request.Context()).Where("user_id = ?", userID).Delete(&models.WishlistItem{})
		if result.Error != nil {
			controllers.RespondError(c, result.Error, "Failed to clear wishlist")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Wishlist cleared", "removed": result.RowsAffected})
	}
}

// POST /user/wishlist/:id/move-to-cart
// Adds one unit to the cart and drops the wishlist row, or neither.
func MoveToCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := controllers.CurrentUser(c)
		if !ok {
			return
		}

		var cartItem *models.CartItem
		err := db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
			var item models.WishlistItem
			if err := tx.Where("id = ? AND user_id = ?", c.Param("id"), userID).First(&item).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("wishlist item: %w", repository.ErrNotFound)
				}
				return err
			}

			var err error
			if cartItem, err = cartControllers.AddItem(tx, userID, item.ProductID, 1); err != nil {
				return err
			}
			return tx.Delete(&item).Error
		})
		if err != nil {
			controllers.RespondError(c, err, "Failed to move item to cart")
			return
		}
		c.JSON(http.StatusOK, cartItem)
	}
}
