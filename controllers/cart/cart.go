package cartControllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/controllers"
	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/junaidrashid-git/storefront-api/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartItemInput struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"omitempty,min=1"`
}

type QuantityInput struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// LoadCart returns the user's cart rows with products, oldest first. Rows
// whose product has been removed from the catalogue are left out.
func LoadCart(db *gorm.DB, userID string) ([]models.CartItem, error) {
	var rows []models.CartItem
	if err := db.Preload("Product").Where("user_id = ?", userID).Order("created_at asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]models.CartItem, 0, len(rows))
	for _, item := range rows {
		if item.Product != nil {
			items = append(items, item)
		}
	}
	return items, nil
}

// AddItem puts quantity units of productID in the user's cart, adding to
// an existing line. Out-of-stock products and quantities beyond inventory
// are refused and leave the cart untouched.
func AddItem(tx *gorm.DB, userID, productID string, quantity int) (*models.CartItem, error) {
	var product models.Product
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %s: %w", productID, repository.ErrNotFound)
		}
		return nil, err
	}
	if !product.InStock() {
		return nil, repository.ErrOutOfStock
	}

	var item models.CartItem
	err := tx.Where("user_id = ? AND product_id = ?", userID, productID).First(&item).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		item = models.CartItem{UserID: userID, ProductID: productID}
	case err != nil:
		return nil, err
	}

	if item.Quantity+quantity > product.InventoryCount {
		return nil, fmt.Errorf("only %d left: %w", product.InventoryCount, repository.ErrNotEnough)
	}
	item.Quantity += quantity

	if err := tx.Omit("Product").Save(&item).Error; err != nil {
		return nil, err
	}
	item.Product = &product
	return &item, nil
}

// GET /user/cart
func GetCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := controllers.CurrentUser(c)
		if !ok {
			return
		}

		items, err := LoadCart(db.WithContext(c.Request.Context()), userID)
		if err != nil {
			controllers.RespondError(c, err, "Failed to fetch cart")
			return
		}
		c.JSON(http.StatusOK, models.Summarize(items))
	}
}

// POST /user/cart
func AddCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := controllers.CurrentUser(c)
		if !ok {
			return
		}

		var input CartItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		if input.Quantity == 0 {
			input.Quantity = 1
		}

		var item *models.CartItem
		err := db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
			var err error
			item, err = AddItem(tx, userID, input.ProductID, input.Quantity)
			return err
		})
		if err != nil {
			controllers.RespondError(c, err, "Failed to add item to cart")
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

// PUT /user/cart/:product_id
func UpdateCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := controllers.CurrentUser(c)
		if !ok {
			return
		}

		var input QuantityInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Quantity must be at least 1"})
			return
		}

		var item models.CartItem
		err := db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
			if err := tx.Preload("Product").Where("user_id = ? AND product_id = ?", userID, c.Param("product_id")).First(&item).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("cart item: %w", repository.ErrNotFound)
				}
				return err
			}
			if item.Product == nil {
				return fmt.Errorf("product: %w", repository.ErrNotFound)
			}
			if input.Quantity > item.Product.InventoryCount {
				return fmt.Errorf("only %d left: %w", item.Product.InventoryCount, repository.ErrNotEnough)
			}
			return tx.Model(&item).Update("quantity", input.Quantity).Error
		})
		if err != nil {
			controllers.RespondError(c, err, "Failed to update cart item")
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

// DELETE /user/cart/:product_id
func DeleteCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := controllers.CurrentUser(c)
		if !ok {
			return
		}

		result := db.WithContext(c.Request.Context()).
			Where("user_id = ? AND product_id = ?", userID, c.Param("product_id")).
			Delete(&models.CartItem{})
		if result.Error != nil {
			controllers.RespondError(c, result.Error, "Failed to delete item")
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not found in cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart"})
	}
}

// DELETE /user/cart
func ClearCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := controllers.CurrentUser(c)
		if !ok {
			return
		}

		if err := db.WithContext(c.Request.Context()).Where("user_id = ?", userID).Delete(&models.CartItem{}).Error; err != nil {
			controllers.RespondError(c, err, "Failed to clear cart")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
	}
}
