package adminController

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/controllers"
	orderControllers "github.com/junaidrashid-git/storefront-api/controllers/order"
	"github.com/junaidrashid-git/storefront-api/models"
	"gorm.io/gorm"
)

// GET /admin/dashboard
// Row counts for the back-office landing page plus paid revenue.
func GetDashboard(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		q := db.WithContext(ctx)

		counts := map[string]int64{}
		for name, model := range map[string]any{
			"products":   &models.Product{},
			"categories": &models.Category{},
			"orders":     &models.Order{},
			"users":      &models.User{},
			"messages":   &models.Message{},
		} {
			var n int64
			if err := q.Model(model).Count(&n).Error; err != nil {
				controllers.RespondError(c, err, "Failed to load dashboard")
				return
			}
			counts[name] = n
		}

		var unread, pending, outOfStock int64
		if err := q.Model(&models.Message{}).Where("is_read = ?", false).Count(&unread).Error; err != nil {
			controllers.RespondError(c, err, "Failed to load dashboard")
			return
		}
		if err := q.Model(&models.Order{}).Where("status = ?", models.OrderStatusPending).Count(&pending).Error; err != nil {
			controllers.RespondError(c, err, "Failed to load dashboard")
			return
		}
		if err := q.Model(&models.Product{}).Where("inventory_count <= 0").Count(&outOfStock).Error; err != nil {
			controllers.RespondError(c, err, "Failed to load dashboard")
			return
		}

		revenue, err := orderControllers.Revenue(ctx, db)
		if err != nil {
			controllers.RespondError(c, err, "Failed to load dashboard")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"counts":          counts,
			"unread_messages": unread,
			"pending_orders":  pending,
			"out_of_stock":    outOfStock,
			"revenue":         revenue,
		})
	}
}
