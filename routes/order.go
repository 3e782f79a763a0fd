package routes

import (
	"github.com/gin-gonic/gin"
	orderControllers "github.com/junaidrashid-git/storefront-api/controllers/order"
	"github.com/junaidrashid-git/storefront-api/middleware"
)

func SetupOrderRoutes(r *gin.Engine, d Deps) {
	userGroup := r.Group("/user")
	userGroup.Use(middleware.ValidateToken(d.JWTSecret))
	{
		// Turn the cart into an order
		userGroup.POST("/checkout", orderControllers.Checkout(d.DB, d.Hub, d.Invalidate))

		// Fetch the caller's orders
		userGroup.GET("/orders", orderControllers.GetMyOrders(d.DB))

		// One order by id or reference
		userGroup.GET("/orders/:orderID", orderControllers.GetOrder(d.DB))
	}
}
