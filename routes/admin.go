package routes

import (
	"github.com/gin-gonic/gin"
	adminController "github.com/junaidrashid-git/storefront-api/controllers/admin"
	messageControllers "github.com/junaidrashid-git/storefront-api/controllers/message"
	orderControllers "github.com/junaidrashid-git/storefront-api/controllers/order"
	productcontroller "github.com/junaidrashid-git/storefront-api/controllers/product"
	themeControllers "github.com/junaidrashid-git/storefront-api/controllers/theme"
	userControllers "github.com/junaidrashid-git/storefront-api/controllers/user"
	"github.com/junaidrashid-git/storefront-api/middleware"
	"github.com/junaidrashid-git/storefront-api/realtime"
)

// SetupAdminRoutes registers all “/admin/*” endpoints. Requires an admin
// token or the API key.
func SetupAdminRoutes(r *gin.Engine, d Deps) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.RequireAdmin(d.DB, d.JWTSecret, d.AdminAPIKey))
	{
		adminGroup.GET("/dashboard", adminController.GetDashboard(d.DB))

		// ─────────── Admin & User Management ───────────
		adminGroup.GET("/users", userControllers.GetAllUsers(d.DB))
		adminMgmt := adminGroup.Group("/admins")
		{
			adminMgmt.GET("", adminController.ListAdmins(d.DB))
			adminMgmt.POST("/grant", adminController.GrantAdmin(d.DB))
			adminMgmt.POST("/revoke", adminController.RevokeAdmin(d.DB))
		}

		// ─────────── Product Management ───────────
		productAdmin := adminGroup.Group("/products")
		{
			productAdmin.GET("", productcontroller.GetProducts(d.Products))
			productAdmin.POST("", productcontroller.CreateProduct(d.Products))
			productAdmin.PUT("/:id", productcontroller.UpdateProduct(d.Products))
			productAdmin.DELETE("/:id", productcontroller.DeleteProduct(d.Products))
			productAdmin.POST("/:id/images", productcontroller.UploadProductImage(d.Products, d.Uploader))
			productAdmin.POST("/import-excel", productcontroller.ImportProductsFromExcel(d.Products))
			productAdmin.GET("/export-excel", productcontroller.ExportProductsToExcel(d.DB))
		}

		// ─────────── Category Management ───────────
		categoryAdmin := adminGroup.Group("/categories")
		{
			categoryAdmin.GET("", productcontroller.GetCategories(d.DB))
			categoryAdmin.POST("", productcontroller.CreateCategory(d.DB))
			categoryAdmin.PUT("/:id", productcontroller.UpdateCategory(d.DB, d.Invalidate))
			categoryAdmin.DELETE("/:id", productcontroller.DeleteCategory(d.DB, d.Invalidate))
		}

		// ─────────── Orders ───────────
		orderAdmin := adminGroup.Group("/orders")
		{
			orderAdmin.GET("", orderControllers.GetAllOrders(d.DB))
			orderAdmin.GET("/stats", orderControllers.OrderStats(d.DB))
			orderAdmin.GET("/ws", d.Hub.ServeWS(realtime.TopicOrders))
			orderAdmin.GET("/:orderID", orderControllers.GetOrder(d.DB))
			orderAdmin.PUT("/:orderID/status", orderControllers.UpdateOrderStatus(d.DB, d.Hub))
			orderAdmin.PUT("/:orderID/payment-status", orderControllers.UpdatePaymentStatus(d.DB, d.Hub))
			orderAdmin.DELETE("/:orderID", orderControllers.DeleteOrder(d.DB, d.Hub))
		}

		// ─────────── Contact Messages ───────────
		messageAdmin := adminGroup.Group("/messages")
		{
			messageAdmin.GET("", messageControllers.GetMessages(d.DB))
			messageAdmin.GET("/:id", messageControllers.GetMessage(d.DB))
			messageAdmin.DELETE("/:id", messageControllers.DeleteMessage(d.DB))
		}

		// ─────────── Hero Banner ───────────
		heroAdmin := adminGroup.Group("/hero")
		{
			heroAdmin.GET("", adminController.GetAdminHero(d.DB))
			heroAdmin.GET("/all", adminController.ListHeroes(d.DB))
			heroAdmin.POST("", adminController.CreateHero(d.DB))
			heroAdmin.PUT("/:id", adminController.UpdateHero(d.DB))
			heroAdmin.POST("/:id/activate", adminController.ActivateHero(d.DB))
			heroAdmin.POST("/:id/images", adminController.UploadHeroImage(d.DB, d.Uploader))
			heroAdmin.DELETE("/:id/images/:index", adminController.RemoveHeroImage(d.DB, d.Uploader))
		}

		// ─────────── Themes ───────────
		themeAdmin := adminGroup.Group("/themes")
		{
			themeAdmin.GET("", themeControllers.GetThemes(d.DB))
			themeAdmin.POST("", themeControllers.CreateTheme(d.DB, d.Hub))
			themeAdmin.PUT("/:id", themeControllers.UpdateTheme(d.DB, d.Hub))
			themeAdmin.POST("/:id/activate", themeControllers.ActivateTheme(d.DB, d.Hub))
			themeAdmin.DELETE("/:id", themeControllers.DeleteTheme(d.DB, d.Hub))
		}
	}
}
