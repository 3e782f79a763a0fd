package routes

import (
	"github.com/gin-gonic/gin"
	adminController "github.com/junaidrashid-git/storefront-api/controllers/admin"
	messageControllers "github.com/junaidrashid-git/storefront-api/controllers/message"
	productcontroller "github.com/junaidrashid-git/storefront-api/controllers/product"
	siteControllers "github.com/junaidrashid-git/storefront-api/controllers/site"
	themeControllers "github.com/junaidrashid-git/storefront-api/controllers/theme"
	"github.com/junaidrashid-git/storefront-api/middleware"
	"github.com/junaidrashid-git/storefront-api/realtime"
)

// SetupPublicRoutes registers the read-only storefront endpoints and the
// contact form.
func SetupPublicRoutes(r *gin.Engine, d Deps) {
	products := r.Group("/products")
	{
		products.GET("", productcontroller.GetProducts(d.Products))
		products.GET("/featured", productcontroller.GetFeaturedProducts(d.Products))
		products.GET("/:id", productcontroller.GetProductByID(d.Products))
	}

	r.GET("/categories", productcontroller.GetCategories(d.DB))
	r.GET("/hero", adminController.GetActiveHero(d.DB))

	themeGroup := r.Group("/theme")
	{
		themeGroup.GET("", themeControllers.GetActiveTheme(d.Applier))
		themeGroup.GET("/variables", themeControllers.GetThemeVariables(d.Applier))
		themeGroup.GET("/css", themeControllers.GetThemeCSS(d.Applier))
		themeGroup.GET("/ws", d.Hub.ServeWS(realtime.TopicThemes))
	}

	r.POST("/contact", middleware.OptionalToken(d.JWTSecret), messageControllers.CreateMessage(d.DB))
	r.GET("/about", siteControllers.GetAbout(d.About))
}
