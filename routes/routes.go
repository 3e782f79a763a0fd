package routes

import (
	"context"

	"github.com/gin-gonic/gin"
	siteControllers "github.com/junaidrashid-git/storefront-api/controllers/site"
	"github.com/junaidrashid-git/storefront-api/realtime"
	"github.com/junaidrashid-git/storefront-api/repository"
	"github.com/junaidrashid-git/storefront-api/storage"
	"github.com/junaidrashid-git/storefront-api/theme"
	"gorm.io/gorm"
)

// Deps is everything the handlers need.
type Deps struct {
	DB       *gorm.DB
	Products repository.ProductRepository
	// Invalidate drops cached product reads after writes that bypass
	// Products. Nil when caching is off.
	Invalidate func(context.Context)
	Uploader   storage.Uploader
	Hub        *realtime.Hub
	Applier    *theme.Applier
	About      siteControllers.About

	JWTSecret   string
	AdminAPIKey string
}

// SetupRoutes is the single entry-point that wires up every route group.
func SetupRoutes(r *gin.Engine, d Deps) {
	// 1️⃣ Health + public storefront reads (no middleware)
	r.GET("/health", siteControllers.Health(d.DB))
	SetupPublicRoutes(r, d)

	// 2️⃣ Email/password auth
	SetupAuthRoutes(r, d)

	// 3️⃣ User routes (JWT-protected)
	SetupUserRoutes(r, d)

	// 4️⃣ Checkout + order history
	SetupOrderRoutes(r, d)

	// 5️⃣ Admin routes (admin token or API key)
	SetupAdminRoutes(r, d)
}
