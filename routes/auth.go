package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/auth"
)

// SetupAuthRoutes registers all “/auth/*” endpoints.
func SetupAuthRoutes(r *gin.Engine, d Deps) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/signup", auth.SignUp(d.DB, d.JWTSecret))
		authGroup.POST("/signin", auth.SignIn(d.DB, d.JWTSecret))
	}
}
