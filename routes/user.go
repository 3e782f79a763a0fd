package routes

import (
	"github.com/gin-gonic/gin"
	cartControllers "github.com/junaidrashid-git/storefront-api/controllers/cart"
	userControllers "github.com/junaidrashid-git/storefront-api/controllers/user"
	wishlistControllers "github.com/junaidrashid-git/storefront-api/controllers/wishlist"
	"github.com/junaidrashid-git/storefront-api/middleware"
)

// SetupUserRoutes registers all “/user/*” endpoints. Requires JWT middleware.
func SetupUserRoutes(r *gin.Engine, d Deps) {
	userGroup := r.Group("/user")
	userGroup.Use(middleware.ValidateToken(d.JWTSecret))
	{
		// ──────────────── User Profile ────────────────
		userGroup.GET("", userControllers.GetProfile(d.DB))    // GET /user
		userGroup.PUT("", userControllers.UpdateProfile(d.DB)) // PUT /user

		// ──────────────── Shopping Cart ────────────────
		cartGroup := userGroup.Group("/cart")
		{
			cartGroup.GET("", cartControllers.GetCart(d.DB))                       // GET /user/cart
			cartGroup.POST("", cartControllers.AddCartItem(d.DB))                  // POST /user/cart
			cartGroup.PUT("/:product_id", cartControllers.UpdateCartItem(d.DB))    // PUT /user/cart/:product_id
			cartGroup.DELETE("/:product_id", cartControllers.DeleteCartItem(d.DB)) // DELETE /user/cart/:product_id
			cartGroup.DELETE("", cartControllers.ClearCart(d.DB))                  // DELETE /user/cart
		}

		// ──────────────── Wishlist ────────────────
		wishlistGroup := userGroup.Group("/wishlist")
		{
			wishlistGroup.GET("", wishlistControllers.GetWishlist(d.DB))
			wishlistGroup.POST("", wishlistControllers.AddToWishlist(d.DB))
			wishlistGroup.DELETE("", wishlistControllers.ClearWishlist(d.DB))
			wishlistGroup.GET("/status/:product_id", wishlistControllers.CheckWishlistStatus(d.DB))
			wishlistGroup.DELETE("/:id", wishlistControllers.RemoveFromWishlist(d.DB))
			wishlistGroup.POST("/:id/move-to-cart", wishlistControllers.MoveToCart(d.DB))
		}
	}
}
