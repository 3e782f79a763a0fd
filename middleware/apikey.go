package middleware

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/auth"
	"github.com/junaidrashid-git/storefront-api/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RequireAdmin lets a request through when its bearer token belongs to a
// user who is still an admin, or its X-API-KEY header matches apiKey. An
// empty apiKey disables the header path. users.is_admin is re-read on
// every request, so a revoked admin's token stops working at once.
func RequireAdmin(db *gorm.DB, secret, apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key := c.GetHeader("X-API-KEY"); apiKey != "" && key != "" {
			if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) == 1 {
				c.Set(ContextIsAdmin, true)
				c.Next()
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or missing API key"})
			return
		}

		tokenString := c.GetHeader("Authorization")
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is missing"})
			return
		}
		claims, err := auth.ParseToken(secret, tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		if !claims.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}

		var user models.User
		err = db.WithContext(c.Request.Context()).
			Select("id", "is_admin").
			First(&user, "id = ?", claims.UserID).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		case err != nil:
			zap.L().Error("admin check failed", zap.String("user_id", claims.UserID), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify admin access"})
			return
		case !user.IsAdmin:
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}
