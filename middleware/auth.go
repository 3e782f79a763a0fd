package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/auth"
)

const (
	ContextUserID  = "user_id"
	ContextIsAdmin = "is_admin"
	ContextEmail   = "email"
)

// ValidateToken rejects requests without a valid bearer token and stores
// the caller in the gin context.
func ValidateToken(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
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

		setClaims(c, claims)
		c.Next()
	}
}

// OptionalToken stores the caller when a valid token is present and lets
// anonymous requests through.
func OptionalToken(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString := c.GetHeader("Authorization"); tokenString != "" {
			if claims, err := auth.ParseToken(secret, tokenString); err == nil {
				setClaims(c, claims)
			}
		}
		c.Next()
	}
}

func setClaims(c *gin.Context, claims *auth.Claims) {
	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextEmail, claims.Email)
	c.Set(ContextIsAdmin, claims.IsAdmin)
}

// UserID returns the authenticated caller, or "" for anonymous requests.
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}
