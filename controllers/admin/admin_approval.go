package adminController

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/controllers"
	"github.com/junaidrashid-git/storefront-api/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type emailRequest struct {
	Email string `json:"email" binding:"required"`
}

// ListAdmins returns every account with admin rights.
func ListAdmins(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		admins := []models.User{}
		if err := db.WithContext(c.Request.Context()).Where("is_admin = ?", true).Order("email asc").Find(&admins).Error; err != nil {
			controllers.RespondError(c, err, "Failed to fetch admins")
			return
		}
		c.JSON(http.StatusOK, admins)
	}
}

func setAdmin(db *gorm.DB, isAdmin bool, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req emailRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		email := strings.ToLower(strings.TrimSpace(req.Email))

		result := db.WithContext(c.Request.Context()).Model(&models.User{}).Where("email = ?", email).Update("is_admin", isAdmin)
		if result.Error != nil {
			controllers.RespondError(c, result.Error, "Failed to update admin rights")
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		zap.L().Info(message, zap.String("email", email))
		c.JSON(http.StatusOK, gin.H{"message": message})
	}
}

// POST /admin/admins/grant
func GrantAdmin(db *gorm.DB) gin.HandlerFunc {
	return setAdmin(db, true, "Admin approved")
}

// POST /admin/admins/revoke
func RevokeAdmin(db *gorm.DB) gin.HandlerFunc {
	return setAdmin(db, false, "Admin revoked")
}
