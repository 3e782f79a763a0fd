package userControllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/controllers"
	"github.com/junaidrashid-git/storefront-api/models"
	"gorm.io/gorm"
)

type UpdateUserInput struct {
	FullName *string         `json:"full_name"`
	Phone    *string         `json:"phone"`
	Address  *models.Address `json:"address"`
}

func loadUser(c *gin.Context, db *gorm.DB, userID string) (*models.User, bool) {
	var user models.User
	if err := db.WithContext(c.Request.Context()).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return nil, false
		}
		controllers.RespondError(c, err, "Failed to fetch user")
		return nil, false
	}
	return &user, true
}

// GET /user
func GetProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := controllers.CurrentUser(c)
		if !ok {
			return
		}
		user, ok := loadUser(c, db, userID)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// GET /admin/users
func GetAllUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		users := []models.User{}
		if err := db.WithContext(c.Request.Context()).
			Order("created_at desc").
			Find(&users).Error; err != nil {
			controllers.RespondError(c, err, "Failed to fetch users")
			return
		}

		c.JSON(http.StatusOK, users)
	}
}

// PUT /user
// Only the fields present in the body change. Email and admin flag are not
// editable here.
func UpdateProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := controllers.CurrentUser(c)
		if !ok {
			return
		}

		var input UpdateUserInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		user, ok := loadUser(c, db, userID)
		if !ok {
			return
		}

		updates := make(map[string]interface{})
		if input.FullName != nil {
			updates["full_name"] = strings.TrimSpace(*input.FullName)
		}
		if input.Phone != nil {
			updates["phone"] = strings.TrimSpace(*input.Phone)
		}
		if input.Address != nil {
			updates["street"] = input.Address.Street
			updates["city"] = input.Address.City
			updates["state"] = input.Address.State
			updates["postal_code"] = input.Address.PostalCode
			updates["country"] = input.Address.Country
		}

		if len(updates) > 0 {
			if err := db.WithContext(c.Request.Context()).Model(user).Updates(updates).Error; err != nil {
				controllers.RespondError(c, err, "Failed to update user")
				return
			}
		}

		user, ok = loadUser(c, db, userID)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, user)
	}
}
