package productcontroller

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/controllers"
	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/junaidrashid-git/storefront-api/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type categoryInput struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

func nameTaken(db *gorm.DB, name, exceptID string) (bool, error) {
	var count int64
	q := db.Model(&models.Category{}).Where("LOWER(name) = ?", strings.ToLower(name))
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetCategories lists every category by name. No categories is an empty list.
func GetCategories(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories := []models.Category{}
		if err := db.WithContext(c.Request.Context()).Order("name asc").Find(&categories).Error; err != nil {
			controllers.RespondError(c, err, "Failed to fetch categories")
			return
		}
		c.JSON(http.StatusOK, categories)
	}
}

func CreateCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in categoryInput
		if err := c.ShouldBindJSON(&in); err != nil || strings.TrimSpace(in.Name) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
			return
		}
		name := strings.TrimSpace(in.Name)

		taken, err := nameTaken(db, name, "")
		if err != nil {
			controllers.RespondError(c, err, "Failed to create category")
			return
		}
		if taken {
			c.JSON(http.StatusConflict, gin.H{"error": "Category already exists"})
			return
		}

		category := models.Category{Name: name, Description: in.Description, ImageURL: in.ImageURL}
		if err := db.WithContext(c.Request.Context()).Create(&category).Error; err != nil {
			controllers.RespondError(c, err, "Failed to create category")
			return
		}
		c.JSON(http.StatusCreated, category)
	}
}

func UpdateCategory(db *gorm.DB, onChange func(context.Context)) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in categoryInput
		if err := c.ShouldBindJSON(&in); err != nil || strings.TrimSpace(in.Name) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
			return
		}
		name := strings.TrimSpace(in.Name)

		var category models.Category
		if err := db.First(&category, "id = ?", c.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
				return
			}
			controllers.RespondError(c, err, "Failed to retrieve category")
			return
		}

		taken, err := nameTaken(db, name, category.ID)
		if err != nil {
			controllers.RespondError(c, err, "Failed to update category")
			return
		}
		if taken {
			c.JSON(http.StatusConflict, gin.H{"error": "Category already exists"})
			return
		}

		category.Name = name
		category.Description = in.Description
		category.ImageURL = in.ImageURL
		if err := db.Save(&category).Error; err != nil {
			controllers.RespondError(c, err, "Failed to update category")
			return
		}
		if onChange != nil {
			onChange(c.Request.Context())
		}
		c.JSON(http.StatusOK, category)
	}
}

// DeleteCategory removes the category. Its products stay, uncategorised.
// onChange, when set, runs after a successful delete so cached products can
// be dropped.
func DeleteCategory(db *gorm.DB, onChange func(context.Context)) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&models.Product{}).Where("category_id = ?", id).Update("category_id", nil).Error; err != nil {
				return err
			}
			result := tx.Delete(&models.Category{}, "id = ?", id)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return repository.ErrNotFound
			}
			return nil
		})
		if err != nil {
			controllers.RespondError(c, err, "Failed to delete category")
			return
		}
		if onChange != nil {
			onChange(c.Request.Context())
		}

		zap.L().Info("category deleted", zap.String("category_id", id))
		c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
	}
}
