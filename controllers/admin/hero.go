package adminController

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/controllers"
	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/junaidrashid-git/storefront-api/repository"
	"github.com/junaidrashid-git/storefront-api/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type heroInput struct {
	Title               string    `json:"title" binding:"required"`
	Subtitle            string    `json:"subtitle"`
	Description         string    `json:"description"`
	Images              *[]string `json:"images"`
	ButtonText          string    `json:"button_text"`
	ButtonLink          string    `json:"button_link"`
	SecondaryButtonText string    `json:"secondary_button_text"`
	SecondaryButtonLink string    `json:"secondary_button_link"`
	IsActive            *bool     `json:"is_active"`
}

func (in heroInput) apply(h *models.HeroContent) {
	h.Title = strings.TrimSpace(in.Title)
	h.Subtitle = in.Subtitle
	h.Description = in.Description
	if in.Images != nil {
		h.Images = *in.Images
	}
	h.ButtonText = in.ButtonText
	h.ButtonLink = in.ButtonLink
	h.SecondaryButtonText = in.SecondaryButtonText
	h.SecondaryButtonLink = in.SecondaryButtonLink
	if in.IsActive != nil {
		h.IsActive = *in.IsActive
	}
}

func activeHero(db *gorm.DB) (*models.HeroContent, error) {
	var hero models.HeroContent
	err := db.Where("is_active = ?", true).Order("updated_at desc").First(&hero).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &hero, nil
}

func findHero(db *gorm.DB, id string) (*models.HeroContent, error) {
	var hero models.HeroContent
	if err := db.First(&hero, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("hero content: %w", repository.ErrNotFound)
		}
		return nil, err
	}
	return &hero, nil
}

// saveHero writes hero and, when it is active, deactivates every other row
// in the same transaction.
func saveHero(db *gorm.DB, hero *models.HeroContent) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if hero.IsActive {
			if err := tx.Model(&models.HeroContent{}).
				Where("is_active = ? AND id <> ?", true, hero.ID).
				Update("is_active", false).Error; err != nil {
				return err
			}
		}
		return tx.Save(hero).Error
	})
}

// GET /hero
// The active banner, or null when none is set.
func GetActiveHero(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		hero, err := activeHero(db.WithContext(c.Request.Context()))
		if err != nil {
			controllers.RespondError(c, err, "Failed to fetch hero content")
			return
		}
		c.JSON(http.StatusOK, hero)
	}
}

// GET /admin/hero
// Inserts the default banner first when none is active.
func GetAdminHero(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := db.WithContext(c.Request.Context())
		hero, err := activeHero(q)
		if err != nil {
			controllers.RespondError(c, err, "Failed to fetch hero content")
			return
		}
		if hero == nil {
			def := models.DefaultHeroContent()
			if err := saveHero(q, &def); err != nil {
				controllers.RespondError(c, err, "Failed to create hero content")
				return
			}
			zap.L().Info("default hero content created", zap.String("id", def.ID))
			hero = &def
		}
		c.JSON(http.StatusOK, hero)
	}
}

// GET /admin/hero/all
func ListHeroes(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		heroes := []models.HeroContent{}
		if err := db.WithContext(c.Request.Context()).Order("created_at asc").Find(&heroes).Error; err != nil {
			controllers.RespondError(c, err, "Failed to fetch hero content")
			return
		}
		c.JSON(http.StatusOK, heroes)
	}
}

// POST /admin/hero
func CreateHero(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in heroInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
			return
		}

		var hero models.HeroContent
		in.apply(&hero)
		if err := saveHero(db.WithContext(c.Request.Context()), &hero); err != nil {
			controllers.RespondError(c, err, "Failed to create hero content")
			return
		}
		c.JSON(http.StatusCreated, hero)
	}
}

// PUT /admin/hero/:id
func UpdateHero(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in heroInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
			return
		}

		q := db.WithContext(c.Request.Context())
		hero, err := findHero(q, c.Param("id"))
		if err != nil {
			controllers.RespondError(c, err, "Failed to update hero content")
			return
		}
		in.apply(hero)
		if err := saveHero(q, hero); err != nil {
			controllers.RespondError(c, err, "Failed to update hero content")
			return
		}
		c.JSON(http.StatusOK, hero)
	}
}

// POST /admin/hero/:id/activate
func ActivateHero(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := db.WithContext(c.Request.Context())
		hero, err := findHero(q, c.Param("id"))
		if err != nil {
			controllers.RespondError(c, err, "Failed to activate hero content")
			return
		}
		hero.IsActive = true
		if err := saveHero(q, hero); err != nil {
			controllers.RespondError(c, err, "Failed to activate hero content")
			return
		}
		c.JSON(http.StatusOK, hero)
	}
}

// POST /admin/hero/:id/images
func UploadHeroImage(db *gorm.DB, up storage.Uploader) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		hero, err := findHero(db.WithContext(ctx), c.Param("id"))
		if err != nil {
			controllers.RespondError(c, err, "Failed to upload hero image")
			return
		}

		url, ok := controllers.UploadFormImage(c, up, "image", "hero")
		if !ok {
			return
		}

		hero.Images = append(hero.Images, url)
		if err := db.WithContext(ctx).Model(hero).Select("images").Updates(&models.HeroContent{Images: hero.Images}).Error; err != nil {
			_ = up.Delete(ctx, url)
			controllers.RespondError(c, err, "Failed to save hero image")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Image uploaded", "url": url, "data": hero})
	}
}

// DELETE /admin/hero/:id/images/:index
// Drops the image at index from the banner and from storage.
func RemoveHeroImage(db *gorm.DB, up storage.Uploader) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		hero, err := findHero(db.WithContext(ctx), c.Param("id"))
		if err != nil {
			controllers.RespondError(c, err, "Failed to remove hero image")
			return
		}

		index, err := strconv.Atoi(c.Param("index"))
		if err != nil || index < 0 || index >= len(hero.Images) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image index"})
			return
		}

		removed := hero.Images[index]
		images := make([]string, 0, len(hero.Images)-1)
		images = append(images, hero.Images[:index]...)
		images = append(images, hero.Images[index+1:]...)

		if err := db.WithContext(ctx).Model(hero).Select("images").Updates(&models.HeroContent{Images: images}).Error; err != nil {
			controllers.RespondError(c, err, "Failed to remove hero image")
			return
		}
		hero.Images = images

		if err := up.Delete(ctx, removed); err != nil {
			zap.L().Warn("failed to delete hero image file", zap.String("url", removed), zap.Error(err))
		}
		c.JSON(http.StatusOK, hero)
	}
}
