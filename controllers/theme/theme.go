package themeControllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/controllers"
	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/junaidrashid-git/storefront-api/realtime"
	"github.com/junaidrashid-git/storefront-api/repository"
	"github.com/junaidrashid-git/storefront-api/theme"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type themeInput struct {
	Name        string         `json:"name" binding:"required"`
	Description string         `json:"description"`
	LightColors models.Palette `json:"light_colors" binding:"required"`
	DarkColors  models.Palette `json:"dark_colors" binding:"required"`
}

func colorMode(c *gin.Context) models.ColorMode {
	if strings.EqualFold(c.Query("mode"), string(models.ModeDark)) {
		return models.ModeDark
	}
	return models.ModeLight
}

func publish(hub *realtime.Hub, eventType string, themes ...models.Theme) {
	if hub == nil {
		return
	}
	for _, t := range themes {
		hub.PublishRecord(realtime.TopicThemes, eventType, t)
	}
}

func nameTaken(db *gorm.DB, name, exceptID string) (bool, error) {
	var count int64
	q := db.Model(&models.Theme{}).Where("LOWER(name) = ?", strings.ToLower(name))
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Activate makes id the only active theme. It returns the rows that
// changed: the previously active themes first, the activated one last. An
// unknown id changes nothing.
func Activate(db *gorm.DB, id string) ([]models.Theme, error) {
	var changed []models.Theme
	err := db.Transaction(func(tx *gorm.DB) error {
		var target models.Theme
		if err := tx.First(&target, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("theme: %w", repository.ErrNotFound)
			}
			return err
		}

		var previous []models.Theme
		if err := tx.Where("is_active = ? AND id <> ?", true, id).Find(&previous).Error; err != nil {
			return err
		}
		if len(previous) > 0 {
			if err := tx.Model(&models.Theme{}).Where("is_active = ? AND id <> ?", true, id).Update("is_active", false).Error; err != nil {
				return err
			}
		}
		if err := tx.Model(&target).Update("is_active", true).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("another theme was activated concurrently: %w", repository.ErrDuplicate)
			}
			return err
		}

		for i := range previous {
			previous[i].IsActive = false
		}
		changed = append(previous, target)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return changed, nil
}

// GET /theme
// The active theme, or null when none is set.
func GetActiveTheme(applier *theme.Applier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if applier.State() != theme.StateApplied {
			if err := applier.Load(c.Request.Context()); err != nil {
				controllers.RespondError(c, err, "Failed to fetch theme")
				return
			}
		}
		active, ok := applier.Active()
		if !ok {
			c.JSON(http.StatusOK, nil)
			return
		}
		c.JSON(http.StatusOK, active)
	}
}

// GET /theme/variables?mode=light|dark
func GetThemeVariables(applier *theme.Applier) gin.HandlerFunc {
	return func(c *gin.Context) {
		mode := colorMode(c)
		vars, err := applier.Variables(c.Request.Context(), mode)
		if err != nil {
			controllers.RespondError(c, err, "Failed to fetch theme")
			return
		}
		c.JSON(http.StatusOK, gin.H{"mode": mode, "variables": vars})
	}
}

// GET /theme.css?mode=light|dark
func GetThemeCSS(applier *theme.Applier) gin.HandlerFunc {
	return func(c *gin.Context) {
		css, err := applier.CSS(c.Request.Context(), colorMode(c))
		if err != nil {
			zap.L().Error("failed to render theme css", zap.Error(err))
			css = theme.RenderCSS(nil)
		}
		c.Header("Cache-Control", "no-cache")
		c.Data(http.StatusOK, "text/css; charset=utf-8", []byte(css))
	}
}

// GET /admin/themes
func GetThemes(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		themes := []models.Theme{}
		if err := db.WithContext(c.Request.Context()).Order("created_at asc").Find(&themes).Error; err != nil {
			controllers.RespondError(c, err, "Failed to fetch themes")
			return
		}
		c.JSON(http.StatusOK, themes)
	}
}

// POST /admin/themes
// New themes start inactive.
func CreateTheme(db *gorm.DB, hub *realtime.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in themeInput
		if err := c.ShouldBindJSON(&in); err != nil || strings.TrimSpace(in.Name) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name, light_colors and dark_colors are required"})
			return
		}

		q := db.WithContext(c.Request.Context())
		taken, err := nameTaken(q, in.Name, "")
		if err != nil {
			controllers.RespondError(c, err, "Failed to create theme")
			return
		}
		if taken {
			c.JSON(http.StatusConflict, gin.H{"error": "Theme name already exists"})
			return
		}

		t := models.Theme{
			Name:        strings.TrimSpace(in.Name),
			Description: in.Description,
			LightColors: in.LightColors,
			DarkColors:  in.DarkColors,
		}
		if err := q.Create(&t).Error; err != nil {
			controllers.RespondError(c, err, "Failed to create theme")
			return
		}
		publish(hub, realtime.EventInsert, t)
		c.JSON(http.StatusCreated, t)
	}
}

// PUT /admin/themes/:id
func UpdateTheme(db *gorm.DB, hub *realtime.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in themeInput
		if err := c.ShouldBindJSON(&in); err != nil || strings.TrimSpace(in.Name) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name, light_colors and dark_colors are required"})
			return
		}

		q := db.WithContext(c.Request.Context())
		var t models.Theme
		if err := q.First(&t, "id = ?", c.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Theme not found"})
				return
			}
			controllers.RespondError(c, err, "Failed to update theme")
			return
		}

		taken, err := nameTaken(q, in.Name, t.ID)
		if err != nil {
			controllers.RespondError(c, err, "Failed to update theme")
			return
		}
		if taken {
			c.JSON(http.StatusConflict, gin.H{"error": "Theme name already exists"})
			return
		}

		t.Name = strings.TrimSpace(in.Name)
		t.Description = in.Description
		t.LightColors = in.LightColors
		t.DarkColors = in.DarkColors
		if err := q.Save(&t).Error; err != nil {
			controllers.RespondError(c, err, "Failed to update theme")
			return
		}
		publish(hub, realtime.EventUpdate, t)
		c.JSON(http.StatusOK, t)
	}
}

// POST /admin/themes/:id/activate
func ActivateTheme(db *gorm.DB, hub *realtime.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		changed, err := Activate(db.WithContext(c.Request.Context()), c.Param("id"))
		if err != nil {
			controllers.RespondError(c, err, "Failed to activate theme")
			return
		}

		publish(hub, realtime.EventUpdate, changed...)
		active := changed[len(changed)-1]
		zap.L().Info("theme activated", zap.String("theme_id", active.ID), zap.String("name", active.Name))
		c.JSON(http.StatusOK, active)
	}
}

// DELETE /admin/themes/:id
// The active theme cannot be deleted.
func DeleteTheme(db *gorm.DB, hub *realtime.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := db.WithContext(c.Request.Context())
		var t models.Theme
		if err := q.First(&t, "id = ?", c.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Theme not found"})
				return
			}
			controllers.RespondError(c, err, "Failed to delete theme")
			return
		}
		if t.IsActive {
			c.JSON(http.StatusConflict, gin.H{"error": "The active theme cannot be deleted"})
			return
		}

		if err := q.Delete(&t).Error; err != nil {
			controllers.RespondError(c, err, "Failed to delete theme")
			return
		}
		publish(hub, realtime.EventDelete, t)
		c.JSON(http.StatusOK, gin.H{"message": "Theme deleted"})
	}
}
