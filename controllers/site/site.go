package siteControllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type About struct {
	Name        string   `json:"name"`
	Tagline     string   `json:"tagline"`
	Description string   `json:"description"`
	Values      []string `json:"values"`
	Email       string   `json:"email"`
	Phone       string   `json:"phone"`
}

// DefaultAbout is the copy shown on the About page.
func DefaultAbout() About {
	return About{
		Name:        "Storefront",
		Tagline:     "Quality products, delivered fast",
		Description: "We curate products we would buy ourselves and ship them quickly, with support from real people when something goes wrong.",
		Values:      []string{"Curated quality", "Fast delivery", "Easy returns"},
		Email:       "support@storefront.local",
		Phone:       "+1 555 0100",
	}
}

// GET /about
func GetAbout(about About) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, about)
	}
}

// GET /health
// 503 when the database does not answer a ping within two seconds.
func Health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			zap.L().Error("health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": "down"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "up"})
	}
}
