package database

import (
	"fmt"

	"github.com/junaidrashid-git/storefront-api/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Seed inserts the built-in themes and the default hero banner into empty
// tables. It never touches tables that already hold rows.
func Seed(db *gorm.DB) error {
	var themeCount int64
	if err := db.Model(&models.Theme{}).Count(&themeCount).Error; err != nil {
		return fmt.Errorf("count themes: %w", err)
	}
	if themeCount == 0 {
		themes := DefaultThemes()
		if err := db.Create(&themes).Error; err != nil {
			return fmt.Errorf("seed themes: %w", err)
		}
		zap.L().Info("seeded themes", zap.Int("count", len(themes)))
	}

	var heroCount int64
	if err := db.Model(&models.HeroContent{}).Count(&heroCount).Error; err != nil {
		return fmt.Errorf("count hero content: %w", err)
	}
	if heroCount == 0 {
		hero := models.DefaultHeroContent()
		if err := db.Create(&hero).Error; err != nil {
			return fmt.Errorf("seed hero content: %w", err)
		}
		zap.L().Info("seeded hero content")
	}
	return nil
}

// DefaultThemes is the built-in theme set. Only the first is active.
func DefaultThemes() []models.Theme {
	return []models.Theme{
		{
			Name:        "Default",
			Description: "Neutral slate with a dark primary",
			IsActive:    true,
			LightColors: palette("0 0% 100%", "222.2 84% 4.9%", "222.2 47.4% 11.2%", "210 40% 98%", "210 40% 96.1%", "214.3 31.8% 91.4%"),
			DarkColors:  palette("222.2 84% 4.9%", "210 40% 98%", "210 40% 98%", "222.2 47.4% 11.2%", "217.2 32.6% 17.5%", "217.2 32.6% 17.5%"),
		},
		{
			Name:        "Ocean",
			Description: "Blue primary on cool greys",
			LightColors: palette("0 0% 100%", "222.2 84% 4.9%", "221.2 83.2% 53.3%", "210 40% 98%", "210 40% 96.1%", "214.3 31.8% 91.4%"),
			DarkColors:  palette("222.2 84% 4.9%", "210 40% 98%", "217.2 91.2% 59.8%", "222.2 47.4% 11.2%", "217.2 32.6% 17.5%", "217.2 32.6% 17.5%"),
		},
		{
			Name:        "Forest",
			Description: "Green primary on warm neutrals",
			LightColors: palette("0 0% 100%", "240 10% 3.9%", "142.1 76.2% 36.3%", "355.7 100% 97.3%", "240 4.8% 95.9%", "240 5.9% 90%"),
			DarkColors:  palette("20 14.3% 4.1%", "0 0% 95%", "142.1 70.6% 45.3%", "144.9 80.4% 10%", "12 6.5% 15.1%", "240 3.7% 15.9%"),
		},
		{
			Name:        "Rose",
			Description: "Rose primary on white",
			LightColors: palette("0 0% 100%", "240 10% 3.9%", "346.8 77.2% 49.8%", "355.7 100% 97.3%", "240 4.8% 95.9%", "240 5.9% 90%"),
			DarkColors:  palette("20 14.3% 4.1%", "0 0% 95%", "346.8 77.2% 49.8%", "355.7 100% 97.3%", "12 6.5% 15.1%", "240 3.7% 15.9%"),
		},
	}
}

func palette(background, foreground, primary, primaryForeground, secondary, border string) models.Palette {
	return models.Palette{
		"background":           background,
		"foreground":           foreground,
		"card":                 background,
		"card-foreground":      foreground,
		"primary":              primary,
		"primary-foreground":   primaryForeground,
		"secondary":            secondary,
		"secondary-foreground": foreground,
		"muted":                secondary,
		"accent":               secondary,
		"accent-foreground":    foreground,
		"border":               border,
		"input":                border,
		"ring":                 primary,
	}
}
