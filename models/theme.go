package models

import (
	"time"

	"gorm.io/gorm"
)

// ColorMode selects which palette of a theme applies.
type ColorMode string

const (
	ModeLight ColorMode = "light"
	ModeDark  ColorMode = "dark"
)

// Palette maps CSS custom property names (without the leading "--") to
// HSL triplets such as "222.2 84% 4.9%".
type Palette map[string]string

type Theme struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null" json:"name"`
	Description string    `json:"description"`
	LightColors Palette   `gorm:"type:text;serializer:json" json:"light_colors"`
	DarkColors  Palette   `gorm:"type:text;serializer:json" json:"dark_colors"`
	IsActive    bool      `gorm:"index" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (t *Theme) BeforeCreate(tx *gorm.DB) error {
	ensureID(&t.ID)
	return nil
}

// Palette returns the colours for mode; anything but dark is light.
func (t *Theme) Palette(mode ColorMode) Palette {
	if mode == ModeDark {
		return t.DarkColors
	}
	return t.LightColors
}
