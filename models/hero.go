package models

import (
	"time"

	"gorm.io/gorm"
)

// HeroContent is the home page banner. One row is active at a time.
type HeroContent struct {
	ID                  string    `gorm:"type:uuid;primaryKey" json:"id"`
	Title               string    `gorm:"not null" json:"title"`
	Subtitle            string    `json:"subtitle"`
	Description         string    `json:"description"`
	Images              []string  `gorm:"type:text;serializer:json" json:"images"`
	ButtonText          string    `json:"button_text"`
	ButtonLink          string    `json:"button_link"`
	SecondaryButtonText string    `json:"secondary_button_text"`
	SecondaryButtonLink string    `json:"secondary_button_link"`
	IsActive            bool      `gorm:"index" json:"is_active"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func (HeroContent) TableName() string { return "hero_content" }

func (h *HeroContent) BeforeCreate(tx *gorm.DB) error {
	ensureID(&h.ID)
	if h.Images == nil {
		h.Images = []string{}
	}
	return nil
}

// DefaultHeroContent is inserted when no banner is active.
func DefaultHeroContent() HeroContent {
	return HeroContent{
		Title:               "Discover Amazing Products at Unbeatable Prices",
		Subtitle:            "Welcome to the Future of Shopping",
		Description:         "Shop the latest trends, find unique items, and enjoy a seamless shopping experience with fast delivery and excellent customer service.",
		Images:              []string{},
		ButtonText:          "Shop Now",
		ButtonLink:          "/products",
		SecondaryButtonText: "Create Account",
		SecondaryButtonLink: "/auth?mode=signup",
		IsActive:            true,
	}
}
