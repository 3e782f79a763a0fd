package models

import (
	"time"

	"gorm.io/gorm"
)

type WishlistItem struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_wishlist_user_product" json:"user_id"`
	ProductID string    `gorm:"type:uuid;not null;uniqueIndex:idx_wishlist_user_product" json:"product_id"`
	Product   *Product  `gorm:"constraint:OnDelete:CASCADE" json:"product,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (WishlistItem) TableName() string { return "wishlist_items" }

func (w *WishlistItem) BeforeCreate(tx *gorm.DB) error {
	ensureID(&w.ID)
	return nil
}
