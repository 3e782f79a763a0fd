package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID             string           `gorm:"type:uuid;primaryKey" json:"id"`
	Name           string           `gorm:"not null" json:"name"`
	Description    string           `json:"description"`
	Price          decimal.Decimal  `gorm:"type:numeric(12,2);not null" json:"price"`
	ComparePrice   *decimal.Decimal `gorm:"type:numeric(12,2)" json:"compare_price"`
	Images         []string         `gorm:"type:text;serializer:json" json:"images"` // ordered, first is the cover
	InventoryCount int              `gorm:"not null;default:0" json:"inventory_count"`
	CategoryID     *string          `gorm:"type:uuid;index" json:"category_id"`
	Category       *Category        `gorm:"constraint:OnDelete:SET NULL" json:"category,omitempty"`
	IsFeatured     bool             `gorm:"default:false" json:"is_featured"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
	DeletedAt      gorm.DeletedAt   `gorm:"index" json:"-"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	ensureID(&p.ID)
	if p.Images == nil {
		p.Images = []string{}
	}
	return nil
}

// InStock reports whether at least one unit can be sold.
func (p *Product) InStock() bool {
	return p.InventoryCount > 0
}

// CoverImage returns the first image URL or "".
func (p *Product) CoverImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}
