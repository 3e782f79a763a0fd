package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CartItem is one product line in a user's cart. A user holds at most one
// row per product.
type CartItem struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_cart_user_product" json:"user_id"`
	ProductID string    `gorm:"type:uuid;not null;uniqueIndex:idx_cart_user_product" json:"product_id"`
	Product   *Product  `gorm:"constraint:OnDelete:CASCADE" json:"product,omitempty"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CartItem) TableName() string { return "cart" }

func (i *CartItem) BeforeCreate(tx *gorm.DB) error {
	ensureID(&i.ID)
	return nil
}

// LineTotal is price × quantity, zero when the product is not loaded.
func (i *CartItem) LineTotal() decimal.Decimal {
	if i.Product == nil {
		return decimal.Zero
	}
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type CartSummary struct {
	Items     []CartItem      `json:"items"`
	ItemCount int             `json:"item_count"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// Summarize totals the loaded cart rows.
func Summarize(items []CartItem) CartSummary {
	summary := CartSummary{Items: items, Subtotal: decimal.Zero}
	if summary.Items == nil {
		summary.Items = []CartItem{}
	}
	for i := range items {
		summary.ItemCount += items[i].Quantity
		summary.Subtotal = summary.Subtotal.Add(items[i].LineTotal())
	}
	return summary
}
