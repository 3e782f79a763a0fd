package models

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderStatus string
type PaymentStatus string

const (
	OrderStatusPending     OrderStatus = "pending"       // placed, awaiting confirmation
	OrderStatusConfirmed   OrderStatus = "confirmed"     // confirmed by the store
	OrderStatusReadyToShip OrderStatus = "ready_to_ship" // packed
	OrderStatusShipped     OrderStatus = "shipped"       // out for delivery
	OrderStatusDelivered   OrderStatus = "delivered"
	OrderStatusReturned    OrderStatus = "returned"
	OrderStatusCancelled   OrderStatus = "cancelled" // before shipping

	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

var (
	ErrInvalidOrderStatus   = errors.New("invalid order status")
	ErrInvalidPaymentStatus = errors.New("invalid payment status")
)

// ParseOrderStatus maps free text (any case) onto a known status.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch st := OrderStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusReadyToShip,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusReturned, OrderStatusCancelled:
		return st, nil
	default:
		return "", ErrInvalidOrderStatus
	}
}

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch st := PaymentStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusRefunded:
		return st, nil
	default:
		return "", ErrInvalidPaymentStatus
	}
}

type Order struct {
	ID              string          `gorm:"type:uuid;primaryKey" json:"id"`
	OrderRef        string          `gorm:"uniqueIndex;not null" json:"order_ref"`
	UserID          string          `gorm:"type:uuid;not null;index" json:"user_id"`
	User            *User           `gorm:"constraint:OnDelete:SET NULL" json:"user,omitempty"`
	Items           []OrderItem     `gorm:"constraint:OnDelete:CASCADE" json:"items"`
	Subtotal        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"subtotal"`
	ShippingCost    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"shipping_cost"`
	TotalAmount     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_amount"`
	Status          OrderStatus     `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	PaymentStatus   PaymentStatus   `gorm:"type:VARCHAR(20);default:'pending'" json:"payment_status"`
	PaymentMethod   string          `json:"payment_method"` // card, cod
	ShippingName    string          `json:"shipping_name"`
	ShippingEmail   string          `json:"shipping_email"`
	ShippingPhone   string          `json:"shipping_phone"`
	ShippingAddress Address         `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping_address"`
	Notes           string          `json:"notes"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	ensureID(&o.ID)
	return nil
}

// OrderItem snapshots the product at the time of purchase.
type OrderItem struct {
	ID           string          `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID      string          `gorm:"type:uuid;index;not null" json:"order_id"`
	ProductID    string          `gorm:"type:uuid;not null" json:"product_id"`
	ProductName  string          `json:"product_name"`
	ProductImage string          `json:"product_image"`
	UnitPrice    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price"`
	Quantity     int             `gorm:"not null" json:"quantity"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	ensureID(&i.ID)
	return nil
}
