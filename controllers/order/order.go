package orderControllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/junaidrashid-git/storefront-api/controllers"
	"github.com/junaidrashid-git/storefront-api/middleware"
	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/junaidrashid-git/storefront-api/realtime"
	"github.com/junaidrashid-git/storefront-api/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// -------- Request Structs --------
type CheckoutRequest struct {
	ShippingName    string         `json:"shipping_name" binding:"required"`
	ShippingEmail   string         `json:"shipping_email" binding:"required,email"`
	ShippingPhone   string         `json:"shipping_phone"`
	ShippingAddress models.Address `json:"shipping_address"`
	PaymentMethod   string         `json:"payment_method"` // card | cod
	Notes           string         `json:"notes"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required"`
}

// -------- Helpers --------

var (
	// FreeShippingThreshold: subtotals at or above it ship free.
	FreeShippingThreshold = decimal.NewFromInt(50)
	FlatShippingCost      = decimal.RequireFromString("5.00")
)

// ShippingFor returns the shipping charge for an order subtotal.
func ShippingFor(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.IsZero() || subtotal.GreaterThanOrEqual(FreeShippingThreshold) {
		return decimal.Zero
	}
	return FlatShippingCost
}

// Generate unique order reference
func generateOrderRef() string {
	// Example: 20250908130500-<uuid4>
	return time.Now().UTC().Format("20060102150405") + "-" + uuid.NewString()
}

func paymentMethod(s string) (string, error) {
	switch m := strings.ToLower(strings.TrimSpace(s)); m {
	case "":
		return "cod", nil
	case "card", "cod":
		return m, nil
	default:
		return "", fmt.Errorf("unknown payment method %q: %w", s, repository.ErrInvalidInput)
	}
}

// -------- Core Logic --------

// PlaceOrder turns the user's cart into an order in one transaction: the
// products are locked, stock is checked and decremented, prices are
// snapshotted and the cart is emptied. Any failure leaves every row as it
// was.
func PlaceOrder(ctx context.Context, db *gorm.DB, userID string, req CheckoutRequest) (*models.Order, error) {
	method, err := paymentMethod(req.PaymentMethod)
	if err != nil {
		return nil, err
	}

	var order models.Order
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cart []models.CartItem
		if err := tx.Where("user_id = ?", userID).Order("created_at asc").Find(&cart).Error; err != nil {
			return err
		}

		subtotal := decimal.Zero
		items := make([]models.OrderItem, 0, len(cart))

		// 1️⃣ Lock, check and deduct stock per line. Lines whose product left
		// the catalogue are dropped, as the cart view already hides them.
		for _, line := range cart {
			var product models.Product
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&product, "id = ?", line.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue
				}
				return err
			}

			if product.InventoryCount < line.Quantity {
				return fmt.Errorf("insufficient stock for %s: %w", product.Name, repository.ErrNotEnough)
			}

			if err := tx.Model(&product).
				Update("inventory_count", gorm.Expr("inventory_count - ?", line.Quantity)).Error; err != nil {
				return err
			}

			subtotal = subtotal.Add(product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
			items = append(items, models.OrderItem{
				ProductID:    product.ID,
				ProductName:  product.Name,
				ProductImage: product.CoverImage(),
				UnitPrice:    product.Price,
				Quantity:     line.Quantity,
			})
		}

		if len(items) == 0 {
			return repository.ErrEmptyCart
		}

		// 2️⃣ Create the order with its snapshot rows
		shipping := ShippingFor(subtotal)
		order = models.Order{
			OrderRef:        generateOrderRef(),
			UserID:          userID,
			Items:           items,
			Subtotal:        subtotal,
			ShippingCost:    shipping,
			TotalAmount:     subtotal.Add(shipping),
			Status:          models.OrderStatusPending,
			PaymentStatus:   models.PaymentStatusPending,
			PaymentMethod:   method,
			ShippingName:    strings.TrimSpace(req.ShippingName),
			ShippingEmail:   strings.TrimSpace(req.ShippingEmail),
			ShippingPhone:   strings.TrimSpace(req.ShippingPhone),
			ShippingAddress: req.ShippingAddress,
			Notes:           req.Notes,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		// 3️⃣ Empty the cart
		return tx.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// -------- Handlers --------

// POST /user/checkout
// onStockChange, when set, runs after a successful checkout.
func Checkout(db *gorm.DB, hub *realtime.Hub, onStockChange func(context.Context)) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := controllers.CurrentUser(c)
		if !ok {
			return
		}

		var req CheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Shipping name and a valid email are required"})
			return
		}

		order, err := PlaceOrder(c.Request.Context(), db, userID, req)
		if err != nil {
			controllers.RespondError(c, err, "Failed to place order")
			return
		}

		if onStockChange != nil {
			onStockChange(c.Request.Context())
		}
		if hub != nil {
			hub.PublishRecord(realtime.TopicOrders, realtime.EventInsert, order)
		}
		zap.L().Info("order placed",
			zap.String("order_ref", order.OrderRef),
			zap.String("user_id", userID),
			zap.String("total", order.TotalAmount.StringFixed(2)),
		)
		c.JSON(http.StatusCreated, order)
	}
}

// GET /user/orders
func GetMyOrders(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := controllers.CurrentUser(c)
		if !ok {
			return
		}

		orders := []models.Order{}
		if err := db.WithContext(c.Request.Context()).
			Where("user_id = ?", userID).
			Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			controllers.RespondError(c, err, "Failed to fetch orders")
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GetOrder returns one order by id or order_ref. Non-admin callers only
// see their own orders.
func GetOrder(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("orderID")
		q := db.WithContext(c.Request.Context()).
			Preload("Items").
			Where("id = ? OR order_ref = ?", id, id)

		if !c.GetBool(middleware.ContextIsAdmin) {
			userID, ok := controllers.CurrentUser(c)
			if !ok {
				return
			}
			q = q.Where("user_id = ?", userID)
		} else {
			q = q.Preload("User")
		}

		var order models.Order
		if err := q.First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			controllers.RespondError(c, err, "Failed to fetch order")
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// GET /admin/orders?status=
func GetAllOrders(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := db.WithContext(c.Request.Context()).Preload("User").Preload("Items")
		if s := c.Query("status"); s != "" {
			status, err := models.ParseOrderStatus(s)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			q = q.Where("status = ?", status)
		}

		orders := []models.Order{}
		if err := q.Order("created_at DESC").Find(&orders).Error; err != nil {
			controllers.RespondError(c, err, "Failed to fetch orders")
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

func updateOrderField(c *gin.Context, db *gorm.DB, hub *realtime.Hub, column string, value any) {
	ctx := c.Request.Context()
	orderID := c.Param("orderID")

	result := db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", orderID).Update(column, value)
	if result.Error != nil {
		controllers.RespondError(c, result.Error, "Failed to update order")
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}

	var order models.Order
	if err := db.WithContext(ctx).Preload("Items").First(&order, "id = ?", orderID).Error; err != nil {
		controllers.RespondError(c, err, "Failed to fetch order")
		return
	}
	if hub != nil {
		hub.PublishRecord(realtime.TopicOrders, realtime.EventUpdate, order)
	}
	c.JSON(http.StatusOK, order)
}

// PUT /admin/orders/:orderID/status
func UpdateOrderStatus(db *gorm.DB, hub *realtime.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		newStatus, err := models.ParseOrderStatus(req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		updateOrderField(c, db, hub, "status", newStatus)
	}
}

// PUT /admin/orders/:orderID/payment
func UpdatePaymentStatus(db *gorm.DB, hub *realtime.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdatePaymentStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		newStatus, err := models.ParsePaymentStatus(req.PaymentStatus)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		updateOrderField(c, db, hub, "payment_status", newStatus)
	}
}

// DELETE /admin/orders/:orderID
func DeleteOrder(db *gorm.DB, hub *realtime.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("orderID")
		err := db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("order_id = ?", orderID).Delete(&models.OrderItem{}).Error; err != nil {
				return err
			}
			result := tx.Where("id = ?", orderID).Delete(&models.Order{})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return fmt.Errorf("order: %w", repository.ErrNotFound)
			}
			return nil
		})
		if err != nil {
			controllers.RespondError(c, err, "Failed to delete order")
			return
		}
		if hub != nil {
			hub.PublishRecord(realtime.TopicOrders, realtime.EventDelete, gin.H{"id": orderID})
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order deleted successfully"})
	}
}

// Revenue sums total_amount over paid orders.
func Revenue(ctx context.Context, db *gorm.DB) (decimal.Decimal, error) {
	var revenue decimal.Decimal
	row := db.WithContext(ctx).Model(&models.Order{}).
		Select("COALESCE(SUM(total_amount), 0)").
		Where("payment_status = ?", models.PaymentStatusPaid).
		Row()
	if err := row.Scan(&revenue); err != nil {
		return decimal.Zero, err
	}
	return revenue, nil
}

// GET /admin/orders/stats
func OrderStats(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var rows []struct {
			Status models.OrderStatus
			Count  int64
		}
		if err := db.WithContext(ctx).Model(&models.Order{}).
			Select("status, COUNT(*) AS count").
			Group("status").
			Scan(&rows).Error; err != nil {
			controllers.RespondError(c, err, "Failed to compute order stats")
			return
		}

		byStatus := make(map[models.OrderStatus]int64, len(rows))
		var total int64
		for _, r := range rows {
			byStatus[r.Status] = r.Count
			total += r.Count
		}

		revenue, err := Revenue(ctx, db)
		if err != nil {
			controllers.RespondError(c, err, "Failed to compute revenue")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"total_orders": total,
			"by_status":    byStatus,
			"revenue":      revenue,
		})
	}
}
