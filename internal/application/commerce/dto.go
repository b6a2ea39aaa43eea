package commerce

import (
	"time"

	"github.com/backoffice/backend/internal/domain/commerce"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ==================== Order DTOs ====================

// PlaceOrderRequest represents a request to record a customer order
type PlaceOrderRequest struct {
	CustomerID uuid.UUID        `json:"customer_id" binding:"required"`
	OrderedAt  *time.Time       `json:"ordered_at"`
	Items      []OrderItemInput `json:"items" binding:"required,min=1,dive"`
}

// OrderItemInput is one line of PlaceOrderRequest
type OrderItemInput struct {
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	ProductName string          `json:"product_name" binding:"max=200"`
	Quantity    int             `json:"quantity" binding:"min=0"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// UpdateOrderStatusRequest moves an order to a new status
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending processing shipped delivered returned completed"`
}

// OrderResponse represents an order
type OrderResponse struct {
	ID         uuid.UUID           `json:"id"`
	CustomerID uuid.UUID           `json:"customer_id"`
	OrderedAt  time.Time           `json:"ordered_at"`
	Status     string              `json:"status"`
	Total      decimal.Decimal     `json:"total"`
	Items      []OrderItemResponse `json:"items"`
}

// OrderItemResponse represents one order line
type OrderItemResponse struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// ToOrderResponse converts a domain order
func ToOrderResponse(o *commerce.Order) *OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal(),
		}
	}
	return &OrderResponse{
		ID:         o.ID,
		CustomerID: o.CustomerID,
		OrderedAt:  o.OrderedAt,
		Status:     o.Status.String(),
		Total:      o.Total(),
		Items:      items,
	}
}

// ==================== Purchase DTOs ====================

// RecordPurchaseRequest represents a supplier purchase
type RecordPurchaseRequest struct {
	ProductID   uuid.UUID        `json:"product_id" binding:"required"`
	Quantity    int              `json:"quantity" binding:"required,min=1"`
	UnitPrice   decimal.Decimal  `json:"unit_price"`
	TotalPrice  *decimal.Decimal `json:"total_price"`
	PurchasedAt *time.Time       `json:"purchased_at"`
}

// PurchaseResponse represents a stored purchase
type PurchaseResponse struct {
	ID          uuid.UUID        `json:"id"`
	ProductID   uuid.UUID        `json:"product_id"`
	Quantity    int              `json:"quantity"`
	UnitPrice   decimal.Decimal  `json:"unit_price"`
	TotalPrice  *decimal.Decimal `json:"total_price,omitempty"`
	Total       decimal.Decimal  `json:"total"`
	PurchasedAt time.Time        `json:"purchased_at"`
}

// ToPurchaseResponse converts a domain purchase
func ToPurchaseResponse(p *commerce.Purchase) *PurchaseResponse {
	return &PurchaseResponse{
		ID:          p.ID,
		ProductID:   p.ProductID,
		Quantity:    p.Quantity,
		UnitPrice:   p.UnitPrice,
		TotalPrice:  p.TotalPrice,
		Total:       p.EffectiveTotal(),
		PurchasedAt: p.PurchasedAt,
	}
}

// ==================== Marketing DTOs ====================

// RecordMarketingExpenseRequest represents ad spend on a platform
type RecordMarketingExpenseRequest struct {
	Platform string          `json:"platform" binding:"max=100"`
	AdSpend  decimal.Decimal `json:"ad_spend"`
	SpentAt  *time.Time      `json:"spent_at"`
}

// MarketingExpenseResponse represents stored ad spend
type MarketingExpenseResponse struct {
	ID       uuid.UUID       `json:"id"`
	Platform string          `json:"platform"`
	AdSpend  decimal.Decimal `json:"ad_spend"`
	SpentAt  time.Time       `json:"spent_at"`
}

// ToMarketingExpenseResponse converts a domain marketing expense
func ToMarketingExpenseResponse(e *commerce.MarketingExpense) *MarketingExpenseResponse {
	return &MarketingExpenseResponse{
		ID:       e.ID,
		Platform: e.PlatformOrDefault(),
		AdSpend:  e.AdSpend,
		SpentAt:  e.SpentAt,
	}
}

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
