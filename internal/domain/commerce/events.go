package commerce

import (
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypePurchase = "Purchase"
	AggregateTypeOrder    = "Order"
)

// Event type constants
const (
	EventTypePurchaseRecorded   = "PurchaseRecorded"
	EventTypeOrderStatusChanged = "OrderStatusChanged"
)

// PurchaseRecordedEvent is raised after a purchase is stored.
// Bookkeeping subscribers consume it.
type PurchaseRecordedEvent struct {
	shared.BaseDomainEvent
	PurchaseID uuid.UUID       `json:"purchase_id"`
	ProductID  uuid.UUID       `json:"product_id"`
	Quantity   int             `json:"quantity"`
	Total      decimal.Decimal `json:"total"`
}

// NewPurchaseRecordedEvent creates a new PurchaseRecordedEvent
func NewPurchaseRecordedEvent(p *Purchase) *PurchaseRecordedEvent {
	return &PurchaseRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseRecorded, AggregateTypePurchase, p.ID),
		PurchaseID:      p.ID,
		ProductID:       p.ProductID,
		Quantity:        p.Quantity,
		Total:           p.EffectiveTotal(),
	}
}

// OrderStatusChangedEvent is raised when an order moves between statuses
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderID uuid.UUID   `json:"order_id"`
	From    OrderStatus `json:"from"`
	To      OrderStatus `json:"to"`
}

// NewOrderStatusChangedEvent creates a new OrderStatusChangedEvent
func NewOrderStatusChangedEvent(orderID uuid.UUID, from, to OrderStatus) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, AggregateTypeOrder, orderID),
		OrderID:         orderID,
		From:            from,
		To:              to,
	}
}
