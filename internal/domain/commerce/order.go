package commerce

import (
	"time"

	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the lifecycle status of a customer order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusReturned   OrderStatus = "returned"
	OrderStatusCompleted  OrderStatus = "completed"
)

// IsValid checks if the status is a known OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusReturned, OrderStatusCompleted:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can move to target
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return target == OrderStatusProcessing
	case OrderStatusProcessing:
		return target == OrderStatusShipped || target == OrderStatusCompleted
	case OrderStatusShipped:
		return target == OrderStatusDelivered || target == OrderStatusCompleted
	case OrderStatusDelivered:
		return target == OrderStatusCompleted || target == OrderStatusReturned
	case OrderStatusCompleted:
		return target == OrderStatusReturned
	case OrderStatusReturned:
		return false
	}
	return false
}

// ParseOrderStatus parses a status string
func ParseOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(s)
	if !status.IsValid() {
		return "", shared.NewDomainError("INVALID_STATUS", "unknown order status: "+s)
	}
	return status, nil
}

// LineItem is one product line of an order
type LineItem struct {
	ProductID   uuid.UUID
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
}

// NewLineItem creates a validated line item
func NewLineItem(productID uuid.UUID, productName string, quantity int, unitPrice decimal.Decimal) (LineItem, error) {
	if quantity < 0 {
		return LineItem{}, shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	if unitPrice.IsNegative() {
		return LineItem{}, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	return LineItem{
		ProductID:   productID,
		ProductName: productName,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
	}, nil
}

// Subtotal returns quantity x unit price
func (i LineItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order is a customer sales order
type Order struct {
	shared.BaseEntity
	CustomerID uuid.UUID
	OrderedAt  time.Time
	Status     OrderStatus
	Items      []LineItem
}

// NewOrder creates a pending order
func NewOrder(customerID uuid.UUID, orderedAt time.Time, items []LineItem) (*Order, error) {
	if len(items) == 0 {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order must have at least one item")
	}
	for _, item := range items {
		if item.Quantity < 0 || item.UnitPrice.IsNegative() {
			return nil, shared.NewDomainError("INVALID_ORDER", "Order items must have non-negative quantity and price")
		}
	}
	if orderedAt.IsZero() {
		orderedAt = time.Now()
	}
	return &Order{
		BaseEntity: shared.NewBaseEntity(),
		CustomerID: customerID,
		OrderedAt:  orderedAt,
		Status:     OrderStatusPending,
		Items:      items,
	}, nil
}

// Total returns the sum of all line subtotals
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// ItemCount returns the number of units across all lines
func (o *Order) ItemCount() int {
	n := 0
	for _, item := range o.Items {
		n += item.Quantity
	}
	return n
}

// IsCompleted reports whether the order counts toward revenue
func (o *Order) IsCompleted() bool {
	return o.Status == OrderStatusCompleted
}

// IsReturned reports whether the order was returned
func (o *Order) IsReturned() bool {
	return o.Status == OrderStatusReturned
}

// UpdateStatus moves the order to status
func (o *Order) UpdateStatus(status OrderStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "unknown order status: "+string(status))
	}
	if !o.Status.CanTransitionTo(status) {
		return shared.NewDomainError("INVALID_STATE", "Cannot move order from "+o.Status.String()+" to "+status.String())
	}
	o.Status = status
	o.Touch()
	return nil
}
