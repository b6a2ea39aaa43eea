package commerce

import (
	"time"

	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment is a payment attempt against an order
type Payment struct {
	shared.BaseEntity
	OrderID uuid.UUID
	Method  string
	Status  string
	Amount  decimal.Decimal
}

// ShipmentStatus represents where a shipment is
type ShipmentStatus string

const (
	ShipmentStatusPending   ShipmentStatus = "pending"
	ShipmentStatusShipped   ShipmentStatus = "shipped"
	ShipmentStatusDelivered ShipmentStatus = "delivered"
	ShipmentStatusReturned  ShipmentStatus = "returned"
)

// IsOpen reports whether the shipment still awaits delivery
func (s ShipmentStatus) IsOpen() bool {
	return s == ShipmentStatusPending || s == ShipmentStatusShipped
}

// Shipment is the carrier leg of an order
type Shipment struct {
	shared.BaseEntity
	OrderID           uuid.UUID
	Courier           string
	Status            ShipmentStatus
	EstimatedDelivery time.Time
	ActualDelivery    *time.Time
}

// DeliveryDelay returns actual minus estimated delivery, if delivered
func (s *Shipment) DeliveryDelay() (time.Duration, bool) {
	if s.ActualDelivery == nil || s.EstimatedDelivery.IsZero() {
		return 0, false
	}
	return s.ActualDelivery.Sub(s.EstimatedDelivery), true
}
