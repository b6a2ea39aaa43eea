package commerce

import (
	"time"

	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Purchase is a supplier purchase of stock
type Purchase struct {
	shared.BaseEntity
	ProductID   uuid.UUID
	Quantity    int
	UnitPrice   decimal.Decimal
	TotalPrice  *decimal.Decimal // optional; derived from quantity x unit price when nil
	PurchasedAt time.Time
}

// NewPurchase creates a validated purchase record
func NewPurchase(productID uuid.UUID, quantity int, unitPrice decimal.Decimal, totalPrice *decimal.Decimal, purchasedAt time.Time) (*Purchase, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity < 1 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if totalPrice != nil && totalPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Total price cannot be negative")
	}
	if purchasedAt.IsZero() {
		purchasedAt = time.Now()
	}
	return &Purchase{
		BaseEntity:  shared.NewBaseEntity(),
		ProductID:   productID,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		TotalPrice:  totalPrice,
		PurchasedAt: purchasedAt,
	}, nil
}

// EffectiveTotal returns the recorded total, or quantity x unit price when absent
func (p *Purchase) EffectiveTotal() decimal.Decimal {
	if p.TotalPrice != nil {
		return *p.TotalPrice
	}
	return p.UnitPrice.Mul(decimal.NewFromInt(int64(p.Quantity)))
}
