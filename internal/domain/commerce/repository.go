package commerce

import (
	"context"

	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// OrderQuery filters orders by date and status.
// An empty Statuses slice matches every status.
type OrderQuery struct {
	Range    shared.DateRange
	Statuses []OrderStatus
}

// CustomerQuery filters customers by account creation time
type CustomerQuery struct {
	CreatedIn shared.DateRange
	IDs       []uuid.UUID
}

// OrderReader queries the order store
type OrderReader interface {
	FindOrders(ctx context.Context, query OrderQuery) ([]Order, error)
}

// OrderWriter persists orders
type OrderWriter interface {
	FindOrderByID(ctx context.Context, id uuid.UUID) (*Order, error)
	SaveOrder(ctx context.Context, order *Order) error
}

// PurchaseReader queries the purchase store
type PurchaseReader interface {
	FindPurchases(ctx context.Context, r shared.DateRange) ([]Purchase, error)
}

// PurchaseWriter persists purchases
type PurchaseWriter interface {
	SavePurchase(ctx context.Context, purchase *Purchase) error
}

// MarketingExpenseReader queries the marketing spend store
type MarketingExpenseReader interface {
	FindMarketingExpenses(ctx context.Context, r shared.DateRange) ([]MarketingExpense, error)
}

// MarketingExpenseWriter persists marketing spend
type MarketingExpenseWriter interface {
	SaveMarketingExpense(ctx context.Context, expense *MarketingExpense) error
}

// ProductReader queries the product catalog
type ProductReader interface {
	FindProducts(ctx context.Context) ([]Product, error)
}

// CustomerReader queries customer accounts
type CustomerReader interface {
	FindCustomers(ctx context.Context, query CustomerQuery) ([]Customer, error)
}

// PaymentReader queries payments created within a range
type PaymentReader interface {
	FindPayments(ctx context.Context, r shared.DateRange) ([]Payment, error)
}

// ShipmentReader queries shipments created within a range
type ShipmentReader interface {
	FindShipments(ctx context.Context, r shared.DateRange) ([]Shipment, error)
}
