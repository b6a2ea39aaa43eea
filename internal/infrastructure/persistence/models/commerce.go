package models

import (
	"time"

	"github.com/backoffice/backend/internal/domain/commerce"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderModel is the persistence model for customer orders
type OrderModel struct {
	BaseModel
	CustomerID uuid.UUID            `gorm:"type:uuid;not null;index"`
	OrderedAt  time.Time            `gorm:"not null;index"`
	Status     commerce.OrderStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	Items      []OrderItemModel     `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order
func (m *OrderModel) ToDomain() *commerce.Order {
	items := make([]commerce.LineItem, len(m.Items))
	for i := range m.Items {
		items[i] = m.Items[i].ToDomain()
	}
	return &commerce.Order{
		BaseEntity: m.BaseModel.ToDomain(),
		CustomerID: m.CustomerID,
		OrderedAt:  m.OrderedAt,
		Status:     m.Status,
		Items:      items,
	}
}

// OrderModelFromDomain creates a persistence model from a domain Order
func OrderModelFromDomain(o *commerce.Order) *OrderModel {
	m := &OrderModel{
		CustomerID: o.CustomerID,
		OrderedAt:  o.OrderedAt.UTC(),
		Status:     o.Status,
	}
	m.FromDomainBaseEntity(o.BaseEntity)
	m.Items = make([]OrderItemModel, len(o.Items))
	for i, item := range o.Items {
		m.Items[i] = OrderItemModel{
			ID:          uuid.New(),
			OrderID:     m.ID,
			Position:    i,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		}
	}
	return m
}

// OrderItemModel is one line of an order
type OrderItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position    int             `gorm:"not null;default:0"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName string          `gorm:"type:varchar(200)"`
	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain LineItem
func (m *OrderItemModel) ToDomain() commerce.LineItem {
	return commerce.LineItem{
		ProductID:   m.ProductID,
		ProductName: m.ProductName,
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
	}
}

// PurchaseModel is the persistence model for supplier purchases
type PurchaseModel struct {
	BaseModel
	ProductID   uuid.UUID        `gorm:"type:uuid;not null;index"`
	Quantity    int              `gorm:"not null"`
	UnitPrice   decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	TotalPrice  *decimal.Decimal `gorm:"type:decimal(18,4)"`
	PurchasedAt time.Time        `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (PurchaseModel) TableName() string {
	return "purchases"
}

// ToDomain converts the persistence model to a domain Purchase
func (m *PurchaseModel) ToDomain() *commerce.Purchase {
	return &commerce.Purchase{
		BaseEntity:  m.BaseModel.ToDomain(),
		ProductID:   m.ProductID,
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
		TotalPrice:  m.TotalPrice,
		PurchasedAt: m.PurchasedAt,
	}
}

// PurchaseModelFromDomain creates a persistence model from a domain Purchase
func PurchaseModelFromDomain(p *commerce.Purchase) *PurchaseModel {
	m := &PurchaseModel{
		ProductID:   p.ProductID,
		Quantity:    p.Quantity,
		UnitPrice:   p.UnitPrice,
		TotalPrice:  p.TotalPrice,
		PurchasedAt: p.PurchasedAt.UTC(),
	}
	m.FromDomainBaseEntity(p.BaseEntity)
	return m
}

// MarketingExpenseModel is the persistence model for ad spend
type MarketingExpenseModel struct {
	BaseModel
	Platform string          `gorm:"type:varchar(100);not null;default:'';index"`
	AdSpend  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	SpentAt  time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (MarketingExpenseModel) TableName() string {
	return "marketing_expenses"
}

// ToDomain converts the persistence model to a domain MarketingExpense
func (m *MarketingExpenseModel) ToDomain() *commerce.MarketingExpense {
	return &commerce.MarketingExpense{
		BaseEntity: m.BaseModel.ToDomain(),
		Platform:   m.Platform,
		AdSpend:    m.AdSpend,
		SpentAt:    m.SpentAt,
	}
}

// MarketingExpenseModelFromDomain creates a persistence model from a domain MarketingExpense
func MarketingExpenseModelFromDomain(e *commerce.MarketingExpense) *MarketingExpenseModel {
	m := &MarketingExpenseModel{
		Platform: e.Platform,
		AdSpend:  e.AdSpend,
		SpentAt:  e.SpentAt.UTC(),
	}
	m.FromDomainBaseEntity(e.BaseEntity)
	return m
}

// ProductModel is the persistence model for catalog products
type ProductModel struct {
	BaseModel
	Name     string `gorm:"type:varchar(200);not null"`
	Category string `gorm:"type:varchar(100);not null;default:''"`
	Stock    int    `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product
func (m *ProductModel) ToDomain() *commerce.Product {
	return &commerce.Product{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		Category:   m.Category,
		Stock:      m.Stock,
	}
}

// ProductModelFromDomain creates a persistence model from a domain Product
func ProductModelFromDomain(p *commerce.Product) *ProductModel {
	m := &ProductModel{Name: p.Name, Category: p.Category, Stock: p.Stock}
	m.FromDomainBaseEntity(p.BaseEntity)
	return m
}

// CustomerModel is the persistence model for customer accounts
type CustomerModel struct {
	BaseModel
	Name  string `gorm:"type:varchar(200);not null"`
	Email string `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer
func (m *CustomerModel) ToDomain() *commerce.Customer {
	return &commerce.Customer{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		Email:      m.Email,
	}
}

// CustomerModelFromDomain creates a persistence model from a domain Customer
func CustomerModelFromDomain(c *commerce.Customer) *CustomerModel {
	m := &CustomerModel{Name: c.Name, Email: c.Email}
	m.FromDomainBaseEntity(c.BaseEntity)
	return m
}

// PaymentModel is the persistence model for payments
type PaymentModel struct {
	BaseModel
	OrderID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Method  string          `gorm:"type:varchar(50);not null"`
	Status  string          `gorm:"type:varchar(30);not null"`
	Amount  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Payment
func (m *PaymentModel) ToDomain() *commerce.Payment {
	return &commerce.Payment{
		BaseEntity: m.BaseModel.ToDomain(),
		OrderID:    m.OrderID,
		Method:     m.Method,
		Status:     m.Status,
		Amount:     m.Amount,
	}
}

// PaymentModelFromDomain creates a persistence model from a domain Payment
func PaymentModelFromDomain(p *commerce.Payment) *PaymentModel {
	m := &PaymentModel{OrderID: p.OrderID, Method: p.Method, Status: p.Status, Amount: p.Amount}
	m.FromDomainBaseEntity(p.BaseEntity)
	return m
}

// ShipmentModel is the persistence model for shipments
type ShipmentModel struct {
	BaseModel
	OrderID           uuid.UUID               `gorm:"type:uuid;not null;index"`
	Courier           string                  `gorm:"type:varchar(100);not null"`
	Status            commerce.ShipmentStatus `gorm:"type:varchar(20);not null"`
	EstimatedDelivery time.Time
	ActualDelivery    *time.Time
}

// TableName returns the table name for GORM
func (ShipmentModel) TableName() string {
	return "shipments"
}

// ToDomain converts the persistence model to a domain Shipment
func (m *ShipmentModel) ToDomain() *commerce.Shipment {
	return &commerce.Shipment{
		BaseEntity:        m.BaseModel.ToDomain(),
		OrderID:           m.OrderID,
		Courier:           m.Courier,
		Status:            m.Status,
		EstimatedDelivery: m.EstimatedDelivery,
		ActualDelivery:    m.ActualDelivery,
	}
}

// ShipmentModelFromDomain creates a persistence model from a domain Shipment
func ShipmentModelFromDomain(s *commerce.Shipment) *ShipmentModel {
	m := &ShipmentModel{
		OrderID:           s.OrderID,
		Courier:           s.Courier,
		Status:            s.Status,
		EstimatedDelivery: s.EstimatedDelivery,
		ActualDelivery:    s.ActualDelivery,
	}
	m.FromDomainBaseEntity(s.BaseEntity)
	return m
}
