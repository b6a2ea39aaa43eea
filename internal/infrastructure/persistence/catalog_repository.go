package persistence

import (
	"context"
	"fmt"

	"github.com/backoffice/backend/internal/domain/commerce"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormProductRepository implements the product catalog store using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindProducts returns every product
func (r *GormProductRepository) FindProducts(ctx context.Context) ([]commerce.Product, error) {
	var rows []models.ProductModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	out := make([]commerce.Product, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// SaveProduct inserts or updates a product
func (r *GormProductRepository) SaveProduct(ctx context.Context, product *commerce.Product) error {
	model := models.ProductModelFromDomain(product)
	product.ID = model.ID
	return r.db.WithContext(ctx).Save(model).Error
}

// GormCustomerRepository implements the customer store using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindCustomers returns customers created within the query range,
// optionally restricted to a set of IDs
func (r *GormCustomerRepository) FindCustomers(ctx context.Context, query commerce.CustomerQuery) ([]commerce.Customer, error) {
	var rows []models.CustomerModel
	db := r.db.WithContext(ctx).Scopes(withinRange("created_at", query.CreatedIn))
	if len(query.IDs) > 0 {
		db = db.Where("id IN ?", query.IDs)
	}
	if err := db.Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	out := make([]commerce.Customer, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// SaveCustomer inserts or updates a customer
func (r *GormCustomerRepository) SaveCustomer(ctx context.Context, customer *commerce.Customer) error {
	model := models.CustomerModelFromDomain(customer)
	customer.ID = model.ID
	return r.db.WithContext(ctx).Save(model).Error
}

// GormPaymentRepository implements the payment store using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// FindPayments returns payments created within r
func (r *GormPaymentRepository) FindPayments(ctx context.Context, dr shared.DateRange) ([]commerce.Payment, error) {
	var rows []models.PaymentModel
	if err := r.db.WithContext(ctx).
		Scopes(withinRange("created_at", dr)).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query payments: %w", err)
	}
	out := make([]commerce.Payment, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// SavePayment inserts or updates a payment
func (r *GormPaymentRepository) SavePayment(ctx context.Context, payment *commerce.Payment) error {
	model := models.PaymentModelFromDomain(payment)
	payment.ID = model.ID
	return r.db.WithContext(ctx).Save(model).Error
}

// GormShipmentRepository implements the shipment store using GORM
type GormShipmentRepository struct {
	db *gorm.DB
}

// NewGormShipmentRepository creates a new GormShipmentRepository
func NewGormShipmentRepository(db *gorm.DB) *GormShipmentRepository {
	return &GormShipmentRepository{db: db}
}

// FindShipments returns shipments created within r
func (r *GormShipmentRepository) FindShipments(ctx context.Context, dr shared.DateRange) ([]commerce.Shipment, error) {
	var rows []models.ShipmentModel
	if err := r.db.WithContext(ctx).
		Scopes(withinRange("created_at", dr)).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query shipments: %w", err)
	}
	out := make([]commerce.Shipment, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// SaveShipment inserts or updates a shipment
func (r *GormShipmentRepository) SaveShipment(ctx context.Context, shipment *commerce.Shipment) error {
	model := models.ShipmentModelFromDomain(shipment)
	shipment.ID = model.ID
	return r.db.WithContext(ctx).Save(model).Error
}
