package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/backoffice/backend/internal/domain/commerce"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOrderRepository implements the order reader and writer using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindOrders returns orders placed within the query range, with their items
func (r *GormOrderRepository) FindOrders(ctx context.Context, query commerce.OrderQuery) ([]commerce.Order, error) {
	var rows []models.OrderModel
	db := r.db.WithContext(ctx).
		Scopes(withinRange("ordered_at", query.Range)).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") })
	if len(query.Statuses) > 0 {
		db = db.Where("status IN ?", query.Statuses)
	}
	if err := db.Order("ordered_at ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}

	orders := make([]commerce.Order, len(rows))
	for i := range rows {
		orders[i] = *rows[i].ToDomain()
	}
	return orders, nil
}

// FindOrderByID finds an order by ID
func (r *GormOrderRepository) FindOrderByID(ctx context.Context, id uuid.UUID) (*commerce.Order, error) {
	var row models.OrderModel
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return row.ToDomain(), nil
}

// SaveOrder creates or updates an order and replaces its items
func (r *GormOrderRepository) SaveOrder(ctx context.Context, order *commerce.Order) error {
	model := models.OrderModelFromDomain(order)
	order.ID = model.ID
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(model).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", model.ID).Delete(&models.OrderItemModel{}).Error; err != nil {
			return err
		}
		if len(model.Items) == 0 {
			return nil
		}
		return tx.Create(&model.Items).Error
	})
}
