package persistence

import (
	"context"
	"fmt"

	"github.com/backoffice/backend/internal/domain/commerce"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPurchaseRepository implements the purchase store using GORM
type GormPurchaseRepository struct {
	db *gorm.DB
}

// NewGormPurchaseRepository creates a new GormPurchaseRepository
func NewGormPurchaseRepository(db *gorm.DB) *GormPurchaseRepository {
	return &GormPurchaseRepository{db: db}
}

// FindPurchases returns purchases made within r
func (r *GormPurchaseRepository) FindPurchases(ctx context.Context, dr shared.DateRange) ([]commerce.Purchase, error) {
	var rows []models.PurchaseModel
	if err := r.db.WithContext(ctx).
		Scopes(withinRange("purchased_at", dr)).
		Order("purchased_at ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query purchases: %w", err)
	}
	out := make([]commerce.Purchase, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// SavePurchase inserts or updates a purchase
func (r *GormPurchaseRepository) SavePurchase(ctx context.Context, purchase *commerce.Purchase) error {
	model := models.PurchaseModelFromDomain(purchase)
	purchase.ID = model.ID
	return r.db.WithContext(ctx).Save(model).Error
}

// GormMarketingExpenseRepository implements the marketing spend store using GORM
type GormMarketingExpenseRepository struct {
	db *gorm.DB
}

// NewGormMarketingExpenseRepository creates a new GormMarketingExpenseRepository
func NewGormMarketingExpenseRepository(db *gorm.DB) *GormMarketingExpenseRepository {
	return &GormMarketingExpenseRepository{db: db}
}

// FindMarketingExpenses returns ad spend recorded within r
func (r *GormMarketingExpenseRepository) FindMarketingExpenses(ctx context.Context, dr shared.DateRange) ([]commerce.MarketingExpense, error) {
	var rows []models.MarketingExpenseModel
	if err := r.db.WithContext(ctx).
		Scopes(withinRange("spent_at", dr)).
		Order("spent_at ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query marketing expenses: %w", err)
	}
	out := make([]commerce.MarketingExpense, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// SaveMarketingExpense inserts or updates a marketing expense
func (r *GormMarketingExpenseRepository) SaveMarketingExpense(ctx context.Context, expense *commerce.MarketingExpense) error {
	model := models.MarketingExpenseModelFromDomain(expense)
	expense.ID = model.ID
	return r.db.WithContext(ctx).Save(model).Error
}
