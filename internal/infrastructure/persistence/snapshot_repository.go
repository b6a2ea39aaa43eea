package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/backoffice/backend/internal/domain/report"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSnapshotRepository implements report.SnapshotRepository using GORM.
// It only ever inserts; there is no update or delete path.
type GormSnapshotRepository struct {
	db *gorm.DB
}

// NewGormSnapshotRepository creates a new GormSnapshotRepository
func NewGormSnapshotRepository(db *gorm.DB) *GormSnapshotRepository {
	return &GormSnapshotRepository{db: db}
}

// Insert appends a snapshot with a single INSERT
func (r *GormSnapshotRepository) Insert(ctx context.Context, snapshot *report.ProfitLossSnapshot) error {
	if err := r.db.WithContext(ctx).Create(models.ProfitLossSnapshotModelFromDomain(snapshot)).Error; err != nil {
		return fmt.Errorf("failed to insert profit/loss snapshot: %w", err)
	}
	return nil
}

// FindLatest returns the newest snapshot matching criteria
func (r *GormSnapshotRepository) FindLatest(ctx context.Context, criteria report.SnapshotCriteria) (*report.ProfitLossSnapshot, error) {
	var row models.ProfitLossSnapshotModel
	err := r.db.WithContext(ctx).
		Scopes(matchCriteria(criteria)).
		Order("created_at DESC").
		Order("id DESC").
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to look up profit/loss snapshot: %w", err)
	}
	return row.ToDomain(), nil
}

// List returns snapshots newest first
func (r *GormSnapshotRepository) List(ctx context.Context, query report.SnapshotQuery) ([]report.ProfitLossSnapshot, error) {
	var rows []models.ProfitLossSnapshotModel
	db := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC")
	if query.Period != "" {
		db = db.Where("period = ?", query.Period)
	}
	if query.Limit > 0 {
		db = db.Limit(query.Limit)
	}
	if err := db.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list profit/loss snapshots: %w", err)
	}
	out := make([]report.ProfitLossSnapshot, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

func matchCriteria(c report.SnapshotCriteria) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where("period = ?", c.Period)
		if c.Range != nil {
			db = db.Where("range_key = ?", c.Range.Key())
		}
		return db
	}
}
