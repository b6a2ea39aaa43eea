package models

import (
	"time"

	"github.com/backoffice/backend/internal/domain/report"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// ProfitLossSnapshotModel is the persistence model for profit/loss snapshots.
// Rows are insert-only. GrossProfit and NetProfit are written for SQL readers
// and ignored on load.
type ProfitLossSnapshotModel struct {
	ID                 uuid.UUID                            `gorm:"type:uuid;primary_key"`
	Period             report.Period                        `gorm:"type:varchar(20);not null;index:idx_pl_snapshot_lookup,priority:1"`
	RangeKey           string                               `gorm:"type:varchar(100);not null;index:idx_pl_snapshot_lookup,priority:2"`
	RangeStart         *time.Time
	RangeEnd           *time.Time
	TotalRevenue       decimal.Decimal                      `gorm:"type:decimal(18,4);not null"`
	TotalCost          decimal.Decimal                      `gorm:"type:decimal(18,4);not null"`
	TotalExpenses      decimal.Decimal                      `gorm:"type:decimal(18,4);not null"`
	GrossProfit        decimal.Decimal                      `gorm:"type:decimal(18,4);not null"`
	NetProfit          decimal.Decimal                      `gorm:"type:decimal(18,4);not null"`
	RevenueByCategory  datatypes.JSONType[report.Breakdown] `gorm:"not null"`
	CostByCategory     datatypes.JSONType[report.Breakdown] `gorm:"not null"`
	ExpensesByPlatform datatypes.JSONType[report.Breakdown] `gorm:"not null"`
	CreatedAt          time.Time                            `gorm:"not null;index:idx_pl_snapshot_lookup,priority:3"`
}

// TableName returns the table name for GORM
func (ProfitLossSnapshotModel) TableName() string {
	return "profit_loss_snapshots"
}

// ToDomain converts the persistence model to a domain snapshot
func (m *ProfitLossSnapshotModel) ToDomain() *report.ProfitLossSnapshot {
	return &report.ProfitLossSnapshot{
		ID:                 m.ID,
		Period:             m.Period,
		Range:              shared.DateRange{Start: m.RangeStart, End: m.RangeEnd},
		TotalRevenue:       m.TotalRevenue,
		TotalCost:          m.TotalCost,
		TotalExpenses:      m.TotalExpenses,
		RevenueByCategory:  breakdownOrEmpty(m.RevenueByCategory.Data()),
		CostByCategory:     breakdownOrEmpty(m.CostByCategory.Data()),
		ExpensesByPlatform: breakdownOrEmpty(m.ExpensesByPlatform.Data()),
		CreatedAt:          m.CreatedAt,
	}
}

// ProfitLossSnapshotModelFromDomain creates a persistence model from a domain snapshot
func ProfitLossSnapshotModelFromDomain(s *report.ProfitLossSnapshot) *ProfitLossSnapshotModel {
	return &ProfitLossSnapshotModel{
		ID:                 s.ID,
		Period:             s.Period,
		RangeKey:           s.Range.Key(),
		RangeStart:         utcPtr(s.Range.Start),
		RangeEnd:           utcPtr(s.Range.End),
		TotalRevenue:       s.TotalRevenue,
		TotalCost:          s.TotalCost,
		TotalExpenses:      s.TotalExpenses,
		GrossProfit:        s.GrossProfit(),
		NetProfit:          s.NetProfit(),
		RevenueByCategory:  datatypes.NewJSONType(breakdownOrEmpty(s.RevenueByCategory)),
		CostByCategory:     datatypes.NewJSONType(breakdownOrEmpty(s.CostByCategory)),
		ExpensesByPlatform: datatypes.NewJSONType(breakdownOrEmpty(s.ExpensesByPlatform)),
		CreatedAt:          s.CreatedAt.UTC(),
	}
}

func breakdownOrEmpty(b report.Breakdown) report.Breakdown {
	if b == nil {
		return report.Breakdown{}
	}
	return b
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
