package report

import (
	"context"
	"time"

	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProfitLossMetrics are the aggregated inputs of one profit/loss generation
type ProfitLossMetrics struct {
	TotalRevenue       decimal.Decimal
	TotalCost          decimal.Decimal
	TotalExpenses      decimal.Decimal
	RevenueByCategory  Breakdown
	CostByCategory     Breakdown
	ExpensesByPlatform Breakdown
}

// ProfitLossSnapshot is a persisted, immutable profit/loss result.
// Gross and net profit are derived from the totals and never stored on their own.
type ProfitLossSnapshot struct {
	ID                 uuid.UUID
	Period             Period
	Range              shared.DateRange
	TotalRevenue       decimal.Decimal
	TotalCost          decimal.Decimal
	TotalExpenses      decimal.Decimal
	RevenueByCategory  Breakdown
	CostByCategory     Breakdown
	ExpensesByPlatform Breakdown
	CreatedAt          time.Time
}

// NewProfitLossSnapshot assembles a snapshot from fully computed metrics
func NewProfitLossSnapshot(period Period, r shared.DateRange, m ProfitLossMetrics, createdAt time.Time) (*ProfitLossSnapshot, error) {
	if !period.IsValid() {
		return nil, shared.NewDomainError("INVALID_PERIOD", "invalid period: "+string(period))
	}
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	return &ProfitLossSnapshot{
		ID:                 uuid.New(),
		Period:             period,
		Range:              r,
		TotalRevenue:       m.TotalRevenue,
		TotalCost:          m.TotalCost,
		TotalExpenses:      m.TotalExpenses,
		RevenueByCategory:  m.RevenueByCategory.Clone(),
		CostByCategory:     m.CostByCategory.Clone(),
		ExpensesByPlatform: m.ExpensesByPlatform.Clone(),
		CreatedAt:          createdAt,
	}, nil
}

// GrossProfit returns revenue minus cost
func (s *ProfitLossSnapshot) GrossProfit() decimal.Decimal {
	return s.TotalRevenue.Sub(s.TotalCost)
}

// NetProfit returns gross profit minus expenses
func (s *ProfitLossSnapshot) NetProfit() decimal.Decimal {
	return s.GrossProfit().Sub(s.TotalExpenses)
}

// Key returns the snapshot's identity key
func (s *ProfitLossSnapshot) Key() string {
	return SnapshotKey(s.Period, s.Range)
}

// SnapshotKey is the normalized identity of a (period, range) request
func SnapshotKey(period Period, r shared.DateRange) string {
	return string(period) + "|" + r.Key()
}

// CategoryProfitLoss is the per-key row of a category-wise view
type CategoryProfitLoss struct {
	Revenue  decimal.Decimal
	Cost     decimal.Decimal
	Expenses decimal.Decimal
	Profit   decimal.Decimal
}

// CategoryWise merges the three breakdowns of a snapshot into one table.
// Category keys and platform keys stay distinct; a key missing from a
// breakdown contributes zero to that column.
func (s *ProfitLossSnapshot) CategoryWise() map[string]CategoryProfitLoss {
	out := make(map[string]CategoryProfitLoss)
	for _, b := range []Breakdown{s.RevenueByCategory, s.CostByCategory, s.ExpensesByPlatform} {
		for key := range b {
			if _, seen := out[key]; seen {
				continue
			}
			revenue := s.RevenueByCategory.Get(key)
			cost := s.CostByCategory.Get(key)
			expenses := s.ExpensesByPlatform.Get(key)
			out[key] = CategoryProfitLoss{
				Revenue:  revenue,
				Cost:     cost,
				Expenses: expenses,
				Profit:   revenue.Sub(cost).Sub(expenses),
			}
		}
	}
	return out
}

// SnapshotSource tells a caller whether a snapshot was looked up or freshly built
type SnapshotSource string

const (
	SnapshotFound     SnapshotSource = "found"
	SnapshotGenerated SnapshotSource = "generated"
)

// SnapshotResult is the outcome of lookup-or-generate
type SnapshotResult struct {
	Snapshot *ProfitLossSnapshot
	Source   SnapshotSource
}

// Found wraps a looked-up snapshot
func Found(s *ProfitLossSnapshot) *SnapshotResult {
	return &SnapshotResult{Snapshot: s, Source: SnapshotFound}
}

// Generated wraps a freshly generated snapshot
func Generated(s *ProfitLossSnapshot) *SnapshotResult {
	return &SnapshotResult{Snapshot: s, Source: SnapshotGenerated}
}

// SnapshotCriteria selects snapshots for lookup.
// A nil Range matches on period alone.
type SnapshotCriteria struct {
	Period Period
	Range  *shared.DateRange
}

// SnapshotQuery lists snapshot history
type SnapshotQuery struct {
	Period Period // empty matches every period
	Limit  int
}

// SnapshotRepository is the append-only snapshot store
type SnapshotRepository interface {
	// Insert appends a snapshot. Snapshots are never updated.
	Insert(ctx context.Context, snapshot *ProfitLossSnapshot) error

	// FindLatest returns the most recently created snapshot matching criteria,
	// or shared.ErrNotFound
	FindLatest(ctx context.Context, criteria SnapshotCriteria) (*ProfitLossSnapshot, error)

	// List returns snapshots newest first
	List(ctx context.Context, query SnapshotQuery) ([]ProfitLossSnapshot, error)
}
