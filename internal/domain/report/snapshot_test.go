package report

import (
	"testing"

	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfitLossSnapshot_CategoryWise(t *testing.T) {
	snap, err := NewProfitLossSnapshot(PeriodMonthly, shared.DateRange{}, ProfitLossMetrics{
		TotalRevenue:       dec(50),
		TotalCost:          dec(25),
		TotalExpenses:      dec(10),
		RevenueByCategory:  Breakdown{"Shoes": dec(50)},
		CostByCategory:     Breakdown{"Shoes": dec(20), "Bags": dec(5)},
		ExpensesByPlatform: Breakdown{"Meta": dec(10)},
	}, day0)
	require.NoError(t, err)

	got := snap.CategoryWise()
	require.Len(t, got, 3)

	expect := map[string][4]float64{
		"Shoes": {50, 20, 0, 30},
		"Bags":  {0, 5, 0, -5},
		"Meta":  {0, 0, 10, -10},
	}
	for key, want := range expect {
		row, ok := got[key]
		require.True(t, ok, key)
		assert.True(t, dec(want[0]).Equal(row.Revenue), key)
		assert.True(t, dec(want[1]).Equal(row.Cost), key)
		assert.True(t, dec(want[2]).Equal(row.Expenses), key)
		assert.True(t, dec(want[3]).Equal(row.Profit), key)
	}
}

func TestNewProfitLossSnapshot(t *testing.T) {
	t.Run("rejects unknown period", func(t *testing.T) {
		_, err := NewProfitLossSnapshot(Period("hourly"), shared.DateRange{}, ProfitLossMetrics{}, day0)
		assert.Error(t, err)
	})

	t.Run("copies breakdowns", func(t *testing.T) {
		rev := Breakdown{"Shoes": dec(1)}
		snap, err := NewProfitLossSnapshot(PeriodDaily, shared.DateRange{}, ProfitLossMetrics{RevenueByCategory: rev}, day0)
		require.NoError(t, err)
		rev.Add("Shoes", dec(5))
		assert.True(t, dec(1).Equal(snap.RevenueByCategory.Get("Shoes")))
		assert.NotNil(t, snap.CostByCategory)
	})

	t.Run("profit algebra", func(t *testing.T) {
		snap, err := NewProfitLossSnapshot(PeriodAnnual, shared.DateRange{}, ProfitLossMetrics{
			TotalRevenue:  dec(100.10),
			TotalCost:     dec(40.05),
			TotalExpenses: dec(70),
		}, day0)
		require.NoError(t, err)
		assert.True(t, snap.GrossProfit().Equal(snap.TotalRevenue.Sub(snap.TotalCost)))
		assert.True(t, snap.NetProfit().Equal(snap.GrossProfit().Sub(snap.TotalExpenses)))
		assert.True(t, dec(-9.95).Equal(snap.NetProfit()))
	})
}

func TestSnapshotKey(t *testing.T) {
	r := between(day0, day0.AddDate(0, 1, 0))
	assert.Equal(t, "monthly|-|-", SnapshotKey(PeriodMonthly, shared.DateRange{}))
	assert.Equal(t, SnapshotKey(PeriodWeekly, r), SnapshotKey(PeriodWeekly, between(*r.Start, *r.End)))
	assert.NotEqual(t, SnapshotKey(PeriodWeekly, r), SnapshotKey(PeriodMonthly, r))
}

func TestBreakdown_ZeroDefault(t *testing.T) {
	var b Breakdown
	assert.True(t, b.Get("missing").IsZero())
	assert.True(t, b.Sum().IsZero())
	assert.Empty(t, b.Keys())
}
