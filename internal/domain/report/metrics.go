package report

import (
	"github.com/backoffice/backend/internal/domain/commerce"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// The functions below are the metric functions behind every report.
// They take already loaded records, filter them by range themselves, never
// fail and return zero values when nothing matches.

// TotalRevenue sums line subtotals of completed orders placed within r
func TotalRevenue(orders []commerce.Order, r shared.DateRange) decimal.Decimal {
	total := decimal.Zero
	for i := range orders {
		o := &orders[i]
		if !o.IsCompleted() || !r.Contains(o.OrderedAt) {
			continue
		}
		total = total.Add(o.Total())
	}
	return total
}

// TotalCost sums the effective total of every purchase within r.
// Purchases carry no status and are all counted.
func TotalCost(purchases []commerce.Purchase, r shared.DateRange) decimal.Decimal {
	total := decimal.Zero
	for i := range purchases {
		if r.Contains(purchases[i].PurchasedAt) {
			total = total.Add(purchases[i].EffectiveTotal())
		}
	}
	return total
}

// TotalExpenses sums ad spend within r
func TotalExpenses(expenses []commerce.MarketingExpense, r shared.DateRange) decimal.Decimal {
	total := decimal.Zero
	for i := range expenses {
		if r.Contains(expenses[i].SpentAt) {
			total = total.Add(expenses[i].AdSpend)
		}
	}
	return total
}

// RevenueByCategory groups completed-order revenue by product category
func RevenueByCategory(orders []commerce.Order, catalog commerce.Catalog, r shared.DateRange) Breakdown {
	out := Breakdown{}
	for i := range orders {
		o := &orders[i]
		if !o.IsCompleted() || !r.Contains(o.OrderedAt) {
			continue
		}
		for _, item := range o.Items {
			out.Add(catalog.CategoryOf(item.ProductID), item.Subtotal())
		}
	}
	return out
}

// CostByCategory groups purchase cost by product category
func CostByCategory(purchases []commerce.Purchase, catalog commerce.Catalog, r shared.DateRange) Breakdown {
	out := Breakdown{}
	for i := range purchases {
		p := &purchases[i]
		if !r.Contains(p.PurchasedAt) {
			continue
		}
		out.Add(catalog.CategoryOf(p.ProductID), p.EffectiveTotal())
	}
	return out
}

// ExpensesByPlatform groups ad spend by marketing platform
func ExpensesByPlatform(expenses []commerce.MarketingExpense, r shared.DateRange) Breakdown {
	out := Breakdown{}
	for i := range expenses {
		e := &expenses[i]
		if !r.Contains(e.SpentAt) {
			continue
		}
		out.Add(e.PlatformOrDefault(), e.AdSpend)
	}
	return out
}

// ComputeProfitLoss runs all profit/loss metric functions over one record set
func ComputeProfitLoss(
	orders []commerce.Order,
	purchases []commerce.Purchase,
	expenses []commerce.MarketingExpense,
	catalog commerce.Catalog,
	r shared.DateRange,
) ProfitLossMetrics {
	return ProfitLossMetrics{
		TotalRevenue:       TotalRevenue(orders, r),
		TotalCost:          TotalCost(purchases, r),
		TotalExpenses:      TotalExpenses(expenses, r),
		RevenueByCategory:  RevenueByCategory(orders, catalog, r),
		CostByCategory:     CostByCategory(purchases, catalog, r),
		ExpensesByPlatform: ExpensesByPlatform(expenses, r),
	}
}
