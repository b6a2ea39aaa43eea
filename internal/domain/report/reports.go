package report

import (
	"sort"
	"time"

	"github.com/backoffice/backend/internal/domain/commerce"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	// DefaultTopProductsLimit is used when no positive limit is requested
	DefaultTopProductsLimit = 10
	// DefaultLowStockThreshold marks a product as low on stock below this level
	DefaultLowStockThreshold = 10
	// DefaultLowStockLimit caps the low-stock list
	DefaultLowStockLimit = 10
)

// SalesSummary is the sales report read model
type SalesSummary struct {
	TotalRevenue      decimal.Decimal
	TotalOrders       int64
	ItemsSold         int64
	AverageOrderValue decimal.Decimal
	RevenueByCategory Breakdown
}

// SalesReport summarizes completed orders in r. With a category filter only
// line items of that category count, and an order counts if any of its lines do.
func SalesReport(orders []commerce.Order, catalog commerce.Catalog, r shared.DateRange, category string) SalesSummary {
	out := SalesSummary{TotalRevenue: decimal.Zero, AverageOrderValue: decimal.Zero, RevenueByCategory: Breakdown{}}
	for i := range orders {
		o := &orders[i]
		if !o.IsCompleted() || !r.Contains(o.OrderedAt) {
			continue
		}
		matched := false
		for _, item := range o.Items {
			cat := catalog.CategoryOf(item.ProductID)
			if category != "" && cat != category {
				continue
			}
			matched = true
			out.TotalRevenue = out.TotalRevenue.Add(item.Subtotal())
			out.ItemsSold += int64(item.Quantity)
			out.RevenueByCategory.Add(cat, item.Subtotal())
		}
		if matched {
			out.TotalOrders++
		}
	}
	if out.TotalOrders > 0 {
		out.AverageOrderValue = out.TotalRevenue.Div(decimal.NewFromInt(out.TotalOrders))
	}
	return out
}

// RevenuePoint is one day of the revenue time series
type RevenuePoint struct {
	Date         string // ISO date, no time component
	TotalRevenue decimal.Decimal
	OrderCount   int64
}

// RevenueOverTime buckets completed-order revenue by calendar day in loc,
// ascending. The category filter works at order level: an order whose lines
// include the category contributes its full total.
func RevenueOverTime(orders []commerce.Order, catalog commerce.Catalog, r shared.DateRange, category string, loc *time.Location) []RevenuePoint {
	if loc == nil {
		loc = time.UTC
	}
	buckets := make(map[string]*RevenuePoint)
	for i := range orders {
		o := &orders[i]
		if !o.IsCompleted() || !r.Contains(o.OrderedAt) {
			continue
		}
		if category != "" && !orderHasCategory(o, catalog, category) {
			continue
		}
		day := o.OrderedAt.In(loc).Format(shared.DateLayout)
		p, ok := buckets[day]
		if !ok {
			p = &RevenuePoint{Date: day, TotalRevenue: decimal.Zero}
			buckets[day] = p
		}
		p.TotalRevenue = p.TotalRevenue.Add(o.Total())
		p.OrderCount++
	}

	out := make([]RevenuePoint, 0, len(buckets))
	for _, p := range buckets {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func orderHasCategory(o *commerce.Order, catalog commerce.Catalog, category string) bool {
	for _, item := range o.Items {
		if catalog.CategoryOf(item.ProductID) == category {
			return true
		}
	}
	return false
}

// ProductPerformance is one row of the top products report
type ProductPerformance struct {
	ProductName   string
	TotalQuantity int64
	TotalRevenue  decimal.Decimal
	OrderCount    int64
}

// TopProducts ranks products of completed orders by revenue, highest first.
// The category filter applies per line item. A non-positive limit means
// DefaultTopProductsLimit.
func TopProducts(orders []commerce.Order, catalog commerce.Catalog, r shared.DateRange, category string, limit int) []ProductPerformance {
	if limit <= 0 {
		limit = DefaultTopProductsLimit
	}
	rows := make(map[string]*ProductPerformance)
	for i := range orders {
		o := &orders[i]
		if !o.IsCompleted() || !r.Contains(o.OrderedAt) {
			continue
		}
		counted := make(map[string]bool)
		for _, item := range o.Items {
			if category != "" && catalog.CategoryOf(item.ProductID) != category {
				continue
			}
			name := catalog.NameOf(item.ProductID, item.ProductName)
			row, ok := rows[name]
			if !ok {
				row = &ProductPerformance{ProductName: name, TotalRevenue: decimal.Zero}
				rows[name] = row
			}
			row.TotalQuantity += int64(item.Quantity)
			row.TotalRevenue = row.TotalRevenue.Add(item.Subtotal())
			if !counted[name] {
				row.OrderCount++
				counted[name] = true
			}
		}
	}

	out := make([]ProductPerformance, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].TotalRevenue.Cmp(out[j].TotalRevenue); c != 0 {
			return c > 0
		}
		return out[i].ProductName < out[j].ProductName
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// CustomerActivity is the per-customer aggregate within a range
type CustomerActivity struct {
	CustomerID    uuid.UUID
	OrderCount    int64
	TotalSpent    decimal.Decimal
	LastOrderDate time.Time
}

// CustomerSummary is the customers report read model
type CustomerSummary struct {
	CustomerCount      int64
	AvgOrderCount      decimal.Decimal
	AvgTotalSpent      decimal.Decimal
	TotalRevenue       decimal.Decimal
	NewCustomers       int64
	ReturningCustomers int64
	Customers          []CustomerActivity
}

// CustomerAnalytics aggregates every order placed in r per customer, then rolls
// the customers up. New customers are accounts created within r. Returning
// customers ordered within r and had an account before r started; with an
// open start nothing predates the range, so there are none.
func CustomerAnalytics(orders []commerce.Order, customers []commerce.Customer, r shared.DateRange) CustomerSummary {
	out := CustomerSummary{AvgOrderCount: decimal.Zero, AvgTotalSpent: decimal.Zero, TotalRevenue: decimal.Zero}

	activity := make(map[uuid.UUID]*CustomerActivity)
	for i := range orders {
		o := &orders[i]
		if !r.Contains(o.OrderedAt) {
			continue
		}
		a, ok := activity[o.CustomerID]
		if !ok {
			a = &CustomerActivity{CustomerID: o.CustomerID, TotalSpent: decimal.Zero}
			activity[o.CustomerID] = a
		}
		a.OrderCount++
		a.TotalSpent = a.TotalSpent.Add(o.Total())
		if o.OrderedAt.After(a.LastOrderDate) {
			a.LastOrderDate = o.OrderedAt
		}
	}

	var orderCount int64
	for _, a := range activity {
		out.Customers = append(out.Customers, *a)
		orderCount += a.OrderCount
		out.TotalRevenue = out.TotalRevenue.Add(a.TotalSpent)
	}
	sort.Slice(out.Customers, func(i, j int) bool {
		if c := out.Customers[i].TotalSpent.Cmp(out.Customers[j].TotalSpent); c != 0 {
			return c > 0
		}
		return out.Customers[i].CustomerID.String() < out.Customers[j].CustomerID.String()
	})
	out.CustomerCount = int64(len(activity))
	if out.CustomerCount > 0 {
		n := decimal.NewFromInt(out.CustomerCount)
		out.AvgOrderCount = decimal.NewFromInt(orderCount).Div(n)
		out.AvgTotalSpent = out.TotalRevenue.Div(n)
	}

	for i := range customers {
		c := &customers[i]
		if r.Contains(c.CreatedAt) {
			out.NewCustomers++
		}
		if r.Start != nil && activity[c.ID] != nil && c.ExistedBefore(*r.Start) {
			out.ReturningCustomers++
		}
	}
	return out
}

// LowStockItem is a product below the stock threshold
type LowStockItem struct {
	ProductID uuid.UUID
	Name      string
	Category  string
	Stock     int
}

// InventorySummary is the inventory report read model
type InventorySummary struct {
	TotalProducts   int64
	TotalCategories int64
	LowStockCount   int64
	LowStock        []LowStockItem
}

// InventoryInsights lists products with stock below threshold, lowest first,
// capped at limit, and counts products and distinct categories.
func InventoryInsights(products []commerce.Product, threshold, limit int) InventorySummary {
	if threshold <= 0 {
		threshold = DefaultLowStockThreshold
	}
	if limit <= 0 {
		limit = DefaultLowStockLimit
	}
	out := InventorySummary{LowStock: []LowStockItem{}}
	categories := make(map[string]struct{})
	for i := range products {
		p := &products[i]
		out.TotalProducts++
		categories[p.CategoryOrDefault()] = struct{}{}
		if p.Stock < threshold {
			out.LowStockCount++
			out.LowStock = append(out.LowStock, LowStockItem{
				ProductID: p.ID,
				Name:      p.Name,
				Category:  p.CategoryOrDefault(),
				Stock:     p.Stock,
			})
		}
	}
	out.TotalCategories = int64(len(categories))
	sort.SliceStable(out.LowStock, func(i, j int) bool {
		if out.LowStock[i].Stock != out.LowStock[j].Stock {
			return out.LowStock[i].Stock < out.LowStock[j].Stock
		}
		return out.LowStock[i].Name < out.LowStock[j].Name
	})
	if len(out.LowStock) > limit {
		out.LowStock = out.LowStock[:limit]
	}
	return out
}

// MethodTotals aggregates payments of one method
type MethodTotals struct {
	Count       int64
	TotalAmount decimal.Decimal
}

// PaymentSummary is the payments report read model
type PaymentSummary struct {
	ByMethod map[string]MethodTotals
	ByStatus map[string]int64
}

// PaymentDistribution groups payments created in r by method and by status
func PaymentDistribution(payments []commerce.Payment, r shared.DateRange) PaymentSummary {
	out := PaymentSummary{ByMethod: map[string]MethodTotals{}, ByStatus: map[string]int64{}}
	for i := range payments {
		p := &payments[i]
		if !r.Contains(p.CreatedAt) {
			continue
		}
		m := out.ByMethod[p.Method]
		m.Count++
		m.TotalAmount = m.TotalAmount.Add(p.Amount)
		out.ByMethod[p.Method] = m
		out.ByStatus[p.Status]++
	}
	return out
}

// CourierPerformance aggregates shipments of one courier
type CourierPerformance struct {
	Count             int64
	AvgDeliveryTimeMs int64 // mean of actual minus estimated delivery over delivered shipments
	Completed         int64
	Pending           int64
}

// ShippingSummary is the shipping report read model
type ShippingSummary struct {
	ByCourier        map[string]CourierPerformance
	PendingShipments int64
}

// ShippingPerformance groups shipments created in r by courier
func ShippingPerformance(shipments []commerce.Shipment, r shared.DateRange) ShippingSummary {
	type acc struct {
		perf  CourierPerformance
		delay time.Duration
		timed int64
	}
	byCourier := make(map[string]*acc)
	out := ShippingSummary{ByCourier: map[string]CourierPerformance{}}
	for i := range shipments {
		s := &shipments[i]
		if !r.Contains(s.CreatedAt) {
			continue
		}
		a, ok := byCourier[s.Courier]
		if !ok {
			a = &acc{}
			byCourier[s.Courier] = a
		}
		a.perf.Count++
		switch {
		case s.Status == commerce.ShipmentStatusDelivered:
			a.perf.Completed++
		case s.Status.IsOpen():
			a.perf.Pending++
			out.PendingShipments++
		}
		if d, ok := s.DeliveryDelay(); ok {
			a.delay += d
			a.timed++
		}
	}
	for courier, a := range byCourier {
		if a.timed > 0 {
			a.perf.AvgDeliveryTimeMs = (a.delay / time.Duration(a.timed)).Milliseconds()
		}
		out.ByCourier[courier] = a.perf
	}
	return out
}

// RefundSummary is the refunds report read model
type RefundSummary struct {
	TotalRefunds      int64
	TotalRefundAmount decimal.Decimal
	AvgRefundAmount   decimal.Decimal
}

// RefundsSummary totals returned orders placed in r
func RefundsSummary(orders []commerce.Order, r shared.DateRange) RefundSummary {
	out := RefundSummary{TotalRefundAmount: decimal.Zero, AvgRefundAmount: decimal.Zero}
	for i := range orders {
		o := &orders[i]
		if !o.IsReturned() || !r.Contains(o.OrderedAt) {
			continue
		}
		out.TotalRefunds++
		out.TotalRefundAmount = out.TotalRefundAmount.Add(o.Total())
	}
	if out.TotalRefunds > 0 {
		out.AvgRefundAmount = out.TotalRefundAmount.Div(decimal.NewFromInt(out.TotalRefunds))
	}
	return out
}
