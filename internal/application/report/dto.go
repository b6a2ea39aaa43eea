package report

import (
	"time"

	"github.com/backoffice/backend/internal/domain/report"
	"github.com/shopspring/decimal"
)

// ===================== Requests =====================

// ProfitLossRequest selects a profit/loss snapshot
type ProfitLossRequest struct {
	Period    string `json:"period" form:"period" binding:"required"`
	StartDate string `json:"start_date" form:"start_date"`
	EndDate   string `json:"end_date" form:"end_date"`
}

// SnapshotListFilter filters the snapshot history
type SnapshotListFilter struct {
	Period string `form:"period"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

// ReportFilter is the common filter of the read-only reports.
// Category applies to sales, revenue-over-time and top-products only.
type ReportFilter struct {
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	Category  string `form:"category"`
	Limit     int    `form:"limit" binding:"omitempty,min=0"`
}

// ===================== Profit / Loss =====================

// ProfitLossResponse is a snapshot with derived profits
type ProfitLossResponse struct {
	ID                 string             `json:"id"`
	Period             string             `json:"period"`
	StartDate          *time.Time         `json:"start_date,omitempty"`
	EndDate            *time.Time         `json:"end_date,omitempty"`
	TotalRevenue       float64            `json:"total_revenue"`
	TotalCost          float64            `json:"total_cost"`
	TotalExpenses      float64            `json:"total_expenses"`
	GrossProfit        float64            `json:"gross_profit"`
	NetProfit          float64            `json:"net_profit"`
	RevenueByCategory  map[string]float64 `json:"revenue_by_category"`
	CostByCategory     map[string]float64 `json:"cost_by_category"`
	ExpensesByPlatform map[string]float64 `json:"expenses_by_platform"`
	CreatedAt          time.Time          `json:"created_at"`
	Source             string             `json:"source,omitempty"`
}

// CategoryProfitLossResponse is one row of the category-wise view
type CategoryProfitLossResponse struct {
	Revenue  float64 `json:"revenue"`
	Cost     float64 `json:"cost"`
	Expenses float64 `json:"expenses"`
	Profit   float64 `json:"profit"`
}

// CategoryWiseResponse is the category-wise view of one snapshot
type CategoryWiseResponse struct {
	SnapshotID string                                `json:"snapshot_id"`
	Period     string                                `json:"period"`
	Source     string                                `json:"source"`
	Categories map[string]CategoryProfitLossResponse `json:"categories"`
}

// ToProfitLossResponse converts a snapshot; source may be empty
func ToProfitLossResponse(s *report.ProfitLossSnapshot, source report.SnapshotSource) *ProfitLossResponse {
	return &ProfitLossResponse{
		ID:                 s.ID.String(),
		Period:             s.Period.String(),
		StartDate:          s.Range.Start,
		EndDate:            s.Range.End,
		TotalRevenue:       money(s.TotalRevenue),
		TotalCost:          money(s.TotalCost),
		TotalExpenses:      money(s.TotalExpenses),
		GrossProfit:        money(s.GrossProfit()),
		NetProfit:          money(s.NetProfit()),
		RevenueByCategory:  breakdownToMap(s.RevenueByCategory),
		CostByCategory:     breakdownToMap(s.CostByCategory),
		ExpensesByPlatform: breakdownToMap(s.ExpensesByPlatform),
		CreatedAt:          s.CreatedAt,
		Source:             string(source),
	}
}

func toCategoryWiseResponse(result *report.SnapshotResult) *CategoryWiseResponse {
	rows := result.Snapshot.CategoryWise()
	out := &CategoryWiseResponse{
		SnapshotID: result.Snapshot.ID.String(),
		Period:     result.Snapshot.Period.String(),
		Source:     string(result.Source),
		Categories: make(map[string]CategoryProfitLossResponse, len(rows)),
	}
	for key, row := range rows {
		out.Categories[key] = CategoryProfitLossResponse{
			Revenue:  money(row.Revenue),
			Cost:     money(row.Cost),
			Expenses: money(row.Expenses),
			Profit:   money(row.Profit),
		}
	}
	return out
}

// ===================== Reports =====================

// SalesReportResponse represents the sales summary
type SalesReportResponse struct {
	TotalRevenue      float64            `json:"total_revenue"`
	TotalOrders       int64              `json:"total_orders"`
	AverageOrderValue float64            `json:"average_order_value"`
	ItemsSold         int64              `json:"items_sold"`
	RevenueByCategory map[string]float64 `json:"revenue_by_category"`
}

// RevenuePointResponse is one day of revenue
type RevenuePointResponse struct {
	Date         string  `json:"date"`
	TotalRevenue float64 `json:"total_revenue"`
	OrderCount   int64   `json:"order_count"`
}

// TopProductResponse is one ranked product
type TopProductResponse struct {
	Rank          int     `json:"rank"`
	ProductName   string  `json:"product_name"`
	TotalQuantity int64   `json:"total_quantity"`
	TotalRevenue  float64 `json:"total_revenue"`
	OrderCount    int64   `json:"order_count"`
}

// CustomerActivityResponse is one customer's activity in the range
type CustomerActivityResponse struct {
	CustomerID    string    `json:"customer_id"`
	OrderCount    int64     `json:"order_count"`
	TotalSpent    float64   `json:"total_spent"`
	LastOrderDate time.Time `json:"last_order_date"`
}

// CustomerAnalyticsResponse represents the customers report
type CustomerAnalyticsResponse struct {
	CustomerCount      int64                      `json:"customer_count"`
	AvgOrderCount      float64                    `json:"avg_order_count"`
	AvgTotalSpent      float64                    `json:"avg_total_spent"`
	TotalRevenue       float64                    `json:"total_revenue"`
	NewCustomers       int64                      `json:"new_customers"`
	ReturningCustomers int64                      `json:"returning_customers"`
	Customers          []CustomerActivityResponse `json:"customers"`
}

// LowStockResponse is one product below the stock threshold
type LowStockResponse struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Stock     int    `json:"stock"`
}

// InventoryResponse represents the inventory insights
type InventoryResponse struct {
	TotalProducts   int64              `json:"total_products"`
	TotalCategories int64              `json:"total_categories"`
	LowStockCount   int64              `json:"low_stock_count"`
	LowStock        []LowStockResponse `json:"low_stock"`
}

// MethodTotalsResponse aggregates one payment method
type MethodTotalsResponse struct {
	Count       int64   `json:"count"`
	TotalAmount float64 `json:"total_amount"`
}

// PaymentDistributionResponse represents the payments report
type PaymentDistributionResponse struct {
	ByMethod map[string]MethodTotalsResponse `json:"by_method"`
	ByStatus map[string]int64                `json:"by_status"`
}

// CourierPerformanceResponse aggregates one courier
type CourierPerformanceResponse struct {
	Count             int64 `json:"count"`
	AvgDeliveryTimeMs int64 `json:"avg_delivery_time_ms"`
	Completed         int64 `json:"completed"`
	Pending           int64 `json:"pending"`
}

// ShippingPerformanceResponse represents the shipping report
type ShippingPerformanceResponse struct {
	ByCourier        map[string]CourierPerformanceResponse `json:"by_courier"`
	PendingShipments int64                                 `json:"pending_shipments"`
}

// RefundsResponse represents the refunds report
type RefundsResponse struct {
	TotalRefunds      int64   `json:"total_refunds"`
	TotalRefundAmount float64 `json:"total_refund_amount"`
	AvgRefundAmount   float64 `json:"avg_refund_amount"`
}

// DashboardResponse bundles the dashboard reports computed over one range
type DashboardResponse struct {
	Sales           *SalesReportResponse         `json:"sales"`
	RevenueOverTime []RevenuePointResponse       `json:"revenue_over_time"`
	TopProducts     []TopProductResponse         `json:"top_products"`
	Payments        *PaymentDistributionResponse `json:"payments"`
	Shipping        *ShippingPerformanceResponse `json:"shipping"`
	Refunds         *RefundsResponse             `json:"refunds"`
}

func toSalesReportResponse(s report.SalesSummary) *SalesReportResponse {
	return &SalesReportResponse{
		TotalRevenue:      money(s.TotalRevenue),
		TotalOrders:       s.TotalOrders,
		AverageOrderValue: money(s.AverageOrderValue),
		ItemsSold:         s.ItemsSold,
		RevenueByCategory: breakdownToMap(s.RevenueByCategory),
	}
}

func toRevenuePointResponses(points []report.RevenuePoint) []RevenuePointResponse {
	out := make([]RevenuePointResponse, len(points))
	for i, p := range points {
		out[i] = RevenuePointResponse{
			Date:         p.Date,
			TotalRevenue: money(p.TotalRevenue),
			OrderCount:   p.OrderCount,
		}
	}
	return out
}

func toTopProductResponses(rows []report.ProductPerformance) []TopProductResponse {
	out := make([]TopProductResponse, len(rows))
	for i, r := range rows {
		out[i] = TopProductResponse{
			Rank:          i + 1,
			ProductName:   r.ProductName,
			TotalQuantity: r.TotalQuantity,
			TotalRevenue:  money(r.TotalRevenue),
			OrderCount:    r.OrderCount,
		}
	}
	return out
}

func toCustomerAnalyticsResponse(s report.CustomerSummary) *CustomerAnalyticsResponse {
	out := &CustomerAnalyticsResponse{
		CustomerCount:      s.CustomerCount,
		AvgOrderCount:      money(s.AvgOrderCount),
		AvgTotalSpent:      money(s.AvgTotalSpent),
		TotalRevenue:       money(s.TotalRevenue),
		NewCustomers:       s.NewCustomers,
		ReturningCustomers: s.ReturningCustomers,
		Customers:          make([]CustomerActivityResponse, len(s.Customers)),
	}
	for i, c := range s.Customers {
		out.Customers[i] = CustomerActivityResponse{
			CustomerID:    c.CustomerID.String(),
			OrderCount:    c.OrderCount,
			TotalSpent:    money(c.TotalSpent),
			LastOrderDate: c.LastOrderDate,
		}
	}
	return out
}

func toInventoryResponse(s report.InventorySummary) *InventoryResponse {
	out := &InventoryResponse{
		TotalProducts:   s.TotalProducts,
		TotalCategories: s.TotalCategories,
		LowStockCount:   s.LowStockCount,
		LowStock:        make([]LowStockResponse, len(s.LowStock)),
	}
	for i, item := range s.LowStock {
		out.LowStock[i] = LowStockResponse{
			ProductID: item.ProductID.String(),
			Name:      item.Name,
			Category:  item.Category,
			Stock:     item.Stock,
		}
	}
	return out
}

func toPaymentDistributionResponse(s report.PaymentSummary) *PaymentDistributionResponse {
	out := &PaymentDistributionResponse{
		ByMethod: make(map[string]MethodTotalsResponse, len(s.ByMethod)),
		ByStatus: make(map[string]int64, len(s.ByStatus)),
	}
	for method, t := range s.ByMethod {
		out.ByMethod[method] = MethodTotalsResponse{Count: t.Count, TotalAmount: money(t.TotalAmount)}
	}
	for status, n := range s.ByStatus {
		out.ByStatus[status] = n
	}
	return out
}

func toShippingPerformanceResponse(s report.ShippingSummary) *ShippingPerformanceResponse {
	out := &ShippingPerformanceResponse{
		ByCourier:        make(map[string]CourierPerformanceResponse, len(s.ByCourier)),
		PendingShipments: s.PendingShipments,
	}
	for courier, p := range s.ByCourier {
		out.ByCourier[courier] = CourierPerformanceResponse{
			Count:             p.Count,
			AvgDeliveryTimeMs: p.AvgDeliveryTimeMs,
			Completed:         p.Completed,
			Pending:           p.Pending,
		}
	}
	return out
}

func toRefundsResponse(s report.RefundSummary) *RefundsResponse {
	return &RefundsResponse{
		TotalRefunds:      s.TotalRefunds,
		TotalRefundAmount: money(s.TotalRefundAmount),
		AvgRefundAmount:   money(s.AvgRefundAmount),
	}
}

// money rounds to cents for presentation. Accumulation stays in full precision.
func money(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}

func breakdownToMap(b report.Breakdown) map[string]float64 {
	out := make(map[string]float64, len(b))
	for k, v := range b {
		out[k] = money(v)
	}
	return out
}
