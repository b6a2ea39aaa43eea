package report

import (
	"context"
	"fmt"
	"time"

	"github.com/backoffice/backend/internal/domain/commerce"
	"github.com/backoffice/backend/internal/domain/report"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ReportServiceConfig holds the collaborators and limits of ReportService
type ReportServiceConfig struct {
	Orders    commerce.OrderReader
	Products  commerce.ProductReader
	Customers commerce.CustomerReader
	Payments  commerce.PaymentReader
	Shipments commerce.ShipmentReader

	Location            *time.Location
	LowStockThreshold   int
	LowStockLimit       int
	TopProductsLimit    int
	MaxTopProductsLimit int

	Metrics *telemetry.ReportMetrics
	Logger  *zap.Logger
}

// ReportService provides the read-only business reports. Nothing is persisted.
type ReportService struct {
	orders    commerce.OrderReader
	products  commerce.ProductReader
	customers commerce.CustomerReader
	payments  commerce.PaymentReader
	shipments commerce.ShipmentReader

	loc               *time.Location
	lowStockThreshold int
	lowStockLimit     int
	topLimit          int
	maxTopLimit       int

	metrics *telemetry.ReportMetrics
	logger  *zap.Logger
}

// NewReportService creates a new ReportService
func NewReportService(cfg ReportServiceConfig) *ReportService {
	s := &ReportService{
		orders:            cfg.Orders,
		products:          cfg.Products,
		customers:         cfg.Customers,
		payments:          cfg.Payments,
		shipments:         cfg.Shipments,
		loc:               cfg.Location,
		lowStockThreshold: cfg.LowStockThreshold,
		lowStockLimit:     cfg.LowStockLimit,
		topLimit:          cfg.TopProductsLimit,
		maxTopLimit:       cfg.MaxTopProductsLimit,
		metrics:           cfg.Metrics,
		logger:            cfg.Logger,
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	if s.lowStockThreshold < 0 {
		s.lowStockThreshold = report.DefaultLowStockThreshold
	}
	if s.lowStockLimit <= 0 {
		s.lowStockLimit = report.DefaultLowStockLimit
	}
	if s.topLimit <= 0 {
		s.topLimit = report.DefaultTopProductsLimit
	}
	if s.maxTopLimit < s.topLimit {
		s.maxTopLimit = s.topLimit
	}
	if s.metrics == nil {
		s.metrics = telemetry.NopReportMetrics()
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// ===================== Sales =====================

// GetSalesReport summarizes completed orders
func (s *ReportService) GetSalesReport(ctx context.Context, filter ReportFilter) (*SalesReportResponse, error) {
	r, err := s.parseRange(filter)
	if err != nil {
		return nil, err
	}
	var out *SalesReportResponse
	err = s.instrument(ctx, "sales", func(ctx context.Context) error {
		orders, catalog, err := s.completedOrdersWithCatalog(ctx, r)
		if err != nil {
			return err
		}
		out = toSalesReportResponse(report.SalesReport(orders, catalog, r, filter.Category))
		return nil
	})
	return out, err
}

// GetRevenueOverTime returns completed-order revenue per calendar day
func (s *ReportService) GetRevenueOverTime(ctx context.Context, filter ReportFilter) ([]RevenuePointResponse, error) {
	r, err := s.parseRange(filter)
	if err != nil {
		return nil, err
	}
	var out []RevenuePointResponse
	err = s.instrument(ctx, "revenue_over_time", func(ctx context.Context) error {
		orders, catalog, err := s.completedOrdersWithCatalog(ctx, r)
		if err != nil {
			return err
		}
		out = toRevenuePointResponses(report.RevenueOverTime(orders, catalog, r, filter.Category, s.loc))
		return nil
	})
	return out, err
}

// GetTopProducts ranks products by completed-order revenue
func (s *ReportService) GetTopProducts(ctx context.Context, filter ReportFilter) ([]TopProductResponse, error) {
	r, err := s.parseRange(filter)
	if err != nil {
		return nil, err
	}
	limit, err := s.topProductsLimit(filter.Limit)
	if err != nil {
		return nil, err
	}
	var out []TopProductResponse
	err = s.instrument(ctx, "top_products", func(ctx context.Context) error {
		orders, catalog, err := s.completedOrdersWithCatalog(ctx, r)
		if err != nil {
			return err
		}
		out = toTopProductResponses(report.TopProducts(orders, catalog, r, filter.Category, limit))
		return nil
	})
	return out, err
}

// ===================== Customers / Inventory =====================

// GetCustomerAnalytics aggregates customer activity over every order in the range
func (s *ReportService) GetCustomerAnalytics(ctx context.Context, filter ReportFilter) (*CustomerAnalyticsResponse, error) {
	r, err := s.parseRange(filter)
	if err != nil {
		return nil, err
	}
	var out *CustomerAnalyticsResponse
	err = s.instrument(ctx, "customers", func(ctx context.Context) error {
		var (
			orders     []commerce.Order
			newInRange []commerce.Customer
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			orders, err = s.orders.FindOrders(gctx, commerce.OrderQuery{Range: r})
			return err
		})
		g.Go(func() error {
			var err error
			newInRange, err = s.customers.FindCustomers(gctx, commerce.CustomerQuery{CreatedIn: r})
			return err
		})
		if err := g.Wait(); err != nil {
			return fmt.Errorf("failed to read customer records: %w", err)
		}

		customers := newInRange
		if ids := customersMissing(orders, newInRange); len(ids) > 0 {
			buyers, err := s.customers.FindCustomers(ctx, commerce.CustomerQuery{IDs: ids})
			if err != nil {
				return fmt.Errorf("failed to read customer records: %w", err)
			}
			customers = append(customers, buyers...)
		}
		out = toCustomerAnalyticsResponse(report.CustomerAnalytics(orders, customers, r))
		return nil
	})
	return out, err
}

// customersMissing returns the IDs of customers who ordered but are not in known
func customersMissing(orders []commerce.Order, known []commerce.Customer) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(known))
	for i := range known {
		seen[known[i].ID] = true
	}
	var ids []uuid.UUID
	for i := range orders {
		id := orders[i].CustomerID
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}

// GetInventoryInsights lists low-stock products and catalog counts
func (s *ReportService) GetInventoryInsights(ctx context.Context) (*InventoryResponse, error) {
	var out *InventoryResponse
	err := s.instrument(ctx, "inventory", func(ctx context.Context) error {
		products, err := s.products.FindProducts(ctx)
		if err != nil {
			return fmt.Errorf("failed to read products: %w", err)
		}
		out = toInventoryResponse(report.InventoryInsights(products, s.lowStockThreshold, s.lowStockLimit))
		return nil
	})
	return out, err
}

// ===================== Payments / Shipping / Refunds =====================

// GetPaymentDistribution groups payments by method and status
func (s *ReportService) GetPaymentDistribution(ctx context.Context, filter ReportFilter) (*PaymentDistributionResponse, error) {
	r, err := s.parseRange(filter)
	if err != nil {
		return nil, err
	}
	var out *PaymentDistributionResponse
	err = s.instrument(ctx, "payments", func(ctx context.Context) error {
		payments, err := s.payments.FindPayments(ctx, r)
		if err != nil {
			return fmt.Errorf("failed to read payments: %w", err)
		}
		out = toPaymentDistributionResponse(report.PaymentDistribution(payments, r))
		return nil
	})
	return out, err
}

// GetShippingPerformance groups shipments by courier
func (s *ReportService) GetShippingPerformance(ctx context.Context, filter ReportFilter) (*ShippingPerformanceResponse, error) {
	r, err := s.parseRange(filter)
	if err != nil {
		return nil, err
	}
	var out *ShippingPerformanceResponse
	err = s.instrument(ctx, "shipping", func(ctx context.Context) error {
		shipments, err := s.shipments.FindShipments(ctx, r)
		if err != nil {
			return fmt.Errorf("failed to read shipments: %w", err)
		}
		out = toShippingPerformanceResponse(report.ShippingPerformance(shipments, r))
		return nil
	})
	return out, err
}

// GetRefundsSummary totals returned orders
func (s *ReportService) GetRefundsSummary(ctx context.Context, filter ReportFilter) (*RefundsResponse, error) {
	r, err := s.parseRange(filter)
	if err != nil {
		return nil, err
	}
	var out *RefundsResponse
	err = s.instrument(ctx, "refunds", func(ctx context.Context) error {
		orders, err := s.orders.FindOrders(ctx, commerce.OrderQuery{
			Range:    r,
			Statuses: []commerce.OrderStatus{commerce.OrderStatusReturned},
		})
		if err != nil {
			return fmt.Errorf("failed to read orders: %w", err)
		}
		out = toRefundsResponse(report.RefundsSummary(orders, r))
		return nil
	})
	return out, err
}

// ===================== Dashboard =====================

// GetDashboard computes the dashboard reports in parallel over one range.
// The first failure cancels the rest.
func (s *ReportService) GetDashboard(ctx context.Context, filter ReportFilter) (*DashboardResponse, error) {
	if _, err := s.parseRange(filter); err != nil {
		return nil, err
	}
	if _, err := s.topProductsLimit(filter.Limit); err != nil {
		return nil, err
	}

	out := &DashboardResponse{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		out.Sales, err = s.GetSalesReport(gctx, filter)
		return err
	})
	g.Go(func() error {
		var err error
		out.RevenueOverTime, err = s.GetRevenueOverTime(gctx, filter)
		return err
	})
	g.Go(func() error {
		var err error
		out.TopProducts, err = s.GetTopProducts(gctx, filter)
		return err
	})
	g.Go(func() error {
		var err error
		out.Payments, err = s.GetPaymentDistribution(gctx, filter)
		return err
	})
	g.Go(func() error {
		var err error
		out.Shipping, err = s.GetShippingPerformance(gctx, filter)
		return err
	})
	g.Go(func() error {
		var err error
		out.Refunds, err = s.GetRefundsSummary(gctx, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// ===================== helpers =====================

func (s *ReportService) parseRange(filter ReportFilter) (shared.DateRange, error) {
	return shared.ParseDateRange(filter.StartDate, filter.EndDate, s.loc)
}

// topProductsLimit applies the default for zero and caps at the configured maximum
func (s *ReportService) topProductsLimit(requested int) (int, error) {
	switch {
	case requested < 0:
		return 0, shared.NewDomainError("INVALID_INPUT", "limit must not be negative")
	case requested == 0:
		return s.topLimit, nil
	case requested > s.maxTopLimit:
		return s.maxTopLimit, nil
	}
	return requested, nil
}

func (s *ReportService) completedOrdersWithCatalog(ctx context.Context, r shared.DateRange) ([]commerce.Order, commerce.Catalog, error) {
	var (
		orders   []commerce.Order
		products []commerce.Product
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		orders, err = s.orders.FindOrders(gctx, commerce.OrderQuery{
			Range:    r,
			Statuses: []commerce.OrderStatus{commerce.OrderStatusCompleted},
		})
		return err
	})
	g.Go(func() error {
		var err error
		products, err = s.products.FindProducts(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("failed to read sales records: %w", err)
	}
	return orders, commerce.NewCatalog(products), nil
}

// instrument wraps one report computation in a span, a latency sample and
// an error log
func (s *ReportService) instrument(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "report", name, telemetry.AttrReportName.String(name))
	defer span.End()

	started := time.Now()
	err := fn(ctx)
	s.metrics.ReportComputed(ctx, name, time.Since(started), err)
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("Report computation failed", zap.String("report", name), zap.Error(err))
	}
	return err
}
