package handler

import (
	reportapp "github.com/backoffice/backend/internal/application/report"
	"github.com/gin-gonic/gin"
)

// ReportHandler serves the profit/loss snapshots and the read-only business reports
type ReportHandler struct {
	BaseHandler
	profitLoss *reportapp.ProfitLossService
	reports    *reportapp.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(profitLoss *reportapp.ProfitLossService, reports *reportapp.ReportService) *ReportHandler {
	return &ReportHandler{
		profitLoss: profitLoss,
		reports:    reports,
	}
}

// ===================== Profit / Loss =====================

// GetProfitLoss godoc
// @Summary      Get profit and loss
// @Description  Returns the latest snapshot for the period and range, generating one when none exists.
// @Description  The source field is "found" or "generated".
// @Tags         reports
// @Produce      json
// @Param        period     query string true  "daily, weekly, monthly, quarterly or annual"
// @Param        start_date query string false "YYYY-MM-DD or RFC3339"
// @Param        end_date   query string false "YYYY-MM-DD or RFC3339"
// @Router       /reports/profit-loss [get]
func (h *ReportHandler) GetProfitLoss(c *gin.Context) {
	var req reportapp.ProfitLossRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.profitLoss.GetProfitLoss(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GenerateProfitLoss godoc
// @Summary      Generate profit and loss
// @Description  Always computes and stores a new snapshot
// @Tags         reports
// @Accept       json
// @Produce      json
// @Router       /reports/profit-loss/generate [post]
func (h *ReportHandler) GenerateProfitLoss(c *gin.Context) {
	var req reportapp.ProfitLossRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.profitLoss.GenerateProfitLoss(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetCategoryWiseProfitLoss godoc
// @Summary      Get category-wise profit and loss
// @Description  Revenue, cost, expenses and profit per category or platform key
// @Tags         reports
// @Produce      json
// @Router       /reports/profit-loss/category-wise [get]
func (h *ReportHandler) GetCategoryWiseProfitLoss(c *gin.Context) {
	var req reportapp.ProfitLossRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.profitLoss.GetCategoryWise(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListSnapshots godoc
// @Summary      List profit and loss snapshots
// @Tags         reports
// @Produce      json
// @Param        period query string false "filter by period"
// @Param        limit  query int    false "1-100, default 20"
// @Router       /reports/profit-loss/snapshots [get]
func (h *ReportHandler) ListSnapshots(c *gin.Context) {
	var filter reportapp.SnapshotListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	snapshots, err := h.profitLoss.ListSnapshots(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, snapshots)
}

// ===================== Reports =====================

// reportQuery binds the common report filter and runs fn with it
func reportQuery[T any](h *ReportHandler, c *gin.Context, fn func(*gin.Context, reportapp.ReportFilter) (T, error)) {
	var filter reportapp.ReportFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := fn(c, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// GetSalesReport godoc
// @Summary      Sales report
// @Tags         reports
// @Param        start_date query string false "range start"
// @Param        end_date   query string false "range end"
// @Param        category   query string false "line-item category filter"
// @Router       /reports/sales [get]
func (h *ReportHandler) GetSalesReport(c *gin.Context) {
	reportQuery(h, c, func(c *gin.Context, f reportapp.ReportFilter) (*reportapp.SalesReportResponse, error) {
		return h.reports.GetSalesReport(c.Request.Context(), f)
	})
}

// GetRevenueOverTime godoc
// @Summary      Daily revenue of completed orders
// @Tags         reports
// @Router       /reports/revenue-over-time [get]
func (h *ReportHandler) GetRevenueOverTime(c *gin.Context) {
	reportQuery(h, c, func(c *gin.Context, f reportapp.ReportFilter) ([]reportapp.RevenuePointResponse, error) {
		return h.reports.GetRevenueOverTime(c.Request.Context(), f)
	})
}

// GetTopProducts godoc
// @Summary      Best selling products by revenue
// @Tags         reports
// @Param        limit query int false "number of products"
// @Router       /reports/top-products [get]
func (h *ReportHandler) GetTopProducts(c *gin.Context) {
	reportQuery(h, c, func(c *gin.Context, f reportapp.ReportFilter) ([]reportapp.TopProductResponse, error) {
		return h.reports.GetTopProducts(c.Request.Context(), f)
	})
}

// GetCustomerAnalytics godoc
// @Summary      Customer analytics
// @Tags         reports
// @Router       /reports/customers [get]
func (h *ReportHandler) GetCustomerAnalytics(c *gin.Context) {
	reportQuery(h, c, func(c *gin.Context, f reportapp.ReportFilter) (*reportapp.CustomerAnalyticsResponse, error) {
		return h.reports.GetCustomerAnalytics(c.Request.Context(), f)
	})
}

// GetInventoryInsights godoc
// @Summary      Inventory insights
// @Tags         reports
// @Router       /reports/inventory [get]
func (h *ReportHandler) GetInventoryInsights(c *gin.Context) {
	resp, err := h.reports.GetInventoryInsights(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetPaymentDistribution godoc
// @Summary      Payments by method and status
// @Tags         reports
// @Router       /reports/payments [get]
func (h *ReportHandler) GetPaymentDistribution(c *gin.Context) {
	reportQuery(h, c, func(c *gin.Context, f reportapp.ReportFilter) (*reportapp.PaymentDistributionResponse, error) {
		return h.reports.GetPaymentDistribution(c.Request.Context(), f)
	})
}

// GetShippingPerformance godoc
// @Summary      Shipping performance by courier
// @Tags         reports
// @Router       /reports/shipping [get]
func (h *ReportHandler) GetShippingPerformance(c *gin.Context) {
	reportQuery(h, c, func(c *gin.Context, f reportapp.ReportFilter) (*reportapp.ShippingPerformanceResponse, error) {
		return h.reports.GetShippingPerformance(c.Request.Context(), f)
	})
}

// GetRefundsSummary godoc
// @Summary      Returned orders summary
// @Tags         reports
// @Router       /reports/refunds [get]
func (h *ReportHandler) GetRefundsSummary(c *gin.Context) {
	reportQuery(h, c, func(c *gin.Context, f reportapp.ReportFilter) (*reportapp.RefundsResponse, error) {
		return h.reports.GetRefundsSummary(c.Request.Context(), f)
	})
}

// GetDashboard godoc
// @Summary      Dashboard
// @Description  Sales, revenue over time, top products, payments, shipping and refunds in one call
// @Tags         reports
// @Router       /reports/dashboard [get]
func (h *ReportHandler) GetDashboard(c *gin.Context) {
	reportQuery(h, c, func(c *gin.Context, f reportapp.ReportFilter) (*reportapp.DashboardResponse, error) {
		return h.reports.GetDashboard(c.Request.Context(), f)
	})
}
