package router

import (
	"time"

	"github.com/backoffice/backend/internal/infrastructure/logger"
	"github.com/backoffice/backend/internal/interfaces/http/handler"
	"github.com/backoffice/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Handlers are the HTTP handlers mounted by NewEngine. Nil handlers are skipped.
type Handlers struct {
	Report    *handler.ReportHandler
	Scheduler *handler.SchedulerHandler
	Commerce  *handler.CommerceHandler
	System    *handler.SystemHandler
}

// EngineConfig configures the middleware stack
type EngineConfig struct {
	ServiceName    string
	TracingEnabled bool
	Meter          metric.Meter
	CORS           middleware.CORSConfig
	MaxBodySize    int64
	// ReportTimeout bounds report computation. Zero disables it.
	ReportTimeout time.Duration
	Logger        *zap.Logger
}

// NewEngine builds the gin engine with the middleware stack and every route.
//
// Middleware order: RequestID, Recovery, request logging, tracing, metrics,
// security headers, CORS, then the body limit.
func NewEngine(cfg EngineConfig, h Handlers) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.ServiceName,
		Enabled:     cfg.TracingEnabled,
	}))
	engine.Use(middleware.TracingAttributeInjector(), middleware.SpanErrorMarker())
	engine.Use(middleware.HTTPMetrics(cfg.Meter))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(cfg.CORS))
	engine.Use(middleware.BodyLimit(cfg.MaxBodySize))

	if h.System != nil {
		engine.GET("/health", h.System.Health)
	}

	Mount(engine, domainGroups(cfg, h))
	return engine
}

func domainGroups(cfg EngineConfig, h Handlers) []*DomainGroup {
	var groups []*DomainGroup

	if h.Report != nil || h.Scheduler != nil {
		reports := NewDomainGroup("report", "/reports")
		if h.Report != nil {
			computed := reports.Group("report-computed", "").Use(middleware.Timeout(cfg.ReportTimeout))
			// Profit / loss snapshots
			computed.GET("/profit-loss", h.Report.GetProfitLoss)
			computed.POST("/profit-loss/generate", h.Report.GenerateProfitLoss)
			computed.GET("/profit-loss/category-wise", h.Report.GetCategoryWiseProfitLoss)
			computed.GET("/profit-loss/snapshots", h.Report.ListSnapshots)
			// Read-only reports
			computed.GET("/sales", h.Report.GetSalesReport)
			computed.GET("/revenue-over-time", h.Report.GetRevenueOverTime)
			computed.GET("/top-products", h.Report.GetTopProducts)
			computed.GET("/customers", h.Report.GetCustomerAnalytics)
			computed.GET("/inventory", h.Report.GetInventoryInsights)
			computed.GET("/payments", h.Report.GetPaymentDistribution)
			computed.GET("/shipping", h.Report.GetShippingPerformance)
			computed.GET("/refunds", h.Report.GetRefundsSummary)
			computed.GET("/dashboard", h.Report.GetDashboard)
		}
		if h.Scheduler != nil {
			reports.GET("/scheduler/status", h.Scheduler.GetStatus)
			reports.POST("/scheduler/trigger", h.Scheduler.Trigger)
		}
		groups = append(groups, reports)
	}

	if h.Commerce != nil {
		commerce := NewDomainGroup("commerce", "/commerce")
		commerce.POST("/orders", h.Commerce.PlaceOrder)
		commerce.PATCH("/orders/:id/status", h.Commerce.UpdateOrderStatus)
		commerce.POST("/purchases", h.Commerce.RecordPurchase)
		commerce.POST("/marketing-expenses", h.Commerce.RecordMarketingExpense)
		groups = append(groups, commerce)
	}

	if h.System != nil {
		system := NewDomainGroup("system", "/system")
		system.GET("/info", h.System.GetSystemInfo)
		system.GET("/ping", h.System.Ping)
		groups = append(groups, system)
	}
	return groups
}
