package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	commerceapp "github.com/backoffice/backend/internal/application/commerce"
	reportapp "github.com/backoffice/backend/internal/application/report"
	"github.com/backoffice/backend/internal/infrastructure/cache"
	"github.com/backoffice/backend/internal/infrastructure/config"
	"github.com/backoffice/backend/internal/infrastructure/event"
	"github.com/backoffice/backend/internal/infrastructure/logger"
	"github.com/backoffice/backend/internal/infrastructure/persistence"
	"github.com/backoffice/backend/internal/infrastructure/scheduler"
	"github.com/backoffice/backend/internal/infrastructure/telemetry"
	"github.com/backoffice/backend/internal/interfaces/http/handler"
	"github.com/backoffice/backend/internal/interfaces/http/middleware"
	"github.com/backoffice/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

//	@title			Back-office Reporting API
//	@version		1.0
//	@description	Profit/loss snapshots and sales reports for a commerce back office
//	@BasePath		/api/v1

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: cfg.Log.TimeFormat,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync(log)

	log.Info("Starting back-office reporting service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", cfg.App.Version),
		zap.String("port", cfg.App.Port),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Telemetry
	providers, err := telemetry.Setup(ctx, cfg.Telemetry, cfg.App.Version, log)
	if err != nil {
		log.Fatal("Failed to set up telemetry", zap.Error(err))
	}
	defer func() {
		if err := providers.Shutdown(context.Background()); err != nil {
			log.Warn("Telemetry shutdown failed", zap.Error(err))
		}
	}()
	log = providers.BridgeLogger(log)
	reportMetrics, err := telemetry.NewReportMetrics(providers.Meter())
	if err != nil {
		log.Warn("Report metrics unavailable", zap.Error(err))
		reportMetrics = telemetry.NopReportMetrics()
	}

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Database.LogLevel), cfg.Database.SlowThreshold)
	db, err := persistence.OpenDatabase(ctx, &cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := telemetry.InstrumentDB(db.DB, cfg.Telemetry, cfg.Database.DBName, log); err != nil {
		log.Warn("Database tracing unavailable", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	orderRepo := persistence.NewGormOrderRepository(db.DB)
	purchaseRepo := persistence.NewGormPurchaseRepository(db.DB)
	expenseRepo := persistence.NewGormMarketingExpenseRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	shipmentRepo := persistence.NewGormShipmentRepository(db.DB)
	snapshotRepo := persistence.NewGormSnapshotRepository(db.DB)

	// Snapshot claims are shared through Redis when it is enabled
	claims := cache.NewClaimStore(ctx, cfg.Redis, log)
	defer func() {
		if err := claims.Close(); err != nil {
			log.Warn("Error closing claim store", zap.Error(err))
		}
	}()

	// Events
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(commerceapp.NewLedgerHook(log))
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Application services
	loc := cfg.Report.Location()
	profitLossService := reportapp.NewProfitLossService(reportapp.ProfitLossServiceConfig{
		Orders:    orderRepo,
		Purchases: purchaseRepo,
		Expenses:  expenseRepo,
		Products:  productRepo,
		Snapshots: snapshotRepo,
		Claims:    claims,
		ClaimTTL:  cfg.Report.SnapshotClaimTTL,
		Location:  loc,
		Metrics:   reportMetrics,
		Logger:    log,
	})
	reportService := reportapp.NewReportService(reportapp.ReportServiceConfig{
		Orders:              orderRepo,
		Products:            productRepo,
		Customers:           customerRepo,
		Payments:            paymentRepo,
		Shipments:           shipmentRepo,
		Location:            loc,
		LowStockThreshold:   cfg.Report.LowStockThreshold,
		LowStockLimit:       cfg.Report.LowStockLimit,
		TopProductsLimit:    cfg.Report.TopProductsLimit,
		MaxTopProductsLimit: cfg.Report.MaxTopProductsLimit,
		Metrics:             reportMetrics,
		Logger:              log,
	})
	commerceService := commerceapp.NewCommerceService(orderRepo, purchaseRepo, expenseRepo, eventBus, log)

	// Scheduled snapshots
	snapshotCron, err := scheduler.NewSnapshotCron(cfg.Scheduler, loc, scheduler.NewSnapshotExecutor(profitLossService), log)
	if err != nil {
		log.Fatal("Invalid scheduler configuration", zap.Error(err))
	}
	if cfg.Scheduler.Enabled {
		if err := snapshotCron.Start(ctx); err != nil {
			log.Fatal("Failed to start snapshot scheduler", zap.Error(err))
		}
	} else {
		log.Info("Snapshot scheduler disabled")
	}

	// HTTP
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := router.NewEngine(router.EngineConfig{
		ServiceName:    cfg.Telemetry.ServiceName,
		TracingEnabled: cfg.Telemetry.Enabled,
		Meter:          providers.Meter(),
		CORS: middleware.CORSConfig{
			AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
			AllowMethods:     cfg.HTTP.CORSAllowMethods,
			AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
			ExposeHeaders:    cfg.HTTP.CORSExposeHeaders,
			AllowCredentials: true,
			MaxAge:           time.Duration(cfg.HTTP.CORSMaxAge) * time.Second,
		},
		MaxBodySize:   cfg.HTTP.MaxBodySize,
		ReportTimeout: cfg.Report.RequestTimeout,
		Logger:        log,
	}, router.Handlers{
		Report:    handler.NewReportHandler(profitLossService, reportService),
		Scheduler: handler.NewSchedulerHandler(snapshotCron),
		Commerce:  handler.NewCommerceHandler(commerceService),
		System: handler.NewSystemHandler(
			handler.SystemInfo{Name: cfg.App.Name, Version: cfg.App.Version, Environment: cfg.App.Env},
			map[string]handler.HealthCheck{"database": db.Ping},
		),
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down server...")
	case err := <-serveErr:
		log.Error("Server failed", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := snapshotCron.Stop(shutdownCtx); err != nil {
		log.Warn("Snapshot scheduler did not stop cleanly", zap.Error(err))
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Warn("Event bus did not stop cleanly", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
