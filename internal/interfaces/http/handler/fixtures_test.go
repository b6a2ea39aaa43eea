package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	commerceapp "github.com/backoffice/backend/internal/application/commerce"
	reportapp "github.com/backoffice/backend/internal/application/report"
	"github.com/backoffice/backend/internal/domain/commerce"
	"github.com/backoffice/backend/internal/infrastructure/event"
	"github.com/backoffice/backend/internal/infrastructure/persistence"
	"github.com/backoffice/backend/internal/infrastructure/persistence/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var march = time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)

// testStores bundles the GORM repositories over one in-memory database
type testStores struct {
	db        *gorm.DB
	orders    *persistence.GormOrderRepository
	purchases *persistence.GormPurchaseRepository
	expenses  *persistence.GormMarketingExpenseRepository
	products  *persistence.GormProductRepository
	customers *persistence.GormCustomerRepository
	payments  *persistence.GormPaymentRepository
	shipments *persistence.GormShipmentRepository
	snapshots *persistence.GormSnapshotRepository
}

func newTestStores(t *testing.T) *testStores {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return &testStores{
		db:        db,
		orders:    persistence.NewGormOrderRepository(db),
		purchases: persistence.NewGormPurchaseRepository(db),
		expenses:  persistence.NewGormMarketingExpenseRepository(db),
		products:  persistence.NewGormProductRepository(db),
		customers: persistence.NewGormCustomerRepository(db),
		payments:  persistence.NewGormPaymentRepository(db),
		shipments: persistence.NewGormShipmentRepository(db),
		snapshots: persistence.NewGormSnapshotRepository(db),
	}
}

func (s *testStores) profitLossService(now time.Time) *reportapp.ProfitLossService {
	return reportapp.NewProfitLossService(reportapp.ProfitLossServiceConfig{
		Orders:    s.orders,
		Purchases: s.purchases,
		Expenses:  s.expenses,
		Products:  s.products,
		Snapshots: s.snapshots,
		Now:       func() time.Time { return now },
	})
}

func (s *testStores) reportService() *reportapp.ReportService {
	return reportapp.NewReportService(reportapp.ReportServiceConfig{
		Orders:    s.orders,
		Products:  s.products,
		Customers: s.customers,
		Payments:  s.payments,
		Shipments: s.shipments,
	})
}

func (s *testStores) commerceService() *commerceapp.CommerceService {
	bus := event.NewInMemoryEventBus(zap.NewNop())
	return commerceapp.NewCommerceService(s.orders, s.purchases, s.expenses, bus, zap.NewNop())
}

// seedMarch stores one month of activity:
// completed order 2 x Runner @50 + 1 x Tote @30, a pending Runner order,
// a returned Tote order, purchase 5 x Runner @10 and 20 of Meta spend.
func (s *testStores) seedMarch(t *testing.T) (runner, tote commerce.Product) {
	t.Helper()
	ctx := context.Background()

	runner = commerce.Product{Name: "Runner", Category: "Shoes", Stock: 3}
	tote = commerce.Product{Name: "Tote", Category: "Bags", Stock: 40}
	require.NoError(t, s.products.SaveProduct(ctx, &runner))
	require.NoError(t, s.products.SaveProduct(ctx, &tote))

	customer := commerce.Customer{Name: "Ada", Email: "ada@example.com"}
	customer.CreatedAt = march.AddDate(0, 0, -2)
	require.NoError(t, s.customers.SaveCustomer(ctx, &customer))

	place := func(status commerce.OrderStatus, at time.Time, lines ...commerce.LineItem) {
		order, err := commerce.NewOrder(customer.ID, at, lines)
		require.NoError(t, err)
		order.Status = status
		require.NoError(t, s.orders.SaveOrder(ctx, order))
	}
	line := func(p commerce.Product, qty int, price int64) commerce.LineItem {
		item, err := commerce.NewLineItem(p.ID, p.Name, qty, decimal.NewFromInt(price))
		require.NoError(t, err)
		return item
	}
	place(commerce.OrderStatusCompleted, march, line(runner, 2, 50), line(tote, 1, 30))
	place(commerce.OrderStatusPending, march.Add(time.Hour), line(runner, 1, 50))
	place(commerce.OrderStatusReturned, march.AddDate(0, 0, 1), line(tote, 1, 30))

	purchase, err := commerce.NewPurchase(runner.ID, 5, decimal.NewFromInt(10), nil, march.AddDate(0, 0, -3))
	require.NoError(t, err)
	require.NoError(t, s.purchases.SavePurchase(ctx, purchase))

	spend, err := commerce.NewMarketingExpense("Meta", decimal.NewFromInt(20), march.AddDate(0, 0, -2))
	require.NoError(t, err)
	require.NoError(t, s.expenses.SaveMarketingExpense(ctx, spend))

	pay := commerce.Payment{OrderID: uuid.New(), Method: "card", Status: "paid", Amount: decimal.NewFromInt(130)}
	pay.CreatedAt = march
	require.NoError(t, s.payments.SavePayment(ctx, &pay))
	return runner, tote
}

// envelope decodes dto.Response with a typed payload
type envelope[T any] struct {
	Success bool `json:"success"`
	Data    T    `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details []struct {
			Field string `json:"field"`
		} `json:"details"`
	} `json:"error"`
}

func decodeAs[T any](t *testing.T, w *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var out envelope[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func serve(router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func newEngine() *gin.Engine {
	return gin.New()
}
