package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/backoffice/backend/internal/domain/commerce"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder(t *testing.T, at time.Time, status commerce.OrderStatus, lines ...commerce.LineItem) *commerce.Order {
	o, err := commerce.NewOrder(uuid.New(), at, lines)
	require.NoError(t, err)
	o.Status = status
	return o
}

func TestGormOrderRepository_SaveAndFind(t *testing.T) {
	db := openSQLite(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	productID := uuid.New()
	item := commerce.LineItem{ProductID: productID, ProductName: "Runner", Quantity: 2, UnitPrice: decimal.NewFromInt(10)}

	completed := newTestOrder(t, base, commerce.OrderStatusCompleted, item,
		commerce.LineItem{ProductID: uuid.New(), ProductName: "Lace", Quantity: 1, UnitPrice: decimal.NewFromFloat(1.5)})
	pending := newTestOrder(t, base.AddDate(0, 0, 1), commerce.OrderStatusPending, item)
	late := newTestOrder(t, base.AddDate(0, 1, 0), commerce.OrderStatusCompleted, item)

	for _, o := range []*commerce.Order{completed, pending, late} {
		require.NoError(t, repo.SaveOrder(ctx, o))
	}

	t.Run("finds by id with items in order", func(t *testing.T) {
		got, err := repo.FindOrderByID(ctx, completed.ID)
		require.NoError(t, err)
		require.Len(t, got.Items, 2)
		assert.Equal(t, "Runner", got.Items[0].ProductName)
		assert.Equal(t, "Lace", got.Items[1].ProductName)
		assert.True(t, decimal.NewFromFloat(21.5).Equal(got.Total()))
	})

	t.Run("missing id maps to not found", func(t *testing.T) {
		_, err := repo.FindOrderByID(ctx, uuid.New())
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})

	t.Run("filters by range", func(t *testing.T) {
		end := base.AddDate(0, 0, 7)
		got, err := repo.FindOrders(ctx, commerce.OrderQuery{Range: shared.DateRange{Start: &base, End: &end}})
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("filters by status", func(t *testing.T) {
		got, err := repo.FindOrders(ctx, commerce.OrderQuery{Statuses: []commerce.OrderStatus{commerce.OrderStatusCompleted}})
		require.NoError(t, err)
		assert.Len(t, got, 2)
		for _, o := range got {
			assert.Equal(t, commerce.OrderStatusCompleted, o.Status)
		}
	})

	t.Run("save replaces items and status", func(t *testing.T) {
		pending.Status = commerce.OrderStatusProcessing
		pending.Items = pending.Items[:1]
		pending.Items[0].Quantity = 5
		require.NoError(t, repo.SaveOrder(ctx, pending))

		got, err := repo.FindOrderByID(ctx, pending.ID)
		require.NoError(t, err)
		assert.Equal(t, commerce.OrderStatusProcessing, got.Status)
		require.Len(t, got.Items, 1)
		assert.Equal(t, 5, got.Items[0].Quantity)
	})
}

func TestGormPurchaseAndExpenseRepositories(t *testing.T) {
	db := openSQLite(t)
	purchases := NewGormPurchaseRepository(db)
	expenses := NewGormMarketingExpenseRepository(db)
	ctx := context.Background()

	at := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	total := decimal.NewFromInt(12)
	p1, err := commerce.NewPurchase(uuid.New(), 5, decimal.NewFromInt(3), nil, at)
	require.NoError(t, err)
	p2, err := commerce.NewPurchase(uuid.New(), 5, decimal.NewFromInt(3), &total, at.AddDate(0, 2, 0))
	require.NoError(t, err)
	require.NoError(t, purchases.SavePurchase(ctx, p1))
	require.NoError(t, purchases.SavePurchase(ctx, p2))

	e1, err := commerce.NewMarketingExpense("Meta", decimal.NewFromInt(7), at)
	require.NoError(t, err)
	require.NoError(t, expenses.SaveMarketingExpense(ctx, e1))

	end := at.AddDate(0, 1, 0)
	window := shared.DateRange{Start: &at, End: &end}

	gotPurchases, err := purchases.FindPurchases(ctx, window)
	require.NoError(t, err)
	require.Len(t, gotPurchases, 1)
	assert.Nil(t, gotPurchases[0].TotalPrice)
	assert.True(t, decimal.NewFromInt(15).Equal(gotPurchases[0].EffectiveTotal()))

	all, err := purchases.FindPurchases(ctx, shared.DateRange{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.NotNil(t, all[1].TotalPrice)
	assert.True(t, total.Equal(*all[1].TotalPrice))

	gotExpenses, err := expenses.FindMarketingExpenses(ctx, window)
	require.NoError(t, err)
	require.Len(t, gotExpenses, 1)
	assert.Equal(t, "Meta", gotExpenses[0].Platform)
}

func TestGormOrderRepository_FindOrders_StoreFailure(t *testing.T) {
	db, mock, mockDB := mockPostgres(t)
	defer mockDB.Close()

	mock.ExpectQuery(`SELECT \* FROM "orders"`).WillReturnError(errors.New("connection reset"))

	_, err := NewGormOrderRepository(db).FindOrders(context.Background(), commerce.OrderQuery{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}
