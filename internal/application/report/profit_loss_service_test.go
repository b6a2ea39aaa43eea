package report

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/backoffice/backend/internal/domain/commerce"
	"github.com/backoffice/backend/internal/domain/report"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)

// exampleRecords is one completed order of 2x10, a 5x3 purchase without a
// total and 7 of Meta spend
func exampleRecords() *recordStore {
	shoes := newProduct("Runner", "Shoes", 4)
	return &recordStore{
		products: []commerce.Product{shoes},
		orders: []commerce.Order{
			newOrder(uuid.New(), commerce.OrderStatusCompleted, day0, newLine(shoes, 2, 10)),
			newOrder(uuid.New(), commerce.OrderStatusPending, day0, newLine(shoes, 10, 10)),
		},
		purchases: []commerce.Purchase{
			{BaseEntity: shared.BaseEntity{ID: uuid.New()}, ProductID: shoes.ID, Quantity: 5, UnitPrice: dec(3), PurchasedAt: day0},
		},
		expenses: []commerce.MarketingExpense{
			{BaseEntity: shared.BaseEntity{ID: uuid.New()}, Platform: "Meta", AdSpend: dec(7), SpentAt: day0},
		},
	}
}

func newTestProfitLossService(records *recordStore, snaps *snapshotStore, claims shared.IdempotencyStore) *ProfitLossService {
	return NewProfitLossService(ProfitLossServiceConfig{
		Orders:    records,
		Purchases: records,
		Expenses:  records,
		Products:  records,
		Snapshots: snaps,
		Claims:    claims,
		ClaimWait: time.Millisecond,
		Now:       func() time.Time { return fixedNow },
	})
}

func TestProfitLossService_GetProfitLoss_GeneratesThenFinds(t *testing.T) {
	records := exampleRecords()
	snaps := &snapshotStore{}
	svc := newTestProfitLossService(records, snaps, nil)
	ctx := context.Background()

	first, err := svc.GetProfitLoss(ctx, ProfitLossRequest{Period: "monthly"})
	require.NoError(t, err)
	assert.Equal(t, "generated", first.Source)
	assert.Equal(t, 20.0, first.TotalRevenue)
	assert.Equal(t, 15.0, first.TotalCost)
	assert.Equal(t, 7.0, first.TotalExpenses)
	assert.Equal(t, 5.0, first.GrossProfit)
	assert.Equal(t, -2.0, first.NetProfit)
	assert.Equal(t, map[string]float64{"Shoes": 20}, first.RevenueByCategory)
	assert.Equal(t, map[string]float64{"Meta": 7}, first.ExpensesByPlatform)
	assert.Nil(t, first.StartDate)
	assert.Nil(t, first.EndDate)

	second, err := svc.GetProfitLoss(ctx, ProfitLossRequest{Period: "MONTHLY"})
	require.NoError(t, err)
	assert.Equal(t, "found", second.Source)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, snaps.len())
}

func TestProfitLossService_GetProfitLoss_MatchesExplicitRange(t *testing.T) {
	records := exampleRecords()
	snaps := &snapshotStore{}
	svc := newTestProfitLossService(records, snaps, nil)
	ctx := context.Background()

	march := ProfitLossRequest{Period: "monthly", StartDate: "2024-03-01", EndDate: "2024-03-31"}
	_, err := svc.GetProfitLoss(ctx, march)
	require.NoError(t, err)

	april := ProfitLossRequest{Period: "monthly", StartDate: "2024-04-01", EndDate: "2024-04-30"}
	resp, err := svc.GetProfitLoss(ctx, april)
	require.NoError(t, err)
	assert.Equal(t, "generated", resp.Source)
	assert.Zero(t, resp.TotalRevenue)
	assert.Equal(t, 2, snaps.len())

	again, err := svc.GetProfitLoss(ctx, march)
	require.NoError(t, err)
	assert.Equal(t, "found", again.Source)
	assert.Equal(t, 20.0, again.TotalRevenue)
}

func TestProfitLossService_GenerateAlwaysInserts(t *testing.T) {
	snaps := &snapshotStore{}
	svc := newTestProfitLossService(exampleRecords(), snaps, nil)

	for i := 0; i < 3; i++ {
		resp, err := svc.GenerateProfitLoss(context.Background(), ProfitLossRequest{Period: "daily"})
		require.NoError(t, err)
		assert.Equal(t, "generated", resp.Source)
	}
	assert.Equal(t, 3, snaps.len())
}

func TestProfitLossService_ConcurrentGenerateProducesAtLeastOneSnapshot(t *testing.T) {
	snaps := &snapshotStore{}
	svc := newTestProfitLossService(exampleRecords(), snaps, nil)
	req := ProfitLossRequest{Period: "weekly", StartDate: "2024-03-01", EndDate: "2024-03-07"}

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.GenerateProfitLoss(context.Background(), req)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.GreaterOrEqual(t, snaps.len(), 1)
}

func TestProfitLossService_ConcurrentGetProfitLossAllSucceed(t *testing.T) {
	snaps := &snapshotStore{}
	svc := newTestProfitLossService(exampleRecords(), snaps, nil)

	var wg sync.WaitGroup
	results := make([]*ProfitLossResponse, 8)
	errs := make([]error, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.GetProfitLoss(context.Background(), ProfitLossRequest{Period: "annual"})
		}(i)
	}
	wg.Wait()

	for i := range results {
		require.NoError(t, errs[i])
		assert.Equal(t, 20.0, results[i].TotalRevenue)
	}
	assert.GreaterOrEqual(t, snaps.len(), 1)
}

// gateOrders makes FindOrders block until release is closed or the
// generation's own context ends. entered is closed on the first read.
func gateOrders(records *recordStore) (entered, release chan struct{}) {
	entered = make(chan struct{})
	release = make(chan struct{})
	var once sync.Once
	records.beforeOrders = func(ctx context.Context) error {
		once.Do(func() { close(entered) })
		select {
		case <-release:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return entered, release
}

func TestProfitLossService_CancelledCallerDoesNotFailJoinedCallers(t *testing.T) {
	records := exampleRecords()
	entered, release := gateOrders(records)
	snaps := &snapshotStore{}
	svc := newTestProfitLossService(records, snaps, nil)

	leaderCtx, cancelLeader := context.WithCancel(context.Background())
	defer cancelLeader()
	leaderErr := make(chan error, 1)
	go func() {
		_, err := svc.GetProfitLoss(leaderCtx, ProfitLossRequest{Period: "monthly"})
		leaderErr <- err
	}()
	<-entered

	type outcome struct {
		resp *ProfitLossResponse
		err  error
	}
	follower := make(chan outcome, 1)
	go func() {
		resp, err := svc.GetProfitLoss(context.Background(), ProfitLossRequest{Period: "monthly"})
		follower <- outcome{resp, err}
	}()
	// the follower has missed the lookup and is about to join the generation
	require.Eventually(t, func() bool { return snaps.lookupCount() == 2 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	cancelLeader()
	select {
	case err := <-leaderErr:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("cancelled caller did not return")
	}

	close(release)
	select {
	case got := <-follower:
		require.NoError(t, got.err)
		assert.Equal(t, "generated", got.resp.Source)
		assert.Equal(t, 20.0, got.resp.TotalRevenue)
	case <-time.After(time.Second):
		t.Fatal("joined caller did not return")
	}
	assert.Equal(t, 1, snaps.len())
	assert.Len(t, records.orderRanges, 1)
}

func TestProfitLossService_CancelledCallerStillStoresSnapshot(t *testing.T) {
	records := exampleRecords()
	entered, release := gateOrders(records)
	snaps := &snapshotStore{}
	svc := newTestProfitLossService(records, snaps, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := svc.GetProfitLoss(ctx, ProfitLossRequest{Period: "weekly"})
		done <- err
	}()
	<-entered
	cancel()
	require.ErrorIs(t, <-done, context.Canceled)

	close(release)
	require.Eventually(t, func() bool { return snaps.len() == 1 }, time.Second, time.Millisecond)

	resp, err := svc.GetProfitLoss(context.Background(), ProfitLossRequest{Period: "weekly"})
	require.NoError(t, err)
	assert.Equal(t, "found", resp.Source)
}

func TestProfitLossService_OpenEndUsesSingleUpperBound(t *testing.T) {
	records := exampleRecords()
	snaps := &snapshotStore{}
	svc := newTestProfitLossService(records, snaps, nil)

	_, err := svc.GenerateProfitLoss(context.Background(), ProfitLossRequest{Period: "monthly", StartDate: "2024-03-01"})
	require.NoError(t, err)

	require.Len(t, records.orderRanges, 1)
	require.NotNil(t, records.orderRanges[0].End)
	assert.True(t, fixedNow.Equal(*records.orderRanges[0].End))

	require.Equal(t, 1, snaps.len())
	stored := snaps.snapshots[0]
	assert.Nil(t, stored.Range.End, "stored range keeps the open end")
	assert.True(t, fixedNow.Equal(stored.CreatedAt))
}

func TestProfitLossService_RejectsBadInputBeforeReading(t *testing.T) {
	tests := []struct {
		name string
		req  ProfitLossRequest
		code string
	}{
		{"unknown period", ProfitLossRequest{Period: "hourly"}, "INVALID_PERIOD"},
		{"bad start date", ProfitLossRequest{Period: "daily", StartDate: "03/01/2024"}, "INVALID_DATE"},
		{"start after end", ProfitLossRequest{Period: "daily", StartDate: "2024-03-05", EndDate: "2024-03-01"}, "INVALID_DATE_RANGE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := exampleRecords()
			snaps := &snapshotStore{}
			svc := newTestProfitLossService(records, snaps, nil)

			_, err := svc.GetProfitLoss(context.Background(), tt.req)
			require.Error(t, err)
			de, ok := shared.AsDomainError(err)
			require.True(t, ok)
			assert.Equal(t, tt.code, de.Code)

			_, err = svc.GenerateProfitLoss(context.Background(), tt.req)
			require.Error(t, err)

			assert.Zero(t, records.callCount())
			assert.Zero(t, snaps.len())
		})
	}
}

func TestProfitLossService_StoreFailuresPropagate(t *testing.T) {
	t.Run("read failure", func(t *testing.T) {
		records := exampleRecords()
		records.err = errors.New("connection refused")
		snaps := &snapshotStore{}
		svc := newTestProfitLossService(records, snaps, nil)

		_, err := svc.GetProfitLoss(context.Background(), ProfitLossRequest{Period: "daily"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection refused")
		assert.Zero(t, snaps.len(), "no partial snapshot")
	})

	t.Run("insert failure", func(t *testing.T) {
		snaps := &snapshotStore{insertErr: errors.New("disk full")}
		svc := newTestProfitLossService(exampleRecords(), snaps, nil)

		resp, err := svc.GenerateProfitLoss(context.Background(), ProfitLossRequest{Period: "daily"})
		require.Error(t, err)
		assert.Nil(t, resp)
		assert.Contains(t, err.Error(), "disk full")
	})
}

func TestProfitLossService_ClaimReleasedAfterGeneration(t *testing.T) {
	claims := &claimStore{claimed: true}
	svc := newTestProfitLossService(exampleRecords(), &snapshotStore{}, claims)

	_, err := svc.GetProfitLoss(context.Background(), ProfitLossRequest{Period: "daily"})
	require.NoError(t, err)
	assert.Equal(t, []string{"daily|-|-"}, claims.released)
}

func TestProfitLossService_ClaimLoserFindsWinnerSnapshot(t *testing.T) {
	records := exampleRecords()
	snaps := &snapshotStore{}
	winner, err := report.NewProfitLossSnapshot(report.PeriodDaily, shared.DateRange{}, report.ProfitLossMetrics{}, fixedNow)
	require.NoError(t, err)

	claims := &claimStore{
		claimed: false,
		onClaim: func() { _ = snaps.Insert(context.Background(), winner) },
	}
	svc := newTestProfitLossService(records, snaps, claims)

	resp, err := svc.GetProfitLoss(context.Background(), ProfitLossRequest{Period: "daily"})
	require.NoError(t, err)
	assert.Equal(t, "found", resp.Source)
	assert.Equal(t, winner.ID.String(), resp.ID)
	assert.Equal(t, 1, snaps.len())
	assert.Empty(t, claims.released)
}

func TestProfitLossService_ClaimLoserGeneratesWhenStillMissing(t *testing.T) {
	snaps := &snapshotStore{}
	svc := newTestProfitLossService(exampleRecords(), snaps, &claimStore{claimed: false})

	resp, err := svc.GetProfitLoss(context.Background(), ProfitLossRequest{Period: "daily"})
	require.NoError(t, err)
	assert.Equal(t, "generated", resp.Source)
	assert.Equal(t, 1, snaps.len())
}

func TestProfitLossService_ClaimStoreErrorDoesNotBlock(t *testing.T) {
	snaps := &snapshotStore{}
	svc := newTestProfitLossService(exampleRecords(), snaps, &claimStore{err: errors.New("redis down")})

	resp, err := svc.GetProfitLoss(context.Background(), ProfitLossRequest{Period: "daily"})
	require.NoError(t, err)
	assert.Equal(t, "generated", resp.Source)
}

func TestProfitLossService_GetCategoryWise(t *testing.T) {
	snaps := &snapshotStore{}
	stored, err := report.NewProfitLossSnapshot(report.PeriodMonthly, shared.DateRange{}, report.ProfitLossMetrics{
		TotalRevenue:       dec(50),
		TotalCost:          dec(25),
		TotalExpenses:      dec(10),
		RevenueByCategory:  report.Breakdown{"Shoes": dec(50)},
		CostByCategory:     report.Breakdown{"Shoes": dec(20), "Bags": dec(5)},
		ExpensesByPlatform: report.Breakdown{"Meta": dec(10)},
	}, fixedNow)
	require.NoError(t, err)
	require.NoError(t, snaps.Insert(context.Background(), stored))

	records := exampleRecords()
	svc := newTestProfitLossService(records, snaps, nil)

	resp, err := svc.GetCategoryWise(context.Background(), ProfitLossRequest{Period: "monthly"})
	require.NoError(t, err)
	assert.Equal(t, "found", resp.Source)
	assert.Equal(t, map[string]CategoryProfitLossResponse{
		"Shoes": {Revenue: 50, Cost: 20, Expenses: 0, Profit: 30},
		"Bags":  {Revenue: 0, Cost: 5, Expenses: 0, Profit: -5},
		"Meta":  {Revenue: 0, Cost: 0, Expenses: 10, Profit: -10},
	}, resp.Categories)
	assert.Zero(t, records.callCount(), "found snapshot needs no record reads")
}

func TestProfitLossService_GenerateForPeriod(t *testing.T) {
	snaps := &snapshotStore{}
	svc := newTestProfitLossService(exampleRecords(), snaps, nil)
	march := report.PeriodMonthly.PreviousRange(time.Date(2024, 4, 1, 2, 0, 0, 0, time.UTC), time.UTC)

	snap, err := svc.GenerateForPeriod(context.Background(), report.PeriodMonthly, march)
	require.NoError(t, err)
	assert.True(t, snap.TotalRevenue.Equal(dec(20)))
	assert.True(t, snap.Range.Equal(march))

	_, err = svc.GenerateForPeriod(context.Background(), report.Period("hourly"), march)
	require.Error(t, err)
	assert.Equal(t, 1, snaps.len())
}

func TestProfitLossService_ListSnapshots(t *testing.T) {
	snaps := &snapshotStore{}
	ctx := context.Background()
	for i, p := range []report.Period{report.PeriodDaily, report.PeriodMonthly, report.PeriodDaily} {
		s, err := report.NewProfitLossSnapshot(p, shared.DateRange{}, report.ProfitLossMetrics{}, fixedNow.Add(time.Duration(i)*time.Hour))
		require.NoError(t, err)
		require.NoError(t, snaps.Insert(ctx, s))
	}
	svc := newTestProfitLossService(exampleRecords(), snaps, nil)

	all, err := svc.ListSnapshots(ctx, SnapshotListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.True(t, all[0].CreatedAt.After(all[1].CreatedAt))
	assert.Empty(t, all[0].Source)

	daily, err := svc.ListSnapshots(ctx, SnapshotListFilter{Period: "daily", Limit: 1})
	require.NoError(t, err)
	require.Len(t, daily, 1)
	assert.Equal(t, "daily", daily[0].Period)

	_, err = svc.ListSnapshots(ctx, SnapshotListFilter{Period: "fortnightly"})
	require.Error(t, err)
}
