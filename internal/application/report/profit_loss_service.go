package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/backoffice/backend/internal/domain/commerce"
	"github.com/backoffice/backend/internal/domain/report"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/infrastructure/logger"
	"github.com/backoffice/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	defaultClaimTTL      = 2 * time.Minute
	defaultClaimWait     = 250 * time.Millisecond
	defaultSnapshotLimit = 20
)

// ProfitLossServiceConfig holds the collaborators of ProfitLossService
type ProfitLossServiceConfig struct {
	Orders    commerce.OrderReader
	Purchases commerce.PurchaseReader
	Expenses  commerce.MarketingExpenseReader
	Products  commerce.ProductReader
	Snapshots report.SnapshotRepository

	// Claims deduplicates generation across instances. Optional.
	Claims shared.IdempotencyStore
	// ClaimTTL bounds how long a generation claim is held
	ClaimTTL time.Duration
	// ClaimWait is how long a caller that lost the claim waits before looking up again
	ClaimWait time.Duration

	Location *time.Location
	Metrics  *telemetry.ReportMetrics
	Logger   *zap.Logger
	Now      func() time.Time
}

// ProfitLossService builds, stores and looks up profit/loss snapshots
type ProfitLossService struct {
	orders    commerce.OrderReader
	purchases commerce.PurchaseReader
	expenses  commerce.MarketingExpenseReader
	products  commerce.ProductReader
	snapshots report.SnapshotRepository
	claims    shared.IdempotencyStore
	claimTTL  time.Duration
	claimWait time.Duration
	loc       *time.Location
	metrics   *telemetry.ReportMetrics
	logger    *zap.Logger
	now       func() time.Time

	inflight singleflight.Group
}

// NewProfitLossService creates a new ProfitLossService
func NewProfitLossService(cfg ProfitLossServiceConfig) *ProfitLossService {
	s := &ProfitLossService{
		orders:    cfg.Orders,
		purchases: cfg.Purchases,
		expenses:  cfg.Expenses,
		products:  cfg.Products,
		snapshots: cfg.Snapshots,
		claims:    cfg.Claims,
		claimTTL:  cfg.ClaimTTL,
		claimWait: cfg.ClaimWait,
		loc:       cfg.Location,
		metrics:   cfg.Metrics,
		logger:    cfg.Logger,
		now:       cfg.Now,
	}
	if s.claimTTL <= 0 {
		s.claimTTL = defaultClaimTTL
	}
	if s.claimWait <= 0 {
		s.claimWait = defaultClaimWait
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	if s.metrics == nil {
		s.metrics = telemetry.NopReportMetrics()
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// GetProfitLoss returns the latest snapshot matching the request, generating
// one when none exists. The response says whether it was found or generated.
func (s *ProfitLossService) GetProfitLoss(ctx context.Context, req ProfitLossRequest) (*ProfitLossResponse, error) {
	period, r, err := s.parseRequest(req)
	if err != nil {
		return nil, err
	}
	result, err := s.lookupOrGenerate(ctx, period, r)
	if err != nil {
		return nil, err
	}
	return ToProfitLossResponse(result.Snapshot, result.Source), nil
}

// GenerateProfitLoss always computes and stores a new snapshot
func (s *ProfitLossService) GenerateProfitLoss(ctx context.Context, req ProfitLossRequest) (*ProfitLossResponse, error) {
	period, r, err := s.parseRequest(req)
	if err != nil {
		return nil, err
	}
	snap, err := s.generate(ctx, period, r)
	if err != nil {
		return nil, err
	}
	return ToProfitLossResponse(snap, report.SnapshotGenerated), nil
}

// GenerateForPeriod stores a snapshot for an already resolved range.
// It backs the scheduled snapshot jobs.
func (s *ProfitLossService) GenerateForPeriod(ctx context.Context, period report.Period, r shared.DateRange) (*report.ProfitLossSnapshot, error) {
	if !period.IsValid() {
		return nil, shared.NewDomainError("INVALID_PERIOD", "invalid period: "+string(period))
	}
	return s.generate(ctx, period, r)
}

// GetCategoryWise returns the per-key revenue, cost, expenses and profit of
// the snapshot GetProfitLoss would return
func (s *ProfitLossService) GetCategoryWise(ctx context.Context, req ProfitLossRequest) (*CategoryWiseResponse, error) {
	period, r, err := s.parseRequest(req)
	if err != nil {
		return nil, err
	}
	result, err := s.lookupOrGenerate(ctx, period, r)
	if err != nil {
		return nil, err
	}
	return toCategoryWiseResponse(result), nil
}

// ListSnapshots returns stored snapshots newest first
func (s *ProfitLossService) ListSnapshots(ctx context.Context, filter SnapshotListFilter) ([]ProfitLossResponse, error) {
	query := report.SnapshotQuery{Limit: filter.Limit}
	if filter.Period != "" {
		p, err := report.ParsePeriod(filter.Period)
		if err != nil {
			return nil, err
		}
		query.Period = p
	}
	if query.Limit <= 0 {
		query.Limit = defaultSnapshotLimit
	}

	snaps, err := s.snapshots.List(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	out := make([]ProfitLossResponse, len(snaps))
	for i := range snaps {
		out[i] = *ToProfitLossResponse(&snaps[i], "")
	}
	return out, nil
}

func (s *ProfitLossService) parseRequest(req ProfitLossRequest) (report.Period, shared.DateRange, error) {
	period, err := report.ParsePeriod(req.Period)
	if err != nil {
		return "", shared.DateRange{}, err
	}
	r, err := shared.ParseDateRange(req.StartDate, req.EndDate, s.loc)
	if err != nil {
		return "", shared.DateRange{}, err
	}
	return period, r, nil
}

func criteriaFor(period report.Period, r shared.DateRange) report.SnapshotCriteria {
	c := report.SnapshotCriteria{Period: period}
	if !r.IsUnbounded() {
		c.Range = &r
	}
	return c
}

// lookupOrGenerate collapses concurrent misses for one key in this process
// and claims the key across instances before generating.
func (s *ProfitLossService) lookupOrGenerate(ctx context.Context, period report.Period, r shared.DateRange) (*report.SnapshotResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "profit_loss", "get",
		telemetry.AttrPeriod.String(period.String()),
		telemetry.AttrRangeKey.String(r.Key()),
	)
	defer span.End()

	criteria := criteriaFor(period, r)
	snap, err := s.lookup(ctx, criteria)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if snap != nil {
		span.SetAttributes(telemetry.AttrSnapshotSource.String(string(report.SnapshotFound)))
		return report.Found(snap), nil
	}

	// The shared generation outlives whichever caller started it; it is
	// bounded by the claim TTL instead. Each caller only waits on its own ctx.
	key := report.SnapshotKey(period, r)
	ch := s.inflight.DoChan(key, func() (any, error) {
		genCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.claimTTL)
		defer cancel()
		return s.claimAndGenerate(genCtx, key, period, r, criteria)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		telemetry.RecordError(span, ctx.Err())
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		telemetry.RecordError(span, res.Err)
		return nil, res.Err
	}
	result := res.Val.(*report.SnapshotResult)
	span.SetAttributes(
		telemetry.AttrSnapshotSource.String(string(result.Source)),
		attribute.Bool("report.singleflight_shared", res.Shared),
	)
	return result, nil
}

func (s *ProfitLossService) claimAndGenerate(
	ctx context.Context,
	key string,
	period report.Period,
	r shared.DateRange,
	criteria report.SnapshotCriteria,
) (*report.SnapshotResult, error) {
	log := s.log(ctx).With(zap.String("snapshot_key", key))

	if s.claims != nil {
		token, claimed, err := s.claims.Claim(ctx, key, s.claimTTL)
		switch {
		case err != nil:
			log.Warn("Snapshot claim unavailable, generating without it", zap.Error(err))
		case claimed:
			defer func() {
				if err := s.claims.Release(context.WithoutCancel(ctx), key, token); err != nil {
					log.Warn("Failed to release snapshot claim", zap.Error(err))
				}
			}()
		default:
			// Another instance is generating: give it a moment, look once more,
			// and generate anyway if it has not landed.
			log.Debug("Snapshot claim held elsewhere, waiting before lookup")
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(s.claimWait):
			}
			snap, err := s.lookup(ctx, criteria)
			if err != nil {
				return nil, err
			}
			if snap != nil {
				return report.Found(snap), nil
			}
		}
	}

	snap, err := s.generate(ctx, period, r)
	if err != nil {
		return nil, err
	}
	return report.Generated(snap), nil
}

// lookup returns nil without error on a miss
func (s *ProfitLossService) lookup(ctx context.Context, criteria report.SnapshotCriteria) (*report.ProfitLossSnapshot, error) {
	snap, err := s.snapshots.FindLatest(ctx, criteria)
	if errors.Is(err, shared.ErrNotFound) {
		s.metrics.SnapshotLookup(ctx, criteria.Period.String(), false)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up snapshot: %w", err)
	}
	s.metrics.SnapshotLookup(ctx, criteria.Period.String(), true)
	return snap, nil
}

// generate reads the three record sets in parallel under a single upper
// bound, computes every metric, then performs one insert. The stored range
// is the caller's range, open end included.
func (s *ProfitLossService) generate(ctx context.Context, period report.Period, r shared.DateRange) (*report.ProfitLossSnapshot, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "profit_loss", "generate",
		telemetry.AttrPeriod.String(period.String()),
		telemetry.AttrRangeKey.String(r.Key()),
	)
	defer span.End()

	started := time.Now()
	asOf := s.now()
	bounded := r.CapEnd(asOf)

	var (
		orders    []commerce.Order
		purchases []commerce.Purchase
		expenses  []commerce.MarketingExpense
		products  []commerce.Product
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		orders, err = s.orders.FindOrders(gctx, commerce.OrderQuery{
			Range:    bounded,
			Statuses: []commerce.OrderStatus{commerce.OrderStatusCompleted},
		})
		return err
	})
	g.Go(func() error {
		var err error
		purchases, err = s.purchases.FindPurchases(gctx, bounded)
		return err
	})
	g.Go(func() error {
		var err error
		expenses, err = s.expenses.FindMarketingExpenses(gctx, bounded)
		return err
	})
	g.Go(func() error {
		var err error
		products, err = s.products.FindProducts(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		err = fmt.Errorf("failed to read profit/loss records: %w", err)
		telemetry.RecordError(span, err)
		return nil, err
	}

	metrics := report.ComputeProfitLoss(orders, purchases, expenses, commerce.NewCatalog(products), bounded)
	snap, err := report.NewProfitLossSnapshot(period, r, metrics, asOf)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := s.snapshots.Insert(ctx, snap); err != nil {
		err = fmt.Errorf("failed to store snapshot: %w", err)
		telemetry.RecordError(span, err)
		return nil, err
	}

	took := time.Since(started)
	s.metrics.SnapshotGenerated(ctx, period.String(), took)
	s.log(ctx).Info("Profit/loss snapshot generated",
		zap.String("snapshot_id", snap.ID.String()),
		zap.String("period", period.String()),
		zap.String("range", r.Key()),
		zap.String("total_revenue", snap.TotalRevenue.String()),
		zap.String("net_profit", snap.NetProfit().String()),
		zap.Duration("took", took),
	)
	return snap, nil
}

func (s *ProfitLossService) log(ctx context.Context) *zap.Logger {
	return logger.WithLogger(ctx, s.logger).Zap()
}
