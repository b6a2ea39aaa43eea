package report

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/backoffice/backend/internal/domain/commerce"
	"github.com/backoffice/backend/internal/domain/report"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var day0 = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func newProduct(name, category string, stock int) commerce.Product {
	p := commerce.Product{Name: name, Category: category, Stock: stock}
	p.ID = uuid.New()
	return p
}

func newOrder(customer uuid.UUID, status commerce.OrderStatus, at time.Time, items ...commerce.LineItem) commerce.Order {
	o := commerce.Order{CustomerID: customer, OrderedAt: at, Status: status, Items: items}
	o.ID = uuid.New()
	o.CreatedAt = at
	return o
}

func newLine(p commerce.Product, qty int, price float64) commerce.LineItem {
	return commerce.LineItem{ProductID: p.ID, ProductName: p.Name, Quantity: qty, UnitPrice: dec(price)}
}

// recordStore is an in-memory stand-in for every record reader
type recordStore struct {
	mu sync.Mutex

	orders    []commerce.Order
	purchases []commerce.Purchase
	expenses  []commerce.MarketingExpense
	products  []commerce.Product
	customers []commerce.Customer
	payments  []commerce.Payment
	shipments []commerce.Shipment

	err         error
	calls       int
	orderRanges []shared.DateRange

	// beforeOrders, when set, runs at the start of FindOrders
	beforeOrders func(ctx context.Context) error
}

func (s *recordStore) touch() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.err
}

func (s *recordStore) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *recordStore) FindOrders(ctx context.Context, q commerce.OrderQuery) ([]commerce.Order, error) {
	if s.beforeOrders != nil {
		if err := s.beforeOrders(ctx); err != nil {
			return nil, err
		}
	}
	if err := s.touch(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.orderRanges = append(s.orderRanges, q.Range)
	s.mu.Unlock()

	var out []commerce.Order
	for _, o := range s.orders {
		if !q.Range.Contains(o.OrderedAt) {
			continue
		}
		if len(q.Statuses) > 0 && !hasStatus(q.Statuses, o.Status) {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

func hasStatus(statuses []commerce.OrderStatus, s commerce.OrderStatus) bool {
	for _, st := range statuses {
		if st == s {
			return true
		}
	}
	return false
}

func (s *recordStore) FindPurchases(_ context.Context, r shared.DateRange) ([]commerce.Purchase, error) {
	if err := s.touch(); err != nil {
		return nil, err
	}
	var out []commerce.Purchase
	for _, p := range s.purchases {
		if r.Contains(p.PurchasedAt) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *recordStore) FindMarketingExpenses(_ context.Context, r shared.DateRange) ([]commerce.MarketingExpense, error) {
	if err := s.touch(); err != nil {
		return nil, err
	}
	var out []commerce.MarketingExpense
	for _, e := range s.expenses {
		if r.Contains(e.SpentAt) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *recordStore) FindProducts(_ context.Context) ([]commerce.Product, error) {
	if err := s.touch(); err != nil {
		return nil, err
	}
	return append([]commerce.Product(nil), s.products...), nil
}

func (s *recordStore) FindCustomers(_ context.Context, q commerce.CustomerQuery) ([]commerce.Customer, error) {
	if err := s.touch(); err != nil {
		return nil, err
	}
	ids := make(map[uuid.UUID]bool, len(q.IDs))
	for _, id := range q.IDs {
		ids[id] = true
	}
	var out []commerce.Customer
	for _, c := range s.customers {
		if !q.CreatedIn.Contains(c.CreatedAt) {
			continue
		}
		if len(ids) > 0 && !ids[c.ID] {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *recordStore) FindPayments(_ context.Context, r shared.DateRange) ([]commerce.Payment, error) {
	if err := s.touch(); err != nil {
		return nil, err
	}
	var out []commerce.Payment
	for _, p := range s.payments {
		if r.Contains(p.CreatedAt) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *recordStore) FindShipments(_ context.Context, r shared.DateRange) ([]commerce.Shipment, error) {
	if err := s.touch(); err != nil {
		return nil, err
	}
	var out []commerce.Shipment
	for _, sh := range s.shipments {
		if r.Contains(sh.CreatedAt) {
			out = append(out, sh)
		}
	}
	return out, nil
}

// snapshotStore is an append-only in-memory snapshot repository
type snapshotStore struct {
	mu        sync.Mutex
	snapshots []report.ProfitLossSnapshot
	insertErr error
	lookups   int
}

func (s *snapshotStore) Insert(_ context.Context, snap *report.ProfitLossSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insertErr != nil {
		return s.insertErr
	}
	s.snapshots = append(s.snapshots, *snap)
	return nil
}

func (s *snapshotStore) matching(c report.SnapshotCriteria) []report.ProfitLossSnapshot {
	var out []report.ProfitLossSnapshot
	for _, snap := range s.snapshots {
		if snap.Period != c.Period {
			continue
		}
		if c.Range != nil && !snap.Range.Equal(*c.Range) {
			continue
		}
		out = append(out, snap)
	}
	return out
}

func (s *snapshotStore) FindLatest(_ context.Context, c report.SnapshotCriteria) (*report.ProfitLossSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lookups++
	found := s.matching(c)
	if len(found) == 0 {
		return nil, shared.ErrNotFound
	}
	latest := found[0]
	for _, snap := range found[1:] {
		if !snap.CreatedAt.Before(latest.CreatedAt) {
			latest = snap
		}
	}
	return &latest, nil
}

func (s *snapshotStore) List(_ context.Context, q report.SnapshotQuery) ([]report.ProfitLossSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []report.ProfitLossSnapshot
	for i := len(s.snapshots) - 1; i >= 0; i-- {
		if q.Period != "" && s.snapshots[i].Period != q.Period {
			continue
		}
		out = append(out, s.snapshots[i])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (s *snapshotStore) lookupCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookups
}

func (s *snapshotStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.snapshots)
}

// claimStore answers Claim with a fixed outcome and runs onClaim first
type claimStore struct {
	mu       sync.Mutex
	claimed  bool
	err      error
	onClaim  func()
	released []string
}

func (c *claimStore) Claim(_ context.Context, key string, _ time.Duration) (string, bool, error) {
	if c.onClaim != nil {
		c.onClaim()
	}
	if !c.claimed || c.err != nil {
		return "", false, c.err
	}
	return "token-" + key, true, nil
}

func (c *claimStore) Release(_ context.Context, key, token string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if token == "token-"+key {
		c.released = append(c.released, key)
	}
	return nil
}

func (c *claimStore) Close() error { return nil }
