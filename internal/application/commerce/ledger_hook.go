package commerce

import (
	"context"
	"fmt"

	"github.com/backoffice/backend/internal/domain/commerce"
	"github.com/backoffice/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// LedgerHook is the bookkeeping side effect of recorded purchases and of
// orders entering or leaving completed, which is when revenue is recognised.
// Posting to a ledger is outside this service, so it only logs.
type LedgerHook struct {
	logger *zap.Logger
}

// NewLedgerHook creates a new LedgerHook
func NewLedgerHook(logger *zap.Logger) *LedgerHook {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LedgerHook{logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *LedgerHook) EventTypes() []string {
	return []string{commerce.EventTypePurchaseRecorded, commerce.EventTypeOrderStatusChanged}
}

// Handle processes purchase and order status events
func (h *LedgerHook) Handle(_ context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *commerce.PurchaseRecordedEvent:
		h.logger.Debug("Ledger hook skipped purchase posting",
			zap.String("purchase_id", e.PurchaseID.String()),
			zap.String("product_id", e.ProductID.String()),
			zap.Int("quantity", e.Quantity),
			zap.String("total", e.Total.String()),
		)
	case *commerce.OrderStatusChangedEvent:
		var entry string
		switch {
		case e.To == commerce.OrderStatusCompleted:
			entry = "revenue"
		case e.From == commerce.OrderStatusCompleted:
			entry = "revenue_reversal"
		default:
			return nil
		}
		h.logger.Debug("Ledger hook skipped order posting",
			zap.String("order_id", e.OrderID.String()),
			zap.String("entry", entry),
			zap.String("from", e.From.String()),
			zap.String("to", e.To.String()),
		)
	default:
		return fmt.Errorf("unexpected event type: %s", event.EventType())
	}
	return nil
}
