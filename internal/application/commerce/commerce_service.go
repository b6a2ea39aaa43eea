package commerce

import (
	"context"
	"errors"
	"fmt"

	"github.com/backoffice/backend/internal/domain/commerce"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CommerceService records the transactional data the reports read.
// It is plain validate-save-return plumbing plus post-purchase events.
type CommerceService struct {
	orders         commerce.OrderWriter
	purchases      commerce.PurchaseWriter
	expenses       commerce.MarketingExpenseWriter
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewCommerceService creates a new CommerceService
func NewCommerceService(
	orders commerce.OrderWriter,
	purchases commerce.PurchaseWriter,
	expenses commerce.MarketingExpenseWriter,
	eventPublisher shared.EventPublisher,
	logger *zap.Logger,
) *CommerceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommerceService{
		orders:         orders,
		purchases:      purchases,
		expenses:       expenses,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// PlaceOrder validates and stores a new pending order
func (s *CommerceService) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*OrderResponse, error) {
	items := make([]commerce.LineItem, 0, len(req.Items))
	for _, in := range req.Items {
		item, err := commerce.NewLineItem(in.ProductID, in.ProductName, in.Quantity, in.UnitPrice)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	order, err := commerce.NewOrder(req.CustomerID, timeOrZero(req.OrderedAt), items)
	if err != nil {
		return nil, err
	}
	if err := s.orders.SaveOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	s.logger.Info("Order placed",
		zap.String("order_id", order.ID.String()),
		zap.String("customer_id", order.CustomerID.String()),
		zap.Int("items", len(order.Items)),
	)
	return ToOrderResponse(order), nil
}

// UpdateOrderStatus moves an order along its lifecycle
func (s *CommerceService) UpdateOrderStatus(ctx context.Context, id uuid.UUID, req UpdateOrderStatusRequest) (*OrderResponse, error) {
	status, err := commerce.ParseOrderStatus(req.Status)
	if err != nil {
		return nil, err
	}
	order, err := s.orders.FindOrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Order not found")
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}

	from := order.Status
	if err := order.UpdateStatus(status); err != nil {
		return nil, err
	}
	if err := s.orders.SaveOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	s.publish(ctx, commerce.NewOrderStatusChangedEvent(order.ID, from, status))
	return ToOrderResponse(order), nil
}

// RecordPurchase stores a supplier purchase and notifies bookkeeping
// subscribers. Subscriber failures never fail the purchase.
func (s *CommerceService) RecordPurchase(ctx context.Context, req RecordPurchaseRequest) (*PurchaseResponse, error) {
	purchase, err := commerce.NewPurchase(req.ProductID, req.Quantity, req.UnitPrice, req.TotalPrice, timeOrZero(req.PurchasedAt))
	if err != nil {
		return nil, err
	}
	if err := s.purchases.SavePurchase(ctx, purchase); err != nil {
		return nil, fmt.Errorf("failed to save purchase: %w", err)
	}

	s.publish(ctx, commerce.NewPurchaseRecordedEvent(purchase))
	return ToPurchaseResponse(purchase), nil
}

// RecordMarketingExpense stores ad spend
func (s *CommerceService) RecordMarketingExpense(ctx context.Context, req RecordMarketingExpenseRequest) (*MarketingExpenseResponse, error) {
	expense, err := commerce.NewMarketingExpense(req.Platform, req.AdSpend, timeOrZero(req.SpentAt))
	if err != nil {
		return nil, err
	}
	if err := s.expenses.SaveMarketingExpense(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to save marketing expense: %w", err)
	}
	return ToMarketingExpenseResponse(expense), nil
}

func (s *CommerceService) publish(ctx context.Context, event shared.DomainEvent) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish event",
			zap.String("event_type", event.EventType()),
			zap.String("aggregate_id", event.AggregateID().String()),
			zap.Error(err),
		)
	}
}
