package shared

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DomainEvent is something a recording operation announces after it has
// been stored. Reports never react to events; bookkeeping hooks do.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	// AggregateID is the id of the stored record the event is about
	AggregateID() uuid.UUID
}

// BaseDomainEvent is embedded by concrete events.
type BaseDomainEvent struct {
	ID      uuid.UUID `json:"id"`
	Type    string    `json:"type"`
	At      time.Time `json:"occurred_at"`
	Subject uuid.UUID `json:"aggregate_id"`
	Kind    string    `json:"aggregate_type"`
}

func NewBaseDomainEvent(eventType, aggregateType string, aggregateID uuid.UUID) BaseDomainEvent {
	return BaseDomainEvent{
		ID:      uuid.New(),
		Type:    eventType,
		At:      time.Now().UTC(),
		Subject: aggregateID,
		Kind:    aggregateType,
	}
}

func (e *BaseDomainEvent) EventID() uuid.UUID     { return e.ID }
func (e *BaseDomainEvent) EventType() string      { return e.Type }
func (e *BaseDomainEvent) OccurredAt() time.Time  { return e.At }
func (e *BaseDomainEvent) AggregateID() uuid.UUID { return e.Subject }

// EventHandler consumes published events. An empty EventTypes result
// subscribes the handler to every event type.
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	EventTypes() []string
}

// EventPublisher is what recording services depend on.
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventBus is the process-wide publisher with subscription and lifecycle.
type EventBus interface {
	EventPublisher
	Subscribe(handler EventHandler, eventTypes ...string)
	Unsubscribe(handler EventHandler)
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}
