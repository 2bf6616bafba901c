package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType represents the type of event (created, updated, deleted)
type EventType string

const (
	EventTypeCreated EventType = "created"
	EventTypeUpdated EventType = "updated"
	EventTypeDeleted EventType = "deleted"
	// EventTypeClosed fires when an investment reaches full capital return
	// or is force-closed.
	EventTypeClosed EventType = "closed"
	// EventTypeReturned fires when a return is recorded against an investment.
	EventTypeReturned EventType = "returned"
)

// EntityType represents the type of entity the event is about
type EntityType string

const (
	EntityTypeTransaction EntityType = "transaction"
	EntityTypeCategory    EntityType = "category"
	EntityTypeInvestment  EntityType = "investment"
)

// Event represents a WebSocket event message sent to clients
// Format: { type, entity, payload, timestamp }
type Event struct {
	Type      string      `json:"type"`      // Combined type e.g. "transaction.created"
	Entity    EntityType  `json:"entity"`    // Entity type e.g. "transaction"
	Payload   interface{} `json:"payload"`   // Full entity data
	Timestamp time.Time   `json:"timestamp"` // Event timestamp
}

// NewEvent creates a new event with the given type, entity, and payload
func NewEvent(eventType EventType, entityType EntityType, payload interface{}) Event {
	return Event{
		Type:      fmt.Sprintf("%s.%s", entityType, eventType),
		Entity:    entityType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// TransactionCreated creates a transaction.created event
func TransactionCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeTransaction, payload)
}

// TransactionUpdated creates a transaction.updated event
func TransactionUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeTransaction, payload)
}

// TransactionDeleted creates a transaction.deleted event
func TransactionDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeTransaction, payload)
}

// CategoryCreated creates a category.created event
func CategoryCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeCategory, payload)
}

// CategoryDeleted creates a category.deleted event
func CategoryDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeCategory, payload)
}

// InvestmentCreated creates an investment.created event
func InvestmentCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeInvestment, payload)
}

// InvestmentUpdated creates an investment.updated event
func InvestmentUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeInvestment, payload)
}

// InvestmentReturned creates an investment.returned event
func InvestmentReturned(payload interface{}) Event {
	return NewEvent(EventTypeReturned, EntityTypeInvestment, payload)
}

// InvestmentClosed creates an investment.closed event
func InvestmentClosed(payload interface{}) Event {
	return NewEvent(EventTypeClosed, EntityTypeInvestment, payload)
}

// InvestmentDeleted creates an investment.deleted event
func InvestmentDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeInvestment, payload)
}
