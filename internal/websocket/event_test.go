package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventType_String(t *testing.T) {
	tests := []struct {
		name     string
		et       EventType
		expected string
	}{
		{"created", EventTypeCreated, "created"},
		{"updated", EventTypeUpdated, "updated"},
		{"deleted", EventTypeDeleted, "deleted"},
		{"closed", EventTypeClosed, "closed"},
		{"returned", EventTypeReturned, "returned"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(tt.et))
		})
	}
}

func TestEntityType_String(t *testing.T) {
	tests := []struct {
		name     string
		et       EntityType
		expected string
	}{
		{"transaction", EntityTypeTransaction, "transaction"},
		{"category", EntityTypeCategory, "category"},
		{"investment", EntityTypeInvestment, "investment"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(tt.et))
		})
	}
}

func TestNewEvent(t *testing.T) {
	payload := map[string]interface{}{
		"id":     "d2b0e6a4-0000-0000-0000-000000000001",
		"amount": "100.00",
	}

	before := time.Now()
	evt := NewEvent(EventTypeCreated, EntityTypeTransaction, payload)
	after := time.Now()

	assert.Equal(t, "transaction.created", evt.Type)
	assert.Equal(t, EntityTypeTransaction, evt.Entity)
	assert.Equal(t, payload, evt.Payload)
	assert.True(t, !evt.Timestamp.Before(before) && !evt.Timestamp.After(after))
}

func TestEvent_JSON_Serialization(t *testing.T) {
	fixedTime := time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)
	payload := map[string]interface{}{
		"id":     "d2b0e6a4-0000-0000-0000-000000000001",
		"amount": "100.00",
	}

	evt := Event{
		Type:      "transaction.created",
		Entity:    EntityTypeTransaction,
		Payload:   payload,
		Timestamp: fixedTime,
	}

	data, err := json.Marshal(evt)
	require.NoError(t, err)

	var decoded Event
	err = json.Unmarshal(data, &decoded)
	require.NoError(t, err)

	assert.Equal(t, evt.Type, decoded.Type)
	assert.Equal(t, evt.Entity, decoded.Entity)
	assert.Equal(t, fixedTime.UTC(), decoded.Timestamp.UTC())

	// Payload should be preserved
	decodedPayload, ok := decoded.Payload.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "100.00", decodedPayload["amount"])
}

func TestEvent_ToJSON(t *testing.T) {
	payload := map[string]interface{}{
		"id": "d2b0e6a4-0000-0000-0000-000000000042",
	}

	evt := NewEvent(EventTypeUpdated, EntityTypeTransaction, payload)

	data, err := evt.ToJSON()
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	// Verify it's valid JSON
	var decoded map[string]interface{}
	err = json.Unmarshal(data, &decoded)
	require.NoError(t, err)

	assert.Equal(t, "transaction.updated", decoded["type"])
	assert.Equal(t, "transaction", decoded["entity"])
	assert.NotNil(t, decoded["payload"])
	assert.NotNil(t, decoded["timestamp"])
}

func TestInvestmentEvent_Helpers(t *testing.T) {
	payload := map[string]interface{}{
		"id":     "d2b0e6a4-0000-0000-0000-000000000001",
		"name":   "Food truck",
		"status": "open",
	}

	t.Run("InvestmentCreated", func(t *testing.T) {
		evt := InvestmentCreated(payload)
		assert.Equal(t, "investment.created", evt.Type)
		assert.Equal(t, EntityTypeInvestment, evt.Entity)
		assert.Equal(t, payload, evt.Payload)
	})

	t.Run("InvestmentReturned", func(t *testing.T) {
		evt := InvestmentReturned(payload)
		assert.Equal(t, "investment.returned", evt.Type)
		assert.Equal(t, EntityTypeInvestment, evt.Entity)
		assert.Equal(t, payload, evt.Payload)
	})

	t.Run("InvestmentClosed", func(t *testing.T) {
		evt := InvestmentClosed(payload)
		assert.Equal(t, "investment.closed", evt.Type)
		assert.Equal(t, EntityTypeInvestment, evt.Entity)
		assert.Equal(t, payload, evt.Payload)
	})

	t.Run("InvestmentDeleted", func(t *testing.T) {
		evt := InvestmentDeleted(payload)
		assert.Equal(t, "investment.deleted", evt.Type)
		assert.Equal(t, EntityTypeInvestment, evt.Entity)
		assert.Equal(t, payload, evt.Payload)
	})
}

func TestTransactionEvent_Helpers(t *testing.T) {
	txPayload := map[string]interface{}{
		"id":     "d2b0e6a4-0000-0000-0000-000000000001",
		"amount": "50.00",
	}

	t.Run("TransactionCreated", func(t *testing.T) {
		evt := TransactionCreated(txPayload)
		assert.Equal(t, "transaction.created", evt.Type)
		assert.Equal(t, EntityTypeTransaction, evt.Entity)
		assert.Equal(t, txPayload, evt.Payload)
	})

	t.Run("TransactionUpdated", func(t *testing.T) {
		evt := TransactionUpdated(txPayload)
		assert.Equal(t, "transaction.updated", evt.Type)
		assert.Equal(t, EntityTypeTransaction, evt.Entity)
		assert.Equal(t, txPayload, evt.Payload)
	})

	t.Run("TransactionDeleted", func(t *testing.T) {
		evt := TransactionDeleted(txPayload)
		assert.Equal(t, "transaction.deleted", evt.Type)
		assert.Equal(t, EntityTypeTransaction, evt.Entity)
		assert.Equal(t, txPayload, evt.Payload)
	})
}

func TestCategoryEvent_Helpers(t *testing.T) {
	payload := map[string]interface{}{
		"id":   "d2b0e6a4-0000-0000-0000-000000000001",
		"name": "Food",
	}

	evt := CategoryCreated(payload)
	assert.Equal(t, "category.created", evt.Type)
	assert.Equal(t, EntityTypeCategory, evt.Entity)

	evt = CategoryDeleted(payload)
	assert.Equal(t, "category.deleted", evt.Type)
}
