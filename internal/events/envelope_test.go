package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEnvelope(t *testing.T) {
	payload := OrderPlaced{OrderID: "ord-1", OrderNumber: "CZ-000001"}

	env := newEnvelope("OrderPlaced", orderPlacedEventVersion, orderPlacedSchemaRef, "ord-1", payload)

	assert.Equal(t, "OrderPlaced", env.EventName)
	assert.Equal(t, 1, env.EventVersion)
	assert.NotEmpty(t, env.EventID)
	assert.Equal(t, producerName, env.Producer)
	assert.Equal(t, "ord-1", env.PartitionKey)
	assert.Equal(t, orderPlacedSchemaRef, env.Schema)
	assert.WithinDuration(t, time.Now().UTC(), env.OccurredAt, time.Second)
	assert.Equal(t, payload, env.Payload)
}

func TestNewEnvelope_UniqueEventIDs(t *testing.T) {
	a := newEnvelope("OrderPlaced", 1, orderPlacedSchemaRef, "ord-1", OrderPlaced{})
	b := newEnvelope("OrderPlaced", 1, orderPlacedSchemaRef, "ord-1", OrderPlaced{})

	assert.NotEqual(t, a.EventID, b.EventID)
}

func TestEnvelopeValidate(t *testing.T) {
	env := newEnvelope("OrderPlaced", 1, orderPlacedSchemaRef, "ord-1", OrderPlaced{})

	assert.NoError(t, env.Validate("OrderPlaced", 1))
	assert.Error(t, env.Validate("OrderStatusChanged", 1))
	assert.Error(t, env.Validate("OrderPlaced", 2))

	env.PartitionKey = ""
	assert.Error(t, env.Validate("OrderPlaced", 1))
}

func TestEnvelopeJSONRoundTrip(t *testing.T) {
	env := newEnvelope("OrderStatusChanged", orderStatusChangedEventVersion, orderStatusChangedSchemaRef, "ord-1", OrderStatusChanged{
		OrderID:        "ord-1",
		OrderNumber:    "CZ-000001",
		PreviousStatus: "pending",
		NewStatus:      "confirmed",
		PaymentStatus:  "pending",
		Timestamp:      time.Now().UTC().Truncate(time.Second),
	})

	body, err := json.Marshal(env)
	require.NoError(t, err)

	var decoded Envelope[OrderStatusChanged]
	require.NoError(t, json.Unmarshal(body, &decoded))
	require.NoError(t, decoded.Validate("OrderStatusChanged", orderStatusChangedEventVersion))
	assert.Equal(t, env.Payload, decoded.Payload)
}
