package events

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Envelope is the common wrapper for all events. It is generic so each event
// keeps a strongly typed payload.
type Envelope[T any] struct {
	EventName    string    `json:"eventName"`
	EventVersion int       `json:"eventVersion"`
	EventID      string    `json:"eventId"`
	Producer     string    `json:"producer"`
	PartitionKey string    `json:"partitionKey"`
	OccurredAt   time.Time `json:"occurredAt"`
	Schema       string    `json:"schema"`
	Payload      T         `json:"payload"`
}

func newEnvelope[T any](name string, version int, schema, partitionKey string, payload T) Envelope[T] {
	return Envelope[T]{
		EventName:    name,
		EventVersion: version,
		EventID:      uuid.NewString(),
		Producer:     producerName,
		PartitionKey: partitionKey,
		OccurredAt:   time.Now().UTC(),
		Schema:       schema,
		Payload:      payload,
	}
}

// Validate ensures the envelope carries the expected event identity.
func (e Envelope[T]) Validate(expectedName string, expectedVersion int) error {
	if e.EventName != expectedName {
		return fmt.Errorf("unexpected eventName: %s", e.EventName)
	}
	if e.EventVersion != expectedVersion {
		return fmt.Errorf("unexpected eventVersion: %d", e.EventVersion)
	}
	if e.PartitionKey == "" {
		return fmt.Errorf("missing partitionKey")
	}
	return nil
}
