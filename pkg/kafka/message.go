package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Message is the event envelope published to Kafka.
type Message struct {
	Key       string
	Value     []byte
	Headers   map[string]string
	Timestamp time.Time
}

// Header keys shared across TDMS services.
const (
	HeaderEventID       = "event-id"
	HeaderEventType     = "event-type"
	HeaderSource        = "source"
	HeaderSchemaVersion = "schema-version"
)

// Event types.
const (
	EventSubmissionFinalized = "submission.finalized"
)

// NewEvent builds a message with the standard headers and a JSON-encoded
// payload. The key determines partition routing; use the owner ID so one
// establishment's events stay ordered.
func NewEvent(eventType, source, key string, payload any) (Message, error) {
	value, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("failed to encode event payload: %w", err)
	}

	return Message{
		Key:   key,
		Value: value,
		Headers: map[string]string{
			HeaderEventID:       uuid.NewString(),
			HeaderEventType:     eventType,
			HeaderSource:        source,
			HeaderSchemaVersion: "1",
		},
		Timestamp: time.Now().UTC(),
	}, nil
}
