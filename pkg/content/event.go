package content

import (
	"time"

	"github.com/google/uuid"

	"github.com/cimlabs/cim-ipld/pkg/codec"
)

// Event is a domain event whose identity must survive differing envelope
// metadata (event_id, timestamp, correlation_id) while changing under any
// change to event_type, aggregate_id, or payload.
type Event struct {
	// Canonical fields — drive CID computation.
	EventType   string                 `json:"event_type"`
	AggregateID string                 `json:"aggregate_id"`
	Payload     map[string]interface{} `json:"payload"`

	// Envelope fields — present in storage bytes, excluded from the
	// canonical payload.
	EventID       string    `json:"event_id"`
	Timestamp     time.Time `json:"timestamp"`
	CorrelationID string    `json:"correlation_id,omitempty"`
}

func (Event) CodecCode() codec.Code { return codec.Events }
func (Event) ContentType() string   { return "event" }

// NewEvent builds an Event with a fresh event_id and the current time,
// stamping the envelope fields that CanonicalPayload deliberately excludes.
func NewEvent(eventType, aggregateID string, payload map[string]interface{}) Event {
	return Event{
		EventType:   eventType,
		AggregateID: aggregateID,
		Payload:     payload,
		EventID:     uuid.New().String(),
		Timestamp:   time.Now(),
	}
}

// ToBytes produces the full storage encoding, envelope fields included.
func (e Event) ToBytes() ([]byte, error) {
	return codec.CanonicalJSON(e)
}

// CanonicalPayload serializes only {event_type, aggregate_id, payload}, so
// two events differing only in event_id/timestamp/correlation_id yield
// equal CIDs.
func (e Event) CanonicalPayload() ([]byte, error) {
	return codec.CanonicalJSON(struct {
		EventType   string                 `json:"event_type"`
		AggregateID string                 `json:"aggregate_id"`
		Payload     map[string]interface{} `json:"payload"`
	}{e.EventType, e.AggregateID, e.Payload})
}
