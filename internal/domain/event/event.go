package event

import (
	"context"
	"time"

	vo "github.com/oksasatya/go-ddd-auth/internal/domain/valueobject"
)

const (
	NameUserCreated       = "user.created"
	NameUserStatusChanged = "user.status_changed"
)

// timeLayout is the occurredAt format used in ToMap payloads.
const timeLayout = "2006-01-02 15:04:05"

var now = func() time.Time { return time.Now().UTC() }

// Event is an immutable fact about a user aggregate.
type Event interface {
	Name() string
	AggregateID() vo.UserID
	OccurredAt() time.Time
	ToMap() map[string]any
}

// Publisher dispatches events to whatever sinks are configured. Delivery is
// best effort from the caller's point of view.
type Publisher interface {
	Publish(ctx context.Context, events ...Event) error
}

// Envelope is the wire form of an Event.
type Envelope struct {
	Name        string         `json:"name"`
	AggregateID string         `json:"aggregate_id"`
	OccurredAt  time.Time      `json:"occurred_at"`
	Payload     map[string]any `json:"payload"`
}

func NewEnvelope(e Event) Envelope {
	return Envelope{
		Name:        e.Name(),
		AggregateID: e.AggregateID().String(),
		OccurredAt:  e.OccurredAt(),
		Payload:     e.ToMap(),
	}
}

// StringField reads a string payload value, tolerating absent keys.
func (e Envelope) StringField(key string) string {
	if v, ok := e.Payload[key].(string); ok {
		return v
	}
	return ""
}

// BoolField reads a boolean payload value, false when absent.
func (e Envelope) BoolField(key string) bool {
	v, _ := e.Payload[key].(bool)
	return v
}
