package memory

import (
	"context"
	"sync"

	"github.com/oksasatya/go-ddd-auth/internal/domain/event"
)

// EventRecorder is an event.Publisher that keeps everything it is given.
type EventRecorder struct {
	mu     sync.Mutex
	events []event.Event
}

func NewEventRecorder() *EventRecorder { return &EventRecorder{} }

func (r *EventRecorder) Publish(ctx context.Context, events ...event.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	r.events = append(r.events, events...)
	r.mu.Unlock()
	return nil
}

func (r *EventRecorder) Events() []event.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]event.Event, len(r.events))
	copy(out, r.events)
	return out
}

func (r *EventRecorder) Reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}

var _ event.Publisher = (*EventRecorder)(nil)
