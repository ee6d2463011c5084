package events

import (
	"errors"
	"sync"
	"time"

	"github.com/goccy/go-json"
)

// Event types published by editing sessions.
const (
	ScheduleSaved      = "schedule.saved"
	ScheduleSaveFailed = "schedule.save_failed"
	ConflictsDetected  = "schedule.conflicts_detected"
	VenuesReloaded     = "venues.reloaded"
)

// SavePayload is the payload of schedule.* events.
type SavePayload struct {
	Trigger string `json:"trigger"` // "autosave" or "explicit"
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// Event represents a lightweight domain event.
type Event struct {
	Type         string
	RestaurantID string
	Payload      []byte
	CreatedAt    time.Time
}

// Decode unmarshals the payload into out.
func (e Event) Decode(out any) error {
	if len(e.Payload) == 0 {
		return nil
	}
	return json.Unmarshal(e.Payload, out)
}

// EventHandler reacts to an event.
type EventHandler func(event Event) error

// EventBus provides in-process pub/sub for events.
type EventBus struct {
	subscribers map[string][]EventHandler
	mu          sync.RWMutex
}

// NewEventBus constructs an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{subscribers: make(map[string][]EventHandler)}
}

// Subscribe registers a handler for a given event type.
func (b *EventBus) Subscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish notifies subscribers of the event type and returns their
// joined errors. Handlers run synchronously in subscription order.
func (b *EventBus) Publish(event Event) error {
	if b == nil {
		return nil
	}
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	var errs []error
	for _, handler := range handlers {
		if err := handler(event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// PublishJSON publishes an event whose payload is payload encoded as JSON.
func (b *EventBus) PublishJSON(eventType, restaurantID string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return b.Publish(Event{Type: eventType, RestaurantID: restaurantID, Payload: data})
}
