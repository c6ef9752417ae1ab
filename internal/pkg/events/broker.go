// Package events provides the in-process broker that fans state-change
// notifications out to live client connections. It is broadcast-only:
// no replay, no acknowledgment, no delivery guarantee. Subscriber state
// lives in memory and resets on restart, which is tolerable because
// clients re-fetch authoritative state on every notification instead of
// trusting event payloads.
package events

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"
)

// Event types published by the request and student handlers.
const (
	EventRequestCreated = "request-created"
	EventRequestUpdated = "request-updated"
	EventStudentCreated = "student-created"
	EventStudentUpdated = "student-updated"
)

// RequestEvent is the hint payload for request events. Receivers re-fetch
// the full record; this only tells them whose view changed.
type RequestEvent struct {
	StudentNo string `json:"studentNo"`
	RequestID string `json:"requestId,omitempty"`
	Status    string `json:"status,omitempty"`
}

// StudentEvent is the hint payload for student account events.
type StudentEvent struct {
	StudentNo string `json:"studentNo"`
	Status    string `json:"status,omitempty"`
}

// WriteFunc pushes one encoded event frame to a client connection.
type WriteFunc func(eventType string, data []byte) error

type subscriber struct {
	id    string
	write WriteFunc
}

// Broker maintains the set of live subscribers and broadcasts events to them
// synchronously, in registration order. It is a process-wide singleton
// created at startup and injected into handlers; there is no ordering or
// delivery guarantee across multiple processes.
type Broker struct {
	mu     sync.RWMutex
	subs   []subscriber
	logger zerolog.Logger
}

// NewBroker creates an empty broker.
func NewBroker(logger zerolog.Logger) *Broker {
	return &Broker{logger: logger}
}

// Subscribe registers a push target. Idempotent per connection id: a second
// subscription replaces the write function but keeps the original position
// in delivery order.
func (b *Broker) Subscribe(connectionID string, write WriteFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, sub := range b.subs {
		if sub.id == connectionID {
			b.subs[i].write = write
			return
		}
	}
	b.subs = append(b.subs, subscriber{id: connectionID, write: write})

	b.logger.Debug().
		Str("connectionID", connectionID).
		Int("subscribers", len(b.subs)).
		Msg("Subscriber registered")
}

// Unsubscribe removes a push target. Safe to call on an id that was already
// removed or never registered.
func (b *Broker) Unsubscribe(connectionID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, sub := range b.subs {
		if sub.id == connectionID {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			b.logger.Debug().
				Str("connectionID", connectionID).
				Int("subscribers", len(b.subs)).
				Msg("Subscriber removed")
			return
		}
	}
}

// Publish sends the event to every currently registered subscriber, in
// registration order. A subscriber whose write fails is logged and skipped,
// never removed here: cleanup belongs to its own connection-close detection.
// Publishing with zero subscribers is a no-op.
func (b *Broker) Publish(eventType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		b.logger.Error().Err(err).Str("event", eventType).Msg("Failed to marshal event payload")
		return
	}

	b.mu.RLock()
	subs := make([]subscriber, len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	for _, sub := range subs {
		if err := b.deliver(sub, eventType, data); err != nil {
			b.logger.Warn().
				Err(err).
				Str("connectionID", sub.id).
				Str("event", eventType).
				Msg("Failed to deliver event to subscriber")
		}
	}
}

// deliver isolates one subscriber's write so a panicking callback cannot
// abort delivery to the rest.
func (b *Broker) deliver(sub subscriber, eventType string, data []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error().
				Interface("panic", r).
				Str("connectionID", sub.id).
				Msg("Subscriber write panicked")
		}
	}()
	return sub.write(eventType, data)
}

// SubscriberCount returns the number of live subscribers.
func (b *Broker) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Drain drops every subscriber. Called once at shutdown after the HTTP
// server has stopped accepting connections.
func (b *Broker) Drain() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = nil
}
