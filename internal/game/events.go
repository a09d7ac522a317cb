package game

import (
	"slices"
	"sync"

	"github.com/tactica/tactica-core/internal/game/match"
)

// Listener reacts to events emitted by a match.
type Listener func(matchID string, event match.Event)

type subscription struct {
	handle   int
	typed    bool
	only     match.EventType
	callback Listener
}

// EventBus is a synchronous publish/subscribe fan-out with optional type
// filtering. Listeners run in subscription order.
type EventBus struct {
	mu         sync.RWMutex
	subs       []subscription
	nextHandle int
}

// NewEventBus constructs an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{}
}

// Subscribe registers a listener for every event and returns its handle.
func (bus *EventBus) Subscribe(listener Listener) int {
	if listener == nil {
		return -1
	}
	return bus.add(subscription{callback: listener})
}

// SubscribeTyped registers a listener for a single event type.
func (bus *EventBus) SubscribeTyped(eventType match.EventType, listener Listener) int {
	if listener == nil {
		return -1
	}
	return bus.add(subscription{typed: true, only: eventType, callback: listener})
}

func (bus *EventBus) add(sub subscription) int {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	sub.handle = bus.nextHandle
	bus.nextHandle++
	bus.subs = append(bus.subs, sub)
	return sub.handle
}

// Unsubscribe removes the listener identified by handle.
func (bus *EventBus) Unsubscribe(handle int) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.subs = slices.DeleteFunc(bus.subs, func(s subscription) bool { return s.handle == handle })
}

// Publish delivers event to every matching listener. Listeners must not
// subscribe or unsubscribe from inside the callback.
func (bus *EventBus) Publish(matchID string, event match.Event) {
	bus.mu.RLock()
	defer bus.mu.RUnlock()

	for _, sub := range bus.subs {
		if sub.typed && sub.only != event.Type {
			continue
		}
		sub.callback(matchID, event)
	}
}

// PublishBatch publishes events in order.
func (bus *EventBus) PublishBatch(matchID string, events []match.Event) {
	for _, event := range events {
		bus.Publish(matchID, event)
	}
}
