// Package events carries pipeline lifecycle notifications to interested
// observers (logging, metrics, a future control surface).
package events

import (
	"github.com/kelindar/event"
)

// Bus wraps a kelindar/event dispatcher.
// A nil *Bus is valid and drops every event.
type Bus struct {
	dispatcher *event.Dispatcher
}

// New creates a new event bus.
func New() *Bus {
	return &Bus{
		dispatcher: event.NewDispatcher(),
	}
}

// Publish delivers ev to every subscriber of its concrete type.
// Delivery is asynchronous.
func (b *Bus) Publish(ev Event) {
	if b == nil {
		return
	}
	switch e := ev.(type) {
	case StateChangedEvent:
		event.Publish(b.dispatcher, e)
	case StreamOpenedEvent:
		event.Publish(b.dispatcher, e)
	case PresentErrorEvent:
		event.Publish(b.dispatcher, e)
	case RunFinishedEvent:
		event.Publish(b.dispatcher, e)
	}
}

// Subscribe registers handler for the event type of its parameter and
// returns an unsubscribe function. Unknown handler types get a no-op.
//
//	unsub := bus.Subscribe(func(e StateChangedEvent) { ... })
func (b *Bus) Subscribe(handler any) func() {
	if b == nil {
		return func() {}
	}
	switch h := handler.(type) {
	case func(StateChangedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(StreamOpenedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(PresentErrorEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(RunFinishedEvent):
		return event.Subscribe(b.dispatcher, h)
	default:
		return func() {}
	}
}
