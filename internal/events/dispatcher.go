package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// EventHandler reacts to one application or job lifecycle event.
type EventHandler func(context.Context, Event) error

// Dispatcher carries lifecycle events from the services to their
// subscribers, such as the notification worker.
type Dispatcher interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType EventType, handler EventHandler)
}

type syncDispatcher struct {
	mu       sync.RWMutex
	handlers map[EventType][]EventHandler
}

// NewInMemoryDispatcher returns a Dispatcher that runs handlers on the
// publishing goroutine, in subscription order.
func NewInMemoryDispatcher() Dispatcher {
	return &syncDispatcher{handlers: map[EventType][]EventHandler{}}
}

// Publish runs every handler subscribed to event.Type. Each failure is
// tagged with the event and collected, and the remaining handlers still run.
func (d *syncDispatcher) Publish(ctx context.Context, event Event) error {
	d.mu.RLock()
	subscribed := d.handlers[event.Type]
	d.mu.RUnlock()

	var errs []error
	for i, handle := range subscribed {
		if err := handle(ctx, event); err != nil {
			errs = append(errs, fmt.Errorf("%s handler %d (event %s): %w", event.Type, i, event.ID, err))
		}
	}
	return errors.Join(errs...)
}

func (d *syncDispatcher) Subscribe(eventType EventType, handler EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	// Copy on write so a Publish holding the old slice is unaffected.
	next := make([]EventHandler, 0, len(d.handlers[eventType])+1)
	next = append(next, d.handlers[eventType]...)
	d.handlers[eventType] = append(next, handler)
}
