// Package event provides an in-process event bus for domain events.
package event

import (
	"context"
	"sync"

	"github.com/Yousefaborizk/moonstar/internal/domain/shared"
	"go.uber.org/zap"
)

// allEvents is the subscription key for handlers without a type filter
const allEvents = "*"

// InMemoryEventBus dispatches domain events to subscribed handlers within
// the process. Handlers run synchronously in subscription order; a failing
// handler is logged and does not stop delivery to the others.
type InMemoryEventBus struct {
	mu       sync.RWMutex
	handlers map[string][]shared.EventHandler
	logger   *zap.Logger
}

// NewInMemoryEventBus creates a new InMemoryEventBus
func NewInMemoryEventBus(logger *zap.Logger) *InMemoryEventBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InMemoryEventBus{
		handlers: make(map[string][]shared.EventHandler),
		logger:   logger.Named("eventbus"),
	}
}

// Subscribe registers a handler for specific event types.
// If no event types are provided, the handler receives all events.
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	if len(eventTypes) == 0 {
		b.handlers[allEvents] = append(b.handlers[allEvents], handler)
		return
	}
	for _, eventType := range eventTypes {
		b.handlers[eventType] = append(b.handlers[eventType], handler)
	}
}

// Publish delivers each event to its subscribed handlers
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, evt := range events {
		b.mu.RLock()
		targets := make([]shared.EventHandler, 0,
			len(b.handlers[evt.EventType()])+len(b.handlers[allEvents]))
		targets = append(targets, b.handlers[evt.EventType()]...)
		targets = append(targets, b.handlers[allEvents]...)
		b.mu.RUnlock()

		for _, handler := range targets {
			if err := handler.Handle(ctx, evt); err != nil {
				b.logger.Error("event handler failed",
					zap.String("event_type", evt.EventType()),
					zap.String("aggregate_id", evt.AggregateID().String()),
					zap.Error(err),
				)
			}
		}
	}
	return nil
}
