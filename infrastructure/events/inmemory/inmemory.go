// Package inmemory implements ports.EventBus with an in-process fan-out,
// for local development and tests where no EventBridge bus is configured.
package inmemory

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"mnemosyne/domain/events"
)

// Handler processes a published event.
type Handler func(ctx context.Context, event events.DomainEvent)

// Bus dispatches published events synchronously to every registered
// handler, in registration order.
type Bus struct {
	mu       sync.RWMutex
	handlers []Handler
	logger   *zap.Logger
}

// New returns an empty in-memory event bus.
func New(logger *zap.Logger) *Bus {
	return &Bus{logger: logger}
}

// Subscribe registers a handler invoked on every future Publish call.
func (b *Bus) Subscribe(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

// Publish invokes every registered handler with event.
func (b *Bus) Publish(ctx context.Context, event events.DomainEvent) error {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	b.logger.Debug("event published", zap.String("eventType", event.GetEventType()))
	for _, h := range handlers {
		h(ctx, event)
	}
	return nil
}
