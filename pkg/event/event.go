// Package event provides an in-process event bus.
//
// Services publish domain events after a write has committed; listeners
// (audit trail, cache invalidation) react to them. Listeners that do slow
// work hand it off themselves. A listener can never fail the publisher:
// panics are recovered and logged.
package event

import (
	"context"
	"sync"

	"github.com/shashiranjanraj/orderdesk/pkg/logger"
)

// Handler receives an event payload.
type Handler func(ctx context.Context, payload any)

// Bus dispatches named events to registered handlers. The zero value is
// not usable; create one with New. A nil *Bus ignores every call.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

func New() *Bus {
	return &Bus{handlers: map[string][]Handler{}}
}

// Listen registers a handler for the given event name.
func (b *Bus) Listen(name string, h Handler) {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[name] = append(b.handlers[name], h)
}

// Fire dispatches synchronously to all listeners in registration order.
func (b *Bus) Fire(ctx context.Context, name string, payload any) {
	for _, h := range b.listeners(name) {
		b.call(ctx, name, h, payload)
	}
}

// Flush removes all listeners.
func (b *Bus) Flush() {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = map[string][]Handler{}
}

func (b *Bus) listeners(name string) []Handler {
	if b == nil {
		return nil
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	hs := make([]Handler, len(b.handlers[name]))
	copy(hs, b.handlers[name])
	return hs
}

func (b *Bus) call(ctx context.Context, name string, h Handler, payload any) {
	defer func() {
		if r := recover(); r != nil {
			logger.WithCtx(ctx).Error("event: listener panicked", "event", name, "panic", r)
		}
	}()
	h(ctx, payload)
}
