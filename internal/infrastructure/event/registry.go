package event

import (
	"sync"

	"github.com/stockflow/backend/internal/domain/shared"
)

// HandlerRegistry keeps track of which handlers are subscribed to which
// event types. The empty event type acts as a wildcard.
type HandlerRegistry struct {
	mu       sync.RWMutex
	handlers map[string][]shared.EventHandler
}

// NewHandlerRegistry creates an empty registry
func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{
		handlers: make(map[string][]shared.EventHandler),
	}
}

// Register adds a handler for the given event types.
// With no event types the handler receives all events.
func (r *HandlerRegistry) Register(handler shared.EventHandler, eventTypes ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(eventTypes) == 0 {
		r.handlers[""] = append(r.handlers[""], handler)
		return
	}
	for _, eventType := range eventTypes {
		r.handlers[eventType] = append(r.handlers[eventType], handler)
	}
}

// Unregister removes a handler from all event types
func (r *HandlerRegistry) Unregister(handler shared.EventHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for eventType, handlers := range r.handlers {
		filtered := handlers[:0]
		for _, h := range handlers {
			if h != handler {
				filtered = append(filtered, h)
			}
		}
		if len(filtered) == 0 {
			delete(r.handlers, eventType)
		} else {
			r.handlers[eventType] = filtered
		}
	}
}

// GetHandlers returns the handlers for an event type, including wildcards
func (r *HandlerRegistry) GetHandlers(eventType string) []shared.EventHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	handlers := make([]shared.EventHandler, 0, len(r.handlers[eventType])+len(r.handlers[""]))
	handlers = append(handlers, r.handlers[eventType]...)
	handlers = append(handlers, r.handlers[""]...)
	return handlers
}
