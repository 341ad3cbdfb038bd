// Package eventbus defines the contract for in-process domain event
// publication and subscription.
package eventbus

import (
	"context"

	"github.com/ximedes/conto/pkg/domain/events"
)

// HandlerFunc consumes a single domain event.
type HandlerFunc func(ctx context.Context, event events.Event) error

// Bus dispatches domain events to registered handlers by event type.
type Bus interface {
	// Emit dispatches the event to all handlers registered for its type.
	Emit(ctx context.Context, event events.Event) error
	// Register adds a handler for the given event type.
	Register(eventType string, handler HandlerFunc)
}
