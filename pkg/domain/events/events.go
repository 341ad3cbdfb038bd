// Package events defines the domain events carried by the event bus.
package events

import "github.com/google/uuid"

// Event is implemented by every domain event; Type keys handler registration.
type Event interface {
	Type() string
}

// FirstAccountCreated is emitted when a user's very first account has been
// created. The signup bonus handler consumes it.
type FirstAccountCreated struct {
	Owner     uuid.UUID
	AccountID uuid.UUID
}

func (FirstAccountCreated) Type() string { return "FirstAccountCreated" }
