// Package pubsub fans typed events out to subscribers without blocking the
// publisher. The template service publishes store changes on it and the
// logger publishes formatted entries.
package pubsub

import (
	"context"
	"time"
)

// EventType names what happened.
type EventType string

const (
	CreatedEvent EventType = "created"
	UpdatedEvent EventType = "updated"
	DeletedEvent EventType = "deleted"
	// LogEvent carries one formatted log line.
	LogEvent EventType = "log"
)

// Event is a published payload with its type and publish time.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber hands out event channels that close with ctx.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher accepts events.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}
