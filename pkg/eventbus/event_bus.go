// Package eventbus publishes execution lifecycle events over watermill.
// A single-node deployment runs on the in-memory gochannel pubsub; the bus
// deliberately has no durable-queue semantics.
package eventbus

import (
	"context"

	"github.com/commerceops/flowline/pkg/events"
)

type Event interface {
	GetType() events.EventType
}

type EventHandler func(ctx context.Context, event any) error

type EventBus interface {
	Publish(ctx context.Context, event Event) error
	Handle(eventType events.EventType, handler EventHandler)
	Subscribe(ctx context.Context) error
	Close() error
}
