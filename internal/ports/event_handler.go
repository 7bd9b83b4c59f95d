package ports

import (
	"context"

	"shopify-pixel-relay/internal/domain"
)

// EventHandler processes relayed pixel events of the names it accepts
type EventHandler interface {
	CanHandle(eventName string) bool
	Handle(ctx context.Context, event *domain.RelayedEvent) error
}

// EventPublisher fans relayed events out to live subscribers
type EventPublisher interface {
	Publish(event *domain.RelayedEvent)
}
