// Package eventbus publishes domain events for notification consumers.
package eventbus

import (
	"context"
	"encoding/json"

	"github.com/felixgeelhaar/weekplan/internal/shared/domain"
)

// Publisher sends serialized domain events to a message broker.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload []byte) error
	Close() error
}

// PublishDomainEvents marshals and publishes each event. Publish failures
// are returned to the caller; the write that produced the events has already
// committed, so callers typically log and continue.
func PublishDomainEvents(ctx context.Context, pub Publisher, events []domain.DomainEvent) error {
	for _, event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			return err
		}
		if err := pub.Publish(ctx, event.RoutingKey(), payload); err != nil {
			return err
		}
	}
	return nil
}
