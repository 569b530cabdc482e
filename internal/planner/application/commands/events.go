// Package commands implements the planner's write operations.
package commands

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/weekplan/internal/shared/domain"
	"github.com/felixgeelhaar/weekplan/internal/shared/infrastructure/eventbus"
)

// publishEvents sends domain events to the notification bus after the write
// has committed. Publishing is best-effort; failures are logged, not
// propagated.
func publishEvents(ctx context.Context, pub eventbus.Publisher, logger *slog.Logger, events []domain.DomainEvent) {
	if pub == nil || len(events) == 0 {
		return
	}
	if err := eventbus.PublishDomainEvents(ctx, pub, events); err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Warn("failed to publish task events", "error", err)
	}
}
