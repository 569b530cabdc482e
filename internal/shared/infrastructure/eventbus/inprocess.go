package eventbus

import (
	"context"
	"log/slog"
	"sync"
)

// Handler receives events published on the in-process bus.
type Handler func(ctx context.Context, routingKey string, payload []byte)

// InProcessBus delivers events synchronously to registered handlers. It is
// the local-mode replacement for RabbitMQ.
type InProcessBus struct {
	logger   *slog.Logger
	mu       sync.Mutex
	handlers []Handler
}

// NewInProcessBus creates an in-process event bus.
func NewInProcessBus(logger *slog.Logger) *InProcessBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &InProcessBus{logger: logger}
}

// Subscribe registers a handler for all events.
func (b *InProcessBus) Subscribe(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

// Publish dispatches the event to every handler. Handler panics are not
// recovered; local-mode consumers are trusted code.
func (b *InProcessBus) Publish(ctx context.Context, routingKey string, payload []byte) error {
	b.mu.Lock()
	handlers := make([]Handler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.Unlock()

	for _, h := range handlers {
		h(ctx, routingKey, payload)
	}

	b.logger.Debug("event dispatched", "routing_key", routingKey, "handlers", len(handlers))
	return nil
}

// Close is a no-op for the in-process bus.
func (b *InProcessBus) Close() error { return nil }
