package events

import (
	"context"
	"log/slog"

	sharedevents "reqtrace/internal/shared/events"
)

// Bus is the publish capability the platform event bus provides.
type Bus interface {
	Publish(ctx context.Context, topic string, event sharedevents.Envelope) error
}

// Topic is the bus topic audit entries are streamed on. Consumers subscribe
// to it for diagnostics.
const Topic = "compliance.audit"

// Publisher forwards audit entries to the event bus diagnostic stream.
type Publisher struct {
	bus    Bus
	logger *slog.Logger
}

func NewPublisher(bus Bus, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{bus: bus, logger: logger}
}

func (p Publisher) PublishEntry(ctx context.Context, event sharedevents.Envelope) error {
	if p.bus == nil {
		// Wiring without a bus degrades to log-only; the durable sink is
		// unaffected.
		p.logger.Info("audit entry streamed",
			"event", "audit_entry_streamed",
			"module", "compliance/audit-service",
			"layer", "adapter",
			"event_id", event.EventID,
			"event_type", event.EventType,
		)
		return nil
	}
	return p.bus.Publish(ctx, Topic, event)
}
