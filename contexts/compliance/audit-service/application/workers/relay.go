package workers

import (
	"context"
	"log/slog"
	"time"

	application "reqtrace/contexts/compliance/audit-service/application"
	"reqtrace/contexts/compliance/audit-service/ports"
	"reqtrace/internal/shared/events"
)

// Relay publishes durable audit entries to the event bus for operational
// monitoring and marks them published. It is drained once more at shutdown so
// entries recorded just before termination are not lost.
type Relay struct {
	Repository ports.Repository
	Publisher  ports.StreamPublisher
	Clock      ports.Clock
	BatchSize  int
	Logger     *slog.Logger
}

// RunOnce relays one batch of unpublished entries.
func (r Relay) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(r.Logger)
	limit := r.BatchSize
	if limit <= 0 {
		limit = 100
	}

	pending, err := r.Repository.ListUnpublished(ctx, limit)
	if err != nil {
		logger.Error("audit relay list failed",
			"event", "audit_relay_list_failed",
			"module", "compliance/audit-service",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}

	now := time.Now().UTC()
	if r.Clock != nil {
		now = r.Clock.Now().UTC()
	}

	for _, entry := range pending {
		envelope := events.Envelope{
			EventID:       entry.EntryID,
			EventType:     "compliance.audit_entry.relayed",
			SourceService: "reqtrace",
			OccurredAtUTC: entry.RecordedAt,
			EntityType:    "audit_entry",
			EntityID:      entry.EntryID,
			Payload: map[string]any{
				"kind":     string(entry.Kind),
				"action":   entry.Action,
				"username": entry.Username,
				"role":     entry.RoleName,
			},
		}
		if err := r.Publisher.PublishEntry(ctx, envelope); err != nil {
			logger.Error("audit relay publish failed",
				"event", "audit_relay_publish_failed",
				"module", "compliance/audit-service",
				"layer", "worker",
				"entry_id", entry.EntryID,
				"error", err.Error(),
			)
			return err
		}
		if err := r.Repository.MarkPublished(ctx, entry.EntryID, now); err != nil {
			return err
		}
	}
	return nil
}
