package application

import (
	"context"
	"log/slog"
	"time"

	accessentities "reqtrace/contexts/identity-access/access-control/domain/entities"

	"reqtrace/contexts/compliance/audit-service/domain/entities"
	"reqtrace/contexts/compliance/audit-service/ports"
	"reqtrace/internal/shared/events"
)

const auditEventType = "compliance.audit_entry.recorded"

// Recorder appends audit entries to the durable store and the diagnostic
// stream. Both sinks are written independently and neither failure ever
// reaches the caller: the primary business operation always proceeds.
type Recorder struct {
	Repository  ports.Repository
	Stream      ports.StreamPublisher
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

// RecordAccess records a successful read.
func (r Recorder) RecordAccess(ctx context.Context, caller *accessentities.CallerContext, action string, details map[string]any) {
	r.record(ctx, entities.KindAccess, caller, action, details)
}

// RecordModification records a successful mutation.
func (r Recorder) RecordModification(ctx context.Context, caller *accessentities.CallerContext, action string, details map[string]any) {
	r.record(ctx, entities.KindModification, caller, action, details)
}

// RecordUnauthorized records a denied attempt.
func (r Recorder) RecordUnauthorized(ctx context.Context, caller *accessentities.CallerContext, action string, details map[string]any) {
	r.record(ctx, entities.KindUnauthorizedAccess, caller, action, details)
}

func (r Recorder) record(ctx context.Context, kind entities.Kind, caller *accessentities.CallerContext, action string, details map[string]any) {
	logger := ResolveLogger(r.Logger)
	now := r.now()

	entry := entities.Entry{
		Kind:       kind,
		Action:     action,
		Details:    details,
		RecordedAt: now,
	}
	if caller != nil {
		entry.Username = caller.Username
		entry.RoleName = string(caller.Role)
		entry.SourceAddress = caller.SourceAddress
	}

	if r.IDGenerator != nil {
		id, err := r.IDGenerator.NewID(ctx)
		if err != nil {
			logger.Error("audit entry id generation failed",
				"event", "audit_id_generation_failed",
				"module", "compliance/audit-service",
				"layer", "application",
				"action", action,
				"error", err.Error(),
			)
			return
		}
		entry.EntryID = id
	}

	if r.Repository != nil {
		if err := r.Repository.AppendEntry(ctx, entry); err != nil {
			logger.Error("audit durable append failed",
				"event", "audit_append_failed",
				"module", "compliance/audit-service",
				"layer", "application",
				"action", action,
				"entry_id", entry.EntryID,
				"error", err.Error(),
			)
		}
	}

	if r.Stream != nil {
		envelope := events.Envelope{
			EventID:       entry.EntryID,
			EventType:     auditEventType,
			SourceService: "reqtrace",
			OccurredAtUTC: now,
			EntityType:    "audit_entry",
			EntityID:      entry.EntryID,
			Payload: map[string]any{
				"kind":     string(kind),
				"action":   action,
				"username": entry.Username,
				"role":     entry.RoleName,
			},
		}
		if err := r.Stream.PublishEntry(ctx, envelope); err != nil {
			logger.Error("audit stream publish failed",
				"event", "audit_stream_publish_failed",
				"module", "compliance/audit-service",
				"layer", "application",
				"action", action,
				"entry_id", entry.EntryID,
				"error", err.Error(),
			)
		}
	}

	logger.Info("audit entry recorded",
		"event", "audit_entry_recorded",
		"module", "compliance/audit-service",
		"layer", "application",
		"kind", string(kind),
		"action", action,
		"username", entry.Username,
	)
}

func (r Recorder) now() time.Time {
	if r.Clock != nil {
		return r.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
