package ports

import (
	"context"
	"time"

	accessentities "reqtrace/contexts/identity-access/access-control/domain/entities"

	"reqtrace/contexts/compliance/audit-service/domain/entities"
	"reqtrace/internal/shared/events"
)

// Authorizer evaluates required permission tokens for a caller before any
// export work happens. Satisfied by the access-control gate.
type Authorizer interface {
	Authorize(caller *accessentities.CallerContext, required ...string) error
}

// Clock abstracts current time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts UUID generation for entry ids.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// Repository is the durable append-only sink. ListEntries returns all entries
// ordered by RecordedAt descending for compliance export. The unpublished
// queries back the relay worker; publication state never alters an entry.
type Repository interface {
	AppendEntry(ctx context.Context, entry entities.Entry) error
	ListEntries(ctx context.Context) ([]entities.Entry, error)
	ListUnpublished(ctx context.Context, limit int) ([]entities.Entry, error)
	MarkPublished(ctx context.Context, entryID string, publishedAt time.Time) error
}

// StreamPublisher is the diagnostic stream sink. Failures are independent of
// the durable write and are swallowed by the recorder.
type StreamPublisher interface {
	PublishEntry(ctx context.Context, event events.Envelope) error
}
