package workers

import (
	"context"
	"errors"
	"testing"
	"time"

	"reqtrace/contexts/compliance/audit-service/adapters/memory"
	"reqtrace/contexts/compliance/audit-service/domain/entities"
	"reqtrace/internal/shared/events"
)

type capturingPublisher struct {
	envelopes []events.Envelope
	err       error
}

func (p *capturingPublisher) PublishEntry(_ context.Context, event events.Envelope) error {
	if p.err != nil {
		return p.err
	}
	p.envelopes = append(p.envelopes, event)
	return nil
}

func seedEntries(t *testing.T, store *memory.Store, count int) {
	t.Helper()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < count; i++ {
		err := store.AppendEntry(context.Background(), entities.Entry{
			EntryID:    string(rune('a' + i)),
			Kind:       entities.KindAccess,
			Action:     entities.ActionGetTraceabilityMatrix,
			Username:   "auditor",
			RoleName:   "compliance",
			RecordedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("seed entry failed: %v", err)
		}
	}
}

func TestRelayPublishesAndMarksEntries(t *testing.T) {
	store := memory.NewStore()
	seedEntries(t, store, 3)

	publisher := &capturingPublisher{}
	relay := Relay{
		Repository: store,
		Publisher:  publisher,
		Clock:      store,
		BatchSize:  10,
	}

	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("relay run failed: %v", err)
	}
	if len(publisher.envelopes) != 3 {
		t.Fatalf("expected 3 published envelopes, got %d", len(publisher.envelopes))
	}
	if store.PublishedCount() != 3 {
		t.Fatalf("expected all entries marked published, got %d", store.PublishedCount())
	}
	if publisher.envelopes[0].EventType != "compliance.audit_entry.relayed" {
		t.Fatalf("unexpected event type %q", publisher.envelopes[0].EventType)
	}
}

func TestRelaySecondRunIsNoOp(t *testing.T) {
	store := memory.NewStore()
	seedEntries(t, store, 2)

	publisher := &capturingPublisher{}
	relay := Relay{Repository: store, Publisher: publisher, Clock: store, BatchSize: 10}

	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if len(publisher.envelopes) != 2 {
		t.Fatalf("expected no re-publication, got %d envelopes", len(publisher.envelopes))
	}
}

func TestRelayRespectsBatchSize(t *testing.T) {
	store := memory.NewStore()
	seedEntries(t, store, 5)

	publisher := &capturingPublisher{}
	relay := Relay{Repository: store, Publisher: publisher, Clock: store, BatchSize: 2}

	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("relay run failed: %v", err)
	}
	if len(publisher.envelopes) != 2 {
		t.Fatalf("expected batch of 2, got %d", len(publisher.envelopes))
	}
	if store.PublishedCount() != 2 {
		t.Fatalf("expected 2 marked published, got %d", store.PublishedCount())
	}
}

func TestRelayStopsOnPublishFailure(t *testing.T) {
	store := memory.NewStore()
	seedEntries(t, store, 2)

	publisher := &capturingPublisher{err: errors.New("broker unavailable")}
	relay := Relay{Repository: store, Publisher: publisher, Clock: store, BatchSize: 10}

	if err := relay.RunOnce(context.Background()); err == nil {
		t.Fatalf("expected error from failed publish")
	}
	if store.PublishedCount() != 0 {
		t.Fatalf("failed publish must not mark entries, got %d", store.PublishedCount())
	}
}
