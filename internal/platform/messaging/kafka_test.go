package messaging

import (
	"context"
	"testing"
	"time"

	"reqtrace/internal/shared/events"
)

func TestKafkaDeliversToSubscriber(t *testing.T) {
	bus, err := NewKafka(nil, nil)
	if err != nil {
		t.Fatalf("new kafka failed: %v", err)
	}

	stream := bus.Subscribe("compliance.audit", 4)
	envelope := events.Envelope{
		EventID:   "evt-1",
		EventType: "audit.entry.recorded",
		EntityID:  "entry-1",
	}
	if err := bus.Publish(context.Background(), "compliance.audit", envelope); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	select {
	case got := <-stream:
		if got.EventID != "evt-1" {
			t.Fatalf("expected evt-1 delivered, got %+v", got)
		}
	case <-time.After(time.Second):
		t.Fatalf("subscriber never received the event")
	}
}

func TestKafkaIgnoresUnrelatedTopics(t *testing.T) {
	bus, err := NewKafka(nil, nil)
	if err != nil {
		t.Fatalf("new kafka failed: %v", err)
	}

	stream := bus.Subscribe("compliance.audit", 4)
	if err := bus.Publish(context.Background(), "other.topic", events.Envelope{EventID: "evt-1"}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	select {
	case got := <-stream:
		t.Fatalf("unexpected delivery across topics: %+v", got)
	default:
	}
}

func TestKafkaDropsForSlowSubscriber(t *testing.T) {
	bus, err := NewKafka(nil, nil)
	if err != nil {
		t.Fatalf("new kafka failed: %v", err)
	}

	stream := bus.Subscribe("compliance.audit", 1)
	for i := 0; i < 3; i++ {
		if err := bus.Publish(context.Background(), "compliance.audit", events.Envelope{EventID: "evt"}); err != nil {
			t.Fatalf("publish %d failed: %v", i, err)
		}
	}

	// One buffered event survives, the overflow is dropped without blocking.
	<-stream
	select {
	case got := <-stream:
		t.Fatalf("expected overflow dropped, got %+v", got)
	default:
	}
}
