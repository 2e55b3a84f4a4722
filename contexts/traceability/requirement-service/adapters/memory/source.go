package memory

import (
	"context"
	"fmt"
	"sync"

	"reqtrace/contexts/traceability/requirement-service/domain/entities"
)

// StaticSource is an in-memory artifact source for tests and local wiring.
// Records are keyed by external id; a missing id is an upstream error, which
// fails the whole kind at the aggregator.
type StaticSource struct {
	mu      sync.RWMutex
	records map[string]entities.RawArtifact

	Err error
}

func NewStaticSource() *StaticSource {
	return &StaticSource{
		records: make(map[string]entities.RawArtifact),
	}
}

func (s *StaticSource) Put(externalID string, raw entities.RawArtifact) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw.ExternalID = externalID
	s.records[externalID] = raw
}

func (s *StaticSource) FetchArtifact(_ context.Context, kind entities.ArtifactKind, externalID string) (entities.RawArtifact, error) {
	if s.Err != nil {
		return entities.RawArtifact{}, s.Err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	raw, ok := s.records[externalID]
	if !ok {
		return entities.RawArtifact{}, fmt.Errorf("no %s record for %q", kind, externalID)
	}
	return raw, nil
}
