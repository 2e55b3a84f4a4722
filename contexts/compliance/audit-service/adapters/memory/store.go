package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"reqtrace/contexts/compliance/audit-service/domain/entities"
	domainerrors "reqtrace/contexts/compliance/audit-service/domain/errors"

	"github.com/google/uuid"
)

// Store is an in-memory adapter implementing the repository, clock and id
// generator ports. It is intended for tests and local development wiring.
type Store struct {
	mu sync.RWMutex

	entries   []entities.Entry
	published map[string]time.Time

	AppendErr error
	ListErr   error
}

func NewStore() *Store {
	return &Store{
		published: make(map[string]time.Time),
	}
}

func (s *Store) AppendEntry(_ context.Context, entry entities.Entry) error {
	if s.AppendErr != nil {
		return s.AppendErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.entries {
		if existing.EntryID != "" && existing.EntryID == entry.EntryID {
			return domainerrors.ErrDuplicateEntryID
		}
	}
	s.entries = append(s.entries, entry)
	return nil
}

func (s *Store) ListEntries(_ context.Context) ([]entities.Entry, error) {
	if s.ListErr != nil {
		return nil, s.ListErr
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Entry, len(s.entries))
	copy(items, s.entries)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].RecordedAt.After(items[j].RecordedAt)
	})
	return items, nil
}

func (s *Store) ListUnpublished(_ context.Context, limit int) ([]entities.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var items []entities.Entry
	for _, entry := range s.entries {
		if _, ok := s.published[entry.EntryID]; ok {
			continue
		}
		items = append(items, entry)
		if len(items) == limit {
			break
		}
	}
	return items, nil
}

func (s *Store) MarkPublished(_ context.Context, entryID string, publishedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.published[entryID] = publishedAt
	return nil
}

// PublishedCount reports how many entries the relay has acknowledged.
func (s *Store) PublishedCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.published)
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
