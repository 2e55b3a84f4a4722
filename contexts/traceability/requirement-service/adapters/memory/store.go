package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"reqtrace/contexts/traceability/requirement-service/domain/entities"
	domainerrors "reqtrace/contexts/traceability/requirement-service/domain/errors"

	"github.com/google/uuid"
)

// Store is an in-memory adapter implementing the repository, clock and id
// generator ports. It is intended for tests and local development wiring.
type Store struct {
	mu sync.RWMutex

	requirements map[string]entities.Requirement

	SaveErr error
	ListErr error
}

func NewStore() *Store {
	return &Store{
		requirements: make(map[string]entities.Requirement),
	}
}

// Seed inserts a requirement directly, bypassing command flow, for tests.
func (s *Store) Seed(requirement entities.Requirement) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requirements[requirement.RequirementID] = cloneRequirement(requirement)
}

func (s *Store) ListRequirements(_ context.Context) ([]entities.Requirement, error) {
	if s.ListErr != nil {
		return nil, s.ListErr
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Requirement, 0, len(s.requirements))
	for _, requirement := range s.requirements {
		items = append(items, cloneRequirement(requirement))
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) GetRequirement(_ context.Context, requirementID string) (entities.Requirement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	requirement, ok := s.requirements[requirementID]
	if !ok {
		return entities.Requirement{}, domainerrors.ErrRequirementNotFound
	}
	return cloneRequirement(requirement), nil
}

func (s *Store) SaveRequirement(_ context.Context, requirement entities.Requirement) error {
	if s.SaveErr != nil {
		return s.SaveErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.requirements[requirement.RequirementID] = cloneRequirement(requirement)
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func cloneRequirement(requirement entities.Requirement) entities.Requirement {
	clone := requirement
	clone.UserStoryIDs = cloneIDs(requirement.UserStoryIDs)
	clone.TaskIDs = cloneIDs(requirement.TaskIDs)
	clone.TestCaseIDs = cloneIDs(requirement.TestCaseIDs)
	clone.CodeCommitIDs = cloneIDs(requirement.CodeCommitIDs)
	clone.DeploymentIDs = cloneIDs(requirement.DeploymentIDs)
	return clone
}

func cloneIDs(ids []string) []string {
	if ids == nil {
		return nil
	}
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}
