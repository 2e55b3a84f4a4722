package application

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"reqtrace/contexts/traceability/requirement-service/domain/entities"
	"reqtrace/contexts/traceability/requirement-service/domain/services"
	"reqtrace/contexts/traceability/requirement-service/ports"
)

// Aggregator fetches and normalizes external artifacts. It holds no state
// between calls; every invocation is independent and idempotent.
type Aggregator struct {
	Sources             map[entities.ArtifactKind]ports.ArtifactSource
	DeploySuccessStatus string
	Logger              *slog.Logger
}

// Enrich fetches one normalized artifact per identifier for a single kind.
// All identifiers are fetched concurrently; any failure in the fan-out
// degrades the whole kind to an empty slice with a log line, so the enriched
// view never presents a partial list as complete. Input order is preserved.
func (a Aggregator) Enrich(ctx context.Context, kind entities.ArtifactKind, ids []string) []entities.EnrichedArtifact {
	logger := ResolveLogger(a.Logger)
	if len(ids) == 0 {
		return []entities.EnrichedArtifact{}
	}

	source, ok := a.Sources[kind]
	if !ok {
		logger.Warn("no artifact source configured for kind",
			"event", "aggregation_source_missing",
			"module", "traceability/requirement-service",
			"layer", "application",
			"kind", string(kind),
		)
		return []entities.EnrichedArtifact{}
	}

	results := make([]entities.EnrichedArtifact, len(ids))
	group, groupCtx := errgroup.WithContext(ctx)
	for i, id := range ids {
		group.Go(func() error {
			raw, err := source.FetchArtifact(groupCtx, kind, id)
			if err != nil {
				return err
			}
			results[i] = services.Normalize(kind, raw, a.DeploySuccessStatus)
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		logger.Warn("artifact aggregation failed for kind",
			"event", "aggregation_kind_failed",
			"module", "traceability/requirement-service",
			"layer", "application",
			"kind", string(kind),
			"identifier_count", len(ids),
			"error", err.Error(),
		)
		return []entities.EnrichedArtifact{}
	}
	return results
}

// EnrichAll runs Enrich for every artifact kind of one requirement. Kinds
// are independent, so they are fetched concurrently too; a failed kind only
// empties its own list.
func (a Aggregator) EnrichAll(ctx context.Context, requirement entities.Requirement) map[entities.ArtifactKind][]entities.EnrichedArtifact {
	artifacts := make(map[entities.ArtifactKind][]entities.EnrichedArtifact, len(entities.AllKinds()))

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, kind := range entities.AllKinds() {
		wg.Add(1)
		go func(kind entities.ArtifactKind) {
			defer wg.Done()
			enriched := a.Enrich(ctx, kind, requirement.IdentifiersFor(kind))
			mu.Lock()
			artifacts[kind] = enriched
			mu.Unlock()
		}(kind)
	}
	wg.Wait()
	return artifacts
}
