package usecase

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/recipefinder/backend/internal/domain"
	"github.com/recipefinder/backend/internal/logging"
	"github.com/recipefinder/backend/internal/metrics"
)

// Defaults for SearchServiceConfig
const (
	DefaultMaxCandidates     = 20
	DefaultDetailConcurrency = 20
)

// SearchServiceConfig holds configuration for the search service
type SearchServiceConfig struct {
	MaxCandidates     int
	DetailConcurrency int
}

// SearchService turns an ingredient query into detailed recipes from the catalog
type SearchService struct {
	catalog           domain.CatalogClient
	maxCandidates     int
	detailConcurrency int
}

// NewSearchService creates a new search service with dependencies
func NewSearchService(catalog domain.CatalogClient, config SearchServiceConfig) *SearchService {
	if config.MaxCandidates <= 0 {
		config.MaxCandidates = DefaultMaxCandidates
	}
	if config.DetailConcurrency <= 0 {
		config.DetailConcurrency = DefaultDetailConcurrency
	}

	return &SearchService{
		catalog:           catalog,
		maxCandidates:     config.MaxCandidates,
		detailConcurrency: config.DetailConcurrency,
	}
}

// lookupOutcome is the settled result of one detail lookup
type lookupOutcome struct {
	recipe *domain.Recipe
	err    error
}

// Search resolves the primary ingredient of raw to candidate ids, then fetches
// every candidate's details concurrently and waits for all of them.
// Flow: validate -> filter by ingredient -> cap -> fan out lookups -> keep successes
//
// A failed lookup is logged and dropped. Successes keep candidate order.
// Zero candidates is a valid batch (NoMatches) with a nil error. When every
// lookup fails the batch is returned together with ErrDetailsUnavailable.
func (s *SearchService) Search(ctx context.Context, raw string) (*domain.SearchBatch, error) {
	query := ParseIngredientQuery(raw)
	if query.Primary == "" {
		metrics.SearchBatches.WithLabelValues("empty_query").Inc()
		return nil, domain.ErrEmptyQuery
	}

	ids, err := s.catalog.FilterByIngredient(ctx, query.Primary)
	if err != nil {
		metrics.SearchBatches.WithLabelValues(statusLabel(err)).Inc()
		return nil, err
	}

	batch := &domain.SearchBatch{
		Query:             query.Raw,
		PrimaryIngredient: query.Primary,
		Recipes:           []domain.Recipe{},
	}

	if len(ids) == 0 {
		metrics.SearchBatches.WithLabelValues("no_matches").Inc()
		logging.Info().Str("query", query.Raw).Msg("[SEARCH] No candidates")
		return batch, nil
	}

	if len(ids) > s.maxCandidates {
		ids = ids[:s.maxCandidates]
	}
	batch.CandidateCount = len(ids)

	for _, outcome := range s.lookupAll(ctx, ids) {
		if outcome.err != nil {
			batch.FailedCount++
			continue
		}
		batch.Recipes = append(batch.Recipes, *outcome.recipe)
	}

	logging.Info().
		Str("query", query.Raw).
		Str("primary", query.Primary).
		Int("candidates", batch.CandidateCount).
		Int("failed", batch.FailedCount).
		Msg("[SEARCH] Batch complete")

	if len(batch.Recipes) == 0 {
		metrics.SearchBatches.WithLabelValues("details_unavailable").Inc()
		return batch, fmt.Errorf("%w: %d of %d lookups failed",
			domain.ErrDetailsUnavailable, batch.FailedCount, batch.CandidateCount)
	}

	metrics.SearchBatches.WithLabelValues("found").Inc()
	return batch, nil
}

// lookupAll fetches every id with at most detailConcurrency requests in flight.
// Each task records its outcome and never fails the group, so one bad
// lookup cannot cancel its siblings.
func (s *SearchService) lookupAll(ctx context.Context, ids []string) []lookupOutcome {
	outcomes := make([]lookupOutcome, len(ids))

	var g errgroup.Group
	g.SetLimit(s.detailConcurrency)

	for i, id := range ids {
		g.Go(func() error {
			recipe, err := s.catalog.LookupMeal(ctx, id)
			if err == nil && recipe == nil {
				err = fmt.Errorf("%w: id %s", domain.ErrRecipeNotFound, id)
			}
			if err != nil {
				metrics.DetailFailures.Inc()
				logging.Warn().Err(err).Str("id", id).Msg("[SEARCH] Dropping failed detail lookup")
			}
			outcomes[i] = lookupOutcome{recipe: recipe, err: err}
			return nil
		})
	}

	_ = g.Wait()
	return outcomes
}

// LookupByID fetches a single recipe. Unlike batch lookups, failures are returned.
func (s *SearchService) LookupByID(ctx context.Context, id string) (*domain.Recipe, error) {
	if id == "" {
		return nil, domain.ErrInvalidRequest
	}

	recipe, err := s.catalog.LookupMeal(ctx, id)
	if err != nil {
		return nil, err
	}
	if recipe == nil {
		return nil, fmt.Errorf("%w: id %s", domain.ErrRecipeNotFound, id)
	}
	return recipe, nil
}

func statusLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrTimeout):
		return "timeout"
	case errors.Is(err, domain.ErrNetwork):
		return "network_error"
	default:
		return "error"
	}
}
