package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/recipefinder/backend/internal/domain"
	"github.com/recipefinder/backend/internal/logging"
	"github.com/recipefinder/backend/internal/metrics"
)

// QuickSearchSuggestions are offered before the first search
var QuickSearchSuggestions = []string{"chicken", "beef", "rice", "vegetables", "fish", "eggs", "cheese"}

// RecipeSearcher is the catalog side of the controller
type RecipeSearcher interface {
	Search(ctx context.Context, raw string) (*domain.SearchBatch, error)
	LookupByID(ctx context.Context, id string) (*domain.Recipe, error)
}

// ResultView is the current search state as shown to the user
type ResultView struct {
	Query       string              `json:"query"`
	Filters     domain.FilterConfig `json:"filters"`
	TotalCount  int                 `json:"totalCount"`
	ShownCount  int                 `json:"shownCount"`
	Recipes     []domain.RecipeCard `json:"recipes"`
	Loading     bool                `json:"loading"`
	HasSearched bool                `json:"hasSearched"`
	ErrorKind   string              `json:"errorKind,omitempty"`
	Message     string              `json:"message,omitempty"`
	Generation  uint64              `json:"generation"`
}

// Controller owns the search session: the raw results of the latest search,
// the filter settings and the active query text. Every change recomputes the
// filtered view. A search only lands if no newer search started meanwhile.
type Controller struct {
	searcher       RecipeSearcher
	session        *SessionStore
	defaultFilters domain.FilterConfig

	mu          sync.Mutex
	generation  uint64
	records     []domain.Recipe
	filtered    []domain.Recipe
	filters     domain.FilterConfig
	queryText   string
	searchedFor string
	err         error
	loading     bool
	hasSearched bool
}

// NewController creates a controller. defaultFilters is used on start and by
// ResetFilters; it is normalized first.
func NewController(searcher RecipeSearcher, session *SessionStore, defaultFilters domain.FilterConfig) *Controller {
	defaultFilters = defaultFilters.Normalize()
	return &Controller{
		searcher:       searcher,
		session:        session,
		defaultFilters: defaultFilters,
		filters:        defaultFilters,
		records:        []domain.Recipe{},
		filtered:       []domain.Recipe{},
	}
}

// Search runs a search for query and returns the resulting view.
// A blank query sets the empty-query error without calling the catalog.
// History is recorded once the catalog returned candidates, even if every
// detail lookup then failed. A search superseded by a newer one or by Clear
// records nothing.
func (c *Controller) Search(ctx context.Context, query string) ResultView {
	query = strings.TrimSpace(query)

	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.queryText = query
	c.searchedFor = query
	if ParseIngredientQuery(query).Primary == "" {
		c.err = domain.ErrEmptyQuery
		c.loading = false
		c.recompute()
		view := c.viewLocked()
		c.mu.Unlock()
		return view
	}
	c.err = nil
	c.loading = true
	c.mu.Unlock()

	batch, err := c.searcher.Search(ctx, query)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		metrics.StaleSearches.Inc()
		logging.Debug().Uint64("generation", gen).Uint64("latest", c.generation).Str("query", query).
			Msg("[CONTROLLER] Discarding superseded search")
		return c.viewLocked()
	}

	// Recorded under mu so history order follows the searches that landed
	if batch != nil && batch.CandidateCount > 0 {
		c.session.RecordSearch(ctx, query)
	}

	c.loading = false
	c.hasSearched = true
	c.records = []domain.Recipe{}
	if batch != nil {
		c.records = batch.Recipes
	}
	switch {
	case err != nil:
		c.err = err
	case batch.NoMatches():
		c.err = domain.ErrNoMatches
	default:
		c.err = nil
	}
	c.recompute()
	return c.viewLocked()
}

// SetFilters replaces the filter settings
func (c *Controller) SetFilters(cfg domain.FilterConfig) (ResultView, error) {
	difficulty, err := domain.ParseDifficulty(string(cfg.Difficulty))
	if err != nil {
		return ResultView{}, fmt.Errorf("%w: difficulty %q", domain.ErrInvalidRequest, cfg.Difficulty)
	}
	if !domain.ValidSort(cfg.SortBy) {
		return ResultView{}, fmt.Errorf("%w: sort %q", domain.ErrInvalidRequest, cfg.SortBy)
	}
	cfg.Difficulty = difficulty

	c.mu.Lock()
	defer c.mu.Unlock()

	c.filters = cfg.Normalize()
	c.recompute()
	return c.viewLocked(), nil
}

// ResetFilters restores the default filter settings
func (c *Controller) ResetFilters() ResultView {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.filters = c.defaultFilters
	c.recompute()
	return c.viewLocked()
}

// Filters returns the current filter settings
func (c *Controller) Filters() domain.FilterConfig {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filters
}

// SetQueryText changes the active ingredient text used by the
// ingredients-only filter without running a new search
func (c *Controller) SetQueryText(text string) ResultView {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.queryText = text
	c.recompute()
	return c.viewLocked()
}

// Clear drops the current results, error and query text. Filters are kept.
// A search still in flight will not land.
func (c *Controller) Clear() ResultView {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	c.records = []domain.Recipe{}
	c.queryText = ""
	c.searchedFor = ""
	c.err = nil
	c.loading = false
	c.hasSearched = false
	c.recompute()
	return c.viewLocked()
}

// View returns the current state
func (c *Controller) View() ResultView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

// LookupByID fetches one recipe from the catalog for the detail view
func (c *Controller) LookupByID(ctx context.Context, id string) (domain.RecipeCard, error) {
	recipe, err := c.searcher.LookupByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return domain.RecipeCard{}, err
	}
	return AnnotateRecipe(recipe, c.session.IsFavorite), nil
}

// ToggleFavorite flips the favorite state of the recipe with id. The record is
// taken from the current results or the favorites, and fetched from the
// catalog only when neither has it.
func (c *Controller) ToggleFavorite(ctx context.Context, id string) (domain.RecipeCard, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.RecipeCard{}, domain.ErrInvalidRequest
	}

	recipe, ok := c.knownRecipe(id)
	if !ok {
		fetched, err := c.searcher.LookupByID(ctx, id)
		if err != nil {
			return domain.RecipeCard{}, err
		}
		recipe = *fetched
	}

	c.session.ToggleFavorite(ctx, recipe)
	return AnnotateRecipe(&recipe, c.session.IsFavorite), nil
}

func (c *Controller) knownRecipe(id string) (domain.Recipe, bool) {
	c.mu.Lock()
	idx := slices.IndexFunc(c.records, func(r domain.Recipe) bool { return r.ID == id })
	if idx >= 0 {
		recipe := c.records[idx]
		c.mu.Unlock()
		return recipe, true
	}
	c.mu.Unlock()

	return c.session.Favorite(id)
}

// Favorites returns the favorite recipes as cards
func (c *Controller) Favorites() []domain.RecipeCard {
	favorites := c.session.Favorites()
	return Annotate(favorites, func(string) bool { return true })
}

// IsFavorite reports whether the recipe with id is a favorite
func (c *Controller) IsFavorite(id string) bool {
	return c.session.IsFavorite(id)
}

// History returns recent searches, newest first
func (c *Controller) History() []string {
	return c.session.History()
}

// ClearHistory empties the search history
func (c *Controller) ClearHistory(ctx context.Context) {
	c.session.ClearHistory(ctx)
}

// Suggestions returns the quick-search ingredients
func (c *Controller) Suggestions() []string {
	return slices.Clone(QuickSearchSuggestions)
}

// recompute must be called with mu held
func (c *Controller) recompute() {
	c.filtered = ApplyFilters(c.records, c.filters, c.queryText)
}

// viewLocked must be called with mu held
func (c *Controller) viewLocked() ResultView {
	return ResultView{
		Query:       c.queryText,
		Filters:     c.filters,
		TotalCount:  len(c.records),
		ShownCount:  len(c.filtered),
		Recipes:     Annotate(c.filtered, c.session.IsFavorite),
		Loading:     c.loading,
		HasSearched: c.hasSearched,
		ErrorKind:   ErrorKind(c.err),
		Message:     UserMessage(c.err, c.searchedFor),
		Generation:  c.generation,
	}
}
