package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipefinder/backend/internal/domain"
	"github.com/recipefinder/backend/internal/metrics"
)

func newTestController(catalog *MockCatalogClient) (*Controller, *SessionStore) {
	session := NewSessionStore(NewMockKeyValueStore(), DefaultHistoryCapacity)
	svc := NewSearchService(catalog, SearchServiceConfig{})
	return NewController(svc, session, domain.DefaultFilterConfig()), session
}

func TestController_SearchScenarioPartialFailure(t *testing.T) {
	catalog := NewMockCatalogClient().withRecipes("1", "2", "3")
	catalog.lookupErrors["3"] = fmt.Errorf("%w: lookup", domain.ErrTimeout)
	ctrl, session := newTestController(catalog)

	view := ctrl.Search(context.Background(), "chicken, rice")

	assert.Empty(t, view.ErrorKind)
	assert.Empty(t, view.Message)
	assert.Equal(t, 2, view.TotalCount)
	assert.Equal(t, 2, view.ShownCount)
	assert.Len(t, view.Recipes, 2)
	assert.True(t, view.HasSearched)
	assert.False(t, view.Loading)
	assert.Equal(t, "chicken, rice", view.Query)
	assert.Equal(t, []string{"chicken, rice"}, session.History())
}

func TestController_SearchNoMatches(t *testing.T) {
	ctrl, session := newTestController(NewMockCatalogClient())

	view := ctrl.Search(context.Background(), "xyzinvalid")

	assert.Equal(t, KindNoMatches, view.ErrorKind)
	assert.Contains(t, view.Message, `No recipes found with "xyzinvalid"`)
	assert.Empty(t, view.Recipes)
	assert.True(t, view.HasSearched)
	assert.Empty(t, session.History(), "no candidates means no history entry")
}

func TestController_SearchDetailsUnavailableStillRecordsHistory(t *testing.T) {
	catalog := NewMockCatalogClient().withRecipes("1")
	catalog.lookupErrors["1"] = domain.ErrNetwork
	ctrl, session := newTestController(catalog)

	view := ctrl.Search(context.Background(), "fish")

	assert.Equal(t, KindDetailsUnavailable, view.ErrorKind)
	assert.Equal(t, "Found recipes but failed to load details. Please try again.", view.Message)
	assert.Equal(t, []string{"fish"}, session.History())
}

func TestController_SearchEmptyQuery(t *testing.T) {
	catalog := NewMockCatalogClient().withRecipes("1")
	ctrl, _ := newTestController(catalog)

	view := ctrl.Search(context.Background(), "   ")

	assert.Equal(t, KindEmptyQuery, view.ErrorKind)
	assert.Equal(t, "Please enter at least one ingredient", view.Message)
	assert.Empty(t, catalog.filterQueries)
}

func TestController_SearchNetworkError(t *testing.T) {
	catalog := NewMockCatalogClient()
	catalog.filterError = fmt.Errorf("%w: refused", domain.ErrNetwork)
	ctrl, session := newTestController(catalog)

	view := ctrl.Search(context.Background(), "beef")

	assert.Equal(t, KindNetwork, view.ErrorKind)
	assert.Equal(t, "Failed to fetch recipes. Please check your internet connection.", view.Message)
	assert.Empty(t, session.History())
}

// gatedSearcher blocks each Search until its query's gate is closed
type gatedSearcher struct {
	mu      sync.Mutex
	gates   map[string]chan struct{}
	started chan string
	batches map[string]*domain.SearchBatch
}

func newGatedSearcher() *gatedSearcher {
	return &gatedSearcher{
		gates:   make(map[string]chan struct{}),
		started: make(chan string, 10),
		batches: make(map[string]*domain.SearchBatch),
	}
}

func (g *gatedSearcher) add(query string, recipeIDs ...string) chan struct{} {
	batch := &domain.SearchBatch{Query: query, CandidateCount: len(recipeIDs), Recipes: []domain.Recipe{}}
	for _, id := range recipeIDs {
		batch.Recipes = append(batch.Recipes, *newRecipe(id, 1, ""))
	}
	gate := make(chan struct{})

	g.mu.Lock()
	g.gates[query] = gate
	g.batches[query] = batch
	g.mu.Unlock()
	return gate
}

func (g *gatedSearcher) Search(ctx context.Context, raw string) (*domain.SearchBatch, error) {
	g.mu.Lock()
	gate, batch := g.gates[raw], g.batches[raw]
	g.mu.Unlock()

	g.started <- raw
	<-gate
	return batch, nil
}

func (g *gatedSearcher) LookupByID(ctx context.Context, id string) (*domain.Recipe, error) {
	return nil, errors.New("not used")
}

func TestController_StaleSearchDoesNotOverwrite(t *testing.T) {
	searcher := newGatedSearcher()
	slowGate := searcher.add("chicken", "old-1", "old-2")
	fastGate := searcher.add("beef", "new-1")
	session := NewSessionStore(NewMockKeyValueStore(), DefaultHistoryCapacity)
	ctrl := NewController(searcher, session, domain.DefaultFilterConfig())
	ctx := context.Background()

	staleBefore := testutil.ToFloat64(metrics.StaleSearches)

	slowDone := make(chan ResultView)
	go func() { slowDone <- ctrl.Search(ctx, "chicken") }()
	require.Equal(t, "chicken", <-searcher.started)
	assert.True(t, ctrl.View().Loading)

	fastDone := make(chan ResultView)
	go func() { fastDone <- ctrl.Search(ctx, "beef") }()
	require.Equal(t, "beef", <-searcher.started)

	close(fastGate)
	fastView := <-fastDone
	assert.Equal(t, []string{"new-1"}, cardIDs(fastView.Recipes))

	close(slowGate)
	<-slowDone

	view := ctrl.View()
	assert.Equal(t, []string{"new-1"}, cardIDs(view.Recipes), "stale batch must not overwrite newer result")
	assert.Equal(t, "beef", view.Query)
	assert.Equal(t, staleBefore+1, testutil.ToFloat64(metrics.StaleSearches))
	assert.Equal(t, []string{"beef"}, session.History(), "superseded search must not reorder history")
}

func TestController_ClearDropsInFlightSearch(t *testing.T) {
	searcher := newGatedSearcher()
	gate := searcher.add("rice", "r-1")
	ctrl := NewController(searcher, NewSessionStore(NewMockKeyValueStore(), 8), domain.DefaultFilterConfig())

	done := make(chan ResultView)
	go func() { done <- ctrl.Search(context.Background(), "rice") }()
	<-searcher.started

	cleared := ctrl.Clear()
	assert.False(t, cleared.HasSearched)
	assert.False(t, cleared.Loading)

	close(gate)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("search did not return")
	}

	view := ctrl.View()
	assert.Empty(t, view.Recipes)
	assert.Empty(t, view.Query)
	assert.False(t, view.HasSearched)
	assert.Empty(t, ctrl.History())
}

func cardIDs(cards []domain.RecipeCard) []string {
	out := make([]string, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.ID)
	}
	return out
}

func TestController_FiltersRecomputeView(t *testing.T) {
	catalog := NewMockCatalogClient()
	for _, r := range sampleRecipes() {
		recipe := r
		catalog.recipes[recipe.ID] = &recipe
		catalog.ids = append(catalog.ids, recipe.ID)
	}
	ctrl, _ := newTestController(catalog)
	ctx := context.Background()

	view := ctrl.Search(ctx, "salmon")
	require.Equal(t, 4, view.ShownCount)

	view, err := ctrl.SetFilters(domain.FilterConfig{MaxMinutes: 30})
	require.NoError(t, err)
	assert.Equal(t, 4, view.TotalCount)
	assert.Equal(t, 2, view.ShownCount)
	assert.Equal(t, []string{"1", "4"}, cardIDs(view.Recipes))

	view, err = ctrl.SetFilters(domain.FilterConfig{MaxMinutes: 60, IngredientsOnly: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, cardIDs(view.Recipes), "active text is the searched query")

	view = ctrl.SetQueryText("egg, milk")
	assert.Equal(t, []string{"4"}, cardIDs(view.Recipes))

	view = ctrl.ResetFilters()
	assert.Equal(t, domain.DefaultFilterConfig(), view.Filters)
	assert.Equal(t, 4, view.ShownCount)
}

func TestController_SetFilters(t *testing.T) {
	ctrl, _ := newTestController(NewMockCatalogClient())

	t.Run("normalizes values", func(t *testing.T) {
		view, err := ctrl.SetFilters(domain.FilterConfig{MaxMinutes: 500, Category: "  Beef ", Difficulty: "hard"})
		require.NoError(t, err)
		assert.Equal(t, 120, view.Filters.MaxMinutes)
		assert.Equal(t, "Beef", view.Filters.Category)
		assert.Equal(t, domain.DifficultyHard, view.Filters.Difficulty)
		assert.Equal(t, view.Filters, ctrl.Filters())
	})

	t.Run("rejects unknown difficulty", func(t *testing.T) {
		_, err := ctrl.SetFilters(domain.FilterConfig{Difficulty: "impossible"})
		assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	})

	t.Run("rejects unknown sort", func(t *testing.T) {
		_, err := ctrl.SetFilters(domain.FilterConfig{SortBy: "calories"})
		assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	})
}

func TestController_Favorites(t *testing.T) {
	catalog := NewMockCatalogClient().withRecipes("1", "2")
	catalog.recipes["elsewhere"] = newRecipe("elsewhere", 1, "")
	ctrl, session := newTestController(catalog)
	ctx := context.Background()

	ctrl.Search(ctx, "eggs")
	lookupsAfterSearch := len(catalog.lookupCalls)

	card, err := ctrl.ToggleFavorite(ctx, "2")
	require.NoError(t, err)
	assert.True(t, card.IsFavorite)
	assert.Equal(t, lookupsAfterSearch, len(catalog.lookupCalls), "known recipe needs no lookup")

	view := ctrl.View()
	assert.False(t, view.Recipes[0].IsFavorite)
	assert.True(t, view.Recipes[1].IsFavorite)

	card, err = ctrl.ToggleFavorite(ctx, "elsewhere")
	require.NoError(t, err)
	assert.True(t, card.IsFavorite)
	assert.Equal(t, lookupsAfterSearch+1, len(catalog.lookupCalls))

	favorites := ctrl.Favorites()
	assert.Equal(t, []string{"2", "elsewhere"}, cardIDs(favorites))
	for _, f := range favorites {
		assert.True(t, f.IsFavorite)
	}

	ctrl.Clear()
	card, err = ctrl.ToggleFavorite(ctx, "2")
	require.NoError(t, err)
	assert.False(t, card.IsFavorite, "favorite found in the favorites set after clear")
	assert.False(t, session.IsFavorite("2"))

	_, err = ctrl.ToggleFavorite(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)

	_, err = ctrl.ToggleFavorite(ctx, " ")
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestController_LookupByID(t *testing.T) {
	catalog := NewMockCatalogClient().withRecipes("52772")
	ctrl, session := newTestController(catalog)
	ctx := context.Background()

	session.ToggleFavorite(ctx, *catalog.recipes["52772"])

	card, err := ctrl.LookupByID(ctx, " 52772 ")
	require.NoError(t, err)
	assert.Equal(t, "52772", card.ID)
	assert.True(t, card.IsFavorite)
	assert.Equal(t, domain.DifficultyEasy, card.Difficulty)
	assert.Equal(t, "easy", card.DifficultyTag)

	_, err = ctrl.LookupByID(ctx, "0")
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
}

func TestController_HistoryAndSuggestions(t *testing.T) {
	catalog := NewMockCatalogClient().withRecipes("1")
	ctrl, _ := newTestController(catalog)
	ctx := context.Background()

	ctrl.Search(ctx, "chicken")
	ctrl.Search(ctx, "rice")
	assert.Equal(t, []string{"rice", "chicken"}, ctrl.History())

	ctrl.ClearHistory(ctx)
	assert.Empty(t, ctrl.History())

	suggestions := ctrl.Suggestions()
	assert.Equal(t, []string{"chicken", "beef", "rice", "vegetables", "fish", "eggs", "cheese"}, suggestions)
	suggestions[0] = "changed"
	assert.Equal(t, "chicken", ctrl.Suggestions()[0])
}

func TestController_InitialView(t *testing.T) {
	ctrl, _ := newTestController(NewMockCatalogClient())

	view := ctrl.View()

	assert.False(t, view.HasSearched)
	assert.False(t, view.Loading)
	assert.NotNil(t, view.Recipes)
	assert.Empty(t, view.Recipes)
	assert.Equal(t, 60, view.Filters.MaxMinutes)
}
