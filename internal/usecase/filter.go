package usecase

import (
	"slices"
	"strings"

	"github.com/recipefinder/backend/internal/domain"
)

// ApplyFilters narrows records to those passing every predicate in cfg:
// time ceiling, category substring, difficulty and, when IngredientsOnly is
// set and text is non-empty, at least one ingredient token from text.
// cfg is normalized first, so the zero FilterConfig behaves as the default.
// Input order is preserved unless cfg.SortBy asks for a (stable) sort.
// The result is never nil and records is not modified.
func ApplyFilters(records []domain.Recipe, cfg domain.FilterConfig, text string) []domain.Recipe {
	cfg = cfg.Normalize()
	category := strings.ToLower(cfg.Category)

	var tokens []string
	if cfg.IngredientsOnly {
		tokens = SplitIngredientTokens(text)
	}

	out := make([]domain.Recipe, 0, len(records))
	for i := range records {
		r := &records[i]

		if EstimateCookingTime(r) > cfg.MaxMinutes {
			continue
		}
		if category != "" && !strings.Contains(strings.ToLower(r.Category), category) {
			continue
		}
		if cfg.Difficulty != "" && !strings.EqualFold(string(ClassifyDifficulty(r)), string(cfg.Difficulty)) {
			continue
		}
		if len(tokens) > 0 && !recipeHasAnyIngredient(r, tokens) {
			continue
		}
		out = append(out, *r)
	}

	sortRecipes(out, cfg.SortBy)
	return out
}

var difficultyRank = map[domain.Difficulty]int{
	domain.DifficultyEasy:   0,
	domain.DifficultyMedium: 1,
	domain.DifficultyHard:   2,
}

func sortRecipes(records []domain.Recipe, sortBy string) {
	var cmp func(a, b domain.Recipe) int

	switch sortBy {
	case domain.SortTime:
		cmp = func(a, b domain.Recipe) int {
			return EstimateCookingTime(&a) - EstimateCookingTime(&b)
		}
	case domain.SortName:
		cmp = func(a, b domain.Recipe) int {
			return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		}
	case domain.SortDifficulty:
		cmp = func(a, b domain.Recipe) int {
			return difficultyRank[ClassifyDifficulty(&a)] - difficultyRank[ClassifyDifficulty(&b)]
		}
	default:
		return
	}

	slices.SortStableFunc(records, cmp)
}

// Annotate pairs each recipe with its derived metrics and favorite flag.
// isFavorite may be nil.
func Annotate(records []domain.Recipe, isFavorite func(id string) bool) []domain.RecipeCard {
	cards := make([]domain.RecipeCard, 0, len(records))
	for i := range records {
		cards = append(cards, AnnotateRecipe(&records[i], isFavorite))
	}
	return cards
}

// AnnotateRecipe builds the card for a single recipe
func AnnotateRecipe(recipe *domain.Recipe, isFavorite func(id string) bool) domain.RecipeCard {
	metrics := Derive(recipe)
	return domain.RecipeCard{
		Recipe:         *recipe,
		DerivedMetrics: metrics,
		DifficultyTag:  metrics.Difficulty.Tag(),
		IsFavorite:     isFavorite != nil && isFavorite(recipe.ID),
	}
}
