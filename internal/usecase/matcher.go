package usecase

import (
	"strings"

	"github.com/recipefinder/backend/internal/domain"
)

// RecipeHasIngredient reports whether token appears, case-insensitively, in any
// ingredient slot, the instructions or the title. An empty token never matches.
func RecipeHasIngredient(recipe *domain.Recipe, token string) bool {
	if recipe == nil || token == "" {
		return false
	}
	token = strings.ToLower(token)

	for _, slot := range recipe.Ingredients {
		if slot.Name != "" && strings.Contains(strings.ToLower(slot.Name), token) {
			return true
		}
	}

	return strings.Contains(strings.ToLower(recipe.Instructions), token) ||
		strings.Contains(strings.ToLower(recipe.Title), token)
}

// recipeHasAnyIngredient is true when at least one token matches
func recipeHasAnyIngredient(recipe *domain.Recipe, tokens []string) bool {
	for _, token := range tokens {
		if RecipeHasIngredient(recipe, token) {
			return true
		}
	}
	return false
}
