package mealdb

import (
	"strings"

	"github.com/recipefinder/backend/internal/domain"
)

// MapToRecipe converts a wire record to our domain Recipe. Slots where both
// the ingredient and the measure are blank are dropped; order is preserved.
func MapToRecipe(meal *Meal) *domain.Recipe {
	recipe := &domain.Recipe{
		ID:           strings.TrimSpace(meal.IDMeal),
		Title:        meal.StrMeal,
		Category:     meal.StrCategory,
		Area:         meal.StrArea,
		Instructions: meal.StrInstructions,
		Thumbnail:    meal.StrMealThumb,
		Video:        meal.StrYoutube,
		Tags:         meal.StrTags,
		Source:       meal.StrSource,
		Ingredients:  extractIngredients(meal),
	}
	return recipe
}

func extractIngredients(meal *Meal) []domain.IngredientSlot {
	slots := make([]domain.IngredientSlot, 0, domain.MaxIngredientSlots)
	for i := 0; i < domain.MaxIngredientSlots; i++ {
		name := strings.TrimSpace(meal.StrIngredients[i])
		measure := strings.TrimSpace(meal.StrMeasures[i])
		if name == "" && measure == "" {
			continue
		}
		slots = append(slots, domain.IngredientSlot{Name: name, Measure: measure})
	}
	return slots
}
