package usecase

import (
	"strings"
	"unicode/utf8"

	"github.com/recipefinder/backend/internal/domain"
)

const (
	baseCookingMinutes = 30

	longInstructionWords   = 300
	mediumInstructionWords = 150

	manyIngredients = 10
	someIngredients = 6

	longInstructionChars   = 1000
	mediumInstructionChars = 500

	hardScore   = 10
	mediumScore = 6
)

// EstimateCookingTime guesses total minutes from instruction length and
// ingredient count. The result is always within [15,120]; a recipe with
// neither instructions nor ingredients (or nil) yields 30.
func EstimateCookingTime(recipe *domain.Recipe) int {
	minutes := baseCookingMinutes
	if recipe == nil {
		return minutes
	}

	if recipe.Instructions != "" {
		words := len(strings.Fields(recipe.Instructions))
		switch {
		case words > longInstructionWords:
			minutes += 30
		case words > mediumInstructionWords:
			minutes += 15
		}
	}

	switch n := countIngredients(recipe); {
	case n > manyIngredients:
		minutes += 25
	case n > someIngredients:
		minutes += 15
	}

	return clamp(minutes, domain.MinCookingMinutes, domain.MaxCookingMinutes)
}

// ClassifyDifficulty scores a recipe by ingredient count plus a bonus for long
// instructions. Above 10 is Hard, above 6 is Medium. A nil recipe is Medium.
func ClassifyDifficulty(recipe *domain.Recipe) domain.Difficulty {
	if recipe == nil {
		return domain.DifficultyMedium
	}

	score := countIngredients(recipe)
	switch length := utf8.RuneCountInString(recipe.Instructions); {
	case length > longInstructionChars:
		score += 3
	case length > mediumInstructionChars:
		score += 2
	}

	switch {
	case score > hardScore:
		return domain.DifficultyHard
	case score > mediumScore:
		return domain.DifficultyMedium
	default:
		return domain.DifficultyEasy
	}
}

// Derive computes both metrics for a recipe
func Derive(recipe *domain.Recipe) domain.DerivedMetrics {
	return domain.DerivedMetrics{
		EstimatedMinutes: EstimateCookingTime(recipe),
		Difficulty:       ClassifyDifficulty(recipe),
	}
}

// countIngredients counts slots with a non-blank ingredient name
func countIngredients(recipe *domain.Recipe) int {
	n := 0
	for _, slot := range recipe.Ingredients {
		if strings.TrimSpace(slot.Name) != "" {
			n++
		}
	}
	return n
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
