package domain

import "strings"

// Cooking time bounds in minutes
const (
	MinCookingMinutes = 15
	MaxCookingMinutes = 120
	DefaultMaxMinutes = 60
)

// Difficulty classifies how demanding a recipe is
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// Tag returns the lower-case label used by the presentation layer for styling
func (d Difficulty) Tag() string {
	return strings.ToLower(string(d))
}

// ParseDifficulty converts user input into a Difficulty (case-insensitive).
// Empty input yields an empty Difficulty, meaning unconstrained.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", nil
	case "easy":
		return DifficultyEasy, nil
	case "medium":
		return DifficultyMedium, nil
	case "hard":
		return DifficultyHard, nil
	default:
		return "", ErrInvalidRequest
	}
}

// Sort orders supported by the filter pipeline
const (
	SortNone       = ""
	SortTime       = "time"
	SortName       = "name"
	SortDifficulty = "difficulty"
)

// FilterConfig holds the user's filter settings
type FilterConfig struct {
	MaxMinutes      int        `json:"maxMinutes"`
	Category        string     `json:"category"`
	Difficulty      Difficulty `json:"difficulty"`
	IngredientsOnly bool       `json:"ingredientsOnly"`
	SortBy          string     `json:"sortBy,omitempty"`
}

// DefaultFilterConfig returns the identity-like default filters
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{MaxMinutes: DefaultMaxMinutes}
}

// Normalize clamps MaxMinutes into [MinCookingMinutes, MaxCookingMinutes].
// A zero MaxMinutes is treated as unset and replaced with the default.
func (f FilterConfig) Normalize() FilterConfig {
	switch {
	case f.MaxMinutes == 0:
		f.MaxMinutes = DefaultMaxMinutes
	case f.MaxMinutes < MinCookingMinutes:
		f.MaxMinutes = MinCookingMinutes
	case f.MaxMinutes > MaxCookingMinutes:
		f.MaxMinutes = MaxCookingMinutes
	}
	f.Category = strings.TrimSpace(f.Category)
	return f
}

// ValidSort reports whether s is a supported sort order
func ValidSort(s string) bool {
	switch s {
	case SortNone, SortTime, SortName, SortDifficulty:
		return true
	}
	return false
}
