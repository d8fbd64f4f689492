package usecase

import "strings"

// IngredientQuery is the user's ingredient text split into its parts
type IngredientQuery struct {
	// Raw is the trimmed input, recorded in history as typed
	Raw string
	// Primary is sent to the catalog, which only filters by one ingredient
	Primary string
	// Tokens are the lower-cased, non-empty comma-separated ingredients
	Tokens []string
}

// ParseIngredientQuery splits "chicken, rice" style input.
// Primary is the text before the first comma. When that part is blank
// (", rice") the first non-empty part is used instead.
func ParseIngredientQuery(raw string) IngredientQuery {
	q := IngredientQuery{Raw: strings.TrimSpace(raw)}
	if q.Raw == "" {
		return q
	}

	for _, part := range strings.Split(q.Raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if q.Primary == "" {
			q.Primary = part
		}
		q.Tokens = append(q.Tokens, strings.ToLower(part))
	}
	return q
}

// SplitIngredientTokens returns the lower-cased, trimmed, non-empty
// comma-separated tokens of text
func SplitIngredientTokens(text string) []string {
	var tokens []string
	for _, part := range strings.Split(text, ",") {
		if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
			tokens = append(tokens, part)
		}
	}
	return tokens
}
