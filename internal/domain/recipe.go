package domain

// MaxIngredientSlots is the number of ingredient/measure slot pairs the catalog exposes
const MaxIngredientSlots = 20

// Recipe represents a fully populated recipe record from TheMealDB.
// Records are immutable once fetched.
type Recipe struct {
	ID           string           `json:"id"`
	Title        string           `json:"title"`
	Category     string           `json:"category"`
	Area         string           `json:"area"`
	Instructions string           `json:"instructions"`
	Thumbnail    string           `json:"thumbnail"`
	Video        string           `json:"video,omitempty"`
	Tags         string           `json:"tags,omitempty"`
	Source       string           `json:"source,omitempty"`
	Ingredients  []IngredientSlot `json:"ingredients"` // catalog slot order, at most MaxIngredientSlots
}

// IngredientSlot is one (ingredient, measure) pair. Either side may be blank.
type IngredientSlot struct {
	Name    string `json:"name"`
	Measure string `json:"measure,omitempty"`
}

// DerivedMetrics holds values computed from a Recipe; never persisted
type DerivedMetrics struct {
	EstimatedMinutes int        `json:"estimatedMinutes"`
	Difficulty       Difficulty `json:"difficulty"`
}

// RecipeCard is a recipe annotated for display
type RecipeCard struct {
	Recipe
	DerivedMetrics
	DifficultyTag string `json:"difficultyTag"`
	IsFavorite    bool   `json:"isFavorite"`
}

// SearchBatch is the outcome of one ingredient search against the catalog
type SearchBatch struct {
	Query             string   `json:"query"`
	PrimaryIngredient string   `json:"primaryIngredient"`
	CandidateCount    int      `json:"candidateCount"`
	FailedCount       int      `json:"failedCount"`
	Recipes           []Recipe `json:"recipes"`
}

// NoMatches reports whether the catalog returned zero candidates.
// This is a valid empty result, not a failure.
func (b *SearchBatch) NoMatches() bool {
	return b == nil || b.CandidateCount == 0
}
