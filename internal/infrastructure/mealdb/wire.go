package mealdb

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/recipefinder/backend/internal/domain"
)

// filterResponse is the body of GET /filter.php?i={ingredient}.
// A null "meals" means zero candidates.
type filterResponse struct {
	Meals []mealSummary `json:"meals"`
}

type mealSummary struct {
	IDMeal       string `json:"idMeal"`
	StrMeal      string `json:"strMeal"`
	StrMealThumb string `json:"strMealThumb"`
}

// lookupResponse is the body of GET /lookup.php?i={id}; index 0 is the record
type lookupResponse struct {
	Meals []Meal `json:"meals"`
}

// Meal is the RecipeRecordWire shape returned by TheMealDB. Ingredient and
// measure slots are flattened into strIngredient1..20 / strMeasure1..20 and
// any of them may be missing or null.
type Meal struct {
	IDMeal          string
	StrMeal         string
	StrCategory     string
	StrArea         string
	StrInstructions string
	StrMealThumb    string
	StrYoutube      string
	StrTags         string
	StrSource       string
	StrIngredients  [domain.MaxIngredientSlots]string
	StrMeasures     [domain.MaxIngredientSlots]string
}

// UnmarshalJSON decodes the sparse wire format. Non-string values are ignored.
func (m *Meal) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	str := func(key string) string {
		if s, ok := raw[key].(string); ok {
			return s
		}
		return ""
	}

	m.IDMeal = str("idMeal")
	m.StrMeal = str("strMeal")
	m.StrCategory = str("strCategory")
	m.StrArea = str("strArea")
	m.StrInstructions = str("strInstructions")
	m.StrMealThumb = str("strMealThumb")
	m.StrYoutube = str("strYoutube")
	m.StrTags = str("strTags")
	m.StrSource = str("strSource")

	for i := 0; i < domain.MaxIngredientSlots; i++ {
		m.StrIngredients[i] = str(fmt.Sprintf("strIngredient%d", i+1))
		m.StrMeasures[i] = str(fmt.Sprintf("strMeasure%d", i+1))
	}

	return nil
}

// MarshalJSON produces the wire format, emitting every slot
func (m Meal) MarshalJSON() ([]byte, error) {
	raw := map[string]any{
		"idMeal":          m.IDMeal,
		"strMeal":         m.StrMeal,
		"strCategory":     m.StrCategory,
		"strArea":         m.StrArea,
		"strInstructions": m.StrInstructions,
		"strMealThumb":    m.StrMealThumb,
		"strYoutube":      m.StrYoutube,
		"strTags":         m.StrTags,
		"strSource":       m.StrSource,
	}
	for i := 0; i < domain.MaxIngredientSlots; i++ {
		raw[fmt.Sprintf("strIngredient%d", i+1)] = m.StrIngredients[i]
		raw[fmt.Sprintf("strMeasure%d", i+1)] = m.StrMeasures[i]
	}
	return json.Marshal(raw)
}
