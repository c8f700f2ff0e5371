package generator

import (
	"fmt"
	"time"
)

// RecipeRecord is the structured recipe returned by the model.
// Ingredient lists are keyed by serving count; all three must be present.
type RecipeRecord struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Intro         string    `json:"intro"`
	Ingredients2  []string  `json:"ingredients_2"`
	Ingredients3  []string  `json:"ingredients_3"`
	Ingredients4  []string  `json:"ingredients_4"`
	Steps         []string  `json:"steps"`
	ImageKeywords string    `json:"image_keywords"`
	CreatedAt     time.Time `json:"created_at"`
}

// Ingredients returns the list for a serving count (2, 3 or 4).
func (r RecipeRecord) Ingredients(servings int) []string {
	switch servings {
	case 2:
		return r.Ingredients2
	case 3:
		return r.Ingredients3
	case 4:
		return r.Ingredients4
	}
	return nil
}

// ValidationError reports a recipe record with a missing or empty field.
// Runs abort rather than publish an incomplete article.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid recipe record: field %s %s", e.Field, e.Reason)
}

// ValidateRecord checks that every required field is present and non-empty.
func ValidateRecord(r RecipeRecord) error {
	if r.Title == "" {
		return &ValidationError{Field: "title", Reason: "is empty"}
	}
	if r.Intro == "" {
		return &ValidationError{Field: "intro", Reason: "is empty"}
	}
	if len(r.Steps) == 0 {
		return &ValidationError{Field: "steps", Reason: "has no entries"}
	}
	for _, servings := range []int{2, 3, 4} {
		if len(r.Ingredients(servings)) == 0 {
			return &ValidationError{
				Field:  fmt.Sprintf("ingredients_%d", servings),
				Reason: "has no entries",
			}
		}
	}
	return nil
}
