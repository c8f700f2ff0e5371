package generator

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ParseRecipe turns a raw model answer into a validated RecipeRecord.
// Models occasionally wrap the JSON in a code fence despite the prompt,
// so fences are stripped before decoding.
func ParseRecipe(raw string) (RecipeRecord, error) {
	body := stripCodeFence(strings.TrimSpace(raw))
	if body == "" {
		return RecipeRecord{}, &ValidationError{Field: "body", Reason: "is empty"}
	}

	var rec RecipeRecord
	if err := json.Unmarshal([]byte(body), &rec); err != nil {
		return RecipeRecord{}, &ValidationError{
			Field:  "body",
			Reason: fmt.Sprintf("is not valid JSON: %v", err),
		}
	}

	if err := ValidateRecord(rec); err != nil {
		return RecipeRecord{}, err
	}

	rec.ID = uuid.New().String()
	rec.CreatedAt = time.Now().UTC()
	return rec, nil
}

// stripCodeFence removes a surrounding ``` or ```json fence, if any.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.Index(s, "\n"); nl >= 0 {
		// drop the language tag line ("json", possibly empty)
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
