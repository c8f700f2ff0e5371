package generator

import (
	"fmt"
	"strings"
)

// Prompt is the message set sent to the LLM.
type Prompt struct {
	System  string
	User    string
	History []Message
}

// Message carries optional conversation history.
type Message struct {
	Role    string
	Content string
}

// PromptOptions tune the recipe request without changing its JSON contract.
type PromptOptions struct {
	Cuisine     string
	Constraints []string
}

// BuildRecipePrompt builds the strict-JSON recipe request. The model must
// answer with a single JSON object matching RecipeRecord's wire fields.
func BuildRecipePrompt(opts PromptOptions) Prompt {
	cuisine := opts.Cuisine
	if cuisine == "" {
		cuisine = "cuisine d'Asie (Chine, Japon, Thaïlande, Vietnam, Corée, etc.)"
	}

	var sb strings.Builder
	sb.WriteString("Tu es un chef spécialisé en " + cuisine + ". Génère UNE recette simple, familiale et savoureuse\n")
	sb.WriteString("(durée totale ~20 à 40 min), avec des ingrédients faciles à trouver en France.\n\n")
	sb.WriteString("Réponds STRICTEMENT en JSON (pas de texte hors JSON) au format :\n")
	sb.WriteString(`{
  "title": "Titre court",
  "intro": "Petit paragraphe d'introduction (2-3 phrases, ton convivial).",
  "ingredients_2": ["…", "…"],
  "ingredients_3": ["…", "…"],
  "ingredients_4": ["…", "…"],
  "steps": ["Étape 1 …", "Étape 2 …", "…"],
  "image_keywords": "mots clefs courts décrivant le plat et le style de présentation"
}`)
	sb.WriteString("\n\nContraintes :\n")
	sb.WriteString("- Pas d'alcool obligatoire ; propose des alternatives si utile.\n")
	sb.WriteString("- N'ajoute AUCUNE numérotation de références ([1], [2], etc.).\n")
	for _, c := range opts.Constraints {
		sb.WriteString(fmt.Sprintf("- %s\n", c))
	}

	return Prompt{
		System: "Réponds uniquement avec l'objet JSON demandé, sans balises de code ni commentaire.",
		User:   sb.String(),
	}
}
