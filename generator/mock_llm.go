package generator

import "context"

// MockLLM is an offline stand-in returning a canned recipe, for local runs
// and tests that must not call an external model.
type MockLLM struct{}

func (m MockLLM) Complete(_ context.Context, _ Prompt) (string, error) {
	return `{
  "title": "Nouilles sautées au poulet",
  "intro": "Des nouilles sautées rapides au poulet et aux légumes, relevées d'une sauce soja-sésame. Un classique du soir prêt en une demi-heure.",
  "ingredients_2": ["200 g de nouilles de blé", "1 filet de poulet", "1 carotte", "2 c. à s. de sauce soja"],
  "ingredients_3": ["300 g de nouilles de blé", "2 filets de poulet", "2 carottes", "3 c. à s. de sauce soja"],
  "ingredients_4": ["400 g de nouilles de blé", "2 gros filets de poulet", "2 carottes", "4 c. à s. de sauce soja"],
  "steps": ["Faire cuire les nouilles selon le paquet puis les égoutter.", "Faire sauter le poulet émincé à feu vif 4 à 5 minutes.", "Ajouter les légumes puis les nouilles et la sauce, mélanger 2 minutes."],
  "image_keywords": "nouilles sautées, poulet, wok, sauce brillante, baguettes"
}`, nil
}
