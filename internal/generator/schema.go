package generator

import "google.golang.org/genai"

func stringSchema(description string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeString, Description: description}
}

func stringListSchema(description string) *genai.Schema {
	return &genai.Schema{
		Type:        genai.TypeArray,
		Description: description,
		Items:       &genai.Schema{Type: genai.TypeString},
	}
}

func exerciseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title":             stringSchema("Nom de l'atelier"),
			"duration":          stringSchema("Durée, ex: 15 min"),
			"steps":             stringListSchema("Consignes étape par étape"),
			"setup":             stringSchema("Mise en place et matériel"),
			"physiologicalGoal": stringSchema("Objectif physiologique"),
			"coachingPoints":    stringListSchema("Points de coaching"),
			"visualPrompt":      stringSchema("Description du schéma tactique"),
		},
		Required: []string{"title", "duration", "steps", "setup", "physiologicalGoal", "coachingPoints"},
		PropertyOrdering: []string{
			"title", "duration", "setup", "steps", "physiologicalGoal", "coachingPoints", "visualPrompt",
		},
	}
}

// sessionSchema is the response shape requested from the model.
func sessionSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"warmup": exerciseSchema(),
			"mainPart": {
				Type:  genai.TypeArray,
				Items: exerciseSchema(),
			},
			"conclusion": exerciseSchema(),
			"diagnosis": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"title":       stringSchema("Titre de l'analyse"),
					"explanation": stringSchema("Pourquoi on travaille ça aujourd'hui"),
					"advice":      stringSchema("Conseil clé pour le coach sur le terrain"),
				},
			},
		},
		Required:         []string{"warmup", "mainPart", "conclusion"},
		PropertyOrdering: []string{"diagnosis", "warmup", "mainPart", "conclusion"},
	}
}
