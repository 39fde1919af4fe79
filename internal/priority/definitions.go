package priority

import "github.com/claude/phenix/internal/models"

const fallbackDefinition = "Développement spécifique."

var definitions = map[string]string{
	models.QualityVitesse:            "Fréquence gestuelle (jeunes) ou Vitesse Max/Explosivité (adultes).",
	models.QualityEndurancePuissance: "Puissance Aérobie (VMA), Répétition des efforts intenses.",
	models.QualityEnduranceAerobie:   "Capacité aérobie fondamentale, endurance de base.",
	models.QualityForce:              "Renforcement musculaire (Poids de corps ou Charge selon âge).",
	models.QualityCoordination:       "Psychocinétique, échelle de rythme, agilité, maitrise corporelle.",
	models.QualityVivacite:           "Appuis brefs, changements de direction, réaction.",
	models.QualitySouplesse:          "Mobilité articulaire et étirements actifs.",
	models.QualityPrevention:         "Proprioception, renforcement prophylactique.",
}

// QualityDefinition pairs a label with its coaching definition.
type QualityDefinition struct {
	Label      string `json:"label"`
	Definition string `json:"definition"`
}

// Definition returns the coaching definition of a quality label.
func Definition(label string) string {
	if d, ok := definitions[label]; ok {
		return d
	}
	return fallbackDefinition
}

// Definitions returns every label with its definition, in canonical order.
func Definitions() []QualityDefinition {
	out := make([]QualityDefinition, 0, len(models.Qualities))
	for _, q := range models.Qualities {
		out = append(out, QualityDefinition{Label: q, Definition: definitions[q]})
	}
	return out
}
