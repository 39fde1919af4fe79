package generator

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/claude/phenix/internal/models"
)

// Placeholders used when the model leaves a part of the session out.
const (
	DefaultDiagnosisTitle       = "Analyse de la séance"
	DefaultDiagnosisExplanation = "Aucune explication fournie."
	DefaultDiagnosisAdvice      = "Soyez attentif à l'intensité."
	DefaultWarmupTitle          = "Échauffement"
	DefaultConclusionTitle      = "Retour au calme"
)

// normalize turns a loosely decoded response into a SessionStructure that a
// renderer can walk without nil checks:
//
//   - mainPart falls back to the legacy "exercises" key, then to an empty list
//     when neither is an array; non-object elements are dropped
//   - legacy "instructions" and "material" fill empty steps and setup
//   - a field of the wrong type is skipped, the rest of the exercise is kept
//   - a missing warmup or conclusion becomes an empty titled placeholder
//   - missing diagnosis fields get generic text
//   - nil step and coaching-point lists become empty lists
func normalize(raw rawSession) models.SessionStructure {
	s := models.SessionStructure{
		Warmup:     decodeExercise(raw.Warmup, DefaultWarmupTitle),
		Conclusion: decodeExercise(raw.Conclusion, DefaultConclusionTitle),
		Diagnosis:  decodeDiagnosis(raw.Diagnosis),
	}

	items, ok := decodeArray(raw.MainPart)
	if !ok {
		items, _ = decodeArray(raw.Exercises)
	}
	s.MainPart = make([]models.Exercise, 0, len(items))
	for _, item := range items {
		ex, ok := decodeObject(item)
		if !ok {
			continue
		}
		s.MainPart = append(s.MainPart, fillExercise(ex, ""))
	}
	return s
}

func decodeArray(data json.RawMessage) ([]json.RawMessage, bool) {
	if len(data) == 0 {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil || items == nil {
		return nil, false
	}
	return items, true
}

func isObject(data json.RawMessage) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

// legacyExercise holds the fields of the older flat answer format.
type legacyExercise struct {
	Instructions models.StringList `json:"instructions"`
	Material     models.StringList `json:"material"`
}

// decodeObject decodes one exercise object. json.Unmarshal skips fields of
// the wrong type and keeps going, so a type error still yields the rest.
func decodeObject(data json.RawMessage) (models.Exercise, bool) {
	if !isObject(data) {
		return models.Exercise{}, false
	}
	var ex models.Exercise
	if err := json.Unmarshal(data, &ex); err != nil && !isTypeError(err) {
		return models.Exercise{}, false
	}
	var legacy legacyExercise
	if err := json.Unmarshal(data, &legacy); err == nil || isTypeError(err) {
		applyLegacy(&ex, legacy)
	}
	return ex, true
}

func isTypeError(err error) bool {
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &typeErr)
}

func applyLegacy(ex *models.Exercise, legacy legacyExercise) {
	if len(ex.Steps) == 0 {
		for _, block := range legacy.Instructions {
			for _, line := range strings.Split(block, "\n") {
				if line = strings.TrimSpace(line); line != "" {
					ex.Steps = append(ex.Steps, line)
				}
			}
		}
	}
	if ex.Setup == "" && len(legacy.Material) > 0 {
		ex.Setup = strings.Join(legacy.Material, ", ")
	}
}

func decodeExercise(data json.RawMessage, fallbackTitle string) models.Exercise {
	ex, _ := decodeObject(data)
	return fillExercise(ex, fallbackTitle)
}

func fillExercise(ex models.Exercise, fallbackTitle string) models.Exercise {
	if ex.Title == "" {
		ex.Title = fallbackTitle
	}
	if ex.Steps == nil {
		ex.Steps = models.StringList{}
	}
	if ex.CoachingPoints == nil {
		ex.CoachingPoints = models.StringList{}
	}
	return ex
}

func decodeDiagnosis(data json.RawMessage) models.Diagnosis {
	var d models.Diagnosis
	if isObject(data) {
		if err := json.Unmarshal(data, &d); err != nil && !isTypeError(err) {
			d = models.Diagnosis{}
		}
	}
	if d.Title == "" {
		d.Title = DefaultDiagnosisTitle
	}
	if d.Explanation == "" {
		d.Explanation = DefaultDiagnosisExplanation
	}
	if d.Advice == "" {
		d.Advice = DefaultDiagnosisAdvice
	}
	return d
}
