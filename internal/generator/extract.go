package generator

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/claude/phenix/internal/models"
)

var errNoJSONObject = errors.New("no JSON object in response")

// extractJSON strips markdown fences and keeps the text between the first
// '{' and the last '}'.
func extractJSON(text string) (string, error) {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	text = strings.TrimSpace(text)

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return "", errNoJSONObject
	}
	return text[start : end+1], nil
}

// rawSession mirrors SessionStructure loosely so every field can be checked
// before normalization.
type rawSession struct {
	Warmup     json.RawMessage `json:"warmup"`
	MainPart   json.RawMessage `json:"mainPart"`
	Exercises  json.RawMessage `json:"exercises"`
	Conclusion json.RawMessage `json:"conclusion"`
	Diagnosis  json.RawMessage `json:"diagnosis"`
}

// parseSession extracts and decodes a model response, then normalizes it.
func parseSession(text string) (models.SessionStructure, error) {
	payload, err := extractJSON(text)
	if err != nil {
		return models.SessionStructure{}, err
	}

	var raw rawSession
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return models.SessionStructure{}, fmt.Errorf("decoding session: %w", err)
	}
	return normalize(raw), nil
}
