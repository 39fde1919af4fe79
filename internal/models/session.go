package models

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Physical-quality labels. Together they form the fixed universe partitioned
// by PriorityBuckets.
const (
	QualityVitesse            = "Vitesse"
	QualityEndurancePuissance = "Endurance Puissance"
	QualityEnduranceAerobie   = "Endurance Aérobie"
	QualityForce              = "Force"
	QualityCoordination       = "Coordination"
	QualityVivacite           = "Vivacité"
	QualitySouplesse          = "Souplesse"
	QualityPrevention         = "Prévention"
)

// Qualities lists the universe in canonical order.
var Qualities = []string{
	QualityVitesse,
	QualityEndurancePuissance,
	QualityEnduranceAerobie,
	QualityForce,
	QualityCoordination,
	QualityVivacite,
	QualitySouplesse,
	QualityPrevention,
}

// PriorityBuckets splits the quality universe by suitability for an age band.
type PriorityBuckets struct {
	Priority  []string `json:"priority"`
	Secondary []string `json:"secondary"`
	Other     []string `json:"other"`
}

// Exercise is one card of the generated session.
type Exercise struct {
	Title             string     `json:"title"`
	Duration          string     `json:"duration"`
	Steps             StringList `json:"steps"`
	CoachingPoints    StringList `json:"coachingPoints"`
	PhysiologicalGoal string     `json:"physiologicalGoal"`
	Setup             string     `json:"setup"`
	VisualPrompt      string     `json:"visualPrompt,omitempty"`
	Type              string     `json:"type,omitempty"`
	Intensity         string     `json:"intensity,omitempty"`
	Variations        StringList `json:"variations,omitempty"`
}

// Diagnosis is the expert's overall reading of the session.
type Diagnosis struct {
	Title       string `json:"title"`
	Explanation string `json:"explanation"`
	Advice      string `json:"advice"`
}

// SessionStructure is the plan returned by the model, after normalization.
type SessionStructure struct {
	Warmup     Exercise   `json:"warmup"`
	MainPart   []Exercise `json:"mainPart"`
	Conclusion Exercise   `json:"conclusion"`
	Diagnosis  Diagnosis  `json:"diagnosis"`
}

// GeneratedSession is an immutable generation result.
type GeneratedSession struct {
	ID        uuid.UUID        `json:"id"`
	Data      SessionStructure `json:"data"`
	Params    SessionParams    `json:"params"`
	CreatedAt time.Time        `json:"createdAt"`
}

// StringList decodes a JSON array of strings leniently. Models occasionally
// collapse a one-item list into a bare string, or emit a step as a number or
// an object: scalars keep their literal text, objects and arrays their
// compact JSON, and nulls and empty strings are skipped.
type StringList []string

// UnmarshalJSON implements json.Unmarshaler.
func (l *StringList) UnmarshalJSON(data []byte) error {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		var single json.RawMessage
		if err := json.Unmarshal(data, &single); err != nil {
			return err
		}
		items = []json.RawMessage{single}
	}
	list := make(StringList, 0, len(items))
	for _, item := range items {
		if text := itemText(item); text != "" {
			list = append(list, text)
		}
	}
	*l = list
	return nil
}

func itemText(item json.RawMessage) string {
	var s string
	if err := json.Unmarshal(item, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, item); err != nil {
		return ""
	}
	if text := compact.String(); text != "null" {
		return text
	}
	return ""
}
