// Package priority maps an age category to the physical qualities worth
// training at that age, following the sensitive-period model used by the club.
package priority

import (
	"slices"
	"strconv"
	"strings"

	"github.com/claude/phenix/internal/models"
)

// seniorAge is the age assumed for the non-numeric "Senior" category.
const seniorAge = 20

var (
	// 9-13: motor skills and speed window.
	youthBand = models.PriorityBuckets{
		Priority:  []string{models.QualityCoordination, models.QualityVitesse, models.QualityVivacite, models.QualitySouplesse},
		Secondary: []string{models.QualityEnduranceAerobie},
		Other:     []string{models.QualityForce, models.QualityEndurancePuissance, models.QualityPrevention},
	}
	// 14-16: growth spurt, aerobic base and fragility.
	growthBand = models.PriorityBuckets{
		Priority:  []string{models.QualityEnduranceAerobie, models.QualitySouplesse, models.QualityPrevention},
		Secondary: []string{models.QualityVitesse, models.QualityCoordination, models.QualityVivacite},
		Other:     []string{models.QualityForce, models.QualityEndurancePuissance},
	}
	// 17+: adult strength and power.
	adultBand = models.PriorityBuckets{
		Priority:  []string{models.QualityForce, models.QualityEndurancePuissance, models.QualityVitesse},
		Secondary: []string{models.QualityVivacite, models.QualityPrevention, models.QualityEnduranceAerobie},
		Other:     []string{models.QualityCoordination, models.QualitySouplesse},
	}
)

// Classify returns the priority buckets for an age category such as "U12"
// or "Senior". Categories whose age cannot be parsed fall in the adult band.
func Classify(category string) models.PriorityBuckets {
	age, ok := ageOf(category)
	switch {
	case ok && age <= 13:
		return clone(youthBand)
	case ok && age <= 16:
		return clone(growthBand)
	default:
		return clone(adultBand)
	}
}

// ageOf strips the leading "U" and parses the remainder.
func ageOf(category string) (int, bool) {
	cat := strings.TrimSpace(category)
	if strings.EqualFold(cat, "senior") {
		return seniorAge, true
	}
	cat = strings.TrimPrefix(strings.TrimPrefix(cat, "U"), "u")
	age, err := strconv.Atoi(cat)
	if err != nil {
		return 0, false
	}
	return age, true
}

func clone(b models.PriorityBuckets) models.PriorityBuckets {
	return models.PriorityBuckets{
		Priority:  slices.Clone(b.Priority),
		Secondary: slices.Clone(b.Secondary),
		Other:     slices.Clone(b.Other),
	}
}

// Qualities returns the full label universe in canonical order.
func Qualities() []string {
	return slices.Clone(models.Qualities)
}

// ReconcileFocus keeps current when it is still a priority or secondary
// quality for b, and otherwise falls back to the first priority.
func ReconcileFocus(b models.PriorityBuckets, current string) string {
	if slices.Contains(b.Priority, current) || slices.Contains(b.Secondary, current) {
		return current
	}
	return b.Priority[0]
}

// Apply recomputes the buckets for p.Category. In dominance mode it also
// moves p.Dominance to a suitable quality for the new category.
func Apply(p *models.SessionParams) models.PriorityBuckets {
	b := Classify(p.Category)
	if p.FocusMode == models.FocusDominance {
		p.Dominance = ReconcileFocus(b, p.Dominance)
	}
	return b
}

// Advise classifies category and reconciles dominance the way Apply does.
// An empty mode counts as dominance mode.
func Advise(category string, mode models.FocusMode, dominance string) models.PriorityAdvice {
	if mode == "" {
		mode = models.FocusDominance
	}
	p := models.SessionParams{Category: category, FocusMode: mode, Dominance: dominance}
	b := Apply(&p)
	return models.PriorityAdvice{Category: category, PriorityBuckets: b, Dominance: p.Dominance}
}
