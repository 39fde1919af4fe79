package models

// FormOptions lists every choice the parameter form offers.
type FormOptions struct {
	Categories         []string      `json:"categories"`
	Genders            []string      `json:"genders"`
	Levels             []string      `json:"levels"`
	CycleMoments       []string      `json:"cycleMoments"`
	FocusModes         []FocusMode   `json:"focusModes"`
	Qualities          []string      `json:"qualities"`
	MinPlayers         int           `json:"minPlayers"`
	MaxPlayers         int           `json:"maxPlayers"`
	MaxSessionsPerWeek int           `json:"maxSessionsPerWeek"`
	Defaults           SessionParams `json:"defaults"`
}

// Options returns the form option sets with the default parameters.
func Options() FormOptions {
	return FormOptions{
		Categories:         Categories,
		Genders:            Genders,
		Levels:             Levels,
		CycleMoments:       CycleMoments,
		FocusModes:         []FocusMode{FocusDominance, FocusProblem},
		Qualities:          Qualities,
		MinPlayers:         MinPlayers,
		MaxPlayers:         MaxPlayers,
		MaxSessionsPerWeek: MaxSessionsPerWeek,
		Defaults:           DefaultParams(),
	}
}

// PriorityAdvice is the classifier output for a category, with the focus
// quality the form should preselect.
type PriorityAdvice struct {
	Category string `json:"category"`
	PriorityBuckets
	Dominance string `json:"dominance"`
}
