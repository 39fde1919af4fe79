package cli

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/claude/phenix/internal/models"
	"github.com/claude/phenix/internal/priority"
)

// paramsForm holds the form bindings. huh inputs bind to strings, so the
// numeric fields are converted after the form completes.
type paramsForm struct {
	p       models.SessionParams
	players string
	perWeek string
	number  string
}

func newParamsForm(p models.SessionParams) *paramsForm {
	return &paramsForm{
		p:       p,
		players: strconv.Itoa(p.PlayerCount),
		perWeek: strconv.Itoa(p.SessionsPerWeek),
		number:  strconv.Itoa(p.SessionNumber),
	}
}

func stringOptions(values []string) []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(values))
	for _, v := range values {
		opts = append(opts, huh.NewOption(v, v))
	}
	return opts
}

// focusOptions lists the priority then secondary qualities of the selected
// category. Other qualities are not offered.
func (f *paramsForm) focusOptions() []huh.Option[string] {
	b := priority.Classify(f.p.Category)
	opts := make([]huh.Option[string], 0, len(b.Priority)+len(b.Secondary))
	for _, q := range b.Priority {
		opts = append(opts, huh.NewOption("★ "+q, q))
	}
	for _, q := range b.Secondary {
		opts = append(opts, huh.NewOption(q, q))
	}
	if !slices.Contains(b.Priority, f.p.Dominance) && !slices.Contains(b.Secondary, f.p.Dominance) {
		f.p.Dominance = b.Priority[0]
	}
	return opts
}

func intBetween(lo, hi int) func(string) error {
	return func(s string) error {
		i, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("nombre attendu")
		}
		if i < lo || i > hi {
			return fmt.Errorf("valeur entre %d et %d", lo, hi)
		}
		return nil
	}
}

func (f *paramsForm) build() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Catégorie").
				Options(stringOptions(models.Categories)...).
				Value(&f.p.Category),
			huh.NewSelect[string]().
				Title("Genre").
				Options(stringOptions(models.Genders)...).
				Value(&f.p.Gender),
			huh.NewSelect[string]().
				Title("Niveau").
				Options(stringOptions(models.Levels)...).
				Value(&f.p.Level),
			huh.NewSelect[string]().
				Title("Moment du cycle").
				Options(stringOptions(models.CycleMoments)...).
				Value(&f.p.CycleMoment),
			huh.NewSelect[models.FocusMode]().
				Title("Objectif").
				Options(
					huh.NewOption("Développer une qualité", models.FocusDominance),
					huh.NewOption("Corriger un problème", models.FocusProblem),
				).
				Value(&f.p.FocusMode),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Qualité dominante").
				Description("★ prioritaire pour la catégorie").
				OptionsFunc(f.focusOptions, &f.p.Category).
				Value(&f.p.Dominance),
		).WithHideFunc(func() bool { return f.p.FocusMode != models.FocusDominance }),
		huh.NewGroup(
			huh.NewText().
				Title("Problème observé").
				Value(&f.p.ProblemDescription).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("décrivez le problème à corriger")
					}
					return nil
				}),
		).WithHideFunc(func() bool { return f.p.FocusMode != models.FocusProblem }),
		huh.NewGroup(
			huh.NewInput().
				Title("Nombre de joueurs").
				Value(&f.players).
				Validate(intBetween(models.MinPlayers, models.MaxPlayers)),
			huh.NewInput().
				Title("Séances par semaine").
				Value(&f.perWeek).
				Validate(intBetween(1, models.MaxSessionsPerWeek)),
			huh.NewInput().
				Title("Numéro de la séance").
				Value(&f.number).
				Validate(intBetween(1, models.MaxSessionsPerWeek)),
		),
	).WithTheme(huh.ThemeDracula())
}

// params applies the numeric inputs through the clamping setters.
func (f *paramsForm) params() models.SessionParams {
	p := f.p
	if n, err := strconv.Atoi(strings.TrimSpace(f.players)); err == nil {
		p.SetPlayerCount(n)
	}
	if n, err := strconv.Atoi(strings.TrimSpace(f.perWeek)); err == nil {
		p.SetSessionsPerWeek(n)
	}
	if n, err := strconv.Atoi(strings.TrimSpace(f.number)); err == nil {
		p.SetSessionNumber(n)
	}
	p.ProblemDescription = strings.TrimSpace(p.ProblemDescription)
	if p.FocusMode == models.FocusDominance {
		p.ProblemDescription = ""
	}
	return p
}

func runParamsForm(p models.SessionParams) (models.SessionParams, error) {
	f := newParamsForm(p)
	if err := f.build().Run(); err != nil {
		return p, err
	}
	return f.params(), nil
}
