package cli

import (
	"context"
	"errors"
	"fmt"

	phenixmcp "github.com/claude/phenix/internal/mcp"
	"github.com/claude/phenix/internal/models"
	"github.com/claude/phenix/internal/priority"
	"github.com/claude/phenix/internal/session"
)

type GenerateCmd struct {
	Category    string `short:"c" help:"Age category." default:"Senior"`
	Gender      string `help:"Squad gender." enum:"M,F" default:"M"`
	Level       string `help:"Competition level." enum:"Élite,D1,D2,D3" default:"D1"`
	Focus       string `short:"f" help:"Quality to develop. Defaults to the category's suggestion."`
	Problem     string `short:"p" help:"Problem to correct instead of developing a quality."`
	Cycle       string `help:"Season phase." enum:"Avant-saison,Saison,Régénération" default:"Saison"`
	Players     int    `help:"Number of players." default:"18"`
	PerWeek     int    `name:"per-week" help:"Sessions per week." default:"2"`
	Number      int    `help:"Which session of the week this is." default:"1"`
	Interactive bool   `short:"i" help:"Fill the parameters in an interactive form."`
	JSON        bool   `help:"Print the session as JSON."`
	Server      string `help:"Generate on a remote Phenix server." env:"PHENIX_SERVER_URL"`
	APIKey      string `name:"api-key" help:"API key for the remote server." env:"PHENIX_AUTH_API_KEY"`
}

// params maps the flags onto the form defaults. Numeric values go through
// the same clamping as the form.
func (c *GenerateCmd) params() models.SessionParams {
	p := models.DefaultParams()
	p.Category = c.Category
	p.Gender = c.Gender
	p.Level = c.Level
	p.CycleMoment = c.Cycle
	p.SetPlayerCount(c.Players)
	p.SetSessionsPerWeek(c.PerWeek)
	p.SetSessionNumber(c.Number)

	switch {
	case c.Problem != "":
		p.FocusMode = models.FocusProblem
		p.ProblemDescription = c.Problem
	case c.Focus != "":
		p.Dominance = c.Focus
	default:
		priority.Apply(&p)
	}
	return p
}

func (c *GenerateCmd) Run(ctx *Context) error {
	p := c.params()
	if c.Interactive {
		var err error
		if p, err = runParamsForm(p); err != nil {
			return err
		}
	}

	bg := context.Background()
	b, release, err := ctx.Backend(bg, c.Server, c.APIKey)
	if err != nil {
		return err
	}
	defer release()

	if !c.JSON {
		fmt.Fprintln(ctx.Out, mutedStyle.Render("Génération en cours..."))
	}
	generated, err := b.GenerateSession(bg, p)
	switch {
	case errors.Is(err, session.ErrBusy):
		return errors.New("une séance est déjà en cours de génération")
	case errors.Is(err, models.ErrInvalidParams):
		return err
	case err != nil:
		return errors.New(phenixmcp.ErrorText(err))
	}

	if c.JSON {
		return printJSON(ctx, generated)
	}
	renderSession(ctx.Out, generated)
	return nil
}
