package cli

import (
	"encoding/json"

	"github.com/claude/phenix/internal/models"
	"github.com/claude/phenix/internal/priority"
)

type PrioritiesCmd struct {
	Category  string `arg:"" help:"Age category (U9 to U17, Senior)."`
	Dominance string `help:"Currently selected quality; kept when it still suits the category."`
	JSON      bool   `help:"Print JSON instead of text."`
}

func (c *PrioritiesCmd) Run(ctx *Context) error {
	advice := priority.Advise(c.Category, models.FocusDominance, c.Dominance)
	if c.JSON {
		return printJSON(ctx, advice)
	}
	renderAdvice(ctx.Out, advice)
	return nil
}

type QualitiesCmd struct {
	JSON bool `help:"Print JSON instead of text."`
}

func (c *QualitiesCmd) Run(ctx *Context) error {
	defs := priority.Definitions()
	if c.JSON {
		return printJSON(ctx, defs)
	}
	renderQualities(ctx.Out, defs)
	return nil
}

func printJSON(ctx *Context, v any) error {
	enc := json.NewEncoder(ctx.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
