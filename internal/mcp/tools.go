package mcp

import (
	"context"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/phenix/internal/generator"
	"github.com/claude/phenix/internal/models"
	"github.com/claude/phenix/internal/priority"
)

// --- Tool definitions ---

var toolClassifyCategory = mcp.NewTool("classify_category",
	mcp.WithDescription("Split the eight physical qualities into priority, secondary and other buckets for an age category, "+
		"and return the quality the form would preselect."),
	mcp.WithString("category", mcp.Required(), mcp.Description("Age category"), mcp.Enum(models.Categories...)),
	mcp.WithString("dominance", mcp.Description("Currently selected quality. Kept when it is still priority or secondary.")),
)

var toolListQualities = mcp.NewTool("list_qualities",
	mcp.WithDescription("List the eight physical qualities with their coaching definitions."),
)

var toolGenerateSession = mcp.NewTool("generate_session",
	mcp.WithDescription("Generate a structured training session (warmup, main exercises, cool-down, expert diagnosis) "+
		"with the language model. Omitted parameters use the form defaults. Takes several seconds; fails if a generation is already running."),
	mcp.WithString("category", mcp.Required(), mcp.Description("Age category"), mcp.Enum(models.Categories...)),
	mcp.WithString("gender", mcp.Description("Squad gender. Defaults to M."), mcp.Enum(models.Genders...)),
	mcp.WithString("level", mcp.Description("Competition level. Defaults to D1."), mcp.Enum(models.Levels...)),
	mcp.WithString("focus_mode", mcp.Description("Develop a quality (dominance) or correct a described problem (problem). Defaults to dominance."),
		mcp.Enum(string(models.FocusDominance), string(models.FocusProblem))),
	mcp.WithString("dominance", mcp.Description("Quality to develop in dominance mode. Defaults to the form default when it suits the category, else its first priority quality."),
		mcp.Enum(models.Qualities...)),
	mcp.WithString("problem_description", mcp.Description("Observed deficiency to correct, required in problem mode")),
	mcp.WithString("cycle_moment", mcp.Description("Season phase. Defaults to Saison."), mcp.Enum(models.CycleMoments...)),
	mcp.WithNumber("player_count", mcp.Description("Number of players. Defaults to 18."),
		mcp.Min(models.MinPlayers), mcp.Max(models.MaxPlayers)),
	mcp.WithNumber("sessions_per_week", mcp.Description("Weekly sessions. Defaults to 2."),
		mcp.Min(1), mcp.Max(models.MaxSessionsPerWeek)),
	mcp.WithNumber("session_number", mcp.Description("Which session of the week this is. Defaults to 1."),
		mcp.Min(1), mcp.Max(models.MaxSessionsPerWeek)),
)

var toolGetCurrentSession = mcp.NewTool("get_current_session",
	mcp.WithDescription("Return the planner state: idle, generating, succeeded with the last session, or failed with the error message."),
)

// --- Tool handlers ---

func (h *handlers) classifyCategory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category, err := req.RequireString("category")
	if err != nil {
		return mcp.NewToolResultError("category parameter is required"), nil
	}

	advice, err := h.b.Priorities(ctx, category, models.FocusDominance, req.GetString("dominance", ""))
	if err != nil {
		h.log.Error("mcp classify_category", "error", err)
		return mcp.NewToolResultError("classification failed: " + ErrorText(err)), nil
	}

	result, err := mcp.NewToolResultJSON(advice)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listQualities(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	defs, err := h.b.Qualities(ctx)
	if err != nil {
		h.log.Error("mcp list_qualities", "error", err)
		return mcp.NewToolResultError("query failed: " + ErrorText(err)), nil
	}

	result, err := mcp.NewToolResultJSON(defs)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) generateSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category, err := req.RequireString("category")
	if err != nil {
		return mcp.NewToolResultError("category parameter is required"), nil
	}

	p := paramsFromRequest(category, req)
	generated, err := h.b.GenerateSession(ctx, p)
	if err != nil {
		h.log.Error("mcp generate_session", "category", p.Category, "error", err)
		return mcp.NewToolResultError(ErrorText(err)), nil
	}

	result, err := mcp.NewToolResultJSON(generated)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getCurrentSession(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap, err := h.b.CurrentSession(ctx)
	if err != nil {
		h.log.Error("mcp get_current_session", "error", err)
		return mcp.NewToolResultError("query failed: " + ErrorText(err)), nil
	}

	result, err := mcp.NewToolResultJSON(snap)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// paramsFromRequest starts from the form defaults and applies the tool
// arguments through the same clamping setters the form uses. Without an
// explicit dominance the category's default focus is selected.
func paramsFromRequest(category string, req mcp.CallToolRequest) models.SessionParams {
	p := models.DefaultParams()
	p.Category = category
	p.Gender = req.GetString("gender", p.Gender)
	p.Level = req.GetString("level", p.Level)
	p.FocusMode = models.FocusMode(req.GetString("focus_mode", string(p.FocusMode)))
	p.ProblemDescription = req.GetString("problem_description", "")
	p.CycleMoment = req.GetString("cycle_moment", p.CycleMoment)
	p.SetPlayerCount(req.GetInt("player_count", p.PlayerCount))
	p.SetSessionsPerWeek(req.GetInt("sessions_per_week", p.SessionsPerWeek))
	p.SetSessionNumber(req.GetInt("session_number", p.SessionNumber))

	if dominance := req.GetString("dominance", ""); dominance != "" {
		p.Dominance = dominance
	} else {
		priority.Apply(&p)
	}
	return p
}

// ErrorText is the message shown to the MCP client. Generation failures use
// their short user message; the provider detail stays in the server log.
func ErrorText(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	var genErr *generator.Error
	if errors.As(err, &genErr) {
		return genErr.UserMessage()
	}
	return err.Error()
}
