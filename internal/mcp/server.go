package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(b Backend, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("Phenix", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("Phenix football physical-preparation planner. Classify age categories into priority physical qualities, "+
			"look up quality definitions, and generate structured training sessions (warmup, main exercises, cool-down). "+
			"Only one session is generated at a time; generation takes several seconds and is never retried."),
	)

	h := &handlers{b: b, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolClassifyCategory, Handler: h.classifyCategory},
		server.ServerTool{Tool: toolListQualities, Handler: h.listQualities},
		server.ServerTool{Tool: toolGenerateSession, Handler: h.generateSession},
		server.ServerTool{Tool: toolGetCurrentSession, Handler: h.getCurrentSession},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resOptions, Handler: h.options},
		server.ServerResource{Resource: resQualities, Handler: h.qualities},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	b   Backend
	log *slog.Logger
}

// --- Resource definitions ---

var resOptions = mcp.NewResource(
	"phenix://options",
	"Form Options",
	mcp.WithResourceDescription("Categories, genders, levels, cycle moments, qualities, limits and default session parameters"),
	mcp.WithMIMEType("application/json"),
)

var resQualities = mcp.NewResource(
	"phenix://qualities",
	"Physical Qualities",
	mcp.WithResourceDescription("The eight physical-quality labels with their coaching definitions"),
	mcp.WithMIMEType("application/json"),
)
