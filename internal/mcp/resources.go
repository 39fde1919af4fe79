package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
)

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (h *handlers) options(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	opts, err := h.b.Options(ctx)
	if err != nil {
		return nil, err
	}
	return jsonResource(req.Params.URI, opts)
}

func (h *handlers) qualities(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	defs, err := h.b.Qualities(ctx)
	if err != nil {
		return nil, err
	}
	return jsonResource(req.Params.URI, defs)
}
