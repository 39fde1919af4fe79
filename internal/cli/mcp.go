package cli

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	phenixmcp "github.com/claude/phenix/internal/mcp"
)

type MCPCmd struct {
	Server string `help:"Serve tools from a remote Phenix server instead of generating locally." env:"PHENIX_SERVER_URL"`
	APIKey string `name:"api-key" help:"API key for the remote server." env:"PHENIX_AUTH_API_KEY"`
}

// Run serves MCP over stdin/stdout until the client disconnects. Logs must
// go to stderr.
func (c *MCPCmd) Run(ctx *Context) error {
	b, release, err := ctx.Backend(context.Background(), c.Server, c.APIKey)
	if err != nil {
		return err
	}
	defer release()

	mode := "local"
	if c.Server != "" {
		mode = "remote"
	}
	ctx.Log.Info("mcp stdio server starting", "mode", mode, "version", ctx.Version)
	return server.ServeStdio(phenixmcp.New(b, ctx.Version, ctx.Log))
}
