package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/claude/phenix/internal/cli"
	"github.com/claude/phenix/internal/config"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path." type:"path" env:"PHENIX_CONFIG"`
	Verbose bool   `short:"v" help:"Log at debug level."`

	Priorities cli.PrioritiesCmd `cmd:"" help:"Show the priority qualities of an age category."`
	Qualities  cli.QualitiesCmd  `cmd:"" help:"List the physical qualities with their definitions."`
	Generate   cli.GenerateCmd   `cmd:"" help:"Generate a training session."`
	Attempts   cli.AttemptsCmd   `cmd:"" help:"Show recent generation attempts."`
	MCP        cli.MCPCmd        `cmd:"" name:"mcp" help:"Serve the planner as an MCP server over stdio."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("phenix-plan"),
		kong.Description("Football physical-preparation session planner"),
		kong.UsageOnError(),
		kong.Vars{"version": Version},
	)

	level := slog.LevelWarn
	if CLI.Verbose {
		level = slog.LevelDebug
	}
	// stdout carries command output and the MCP protocol.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	appCtx := &cli.Context{
		Config:  cfg,
		Log:     log,
		Out:     os.Stdout,
		Version: Version,
	}

	if err := ctx.Run(appCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
