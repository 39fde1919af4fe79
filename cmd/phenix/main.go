package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"tailscale.com/tsnet"

	"github.com/claude/phenix"
	"github.com/claude/phenix/internal/config"
	"github.com/claude/phenix/internal/generator"
	"github.com/claude/phenix/internal/mcp"
	"github.com/claude/phenix/internal/server"
	"github.com/claude/phenix/internal/session"
	"github.com/claude/phenix/internal/storage"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	migrateOnly := flag.Bool("migrate-only", false, "run attempt-log migrations and exit")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("Phenix starting", "version", Version)

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if *migrateOnly {
		if cfg.Database.Driver != config.DriverPostgres {
			log.Error("migrate-only needs database.driver postgres", "driver", cfg.Database.Driver)
			os.Exit(1)
		}
		if err := storage.MigratePostgres(cfg.Database); err != nil {
			log.Error("migration failed", "error", err)
			os.Exit(1)
		}
		log.Info("migrate-only: exiting")
		return
	}

	// Open the optional attempt log
	ctx := context.Background()
	attempts, err := storage.Open(ctx, cfg.Database)
	if err != nil {
		log.Error("failed to open attempt log", "driver", cfg.Database.Driver, "error", err)
		os.Exit(1)
	}
	var recorder session.AttemptRecorder
	if attempts != nil {
		defer func() { _ = attempts.Close() }()
		recorder = attempts
		log.Info("attempt log opened", "driver", cfg.Database.Driver)
	}

	if generator.CleanCredential(cfg.Gemini.APIKey) == "" {
		log.Warn("no Gemini API key configured; generation will fail until one is set")
	}

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	opts := generator.Options{
		APIKey:    cfg.Gemini.APIKey,
		ModelName: cfg.Gemini.Model,
		Logger:    log,
	}
	if cfg.Metrics.Enabled {
		opts.Recorder = generator.NewPrometheusRecorder(reg)
	}
	gen := generator.New(generator.NewGeminiModel(cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.BaseURL), opts)
	ctrl := session.NewController(gen, gen.ModelName(), recorder, log)

	// Create server
	srv := server.New(ctrl, attempts, cfg.Auth.APIKey, log)
	if cfg.Metrics.Enabled {
		srv.SetMetrics(promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}
	srv.SetMCP(mcpserver.NewStreamableHTTPServer(mcp.New(mcp.NewLocalBackend(ctrl), Version, log)))

	// Serve embedded form
	webRoot, err := fs.Sub(phenix.WebFS, "web")
	if err != nil {
		log.Error("failed to load embedded frontend", "error", err)
		os.Exit(1)
	}
	srv.SetFrontend(webRoot)

	// Start server: tsnet or plain HTTP
	var listener net.Listener
	var tsServer *tsnet.Server

	if cfg.Tailscale.Enabled {
		tsServer = &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		lc, err := tsServer.LocalClient()
		if err != nil {
			log.Error("tsnet local client failed", "error", err)
			os.Exit(1)
		}
		srv.SetTailscale(lc)

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr, "mode", "dev (no tailscale)")
	}

	httpSrv := &http.Server{Handler: srv}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}
