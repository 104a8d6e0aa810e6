package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"chatdesk/internal/config"
	"chatdesk/internal/generation"
	"chatdesk/internal/knowledge"
	"chatdesk/internal/logger"
	"chatdesk/internal/pipeline"
	"chatdesk/internal/server"
	"chatdesk/internal/store"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML tunables file")
	flag.Parse()

	// .env is a development convenience; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	if err := logger.Init(cfg.Log); err != nil {
		os.Stderr.WriteString("failed to init logger: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider := knowledge.NewProvider(cfg.Knowledge.Dir)
	// Warm the memoized load so a broken knowledge pack fails at startup,
	// not on the first request.
	if _, err := provider.Load(); err != nil {
		logger.Error().Err(err).Msg("knowledge preload failed")
		os.Exit(1)
	}

	contexts := store.New(
		store.WithTTL(cfg.Store.TTL),
		store.WithCapacity(cfg.Store.Capacity),
		store.WithSweepInterval(cfg.Store.SweepInterval),
	)

	// A missing generation backend is not fatal: requests degrade to 503
	// with a suggestion-free reply.
	var client generation.Client
	if c, err := generation.NewEinoClient(ctx, cfg.Generation); err != nil {
		logger.Warn().Err(err).Msg("generation service unavailable, running degraded")
	} else {
		client = c
	}
	orchestrator := generation.NewOrchestrator(client, cfg.Generation.Timeout)

	deps := &pipeline.Deps{
		Provider:  provider,
		Store:     contexts,
		Generator: orchestrator,
	}

	srv := server.New(cfg.Server, deps)
	if err := srv.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("http server stopped")
		os.Exit(1)
	}
}
