package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/bilgisen/feedview/internal/api"
	"github.com/bilgisen/feedview/internal/cache"
	"github.com/bilgisen/feedview/internal/config"
	"github.com/bilgisen/feedview/internal/feed"
	"github.com/bilgisen/feedview/internal/logger"
	"github.com/bilgisen/feedview/internal/render"
)

var revision = "local"

func main() {
	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize logger
	output := cfg.LogFile
	if output == "" {
		output = "stdout"
	}
	if err := logger.Init(logger.Config{
		Level:  cfg.LogLevel,
		Output: output,
		Pretty: !cfg.IsProduction(),
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	logr := logger.Get()
	logr.Info().Str("revision", revision).Str("env", cfg.Env).Msg("Starting feedview...")
	render.LogBackend(cfg.Backend)

	// Response cache, nil when every render revalidates
	store, err := cache.New(cfg)
	if err != nil {
		logr.Fatal().Err(err).Msg("Failed to initialize feed cache")
	}
	if store != nil {
		defer func() {
			logr.Info().Msg("Closing feed cache...")
			if err := store.Close(); err != nil {
				logr.Error().Err(err).Msg("Error closing feed cache")
			}
		}()
	}

	renderer, err := render.New(render.OptionsFromConfig(cfg), feed.NewFetcher(cfg.HTTPTimeout, store))
	if err != nil {
		logr.Fatal().Err(err).Msg("Failed to initialize page renderer")
	}

	api.Version = revision
	app := api.NewApp(cfg, api.NewHandlers(cfg, renderer, store))

	// Start server in a goroutine
	go func() {
		logr.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := app.Listen(":" + cfg.Port); err != nil {
			logr.Fatal().Err(err).Msg("Server error")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logr.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logr.Error().Err(err).Msg("Server forced to shutdown")
	}

	logr.Info().Msg("Server exited properly")
}
