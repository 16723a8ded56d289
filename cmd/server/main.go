// ABOUTME: Standalone entry point for the reader HTTP API
// ABOUTME: Reads configuration from the environment and serves until SIGINT/SIGTERM
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/harper/muzakir/internal/app"
	"github.com/harper/muzakir/internal/config"
	"github.com/harper/muzakir/internal/httpapi"
	"github.com/harper/muzakir/internal/logger"
)

func main() {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if cfg.LogMode == "prod" || cfg.LogMode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	zl, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zl.Sync()

	if cfg.OpenAIKey == "" {
		zl.Warn("OPENAI_API_KEY not set - chat and search will fail")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, zl)
	if err != nil {
		zl.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer func() { _ = a.Close() }()

	if err := httpapi.ListenAndServe(ctx, cfg.HTTPAddr, httpapi.NewServer(a), zl); err != nil {
		zl.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
