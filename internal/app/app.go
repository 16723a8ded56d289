// ABOUTME: Wires configuration, storage, the OpenAI client and the reader core together
// ABOUTME: Shared by the CLI, the HTTP server and the MCP server
package app

import (
	"context"
	"fmt"

	"github.com/harper/muzakir/internal/config"
	"github.com/harper/muzakir/internal/core"
	"github.com/harper/muzakir/internal/dictionary"
	"github.com/harper/muzakir/internal/llm"
	"github.com/harper/muzakir/internal/logger"
	"github.com/harper/muzakir/internal/storage"
	"github.com/harper/muzakir/internal/storage/postgres"
	"github.com/harper/muzakir/internal/storage/sqlite"
)

// App holds the long-lived services of one process
type App struct {
	Config     *config.Config
	Logger     *logger.Logger
	Store      storage.Reader
	Pipeline   *core.Pipeline
	Dictionary *dictionary.Engine
}

// New opens the configured store and builds the services over it. The
// OpenAI client is created lazily, so a missing key only fails the calls
// that need it.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	log = logger.OrNop(log)
	store, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewWithStore(cfg, store, llm.NewLazy(ClientConfig(cfg)), log), nil
}

// NewWithStore builds the services over an already open store and model client
func NewWithStore(cfg *config.Config, store storage.Reader, client core.Client, log *logger.Logger) *App {
	log = logger.OrNop(log)
	return &App{
		Config:     cfg,
		Logger:     log,
		Store:      store,
		Pipeline:   core.NewPipeline(store, client, PipelineConfig(cfg), log),
		Dictionary: dictionary.NewEngine(store, log),
	}
}

// Close releases the store
func (a *App) Close() error {
	return a.Store.Close()
}

// OpenStore opens the backend named by cfg.Store
func OpenStore(ctx context.Context, cfg *config.Config) (storage.Reader, error) {
	switch cfg.Store {
	case config.StorePostgres:
		store, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres store: %w", err)
		}
		return store, nil
	case config.StoreSQLite, "":
		store, err := sqlite.NewStorageWithPath(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}

// ClientConfig maps configuration onto the OpenAI client settings
func ClientConfig(cfg *config.Config) llm.ClientConfig {
	return llm.ClientConfig{
		APIKey:          cfg.OpenAIKey,
		ChatModel:       cfg.ChatModel,
		ClassifierModel: cfg.ClassifierModel,
		EmbeddingModel:  cfg.EmbeddingModel,
		Timeout:         cfg.Timeout,
		MaxRetries:      cfg.MaxRetries,
		RetryDelay:      cfg.RetryDelay,
	}
}

// PipelineConfig maps configuration onto the retrieval settings
func PipelineConfig(cfg *config.Config) core.PipelineConfig {
	return core.PipelineConfig{
		MatchThreshold:    cfg.MatchThreshold,
		MatchCount:        cfg.MatchCount,
		PrimaryMatchCount: cfg.PrimaryMatchCount,
		RequestTimeout:    cfg.RequestTimeout,
	}
}
