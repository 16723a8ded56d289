// ABOUTME: Centralized configuration for the Muzakir reader core
// ABOUTME: Defaults, then an optional YAML file, then environment variables, then validation
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Store backends
const (
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

// Config holds all configuration for the reader core
type Config struct {
	// OpenAI settings
	OpenAIKey       string        `yaml:"-"`
	ChatModel       string        `yaml:"chat_model"`
	ClassifierModel string        `yaml:"classifier_model"`
	EmbeddingModel  string        `yaml:"embedding_model"`
	Timeout         time.Duration `yaml:"timeout"`
	MaxRetries      int           `yaml:"max_retries"`
	RetryDelay      time.Duration `yaml:"retry_delay"`

	// Storage settings
	Store       string `yaml:"store"`
	DBPath      string `yaml:"db_path"`
	DatabaseURL string `yaml:"-"`

	// Retrieval settings
	MatchThreshold    float64       `yaml:"match_threshold"`
	MatchCount        int           `yaml:"match_count"`
	PrimaryMatchCount int           `yaml:"primary_match_count"`
	RequestTimeout    time.Duration `yaml:"request_timeout"`

	// Surfaces
	HTTPAddr string `yaml:"http_addr"`
	LogMode  string `yaml:"log_mode"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		ChatModel:         "gpt-4o-mini",
		ClassifierModel:   "gpt-4o-mini",
		EmbeddingModel:    "text-embedding-3-small",
		Timeout:           30 * time.Second,
		MaxRetries:        0,
		RetryDelay:        2 * time.Second,
		Store:             StoreSQLite,
		MatchThreshold:    0.25,
		MatchCount:        5,
		PrimaryMatchCount: 3,
		RequestTimeout:    20 * time.Second,
		HTTPAddr:          ":8080",
		LogMode:           "dev",
	}
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := Default()
	applyEnv(cfg)
	return cfg, cfg.Validate()
}

// LoadFile reads a YAML file over the defaults, then applies environment overrides.
// A missing file is not an error.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("reading config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config file %s: %w", path, err)
			}
		}
	}
	applyEnv(cfg)
	return cfg, cfg.Validate()
}

func applyEnv(cfg *Config) {
	cfg.OpenAIKey = getEnv("OPENAI_API_KEY", cfg.OpenAIKey)
	cfg.ChatModel = getEnv("MUZAKIR_CHAT_MODEL", cfg.ChatModel)
	cfg.ClassifierModel = getEnv("MUZAKIR_CLASSIFIER_MODEL", cfg.ClassifierModel)
	cfg.EmbeddingModel = getEnv("MUZAKIR_EMBEDDING_MODEL", cfg.EmbeddingModel)
	cfg.Timeout = getEnvDuration("OPENAI_TIMEOUT", cfg.Timeout)
	cfg.MaxRetries = getEnvInt("OPENAI_MAX_RETRIES", cfg.MaxRetries)
	cfg.RetryDelay = getEnvDuration("OPENAI_RETRY_DELAY", cfg.RetryDelay)
	cfg.Store = getEnv("MUZAKIR_STORE", cfg.Store)
	cfg.DBPath = getEnv("MUZAKIR_DB_PATH", cfg.DBPath)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.MatchThreshold = getEnvFloat("MUZAKIR_MATCH_THRESHOLD", cfg.MatchThreshold)
	cfg.MatchCount = getEnvInt("MUZAKIR_MATCH_COUNT", cfg.MatchCount)
	cfg.PrimaryMatchCount = getEnvInt("MUZAKIR_PRIMARY_MATCH_COUNT", cfg.PrimaryMatchCount)
	cfg.RequestTimeout = getEnvDuration("MUZAKIR_REQUEST_TIMEOUT", cfg.RequestTimeout)
	cfg.HTTPAddr = getEnv("MUZAKIR_HTTP_ADDR", cfg.HTTPAddr)
	cfg.LogMode = getEnv("LOG_MODE", cfg.LogMode)
}

func (c *Config) Validate() error {
	if c.MatchThreshold < 0 || c.MatchThreshold > 1 {
		return fmt.Errorf("MUZAKIR_MATCH_THRESHOLD must be 0-1, got %f", c.MatchThreshold)
	}
	if c.MatchCount < 1 || c.MatchCount > 100 {
		return fmt.Errorf("MUZAKIR_MATCH_COUNT must be 1-100, got %d", c.MatchCount)
	}
	if c.PrimaryMatchCount < 1 || c.PrimaryMatchCount > 100 {
		return fmt.Errorf("MUZAKIR_PRIMARY_MATCH_COUNT must be 1-100, got %d", c.PrimaryMatchCount)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("OPENAI_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	switch c.Store {
	case StoreSQLite:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when MUZAKIR_STORE=%s", StorePostgres)
		}
	default:
		return fmt.Errorf("MUZAKIR_STORE must be %q or %q, got %q", StoreSQLite, StorePostgres, c.Store)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
