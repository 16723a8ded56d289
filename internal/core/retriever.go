// ABOUTME: Similarity retriever: embeds text and searches passages by vector similarity
// ABOUTME: Validates search parameters before any I/O and types every external failure
package core

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/harper/muzakir/internal/logger"
	"github.com/harper/muzakir/internal/models"
	"github.com/harper/muzakir/internal/storage"
)

const (
	DefaultMatchThreshold = 0.3
	DefaultMatchCount     = 5
	MaxMatchCount         = 100
)

// Embedder produces the vector for a piece of text
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float64, error)
}

// Retriever finds passages similar to a query
type Retriever struct {
	embedder Embedder
	store    storage.VectorSearcher
	logger   *logger.Logger
}

// NewRetriever creates a retriever
func NewRetriever(embedder Embedder, store storage.VectorSearcher, log *logger.Logger) *Retriever {
	return &Retriever{embedder: embedder, store: store, logger: logger.OrNop(log)}
}

// DefaultSearchOptions returns threshold 0.3 and count 5
func DefaultSearchOptions() models.SearchOptions {
	return models.SearchOptions{MatchThreshold: DefaultMatchThreshold, MatchCount: DefaultMatchCount}
}

// ValidateSearchOptions checks threshold is in [0, 1] and count in [1, 100]
func ValidateSearchOptions(opts models.SearchOptions) error {
	if math.IsNaN(opts.MatchThreshold) || opts.MatchThreshold < 0 || opts.MatchThreshold > 1 {
		return fmt.Errorf("%w: matchThreshold must be between 0 and 1, got %v", ErrInvalidSearchParams, opts.MatchThreshold)
	}
	if opts.MatchCount < 1 || opts.MatchCount > MaxMatchCount {
		return fmt.Errorf("%w: matchCount must be between 1 and %d, got %d", ErrInvalidSearchParams, MaxMatchCount, opts.MatchCount)
	}
	return nil
}

// Embed returns the embedding of the trimmed text
func (r *Retriever) Embed(ctx context.Context, text string) ([]float64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyEmbeddingText
	}

	vec, err := r.embedder.GenerateEmbedding(ctx, text)
	if err != nil {
		r.logger.Error("embedding request failed", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrEmbeddingFailed, err)
	}
	if len(vec) == 0 {
		return nil, fmt.Errorf("%w: empty vector returned", ErrEmbeddingFailed)
	}
	return vec, nil
}

// Retrieve returns passages above the threshold, best first. Matches with
// empty content or an undefined similarity are dropped.
func (r *Retriever) Retrieve(ctx context.Context, embedding []float64, opts models.SearchOptions) ([]models.DocumentMatch, error) {
	if err := ValidateSearchOptions(opts); err != nil {
		return nil, err
	}
	if len(embedding) == 0 {
		return nil, fmt.Errorf("%w: embedding cannot be empty", ErrInvalidSearchParams)
	}

	matches, err := r.store.MatchDocuments(ctx, embedding, opts)
	if err != nil {
		r.logger.Error("similarity search failed", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrSearchFailed, err)
	}

	results := make([]models.DocumentMatch, 0, len(matches))
	for _, m := range matches {
		if strings.TrimSpace(m.Content) == "" || math.IsNaN(m.Similarity) {
			continue
		}
		results = append(results, m)
	}
	return results, nil
}

// Search embeds text and retrieves matches in one step
func (r *Retriever) Search(ctx context.Context, text string, opts models.SearchOptions) ([]models.DocumentMatch, error) {
	if err := ValidateSearchOptions(opts); err != nil {
		return nil, err
	}
	vec, err := r.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	return r.Retrieve(ctx, vec, opts)
}
