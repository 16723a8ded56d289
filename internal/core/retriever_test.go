// ABOUTME: Tests for embedding validation, search parameter validation and result filtering
// ABOUTME: Invalid input must be rejected before the embedder or store is touched
package core

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/harper/muzakir/internal/models"
)

// stubSearcher returns canned matches and counts calls
type stubSearcher struct {
	matches []models.DocumentMatch
	err     error
	calls   int
	opts    models.SearchOptions
}

func (s *stubSearcher) MatchDocuments(ctx context.Context, embedding []float64, opts models.SearchOptions) ([]models.DocumentMatch, error) {
	s.calls++
	s.opts = opts
	return s.matches, s.err
}

func TestValidateSearchOptions(t *testing.T) {
	tests := []struct {
		name    string
		opts    models.SearchOptions
		wantErr bool
	}{
		{"defaults", DefaultSearchOptions(), false},
		{"zero threshold", models.SearchOptions{MatchThreshold: 0, MatchCount: 1}, false},
		{"upper bounds", models.SearchOptions{MatchThreshold: 1, MatchCount: 100}, false},
		{"threshold too high", models.SearchOptions{MatchThreshold: 1.5, MatchCount: 5}, true},
		{"negative threshold", models.SearchOptions{MatchThreshold: -0.1, MatchCount: 5}, true},
		{"nan threshold", models.SearchOptions{MatchThreshold: math.NaN(), MatchCount: 5}, true},
		{"zero count", models.SearchOptions{MatchThreshold: 0.3, MatchCount: 0}, true},
		{"count too high", models.SearchOptions{MatchThreshold: 0.3, MatchCount: 101}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSearchOptions(tt.opts)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateSearchOptions() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidSearchParams) {
				t.Errorf("error %v does not wrap ErrInvalidSearchParams", err)
			}
		})
	}
}

func TestRetrieve_RejectsThresholdBeforeIO(t *testing.T) {
	client := newFakeClient()
	store := &stubSearcher{}
	r := NewRetriever(client, store, nil)

	_, err := r.Retrieve(context.Background(), []float64{1, 0, 0}, models.SearchOptions{MatchThreshold: 1.5, MatchCount: 5})
	if !errors.Is(err, ErrInvalidSearchParams) {
		t.Fatalf("Retrieve() error = %v, want ErrInvalidSearchParams", err)
	}
	if store.calls != 0 {
		t.Errorf("store called %d times, want 0", store.calls)
	}

	_, err = r.Search(context.Background(), "namaz", models.SearchOptions{MatchThreshold: 1.5, MatchCount: 5})
	if !errors.Is(err, ErrInvalidSearchParams) {
		t.Fatalf("Search() error = %v, want ErrInvalidSearchParams", err)
	}
	if client.embedCount() != 0 {
		t.Errorf("embedder called %d times, want 0", client.embedCount())
	}
}

func TestEmbed(t *testing.T) {
	client := newFakeClient()
	r := NewRetriever(client, &stubSearcher{}, nil)

	if _, err := r.Embed(context.Background(), "   "); !errors.Is(err, ErrEmptyEmbeddingText) {
		t.Errorf("Embed(blank) error = %v, want ErrEmptyEmbeddingText", err)
	}
	if client.embedCount() != 0 {
		t.Errorf("embedder called for blank text")
	}

	vec, err := r.Embed(context.Background(), "  namaz  ")
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if len(vec) != 3 {
		t.Errorf("len(vec) = %d, want 3", len(vec))
	}
	if client.embedTexts[0] != "namaz" {
		t.Errorf("embedded %q, want trimmed text", client.embedTexts[0])
	}
}

func TestEmbed_Failures(t *testing.T) {
	upstream := errors.New("upstream 500")

	client := newFakeClient()
	client.embedErr = upstream
	_, err := NewRetriever(client, &stubSearcher{}, nil).Embed(context.Background(), "namaz")
	if !errors.Is(err, ErrEmbeddingFailed) || !errors.Is(err, upstream) {
		t.Errorf("Embed() error = %v, want ErrEmbeddingFailed wrapping upstream", err)
	}

	client = newFakeClient()
	client.embedding = nil
	_, err = NewRetriever(client, &stubSearcher{}, nil).Embed(context.Background(), "namaz")
	if !errors.Is(err, ErrEmbeddingFailed) {
		t.Errorf("Embed() error = %v, want ErrEmbeddingFailed for empty vector", err)
	}
}

func TestRetrieve_FiltersUnusableMatches(t *testing.T) {
	store := &stubSearcher{matches: []models.DocumentMatch{
		{ID: 1, Content: "good", Similarity: 0.9},
		{ID: 2, Content: "   ", Similarity: 0.8},
		{ID: 3, Content: "nan", Similarity: math.NaN()},
		{ID: 4, Content: "also good", Similarity: 0.5},
	}}
	r := NewRetriever(newFakeClient(), store, nil)

	got, err := r.Retrieve(context.Background(), []float64{1}, DefaultSearchOptions())
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 4 {
		t.Errorf("Retrieve() = %+v, want ids 1 and 4", got)
	}
	if store.opts != DefaultSearchOptions() {
		t.Errorf("store got %+v, want defaults", store.opts)
	}
}

func TestRetrieve_StoreFailure(t *testing.T) {
	store := &stubSearcher{err: errors.New("rpc failed")}
	r := NewRetriever(newFakeClient(), store, nil)

	if _, err := r.Retrieve(context.Background(), []float64{1}, DefaultSearchOptions()); !errors.Is(err, ErrSearchFailed) {
		t.Errorf("Retrieve() error = %v, want ErrSearchFailed", err)
	}
}

func TestSearch_AgainstCorpus(t *testing.T) {
	store := newTestStore(t)
	r := NewRetriever(newFakeClient(), store, nil)

	got, err := r.Search(context.Background(), "namaz", models.SearchOptions{MatchThreshold: 0.25, MatchCount: 2})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Search() returned %d matches, want 2", len(got))
	}
	if got[0].ID != 100 || got[0].BookSlug != "sozler" || got[0].ChapterTitle != "Dördüncü Söz" {
		t.Errorf("best match = %+v", got[0])
	}
	if got[0].Similarity < got[1].Similarity {
		t.Errorf("matches not sorted by similarity: %v < %v", got[0].Similarity, got[1].Similarity)
	}
}
