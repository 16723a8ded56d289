// ABOUTME: Shared fixtures for core tests: an in-memory corpus and a scripted model client
// ABOUTME: The fake client records every call so tests can assert on what was sent
package core

import (
	"context"
	"sync"
	"testing"

	"github.com/harper/muzakir/internal/llm"
	"github.com/harper/muzakir/internal/storage/sqlite"
)

func testCorpus() *sqlite.Bundle {
	return &sqlite.Bundle{
		Version:   sqlite.BundleVersion,
		Dimension: 3,
		Books: []sqlite.BundleBook{
			{
				ID: 1, Title: "Sözler", Slug: "sozler",
				Chapters: []sqlite.BundleChapter{
					{
						ID: 10, Title: "Dördüncü Söz", ChapterNumber: 4,
						Paragraphs: []string{"Namaz hakkında.", "İkinci paragraf.", "Üçüncü paragraf."},
						Passages: []sqlite.BundlePassage{
							{ID: 100, Content: "Namazın kıymeti.", Vector: []float64{1, 0, 0}},
						},
					},
					{
						ID: 11, Title: "The Ninth Word", ChapterNumber: 9,
						Paragraphs: []string{"The five daily prayers."},
						Passages: []sqlite.BundlePassage{
							{ID: 101, Content: "Prayer times.", Vector: []float64{0.9, 0.1, 0}},
						},
					},
				},
			},
			{
				ID: 2, Title: "Mektubat", Slug: "mektubat",
				Chapters: []sqlite.BundleChapter{
					{
						ID: 20, Title: "Dördüncü Mektup", ChapterNumber: 4,
						Paragraphs: []string{"Mektup metni."},
						Passages: []sqlite.BundlePassage{
							{ID: 200, Content: "Unrelated letter.", Vector: []float64{0, 1, 0}},
						},
					},
					{
						ID: 21, Title: "Yirminci Mektup", ChapterNumber: 20,
						Paragraphs: []string{"Tevhid."},
						Passages: []sqlite.BundlePassage{
							{ID: 201, Content: "Tevhid ve namaz.", Vector: []float64{0.8, 0.2, 0}},
						},
					},
				},
			},
		},
	}
}

func newTestStore(t *testing.T) *sqlite.Storage {
	t.Helper()
	store, err := sqlite.NewStorageInMemory()
	if err != nil {
		t.Fatalf("NewStorageInMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	if _, err := store.Import(context.Background(), testCorpus()); err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	return store
}

// fakeClient scripts the embedding, classification and answer calls
type fakeClient struct {
	mu sync.Mutex

	embedding []float64
	embedErr  error
	// embedBlocks makes GenerateEmbedding wait for its context to end
	embedBlocks bool
	embedTexts  []string

	classification string
	classifyErr    error
	classifyCalls  int
	classifyUsers  []string

	answer      string
	answerErr   error
	answerCalls []llm.CompletionRequest
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		embedding:      []float64{1, 0, 0},
		classification: `{}`,
		answer:         "An answer.",
	}
}

func (f *fakeClient) GenerateEmbedding(ctx context.Context, text string) ([]float64, error) {
	f.mu.Lock()
	f.embedTexts = append(f.embedTexts, text)
	blocks, vec, err := f.embedBlocks, f.embedding, f.embedErr
	f.mu.Unlock()

	if blocks {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return vec, err
}

func (f *fakeClient) ClassifyQuery(ctx context.Context, system, user string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.classifyCalls++
	f.classifyUsers = append(f.classifyUsers, user)
	return f.classification, f.classifyErr
}

func (f *fakeClient) GenerateAnswer(ctx context.Context, req llm.CompletionRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.answerCalls = append(f.answerCalls, req)
	return f.answer, f.answerErr
}

func (f *fakeClient) embedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.embedTexts)
}
