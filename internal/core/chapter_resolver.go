// ABOUTME: Chapter resolver that turns a chapter reference or title into full chapter text
// ABOUTME: Joins paragraphs in sequence order; storage failures degrade to "not found"
package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/harper/muzakir/internal/lexicon"
	"github.com/harper/muzakir/internal/logger"
	"github.com/harper/muzakir/internal/models"
	"github.com/harper/muzakir/internal/storage"
)

// ChapterResolver loads chapters with their content. It keeps no state
// between calls.
type ChapterResolver struct {
	store  storage.CorpusReader
	logger *logger.Logger
}

// NewChapterResolver creates a resolver over the given corpus
func NewChapterResolver(store storage.CorpusReader, log *logger.Logger) *ChapterResolver {
	return &ChapterResolver{store: store, logger: logger.OrNop(log)}
}

// ByNumber returns the first chapter with the given number, limited to the
// book of chapterType when one is given. A miss or a storage failure yields
// nil; only context cancellation is returned as an error. Number 0 is a
// book's front matter.
func (r *ChapterResolver) ByNumber(ctx context.Context, number int, chapterType *models.ChapterType) (*models.ChapterWithContent, error) {
	if number < 0 {
		return nil, nil
	}
	bookSlug := ""
	if chapterType != nil {
		bookSlug = lexicon.BookSlugFor(*chapterType)
	}

	refs, err := r.store.FindChaptersByNumber(ctx, number, bookSlug)
	if err != nil {
		return nil, r.absorb(ctx, "failed to find chapter by number", err, "number", number, "book", bookSlug)
	}
	if len(refs) == 0 {
		return nil, nil
	}
	return r.withContent(ctx, refs[0])
}

// ByTitle returns the chapter whose title matches exactly, ignoring case,
// or else the first whose title contains the given text.
func (r *ChapterResolver) ByTitle(ctx context.Context, title string) (*models.ChapterWithContent, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, nil
	}

	refs, err := r.store.FindChaptersByTitle(ctx, title)
	if err != nil {
		return nil, r.absorb(ctx, "failed to find chapter by title", err, "title", title)
	}
	if len(refs) == 0 {
		return nil, nil
	}
	return r.withContent(ctx, refs[0])
}

// ByID loads one chapter. Unlike the reference lookups it reports
// storage.ErrNotFound, since callers address the chapter directly.
func (r *ChapterResolver) ByID(ctx context.Context, id int64) (*models.ChapterWithContent, error) {
	ref, err := r.store.GetChapter(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get chapter %d: %w", id, err)
	}
	paragraphs, err := r.store.ListParagraphs(ctx, ref.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list paragraphs: %w", err)
	}
	return models.NewChapterWithContent(*ref, paragraphs), nil
}

// List returns the chapters of one book, or ErrNotFound for an unknown slug
func (r *ChapterResolver) List(ctx context.Context, bookSlug string) (*models.Book, []models.ChapterRef, error) {
	book, err := r.store.GetBookBySlug(ctx, bookSlug)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get book %q: %w", bookSlug, err)
	}
	chapters, err := r.store.ListChapters(ctx, bookSlug)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list chapters: %w", err)
	}
	return book, chapters, nil
}

func (r *ChapterResolver) withContent(ctx context.Context, ref models.ChapterRef) (*models.ChapterWithContent, error) {
	paragraphs, err := r.store.ListParagraphs(ctx, ref.ID)
	if err != nil {
		return nil, r.absorb(ctx, "failed to list paragraphs", err, "chapter_id", ref.ID)
	}
	return models.NewChapterWithContent(ref, paragraphs), nil
}

// absorb logs a storage failure and returns the context error, if any
func (r *ChapterResolver) absorb(ctx context.Context, msg string, err error, kv ...interface{}) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	r.logger.Warn(msg, append(kv, "error", err)...)
	return nil
}
