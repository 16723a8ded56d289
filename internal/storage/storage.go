// ABOUTME: Read interfaces the reader core needs from its corpus store
// ABOUTME: Implemented by the sqlite (local) and postgres (hosted) backends
package storage

import (
	"context"
	"errors"

	"github.com/harper/muzakir/internal/models"
)

// ErrNotFound is returned by lookups that address a single row by key.
// Callers in the core translate it into a nil result.
var ErrNotFound = errors.New("not found")

// DictionaryReader resolves dictionary entries. GetByWord and GetByRootWord
// return nil, nil when nothing matches.
type DictionaryReader interface {
	GetByWord(ctx context.Context, word string) (*models.DictionaryEntry, error)
	GetByRootWord(ctx context.Context, root string) (*models.DictionaryEntry, error)
	ListByPrefix(ctx context.Context, prefix string, limit int) ([]models.DictionaryEntry, error)
}

// CorpusReader reads books, chapters and paragraphs
type CorpusReader interface {
	GetBookBySlug(ctx context.Context, slug string) (*models.Book, error)
	ListBooks(ctx context.Context) ([]models.Book, error)
	// FindChaptersByNumber returns chapters with the given number, optionally
	// limited to one book, joined with their book.
	FindChaptersByNumber(ctx context.Context, number int, bookSlug string) ([]models.ChapterRef, error)
	// FindChaptersByTitle returns chapters whose title contains the given text,
	// case-insensitively, ordered by book id then chapter number.
	FindChaptersByTitle(ctx context.Context, title string) ([]models.ChapterRef, error)
	GetChapter(ctx context.Context, id int64) (*models.ChapterRef, error)
	ListChapters(ctx context.Context, bookSlug string) ([]models.ChapterRef, error)
	ListParagraphs(ctx context.Context, chapterID int64) ([]models.Paragraph, error)
}

// VectorSearcher runs nearest-neighbour search over embedded passages.
// Results are sorted by similarity, highest first.
type VectorSearcher interface {
	MatchDocuments(ctx context.Context, embedding []float64, opts models.SearchOptions) ([]models.DocumentMatch, error)
}

// Reader is everything the reader core reads
type Reader interface {
	DictionaryReader
	CorpusReader
	VectorSearcher
	Close() error
}
