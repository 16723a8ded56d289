// ABOUTME: Unified Storage layer that wraps all SQLite stores
// ABOUTME: Implements storage.Reader for the local and test corpus
package sqlite

import (
	"context"
	"fmt"

	"github.com/harper/muzakir/internal/models"
	"github.com/harper/muzakir/internal/storage"
)

var _ storage.Reader = (*Storage)(nil)

// Storage is the SQLite-backed corpus store
type Storage struct {
	db         *DB
	books      *BookStore
	chapters   *ChapterStore
	paragraphs *ParagraphStore
	dictionary *DictionaryStore
	passages   *PassageStore
}

// Stats counts the rows of each corpus table
type Stats struct {
	Books      int `json:"books"`
	Chapters   int `json:"chapters"`
	Paragraphs int `json:"paragraphs"`
	Dictionary int `json:"dictionary"`
	Passages   int `json:"passages"`
}

// NewStorage opens storage at the default XDG path
func NewStorage() (*Storage, error) {
	return NewStorageWithPath(DefaultDBPath())
}

// NewStorageWithPath opens storage with a custom database path
func NewStorageWithPath(dbPath string) (*Storage, error) {
	db, err := Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return newStorage(db), nil
}

// NewStorageInMemory creates storage backed by an in-memory database (for testing)
func NewStorageInMemory() (*Storage, error) {
	db, err := OpenInMemory()
	if err != nil {
		return nil, err
	}
	return newStorage(db), nil
}

func newStorage(db *DB) *Storage {
	return &Storage{
		db:         db,
		books:      NewBookStore(db),
		chapters:   NewChapterStore(db),
		paragraphs: NewParagraphStore(db),
		dictionary: NewDictionaryStore(db),
		passages:   NewPassageStore(db),
	}
}

// Close closes the database
func (s *Storage) Close() error {
	return s.db.Close()
}

// DB returns the underlying database
func (s *Storage) DB() *DB { return s.db }

func (s *Storage) Books() *BookStore           { return s.books }
func (s *Storage) Chapters() *ChapterStore     { return s.chapters }
func (s *Storage) Paragraphs() *ParagraphStore { return s.paragraphs }
func (s *Storage) Dictionary() *DictionaryStore {
	return s.dictionary
}
func (s *Storage) Passages() *PassageStore { return s.passages }

// Dictionary lookups

func (s *Storage) GetByWord(ctx context.Context, word string) (*models.DictionaryEntry, error) {
	return s.dictionary.GetByWord(ctx, word)
}

func (s *Storage) GetByRootWord(ctx context.Context, root string) (*models.DictionaryEntry, error) {
	return s.dictionary.GetByRootWord(ctx, root)
}

func (s *Storage) ListByPrefix(ctx context.Context, prefix string, limit int) ([]models.DictionaryEntry, error) {
	return s.dictionary.ListByPrefix(ctx, prefix, limit)
}

// Corpus reads

func (s *Storage) GetBookBySlug(ctx context.Context, slug string) (*models.Book, error) {
	return s.books.GetBySlug(ctx, slug)
}

func (s *Storage) ListBooks(ctx context.Context) ([]models.Book, error) {
	return s.books.List(ctx)
}

func (s *Storage) FindChaptersByNumber(ctx context.Context, number int, bookSlug string) ([]models.ChapterRef, error) {
	return s.chapters.FindByNumber(ctx, number, bookSlug)
}

func (s *Storage) FindChaptersByTitle(ctx context.Context, title string) ([]models.ChapterRef, error) {
	return s.chapters.FindByTitle(ctx, title)
}

func (s *Storage) GetChapter(ctx context.Context, id int64) (*models.ChapterRef, error) {
	return s.chapters.Get(ctx, id)
}

func (s *Storage) ListChapters(ctx context.Context, bookSlug string) ([]models.ChapterRef, error) {
	return s.chapters.ListByBook(ctx, bookSlug)
}

func (s *Storage) ListParagraphs(ctx context.Context, chapterID int64) ([]models.Paragraph, error) {
	return s.paragraphs.ListByChapter(ctx, chapterID)
}

// MatchDocuments runs similarity search over stored passages
func (s *Storage) MatchDocuments(ctx context.Context, embedding []float64, opts models.SearchOptions) ([]models.DocumentMatch, error) {
	return s.passages.MatchDocuments(ctx, embedding, opts)
}

// Stats returns row counts for each table
func (s *Storage) Stats(ctx context.Context) (*Stats, error) {
	var st Stats
	counts := []struct {
		table string
		dest  *int
	}{
		{"books", &st.Books},
		{"chapters", &st.Chapters},
		{"paragraphs", &st.Paragraphs},
		{"dictionary", &st.Dictionary},
		{"passages", &st.Passages},
	}
	for _, c := range counts {
		// table names are fixed above
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+c.table).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", c.table, err)
		}
	}
	return &st, nil
}
