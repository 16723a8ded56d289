// ABOUTME: PostgreSQL corpus store for the hosted database (pgx pool + pgvector)
// ABOUTME: Similarity search goes through the match_documents SQL function
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/harper/muzakir/internal/models"
	"github.com/harper/muzakir/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

var _ storage.Reader = (*Store)(nil)

// Store reads the corpus from PostgreSQL
type Store struct {
	pool *pgxpool.Pool
}

// Open connects to databaseURL and verifies the connection
func Open(ctx context.Context, databaseURL string) (*Store, error) {
	if databaseURL == "" {
		return nil, errors.New("database URL is required")
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &Store{pool: pool}, nil
}

// NewWithPool wraps an existing pool
func NewWithPool(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Close releases the pool
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// Dictionary

func (s *Store) GetByWord(ctx context.Context, word string) (*models.DictionaryEntry, error) {
	return s.entry(ctx, `
		SELECT word, definition, root_word FROM dictionary WHERE word = $1 LIMIT 1
	`, word)
}

func (s *Store) GetByRootWord(ctx context.Context, root string) (*models.DictionaryEntry, error) {
	return s.entry(ctx, `
		SELECT word, definition, root_word FROM dictionary
		WHERE root_word = $1
		ORDER BY word
		LIMIT 1
	`, root)
}

func (s *Store) ListByPrefix(ctx context.Context, prefix string, limit int) ([]models.DictionaryEntry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT word, definition, root_word FROM dictionary
		WHERE starts_with(word, $1)
		ORDER BY word
		LIMIT $2
	`, prefix, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list dictionary by prefix: %w", err)
	}
	defer rows.Close()

	var entries []models.DictionaryEntry
	for rows.Next() {
		var e models.DictionaryEntry
		if err := rows.Scan(&e.Word, &e.Definition, &e.RootWord); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) entry(ctx context.Context, q string, arg string) (*models.DictionaryEntry, error) {
	var e models.DictionaryEntry
	err := s.pool.QueryRow(ctx, q, arg).Scan(&e.Word, &e.Definition, &e.RootWord)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query dictionary: %w", err)
	}
	return &e, nil
}

// Corpus

func (s *Store) GetBookBySlug(ctx context.Context, slug string) (*models.Book, error) {
	var b models.Book
	err := s.pool.QueryRow(ctx, `SELECT id, title, slug FROM books WHERE slug = $1`, slug).Scan(&b.ID, &b.Title, &b.Slug)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("book %q: %w", slug, storage.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *Store) ListBooks(ctx context.Context) ([]models.Book, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, title, slug FROM books ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []models.Book
	for rows.Next() {
		var b models.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Slug); err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

const chapterRefColumns = `
	SELECT c.id, c.book_id, c.title, c.chapter_number, b.title, b.slug
	FROM chapters c
	JOIN books b ON b.id = c.book_id
`

func (s *Store) FindChaptersByNumber(ctx context.Context, number int, bookSlug string) ([]models.ChapterRef, error) {
	return s.chapters(ctx, chapterRefColumns+`
		WHERE c.chapter_number = $1 AND ($2::text = '' OR b.slug = $2::text)
		ORDER BY c.book_id, c.id
	`, number, bookSlug)
}

func (s *Store) FindChaptersByTitle(ctx context.Context, title string) ([]models.ChapterRef, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, nil
	}
	return s.chapters(ctx, chapterRefColumns+`
		WHERE c.title ILIKE '%' || $1::text || '%' ESCAPE '\'
		ORDER BY (lower(c.title) = lower($2::text)) DESC, c.book_id, c.chapter_number
	`, EscapeLike(title), title)
}

func (s *Store) GetChapter(ctx context.Context, id int64) (*models.ChapterRef, error) {
	refs, err := s.chapters(ctx, chapterRefColumns+` WHERE c.id = $1`, id)
	if err != nil {
		return nil, err
	}
	if len(refs) == 0 {
		return nil, fmt.Errorf("chapter %d: %w", id, storage.ErrNotFound)
	}
	return &refs[0], nil
}

func (s *Store) ListChapters(ctx context.Context, bookSlug string) ([]models.ChapterRef, error) {
	return s.chapters(ctx, chapterRefColumns+`
		WHERE b.slug = $1
		ORDER BY c.chapter_number
	`, bookSlug)
}

func (s *Store) chapters(ctx context.Context, q string, args ...interface{}) ([]models.ChapterRef, error) {
	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query chapters: %w", err)
	}
	defer rows.Close()

	var refs []models.ChapterRef
	for rows.Next() {
		var ref models.ChapterRef
		if err := rows.Scan(&ref.ID, &ref.BookID, &ref.Title, &ref.ChapterNumber, &ref.BookTitle, &ref.BookSlug); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

func (s *Store) ListParagraphs(ctx context.Context, chapterID int64) ([]models.Paragraph, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, chapter_id, content, sequence_number
		FROM paragraphs
		WHERE chapter_id = $1
		ORDER BY sequence_number ASC
	`, chapterID)
	if err != nil {
		return nil, fmt.Errorf("failed to query paragraphs: %w", err)
	}
	defer rows.Close()

	var paragraphs []models.Paragraph
	for rows.Next() {
		var p models.Paragraph
		if err := rows.Scan(&p.ID, &p.ChapterID, &p.Content, &p.SequenceNumber); err != nil {
			return nil, err
		}
		paragraphs = append(paragraphs, p)
	}
	return paragraphs, rows.Err()
}

// Similarity search

// MatchDocuments calls match_documents(query_embedding, match_threshold, match_count)
// and fills in each match's book slug.
func (s *Store) MatchDocuments(ctx context.Context, embedding []float64, opts models.SearchOptions) ([]models.DocumentMatch, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, content, similarity, book_title, chapter_title, chapter_id
		FROM match_documents($1::vector, $2, $3)
	`, ToVector(embedding), opts.MatchThreshold, opts.MatchCount)
	if err != nil {
		return nil, fmt.Errorf("match_documents failed: %w", err)
	}
	defer rows.Close()

	var matches []models.DocumentMatch
	for rows.Next() {
		var r matchRow
		if err := rows.Scan(&r.ID, &r.Content, &r.Similarity, &r.BookTitle, &r.ChapterTitle, &r.ChapterID); err != nil {
			return nil, err
		}
		if m, ok := r.toMatch(); ok {
			matches = append(matches, m)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.fillBookSlugs(ctx, matches); err != nil {
		return nil, err
	}
	return matches, nil
}

// matchRow is one match_documents row. Every column is nullable in the
// function's result set.
type matchRow struct {
	ID           pgtype.Int8
	Content      pgtype.Text
	Similarity   pgtype.Float8
	BookTitle    pgtype.Text
	ChapterTitle pgtype.Text
	ChapterID    pgtype.Int8
}

// toMatch converts the row, dropping rows without content or similarity.
// Missing titles become empty strings.
func (r matchRow) toMatch() (models.DocumentMatch, bool) {
	if !r.Content.Valid || !r.Similarity.Valid {
		return models.DocumentMatch{}, false
	}
	return models.DocumentMatch{
		ID:           r.ID.Int64,
		Content:      r.Content.String,
		Similarity:   r.Similarity.Float64,
		BookTitle:    r.BookTitle.String,
		ChapterTitle: r.ChapterTitle.String,
		ChapterID:    r.ChapterID.Int64,
	}, true
}

func (s *Store) fillBookSlugs(ctx context.Context, matches []models.DocumentMatch) error {
	if len(matches) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.ChapterID)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT c.id, b.slug FROM chapters c JOIN books b ON b.id = c.book_id
		WHERE c.id = ANY($1)
	`, ids)
	if err != nil {
		return fmt.Errorf("failed to look up book slugs: %w", err)
	}
	defer rows.Close()

	slugs := make(map[int64]string, len(ids))
	for rows.Next() {
		var (
			id   int64
			slug string
		)
		if err := rows.Scan(&id, &slug); err != nil {
			return err
		}
		slugs[id] = slug
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range matches {
		matches[i].BookSlug = slugs[matches[i].ChapterID]
	}
	return nil
}

// ToVector converts an embedding to the pgvector argument type
func ToVector(embedding []float64) pgvector.Vector {
	v := make([]float32, len(embedding))
	for i, x := range embedding {
		v[i] = float32(x)
	}
	return pgvector.NewVector(v)
}

// EscapeLike escapes LIKE wildcards so user text matches literally
func EscapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
