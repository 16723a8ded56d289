// ABOUTME: Book, chapter and paragraph persistence for SQLite
// ABOUTME: Chapter queries join the parent book so callers get titles and slugs
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/harper/muzakir/internal/lexicon"
	"github.com/harper/muzakir/internal/models"
	"github.com/harper/muzakir/internal/storage"
)

// BookStore handles book persistence
type BookStore struct {
	db *DB
}

// NewBookStore creates a new BookStore
func NewBookStore(db *DB) *BookStore {
	return &BookStore{db: db}
}

// Save inserts a book or updates the one with the same slug, and sets
// book.ID to the stored id. A zero ID lets SQLite assign one.
func (s *BookStore) Save(ctx context.Context, book *models.Book) error {
	if book.Slug == "" {
		return errors.New("book slug is required")
	}
	return s.db.QueryRowContext(ctx, `
		INSERT INTO books (id, title, slug)
		VALUES (?, ?, ?)
		ON CONFLICT(slug) DO UPDATE SET
			title = excluded.title
		RETURNING id
	`, nullID(book.ID), book.Title, book.Slug).Scan(&book.ID)
}

// GetBySlug retrieves a book by slug, or storage.ErrNotFound
func (s *BookStore) GetBySlug(ctx context.Context, slug string) (*models.Book, error) {
	var book models.Book
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, slug FROM books WHERE slug = ?
	`, slug).Scan(&book.ID, &book.Title, &book.Slug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("book %q: %w", slug, storage.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// List returns all books ordered by id
func (s *BookStore) List(ctx context.Context) ([]models.Book, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, slug FROM books ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

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

// ChapterStore handles chapter persistence
type ChapterStore struct {
	db *DB
}

// NewChapterStore creates a new ChapterStore
func NewChapterStore(db *DB) *ChapterStore {
	return &ChapterStore{db: db}
}

const chapterRefColumns = `
	SELECT c.id, c.book_id, c.title, c.chapter_number, b.title, b.slug
	FROM chapters c
	JOIN books b ON b.id = c.book_id
`

// Save inserts a chapter or updates the one with the same book and number,
// and sets chapter.ID to the stored id.
func (s *ChapterStore) Save(ctx context.Context, chapter *models.Chapter) error {
	return s.db.QueryRowContext(ctx, `
		INSERT INTO chapters (id, book_id, title, title_key, chapter_number)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(book_id, chapter_number) DO UPDATE SET
			title = excluded.title,
			title_key = excluded.title_key
		RETURNING id
	`, nullID(chapter.ID), chapter.BookID, chapter.Title, lexicon.MatchKey(chapter.Title), chapter.ChapterNumber).Scan(&chapter.ID)
}

// Get retrieves a chapter with its book, or storage.ErrNotFound
func (s *ChapterStore) Get(ctx context.Context, id int64) (*models.ChapterRef, error) {
	refs, err := s.query(ctx, chapterRefColumns+` WHERE c.id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(refs) == 0 {
		return nil, fmt.Errorf("chapter %d: %w", id, storage.ErrNotFound)
	}
	return &refs[0], nil
}

// FindByNumber returns chapters with the given number, optionally in one book
func (s *ChapterStore) FindByNumber(ctx context.Context, number int, bookSlug string) ([]models.ChapterRef, error) {
	if bookSlug == "" {
		return s.query(ctx, chapterRefColumns+`
			WHERE c.chapter_number = ?
			ORDER BY c.book_id, c.id
		`, number)
	}
	return s.query(ctx, chapterRefColumns+`
		WHERE c.chapter_number = ? AND b.slug = ?
		ORDER BY c.id
	`, number, bookSlug)
}

// FindByTitle returns chapters whose folded title contains the folded query.
// An exact title match sorts first, then book and chapter order.
func (s *ChapterStore) FindByTitle(ctx context.Context, title string) ([]models.ChapterRef, error) {
	key := lexicon.MatchKey(title)
	if key == "" {
		return nil, nil
	}
	return s.query(ctx, chapterRefColumns+`
		WHERE instr(c.title_key, ?) > 0
		ORDER BY (c.title_key = ?) DESC, c.book_id, c.chapter_number
	`, key, key)
}

// ListByBook returns a book's chapters in chapter order
func (s *ChapterStore) ListByBook(ctx context.Context, bookSlug string) ([]models.ChapterRef, error) {
	return s.query(ctx, chapterRefColumns+`
		WHERE b.slug = ?
		ORDER BY c.chapter_number
	`, bookSlug)
}

func (s *ChapterStore) query(ctx context.Context, q string, args ...interface{}) ([]models.ChapterRef, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

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

// ParagraphStore handles paragraph persistence
type ParagraphStore struct {
	db *DB
}

// NewParagraphStore creates a new ParagraphStore
func NewParagraphStore(db *DB) *ParagraphStore {
	return &ParagraphStore{db: db}
}

// Save inserts a paragraph or replaces the content at the same sequence
// position, and sets p.ID to the stored id.
func (s *ParagraphStore) Save(ctx context.Context, p *models.Paragraph) error {
	return s.db.QueryRowContext(ctx, `
		INSERT INTO paragraphs (id, chapter_id, content, sequence_number)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(chapter_id, sequence_number) DO UPDATE SET
			content = excluded.content
		RETURNING id
	`, nullID(p.ID), p.ChapterID, p.Content, p.SequenceNumber).Scan(&p.ID)
}

// ListByChapter returns a chapter's paragraphs in sequence order
func (s *ParagraphStore) ListByChapter(ctx context.Context, chapterID int64) ([]models.Paragraph, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, chapter_id, content, sequence_number
		FROM paragraphs
		WHERE chapter_id = ?
		ORDER BY sequence_number ASC
	`, chapterID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

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

// DeleteByChapter removes all paragraphs of a chapter
func (s *ParagraphStore) DeleteByChapter(ctx context.Context, chapterID int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM paragraphs WHERE chapter_id = ?`, chapterID)
	return err
}

// nullID maps a zero id to NULL so INTEGER PRIMARY KEY assigns one
func nullID(id int64) interface{} {
	if id == 0 {
		return nil
	}
	return id
}
