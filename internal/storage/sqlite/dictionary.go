// ABOUTME: Dictionary entry persistence for SQLite
// ABOUTME: Keys are normalized on save so lookups are plain equality
package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/harper/muzakir/internal/lexicon"
	"github.com/harper/muzakir/internal/models"
)

// DictionaryStore handles dictionary persistence
type DictionaryStore struct {
	db *DB
}

// NewDictionaryStore creates a new DictionaryStore
func NewDictionaryStore(db *DB) *DictionaryStore {
	return &DictionaryStore{db: db}
}

// Save inserts or replaces an entry. Word and root word are normalized.
func (s *DictionaryStore) Save(ctx context.Context, entry *models.DictionaryEntry) error {
	word := lexicon.Normalize(entry.Word)
	if word == "" {
		return errors.New("dictionary word is required")
	}
	var root sql.NullString
	if entry.RootWord != nil && lexicon.Normalize(*entry.RootWord) != "" {
		root = sql.NullString{String: lexicon.Normalize(*entry.RootWord), Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO dictionary (word, definition, root_word)
		VALUES (?, ?, ?)
		ON CONFLICT(word) DO UPDATE SET
			definition = excluded.definition,
			root_word = excluded.root_word
	`, word, entry.Definition, root)
	return err
}

// GetByWord returns the entry keyed by word, or nil if absent
func (s *DictionaryStore) GetByWord(ctx context.Context, word string) (*models.DictionaryEntry, error) {
	return s.getOne(ctx, `
		SELECT word, definition, root_word FROM dictionary WHERE word = ?
	`, word)
}

// GetByRootWord returns the first entry whose root_word matches, or nil
func (s *DictionaryStore) GetByRootWord(ctx context.Context, root string) (*models.DictionaryEntry, error) {
	return s.getOne(ctx, `
		SELECT word, definition, root_word FROM dictionary
		WHERE root_word = ?
		ORDER BY word
		LIMIT 1
	`, root)
}

// ListByPrefix returns up to limit entries whose word starts with prefix
func (s *DictionaryStore) ListByPrefix(ctx context.Context, prefix string, limit int) ([]models.DictionaryEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT word, definition, root_word FROM dictionary
		WHERE substr(word, 1, length(?)) = ?
		ORDER BY word
		LIMIT ?
	`, prefix, prefix, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var entries []models.DictionaryEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	return entries, rows.Err()
}

// Count returns the number of dictionary entries
func (s *DictionaryStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM dictionary`).Scan(&n)
	return n, err
}

func (s *DictionaryStore) getOne(ctx context.Context, q string, arg string) (*models.DictionaryEntry, error) {
	entry, err := scanEntry(s.db.QueryRowContext(ctx, q, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return entry, err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row rowScanner) (*models.DictionaryEntry, error) {
	var (
		entry models.DictionaryEntry
		root  sql.NullString
	)
	if err := row.Scan(&entry.Word, &entry.Definition, &root); err != nil {
		return nil, err
	}
	if root.Valid {
		entry.RootWord = &root.String
	}
	return &entry, nil
}
