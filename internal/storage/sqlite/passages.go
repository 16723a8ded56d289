// ABOUTME: Embedded passage storage and brute-force similarity search for SQLite
// ABOUTME: Vectors are stored as BLOBs and ranked by cosine similarity in Go
package sqlite

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"sort"

	"github.com/harper/muzakir/internal/models"
)

// PassageStore handles passage persistence and search
type PassageStore struct {
	db *DB
}

// NewPassageStore creates a new PassageStore
func NewPassageStore(db *DB) *PassageStore {
	return &PassageStore{db: db}
}

// Save saves a passage (validates the 1536 dimension)
func (s *PassageStore) Save(ctx context.Context, p *models.Passage) error {
	return s.SaveWithDimension(ctx, p, models.ExpectedDimension)
}

// SaveWithDimension saves a passage with a custom vector dimension (for testing)
func (s *PassageStore) SaveWithDimension(ctx context.Context, p *models.Passage, expectedDim int) error {
	if err := p.ValidateDimension(expectedDim); err != nil {
		return err
	}
	return s.db.QueryRowContext(ctx, `
		INSERT INTO passages (id, chapter_id, content, vector)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			chapter_id = excluded.chapter_id,
			content = excluded.content,
			vector = excluded.vector
		RETURNING id
	`, nullID(p.ID), p.ChapterID, p.Content, vectorToBlob(p.Vector)).Scan(&p.ID)
}

// Count returns the number of stored passages
func (s *PassageStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM passages`).Scan(&n)
	return n, err
}

// MatchDocuments returns passages whose cosine similarity to embedding is
// above the threshold, best first, at most MatchCount of them.
func (s *PassageStore) MatchDocuments(ctx context.Context, embedding []float64, opts models.SearchOptions) ([]models.DocumentMatch, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.content, p.vector, p.chapter_id, c.title, b.title, b.slug
		FROM passages p
		JOIN chapters c ON c.id = p.chapter_id
		JOIN books b ON b.id = c.book_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to scan passages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var matches []models.DocumentMatch
	for rows.Next() {
		var (
			m    models.DocumentMatch
			blob []byte
		)
		if err := rows.Scan(&m.ID, &m.Content, &blob, &m.ChapterID, &m.ChapterTitle, &m.BookTitle, &m.BookSlug); err != nil {
			return nil, err
		}
		m.Similarity = CosineSimilarity(embedding, blobToVector(blob))
		if m.Similarity > opts.MatchThreshold {
			matches = append(matches, m)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Sort by similarity descending
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})

	if opts.MatchCount >= 0 && len(matches) > opts.MatchCount {
		matches = matches[:opts.MatchCount]
	}
	return matches, nil
}

// vectorToBlob converts a float64 slice to binary blob
func vectorToBlob(vector []float64) []byte {
	blob := make([]byte, len(vector)*8)
	for i, v := range vector {
		binary.LittleEndian.PutUint64(blob[i*8:], math.Float64bits(v))
	}
	return blob
}

// blobToVector converts a binary blob to float64 slice
func blobToVector(blob []byte) []float64 {
	count := len(blob) / 8
	vector := make([]float64, count)
	for i := 0; i < count; i++ {
		vector[i] = math.Float64frombits(binary.LittleEndian.Uint64(blob[i*8:]))
	}
	return vector
}

// CosineSimilarity calculates cosine similarity between two vectors.
// Mismatched or zero vectors score 0.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0.0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
