// ABOUTME: Passage embeddings and nearest-neighbour search results
// ABOUTME: DocumentMatch is ephemeral query-time output of similarity retrieval
package models

import (
	"errors"
	"fmt"
)

// ExpectedDimension is the vector size of text-embedding-3-small
const ExpectedDimension = 1536

// Passage is a pre-embedded slice of a chapter used for similarity search
type Passage struct {
	ID        int64     `json:"id" yaml:"id"`
	ChapterID int64     `json:"chapter_id" yaml:"chapter_id"`
	Content   string    `json:"content" yaml:"content"`
	Vector    []float64 `json:"vector" yaml:"vector"`
}

// ValidateDimension checks the passage vector has the expected size
func (p *Passage) ValidateDimension(expected int) error {
	if len(p.Vector) == 0 {
		return errors.New("passage vector cannot be empty")
	}
	if len(p.Vector) != expected {
		return fmt.Errorf("passage %d: dimension mismatch: expected %d, got %d", p.ID, expected, len(p.Vector))
	}
	return nil
}

// DocumentMatch is one nearest-neighbour hit with denormalized titles
type DocumentMatch struct {
	ID           int64   `json:"id"`
	Content      string  `json:"content"`
	Similarity   float64 `json:"similarity"`
	BookTitle    string  `json:"book_title"`
	ChapterTitle string  `json:"chapter_title"`
	ChapterID    int64   `json:"chapter_id"`
	BookSlug     string  `json:"book_slug,omitempty"`
}

// Label returns the "{book} — {chapter}" attribution string
func (m DocumentMatch) Label() string {
	return SourceLabel(m.BookTitle, m.ChapterTitle)
}

// SearchOptions bounds a similarity search
type SearchOptions struct {
	MatchThreshold float64 `json:"match_threshold"`
	MatchCount     int     `json:"match_count"`
}
