// ABOUTME: YAML corpus bundles for loading and dumping the local store
// ABOUTME: A bundle carries books, chapters, paragraphs, passages and dictionary entries
package sqlite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/harper/muzakir/internal/models"
	"gopkg.in/yaml.v3"
)

// BundleVersion is written into exported bundles
const BundleVersion = "1.0"

// Bundle is the on-disk corpus format
type Bundle struct {
	Version    string                   `yaml:"version" json:"version"`
	ExportedAt string                   `yaml:"exported_at,omitempty" json:"exported_at,omitempty"`
	Dimension  int                      `yaml:"dimension,omitempty" json:"dimension,omitempty"`
	Books      []BundleBook             `yaml:"books" json:"books"`
	Dictionary []models.DictionaryEntry `yaml:"dictionary,omitempty" json:"dictionary,omitempty"`
}

// BundleBook is a book with its chapters
type BundleBook struct {
	ID       int64           `yaml:"id,omitempty" json:"id,omitempty"`
	Title    string          `yaml:"title" json:"title"`
	Slug     string          `yaml:"slug" json:"slug"`
	Chapters []BundleChapter `yaml:"chapters" json:"chapters"`
}

// BundleChapter is a chapter with its ordered paragraphs and embedded passages
type BundleChapter struct {
	ID            int64           `yaml:"id,omitempty" json:"id,omitempty"`
	Title         string          `yaml:"title" json:"title"`
	ChapterNumber int             `yaml:"chapter_number" json:"chapter_number"`
	Paragraphs    []string        `yaml:"paragraphs" json:"paragraphs"`
	Passages      []BundlePassage `yaml:"passages,omitempty" json:"passages,omitempty"`
}

// BundlePassage is a pre-embedded passage
type BundlePassage struct {
	ID      int64     `yaml:"id,omitempty" json:"id,omitempty"`
	Content string    `yaml:"content" json:"content"`
	Vector  []float64 `yaml:"vector,flow" json:"vector"`
}

// LoadBundle reads a YAML bundle from disk
func LoadBundle(path string) (*Bundle, error) {
	data, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("failed to read bundle: %w", err)
	}
	var b Bundle
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("failed to parse bundle %s: %w", path, err)
	}
	return &b, nil
}

// Import writes a bundle into storage. Existing books, chapters and entries
// with the same keys are updated; a chapter's paragraphs are replaced.
func (s *Storage) Import(ctx context.Context, b *Bundle) (*Stats, error) {
	dim := b.Dimension
	if dim == 0 {
		dim = models.ExpectedDimension
	}

	var st Stats
	for _, bb := range b.Books {
		book := models.Book{ID: bb.ID, Title: bb.Title, Slug: bb.Slug}
		if err := s.books.Save(ctx, &book); err != nil {
			return nil, fmt.Errorf("failed to save book %q: %w", bb.Slug, err)
		}
		st.Books++

		for _, bc := range bb.Chapters {
			chapter := models.Chapter{ID: bc.ID, BookID: book.ID, Title: bc.Title, ChapterNumber: bc.ChapterNumber}
			if err := s.chapters.Save(ctx, &chapter); err != nil {
				return nil, fmt.Errorf("failed to save chapter %q: %w", bc.Title, err)
			}
			st.Chapters++

			if err := s.paragraphs.DeleteByChapter(ctx, chapter.ID); err != nil {
				return nil, fmt.Errorf("failed to clear paragraphs of %q: %w", bc.Title, err)
			}
			for i, content := range bc.Paragraphs {
				p := models.Paragraph{ChapterID: chapter.ID, Content: content, SequenceNumber: i + 1}
				if err := s.paragraphs.Save(ctx, &p); err != nil {
					return nil, fmt.Errorf("failed to save paragraph %d of %q: %w", i+1, bc.Title, err)
				}
				st.Paragraphs++
			}

			for _, bp := range bc.Passages {
				p := models.Passage{ID: bp.ID, ChapterID: chapter.ID, Content: bp.Content, Vector: bp.Vector}
				if err := s.passages.SaveWithDimension(ctx, &p, dim); err != nil {
					return nil, fmt.Errorf("failed to save passage of %q: %w", bc.Title, err)
				}
				st.Passages++
			}
		}
	}

	for i := range b.Dictionary {
		if err := s.dictionary.Save(ctx, &b.Dictionary[i]); err != nil {
			return nil, fmt.Errorf("failed to save dictionary entry %q: %w", b.Dictionary[i].Word, err)
		}
		st.Dictionary++
	}

	return &st, nil
}

// ImportFile loads and imports a YAML bundle
func (s *Storage) ImportFile(ctx context.Context, path string) (*Stats, error) {
	b, err := LoadBundle(path)
	if err != nil {
		return nil, err
	}
	return s.Import(ctx, b)
}

// Export builds a bundle from everything in storage
func (s *Storage) Export(ctx context.Context) (*Bundle, error) {
	b := &Bundle{
		Version:    BundleVersion,
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
	}

	books, err := s.books.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	passagesByChapter, err := s.passagesByChapter(ctx)
	if err != nil {
		return nil, err
	}

	for _, book := range books {
		bb := BundleBook{ID: book.ID, Title: book.Title, Slug: book.Slug}
		chapters, err := s.chapters.ListByBook(ctx, book.Slug)
		if err != nil {
			return nil, fmt.Errorf("failed to list chapters of %q: %w", book.Slug, err)
		}
		for _, ch := range chapters {
			paragraphs, err := s.paragraphs.ListByChapter(ctx, ch.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to list paragraphs of %q: %w", ch.Title, err)
			}
			bc := BundleChapter{
				ID:            ch.ID,
				Title:         ch.Title,
				ChapterNumber: ch.ChapterNumber,
				Paragraphs:    make([]string, 0, len(paragraphs)),
				Passages:      passagesByChapter[ch.ID],
			}
			for _, p := range paragraphs {
				bc.Paragraphs = append(bc.Paragraphs, p.Content)
			}
			if len(bc.Passages) > 0 && b.Dimension == 0 {
				b.Dimension = len(bc.Passages[0].Vector)
			}
			bb.Chapters = append(bb.Chapters, bc)
		}
		b.Books = append(b.Books, bb)
	}

	entries, err := s.dictionary.ListByPrefix(ctx, "", -1)
	if err != nil {
		return nil, fmt.Errorf("failed to list dictionary: %w", err)
	}
	b.Dictionary = entries

	return b, nil
}

func (s *Storage) passagesByChapter(ctx context.Context) (map[int64][]BundlePassage, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, chapter_id, content, vector FROM passages ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list passages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make(map[int64][]BundlePassage)
	for rows.Next() {
		var (
			p         BundlePassage
			chapterID int64
			blob      []byte
		)
		if err := rows.Scan(&p.ID, &chapterID, &p.Content, &blob); err != nil {
			return nil, err
		}
		p.Vector = blobToVector(blob)
		out[chapterID] = append(out[chapterID], p)
	}
	return out, rows.Err()
}

// ExportToYAML writes the store as a YAML bundle
func (s *Storage) ExportToYAML(ctx context.Context, outputPath string) error {
	data, err := s.Export(ctx)
	if err != nil {
		return err
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(outputPath) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return encoder.Close()
}
