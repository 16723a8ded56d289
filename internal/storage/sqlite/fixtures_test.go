// ABOUTME: Shared corpus fixture for SQLite store tests
// ABOUTME: Two books with overlapping chapter numbers and a few embedded passages
package sqlite

import (
	"context"
	"testing"

	"github.com/harper/muzakir/internal/models"
)

const testDim = 3

func testBundle() *Bundle {
	root := "kitap"
	return &Bundle{
		Version:   BundleVersion,
		Dimension: testDim,
		Books: []BundleBook{
			{
				ID: 1, Title: "Sözler", Slug: "sozler",
				Chapters: []BundleChapter{
					{
						ID: 10, Title: "Dördüncü Söz", ChapterNumber: 4,
						Paragraphs: []string{"Namaz hakkında.", "İkinci paragraf.", "Üçüncü paragraf."},
						Passages: []BundlePassage{
							{ID: 100, Content: "namaz passage", Vector: []float64{1, 0, 0}},
						},
					},
					{
						ID: 11, Title: "Dokuzuncu Söz", ChapterNumber: 9,
						Paragraphs: []string{"Namaz vakitleri."},
						Passages: []BundlePassage{
							{ID: 101, Content: "vakit passage", Vector: []float64{0.9, 0.1, 0}},
						},
					},
				},
			},
			{
				ID: 2, Title: "Mektubat", Slug: "mektubat",
				Chapters: []BundleChapter{
					{
						ID: 20, Title: "Dördüncü Mektup", ChapterNumber: 4,
						Paragraphs: []string{"Mektup metni."},
						Passages: []BundlePassage{
							{ID: 200, Content: "mektup passage", Vector: []float64{0, 1, 0}},
						},
					},
					{ID: 21, Title: "Boş Mektup", ChapterNumber: 5},
				},
			},
		},
		Dictionary: []models.DictionaryEntry{
			{Word: "Kitap", Definition: "book"},
			{Word: "kütüb", Definition: "books (Arabic plural)", RootWord: &root},
			{Word: "ehl-i sünnet", Definition: "people of the sunnah"},
			{Word: "ehl-i beyt", Definition: "household of the Prophet"},
		},
	}
}

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := NewStorageInMemory()
	if err != nil {
		t.Fatalf("NewStorageInMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	if _, err := s.Import(context.Background(), testBundle()); err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	return s
}
