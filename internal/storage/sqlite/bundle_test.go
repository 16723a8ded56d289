// ABOUTME: Tests for YAML corpus bundle import and export
// ABOUTME: Verifies counts, re-import idempotence and a file round trip
package sqlite

import (
	"context"
	"path/filepath"
	"testing"
)

func TestImport_Stats(t *testing.T) {
	s := newTestStorage(t)

	st, err := s.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	want := Stats{Books: 2, Chapters: 4, Paragraphs: 5, Dictionary: 4, Passages: 3}
	if *st != want {
		t.Errorf("Stats() = %+v, want %+v", *st, want)
	}
}

func TestImport_Idempotent(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	if _, err := s.Import(ctx, testBundle()); err != nil {
		t.Fatalf("second Import() error = %v", err)
	}
	st, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if st.Paragraphs != 5 || st.Chapters != 4 || st.Passages != 3 {
		t.Errorf("Stats() after re-import = %+v", *st)
	}
}

func TestImport_RejectsWrongDimension(t *testing.T) {
	s, err := NewStorageInMemory()
	if err != nil {
		t.Fatalf("NewStorageInMemory() error = %v", err)
	}
	defer func() { _ = s.Close() }()

	b := testBundle()
	b.Books[0].Chapters[0].Passages[0].Vector = []float64{1, 0}
	if _, err := s.Import(context.Background(), b); err == nil {
		t.Error("Import() should reject a passage with the wrong dimension")
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	src := newTestStorage(t)
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "corpus.yaml")

	if err := src.ExportToYAML(ctx, path); err != nil {
		t.Fatalf("ExportToYAML() error = %v", err)
	}

	dst, err := NewStorageInMemory()
	if err != nil {
		t.Fatalf("NewStorageInMemory() error = %v", err)
	}
	defer func() { _ = dst.Close() }()

	st, err := dst.ImportFile(ctx, path)
	if err != nil {
		t.Fatalf("ImportFile() error = %v", err)
	}
	if st.Books != 2 || st.Chapters != 4 || st.Paragraphs != 5 || st.Dictionary != 4 || st.Passages != 3 {
		t.Errorf("ImportFile() stats = %+v", *st)
	}

	paragraphs, err := dst.ListParagraphs(ctx, 10)
	if err != nil {
		t.Fatalf("ListParagraphs() error = %v", err)
	}
	if len(paragraphs) != 3 || paragraphs[2].Content != "Üçüncü paragraf." {
		t.Errorf("paragraphs after round trip = %+v", paragraphs)
	}

	entry, err := dst.GetByRootWord(ctx, "kitap")
	if err != nil || entry == nil || entry.Word != "kütüb" {
		t.Errorf("GetByRootWord() after round trip = %+v, %v", entry, err)
	}
}
