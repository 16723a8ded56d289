// ABOUTME: Tests for chapter resolution by number, title and id
// ABOUTME: Uses the in-memory corpus plus a failing store for the degrade-to-nil paths
package core

import (
	"context"
	"errors"
	"testing"

	"github.com/harper/muzakir/internal/models"
	"github.com/harper/muzakir/internal/storage"
	"github.com/harper/muzakir/internal/storage/sqlite"
)

func TestChapterResolver_ByNumber(t *testing.T) {
	store := newTestStore(t)
	r := NewChapterResolver(store, nil)
	ctx := context.Background()
	mektup := models.ChapterTypeMektup
	lema := models.ChapterTypeLema

	tests := []struct {
		name        string
		number      int
		chapterType *models.ChapterType
		wantTitle   string
	}{
		{"any book takes the first", 4, nil, "Dördüncü Söz"},
		{"constrained to book", 4, &mektup, "Dördüncü Mektup"},
		{"missing number", 99, nil, ""},
		{"book without chapters", 4, &lema, ""},
		{"zero", 0, nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.ByNumber(ctx, tt.number, tt.chapterType)
			if err != nil {
				t.Fatalf("ByNumber() error = %v", err)
			}
			if tt.wantTitle == "" {
				if got != nil {
					t.Errorf("ByNumber() = %q, want nil", got.Title)
				}
				return
			}
			if got == nil || got.Title != tt.wantTitle {
				t.Fatalf("ByNumber() = %+v, want %q", got, tt.wantTitle)
			}
		})
	}
}

func TestChapterResolver_ByNumberFrontMatter(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Import(context.Background(), &sqlite.Bundle{
		Books: []sqlite.BundleBook{{
			ID: 3, Title: "Şualar", Slug: "sualar",
			Chapters: []sqlite.BundleChapter{
				{ID: 30, Title: "Mukaddime", ChapterNumber: 0, Paragraphs: []string{"Giriş."}},
			},
		}},
	})
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	sua := models.ChapterTypeSua
	got, err := NewChapterResolver(store, nil).ByNumber(context.Background(), 0, &sua)
	if err != nil {
		t.Fatalf("ByNumber() error = %v", err)
	}
	if got == nil || got.Title != "Mukaddime" || got.Content != "Giriş." {
		t.Errorf("ByNumber(0) = %+v, want the front matter", got)
	}

	if got, _ := NewChapterResolver(store, nil).ByNumber(context.Background(), -1, nil); got != nil {
		t.Errorf("ByNumber(-1) = %q, want nil", got.Title)
	}
}

func TestChapterResolver_ContentJoinsParagraphsInOrder(t *testing.T) {
	store := newTestStore(t)
	r := NewChapterResolver(store, nil)

	got, err := r.ByNumber(context.Background(), 4, nil)
	if err != nil {
		t.Fatalf("ByNumber() error = %v", err)
	}
	want := "Namaz hakkında." + "\n\n" + "İkinci paragraf." + "\n\n" + "Üçüncü paragraf."
	if got.Content != want {
		t.Errorf("Content = %q, want %q", got.Content, want)
	}
	if got.BookTitle != "Sözler" || got.ChapterNumber != 4 || got.ID != 10 {
		t.Errorf("chapter = %+v", got)
	}
}

func TestChapterResolver_ByTitle(t *testing.T) {
	store := newTestStore(t)
	r := NewChapterResolver(store, nil)
	ctx := context.Background()

	tests := []struct {
		title string
		want  string
	}{
		{"The Ninth Word", "The Ninth Word"},
		{"the ninth word", "The Ninth Word"},
		{"  THE NINTH WORD ", "The Ninth Word"},
		{"Dördüncü", "Dördüncü Söz"},
		{"dördüncü mektup", "Dördüncü Mektup"},
		{"Otuzuncu Söz", ""},
		{"", ""},
	}
	for _, tt := range tests {
		got, err := r.ByTitle(ctx, tt.title)
		if err != nil {
			t.Fatalf("ByTitle(%q) error = %v", tt.title, err)
		}
		if tt.want == "" {
			if got != nil {
				t.Errorf("ByTitle(%q) = %q, want nil", tt.title, got.Title)
			}
			continue
		}
		if got == nil || got.Title != tt.want {
			t.Errorf("ByTitle(%q) = %+v, want %q", tt.title, got, tt.want)
		}
	}
}

func TestChapterResolver_ByID(t *testing.T) {
	store := newTestStore(t)
	r := NewChapterResolver(store, nil)

	got, err := r.ByID(context.Background(), 20)
	if err != nil {
		t.Fatalf("ByID() error = %v", err)
	}
	if got.Title != "Dördüncü Mektup" || got.Content != "Mektup metni." {
		t.Errorf("ByID() = %+v", got)
	}

	if _, err := r.ByID(context.Background(), 999); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("ByID(999) error = %v, want ErrNotFound", err)
	}
}

func TestChapterResolver_List(t *testing.T) {
	store := newTestStore(t)
	r := NewChapterResolver(store, nil)

	book, chapters, err := r.List(context.Background(), "mektubat")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if book.Title != "Mektubat" {
		t.Errorf("book = %+v", book)
	}
	if len(chapters) != 2 || chapters[0].ChapterNumber != 4 || chapters[1].ChapterNumber != 20 {
		t.Errorf("chapters = %+v", chapters)
	}

	if _, _, err := r.List(context.Background(), "nope"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("List(nope) error = %v, want ErrNotFound", err)
	}
}

// failingCorpus fails every read
type failingCorpus struct {
	storage.CorpusReader
	err error
}

func (f failingCorpus) FindChaptersByNumber(ctx context.Context, number int, bookSlug string) ([]models.ChapterRef, error) {
	return nil, f.err
}

func (f failingCorpus) FindChaptersByTitle(ctx context.Context, title string) ([]models.ChapterRef, error) {
	return nil, f.err
}

func TestChapterResolver_StorageErrorIsNotFound(t *testing.T) {
	r := NewChapterResolver(failingCorpus{err: errors.New("connection reset")}, nil)

	got, err := r.ByNumber(context.Background(), 4, nil)
	if err != nil || got != nil {
		t.Errorf("ByNumber() = %v, %v; want nil, nil", got, err)
	}
	got, err = r.ByTitle(context.Background(), "The Ninth Word")
	if err != nil || got != nil {
		t.Errorf("ByTitle() = %v, %v; want nil, nil", got, err)
	}
}

func TestChapterResolver_CanceledContext(t *testing.T) {
	r := NewChapterResolver(failingCorpus{err: context.Canceled}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := r.ByNumber(ctx, 4, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("ByNumber() error = %v, want context.Canceled", err)
	}
}
