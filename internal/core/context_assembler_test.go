// ABOUTME: Tests for context assembly: truncation, related filtering and source consistency
// ABOUTME: Every cited source must appear verbatim in the context and vice versa
package core

import (
	"fmt"
	"strings"
	"testing"

	"github.com/harper/muzakir/internal/models"
)

func primaryChapter(content string) *models.ChapterWithContent {
	return &models.ChapterWithContent{ID: 10, Title: "Dördüncü Söz", ChapterNumber: 4, BookTitle: "Sözler", Content: content}
}

func match(id, chapterID int64, book, chapter string) models.DocumentMatch {
	return models.DocumentMatch{
		ID: id, ChapterID: chapterID, BookTitle: book, ChapterTitle: chapter,
		Content: fmt.Sprintf("passage %d", id), Similarity: 0.9,
	}
}

func TestBuild_TruncationBoundary(t *testing.T) {
	a := NewContextAssembler()

	// multi-byte runes so the budget is checked in characters, not bytes
	exact := strings.Repeat("ş", MaxPrimaryChars)
	got := a.Build(primaryChapter(exact), nil)
	if strings.Contains(got.Context, TruncationMarker) {
		t.Error("content of exactly MaxPrimaryChars was truncated")
	}
	if !strings.Contains(got.Context, exact) {
		t.Error("content of exactly MaxPrimaryChars not kept whole")
	}

	over := exact + "x"
	got = a.Build(primaryChapter(over), nil)
	if !strings.Contains(got.Context, exact+"\n\n"+TruncationMarker) {
		t.Error("content over budget not truncated to MaxPrimaryChars plus marker")
	}
	if strings.Contains(got.Context, "x") {
		t.Error("character past the budget leaked into the context")
	}
}

func TestBuild_PrimaryWithRelated(t *testing.T) {
	a := NewContextAssembler()
	related := []models.DocumentMatch{
		match(100, 10, "Sözler", "Dördüncü Söz"), // same chapter as primary
		match(101, 11, "Sözler", "Dokuzuncu Söz"),
		match(201, 21, "Mektubat", "Yirminci Mektup"),
		match(102, 11, "Sözler", "Dokuzuncu Söz"),
		match(300, 30, "Lem'alar", "Birinci Lem'a"),
	}

	got := a.Build(primaryChapter("Namaz hakkında."), related)

	wantSources := []string{"Sözler — Dördüncü Söz", "Sözler — Dokuzuncu Söz", "Mektubat — Yirminci Mektup"}
	if strings.Join(got.Sources, "|") != strings.Join(wantSources, "|") {
		t.Errorf("Sources = %v, want %v", got.Sources, wantSources)
	}
	if !strings.HasPrefix(got.Context, "PRIMARY SOURCE: Sözler — Dördüncü Söz") {
		t.Errorf("context does not start with the primary block: %q", got.Context)
	}
	if !strings.Contains(got.Context, RelatedHeader) {
		t.Error("related header missing")
	}
	for _, want := range []string{
		"Related Source 1 — Sözler — Dokuzuncu Söz",
		"Related Source 2 — Mektubat — Yirminci Mektup",
		"Related Source 3 — Sözler — Dokuzuncu Söz",
	} {
		if !strings.Contains(got.Context, want) {
			t.Errorf("context missing %q", want)
		}
	}
	if strings.Contains(got.Context, "passage 100") {
		t.Error("passage from the primary chapter was included")
	}
	if strings.Contains(got.Context, "Birinci Lem'a") {
		t.Error("more than three related passages were included")
	}
	if n := strings.Count(got.Context, BlockDelimiter); n != 3 {
		t.Errorf("delimiter count = %d, want 3", n)
	}
}

func TestBuild_RelatedOnly(t *testing.T) {
	a := NewContextAssembler()
	got := a.Build(nil, []models.DocumentMatch{match(101, 11, "Sözler", "Dokuzuncu Söz")})

	if strings.Contains(got.Context, RelatedHeader) || strings.Contains(got.Context, "PRIMARY SOURCE") {
		t.Errorf("unexpected wrapper in %q", got.Context)
	}
	if want := "[Related Source 1 — Sözler — Dokuzuncu Söz]\npassage 101"; got.Context != want {
		t.Errorf("Context = %q, want %q", got.Context, want)
	}
}

func TestBuild_Empty(t *testing.T) {
	got := NewContextAssembler().Build(nil, nil)
	if got.Context != "" {
		t.Errorf("Context = %q, want empty", got.Context)
	}
	if got.Sources == nil || len(got.Sources) != 0 {
		t.Errorf("Sources = %#v, want empty non-nil slice", got.Sources)
	}
}

func TestBuild_SourcesMatchContext(t *testing.T) {
	a := NewContextAssembler()
	related := []models.DocumentMatch{
		match(1, 10, "Sözler", "Dördüncü Söz"),
		match(2, 11, "Sözler", "Dokuzuncu Söz"),
		match(3, 11, "Sözler", "Dokuzuncu Söz"),
		match(4, 20, "Mektubat", "Dördüncü Mektup"),
	}
	cases := []struct {
		name    string
		primary *models.ChapterWithContent
		related []models.DocumentMatch
	}{
		{"primary only", primaryChapter("text"), nil},
		{"related only", nil, related},
		{"both", primaryChapter("text"), related},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := a.Build(tc.primary, tc.related)
			for _, src := range got.Sources {
				if !strings.Contains(got.Context, src) {
					t.Errorf("source %q not cited in context", src)
				}
			}
			// every label in the context is in sources
			labels := map[string]bool{}
			for _, src := range got.Sources {
				labels[src] = true
			}
			if tc.primary != nil && !labels[tc.primary.Label()] {
				t.Errorf("primary label missing from sources")
			}
			for _, m := range tc.related {
				if strings.Contains(got.Context, m.Content) && !labels[m.Label()] {
					t.Errorf("context cites %q without a source", m.Label())
				}
			}
		})
	}
}
