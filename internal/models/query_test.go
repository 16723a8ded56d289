// ABOUTME: Tests for ChapterType validation and default understanding
// ABOUTME: Verifies the safe default produced when classification fails
package models

import "testing"

func TestChapterType_Valid(t *testing.T) {
	tests := []struct {
		in   ChapterType
		want bool
	}{
		{ChapterTypeSoz, true},
		{ChapterTypeMektup, true},
		{ChapterTypeLema, true},
		{ChapterTypeSua, true},
		{"mesnevi", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := tt.in.Valid(); got != tt.want {
			t.Errorf("ChapterType(%q).Valid() = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDefaultUnderstanding(t *testing.T) {
	u := DefaultUnderstanding("İman nedir?")
	if u.ReferencesSpecificChapter || u.RelatedToCurrentContext {
		t.Errorf("default should not reference a chapter or context: %+v", u)
	}
	if u.ChapterNumber != nil || u.ChapterType != nil {
		t.Errorf("default should have nil chapter fields: %+v", u)
	}
	if u.SearchQuery != "İman nedir?" {
		t.Errorf("SearchQuery = %q, want original question", u.SearchQuery)
	}
}
