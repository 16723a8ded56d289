// ABOUTME: Tests for the suffix stripping heuristic
// ABOUTME: Checks candidate order, de-duplication and the stem length bound
package lexicon

import (
	"testing"
	"unicode/utf8"
)

func TestCandidateRoots(t *testing.T) {
	tests := []struct {
		word      string
		wantFirst string
		contains  []string
	}{
		{"kitaplarımızdan", "kitap", []string{"kitap", "kitaplarımız"}},
		{"evlerden", "ev", []string{"ev", "evler"}},
		{"kitaba", "kitab", []string{"kitab"}},
		{"namazda", "namaz", []string{"namaz", "namazd"}},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			got := CandidateRoots(tt.word)
			if len(got) == 0 {
				t.Fatalf("CandidateRoots(%q) returned nothing", tt.word)
			}
			if got[0] != tt.wantFirst {
				t.Errorf("CandidateRoots(%q)[0] = %q, want %q", tt.word, got[0], tt.wantFirst)
			}
			for _, want := range tt.contains {
				found := false
				for _, c := range got {
					if c == want {
						found = true
						break
					}
				}
				if !found {
					t.Errorf("CandidateRoots(%q) = %v, missing %q", tt.word, got, want)
				}
			}
		})
	}
}

func TestCandidateRoots_StemLength(t *testing.T) {
	words := []string{
		"kitaplarımızdan", "evde", "ona", "da", "a", "", "namazlarınızda",
		"üzümümüzden", "ılık", "sözlerde", "aa", "ele",
	}
	for _, w := range words {
		wordLen := utf8.RuneCountInString(w)
		for _, c := range CandidateRoots(w) {
			n := utf8.RuneCountInString(c)
			if n < MinRootLength || n >= wordLen {
				t.Errorf("CandidateRoots(%q) produced %q with length %d", w, c, n)
			}
		}
	}
}

func TestCandidateRoots_NoDuplicates(t *testing.T) {
	for _, w := range []string{"evlerde", "kitaplarımızdan", "sözlerinizden"} {
		seen := make(map[string]bool)
		for _, c := range CandidateRoots(w) {
			if seen[c] {
				t.Errorf("CandidateRoots(%q) repeated %q", w, c)
			}
			seen[c] = true
		}
	}
}

func TestCandidateRoots_ShortWord(t *testing.T) {
	if got := CandidateRoots("da"); len(got) != 0 {
		t.Errorf("CandidateRoots(\"da\") = %v, want none", got)
	}
}
