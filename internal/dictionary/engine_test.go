// ABOUTME: Tests for the dictionary lookup strategies and their ordering
// ABOUTME: Uses an in-memory fake store so each strategy can be checked alone
package dictionary

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/harper/muzakir/internal/models"
)

type fakeStore struct {
	entries map[string]models.DictionaryEntry
	err     error
	calls   int
}

func newFakeStore(entries ...models.DictionaryEntry) *fakeStore {
	s := &fakeStore{entries: make(map[string]models.DictionaryEntry)}
	for _, e := range entries {
		s.entries[e.Word] = e
	}
	return s
}

func (s *fakeStore) GetByWord(ctx context.Context, word string) (*models.DictionaryEntry, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if e, ok := s.entries[word]; ok {
		return &e, nil
	}
	return nil, nil
}

func (s *fakeStore) GetByRootWord(ctx context.Context, root string) (*models.DictionaryEntry, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	for _, e := range s.entries {
		if e.RootWord != nil && *e.RootWord == root {
			entry := e
			return &entry, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) ListByPrefix(ctx context.Context, prefix string, limit int) ([]models.DictionaryEntry, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	var keys []string
	for k := range s.entries {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	var out []models.DictionaryEntry
	for _, k := range keys {
		if len(out) == limit {
			break
		}
		out = append(out, s.entries[k])
	}
	return out, nil
}

func entry(word, definition string) models.DictionaryEntry {
	return models.DictionaryEntry{Word: word, Definition: definition}
}

func TestLookup(t *testing.T) {
	root := "ktb"
	store := newFakeStore(
		entry("kitap", "book"),
		entry("kitaplar", "books"),
		entry("ehl-i sünnet", "people of the sunnah"),
		entry("rahmet-i ilahiye", "divine mercy"),
		models.DictionaryEntry{Word: "mektep", Definition: "school", RootWord: &root},
	)
	engine := NewEngine(store, nil)

	tests := []struct {
		name       string
		raw        string
		context    string
		wantFound  bool
		wantWord   string
		wantMethod models.LookupMethod
	}{
		{"exact", "Kitap", "", true, "kitap", models.MethodExact},
		{"exact beats suffix", "kitaplar", "", true, "kitaplar", models.MethodExact},
		{"compound suffix", "kitaplarımızdan", "", true, "kitap", models.MethodSuffixStripped},
		{"phrase variant", "Ehl-i", "Sünnet", true, "ehl-i sünnet", models.MethodPhraseMatch},
		{"phrase prefix scan", "rahmet", "ilahiye", true, "rahmet-i ilahiye", models.MethodPhraseMatch},
		{"root word", "ktb", "", true, "mektep", models.MethodRootWord},
		{"punctuation stripped", "(kitap),", "", true, "kitap", models.MethodExact},
		{"miss", "zzzz", "", false, "", ""},
		{"too short", "a", "", false, "", ""},
		{"punctuation only", "?!", "", false, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engine.Lookup(context.Background(), tt.raw, tt.context)
			if got.Found != tt.wantFound {
				t.Fatalf("Lookup(%q, %q).Found = %v, want %v", tt.raw, tt.context, got.Found, tt.wantFound)
			}
			if !tt.wantFound {
				if got.Entry != nil {
					t.Errorf("Lookup() entry = %+v, want nil", got.Entry)
				}
				return
			}
			if got.Entry.Word != tt.wantWord {
				t.Errorf("Lookup() word = %q, want %q", got.Entry.Word, tt.wantWord)
			}
			if got.Method != tt.wantMethod {
				t.Errorf("Lookup() method = %q, want %q", got.Method, tt.wantMethod)
			}
		})
	}
}

func TestLookup_ShortInputSkipsStore(t *testing.T) {
	store := newFakeStore(entry("a", "letter a"))
	engine := NewEngine(store, nil)

	if got := engine.Lookup(context.Background(), "A.", ""); got.Found {
		t.Error("single rune input should not be found")
	}
	if store.calls != 0 {
		t.Errorf("store called %d times, want 0", store.calls)
	}
}

func TestLookup_StorageErrorIsNotFound(t *testing.T) {
	store := newFakeStore(entry("kitap", "book"))
	store.err = errors.New("connection refused")
	engine := NewEngine(store, nil)

	got := engine.Lookup(context.Background(), "kitap", "okumak")
	if got.Found {
		t.Errorf("Lookup() = %+v, want not found on storage error", got)
	}
}

func TestPhrase_RequiresContext(t *testing.T) {
	store := newFakeStore(entry("ehl-i sünnet", "people of the sunnah"))
	engine := NewEngine(store, nil)

	q := Query{Raw: "ehl-i", Normalized: "ehl-i"}
	if got := engine.Phrase(context.Background(), q); got != nil {
		t.Errorf("Phrase() without context = %+v, want nil", got)
	}
	if store.calls != 0 {
		t.Errorf("store called %d times, want 0", store.calls)
	}
}

func TestSuffixStripped_FirstCandidateWins(t *testing.T) {
	store := newFakeStore(entry("kitap", "book"), entry("kitaplar", "books"))
	engine := NewEngine(store, nil)

	q := Query{Raw: "kitaplarımızdan", Normalized: "kitaplarımızdan"}
	got := engine.SuffixStripped(context.Background(), q)
	if got == nil || got.Word != "kitap" {
		t.Errorf("SuffixStripped() = %+v, want kitap", got)
	}
}

func TestContinuationMatches(t *testing.T) {
	tests := []struct {
		rest   string
		phrase string
		want   bool
	}{
		{"i ilahiye", "i-ilahiye", true},
		{"i ilahiye", "ilahiye", true},
		{"i ilahiyesi", "ilahiye", true},
		{"sünnet", "sünnet ve", true},
		{"i azam", "kebir", false},
	}
	for _, tt := range tests {
		if got := continuationMatches(tt.rest, tt.phrase); got != tt.want {
			t.Errorf("continuationMatches(%q, %q) = %v, want %v", tt.rest, tt.phrase, got, tt.want)
		}
	}
}
