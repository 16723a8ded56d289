// ABOUTME: Multi-strategy dictionary lookup for the inline word popup
// ABOUTME: Exact, phrase, suffix-stripped and root-word strategies run in order until one hits
package dictionary

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/harper/muzakir/internal/lexicon"
	"github.com/harper/muzakir/internal/logger"
	"github.com/harper/muzakir/internal/models"
	"github.com/harper/muzakir/internal/storage"
)

const (
	// MinWordLength is the shortest normalized input worth looking up
	MinWordLength = 2
	// PrefixScanLimit caps the candidates fetched for phrase matching
	PrefixScanLimit = 50
)

// Query is one lookup request as seen by the strategies
type Query struct {
	Raw        string // word as clicked
	Normalized string // lexicon.Normalize(Raw)
	Context    string // raw words following the clicked word, may be empty
}

// Strategy resolves a query to an entry, or nil to let the next strategy try
type Strategy struct {
	Method  models.LookupMethod
	Resolve func(ctx context.Context, q Query) *models.DictionaryEntry
}

// Engine looks words up against a dictionary store
type Engine struct {
	store      storage.DictionaryReader
	logger     *logger.Logger
	strategies []Strategy
}

// NewEngine creates an engine with the default strategy order
func NewEngine(store storage.DictionaryReader, log *logger.Logger) *Engine {
	e := &Engine{store: store, logger: logger.OrNop(log)}
	e.strategies = []Strategy{
		{Method: models.MethodExact, Resolve: e.Exact},
		{Method: models.MethodPhraseMatch, Resolve: e.Phrase},
		{Method: models.MethodSuffixStripped, Resolve: e.SuffixStripped},
		{Method: models.MethodRootWord, Resolve: e.RootWord},
	}
	return e
}

// Lookup resolves raw (and optionally the words after it) to a dictionary entry.
// It never fails: misses and storage errors both yield Found=false.
func (e *Engine) Lookup(ctx context.Context, raw, phraseContext string) models.LookupResult {
	q := Query{
		Raw:        strings.TrimSpace(raw),
		Normalized: lexicon.Normalize(raw),
		Context:    strings.TrimSpace(phraseContext),
	}
	if utf8.RuneCountInString(q.Normalized) < MinWordLength {
		return models.LookupResult{Found: false}
	}

	for _, s := range e.strategies {
		if entry := s.Resolve(ctx, q); entry != nil {
			e.logger.Debug("dictionary hit", "word", q.Normalized, "method", s.Method, "entry", entry.Word)
			return models.LookupResult{Found: true, Entry: entry, Method: s.Method}
		}
	}
	return models.LookupResult{Found: false}
}

// Exact looks the normalized word up as a key
func (e *Engine) Exact(ctx context.Context, q Query) *models.DictionaryEntry {
	return e.byWord(ctx, q.Normalized)
}

// Phrase tries the clicked word joined with its context, first as whole keys
// and then against keys that start with the clicked word.
func (e *Engine) Phrase(ctx context.Context, q Query) *models.DictionaryEntry {
	if q.Context == "" {
		return nil
	}
	normalizedContext := lexicon.Normalize(q.Context)
	if normalizedContext == "" {
		return nil
	}

	variants := []string{
		q.Raw + "-" + q.Context,
		q.Raw + " " + q.Context,
		q.Raw + q.Context,
	}
	for _, v := range variants {
		if entry := e.byWord(ctx, lexicon.Normalize(v)); entry != nil {
			return entry
		}
	}

	candidates, err := e.store.ListByPrefix(ctx, q.Normalized, PrefixScanLimit)
	if err != nil {
		e.logger.Warn("dictionary prefix scan failed", "prefix", q.Normalized, "error", err)
		return nil
	}
	for i := range candidates {
		key := lexicon.Normalize(candidates[i].Word)
		rest := strings.TrimLeft(strings.TrimPrefix(key, q.Normalized), "- ")
		if rest == "" {
			continue
		}
		if continuationMatches(rest, normalizedContext) {
			return &candidates[i]
		}
	}
	return nil
}

// SuffixStripped tries each candidate root of the word in order
func (e *Engine) SuffixStripped(ctx context.Context, q Query) *models.DictionaryEntry {
	for _, root := range lexicon.CandidateRoots(q.Normalized) {
		if entry := e.byWord(ctx, root); entry != nil {
			return entry
		}
	}
	return nil
}

// RootWord looks the normalized word up against the root_word column
func (e *Engine) RootWord(ctx context.Context, q Query) *models.DictionaryEntry {
	entry, err := e.store.GetByRootWord(ctx, q.Normalized)
	if err != nil {
		e.logger.Warn("dictionary root lookup failed", "root", q.Normalized, "error", err)
		return nil
	}
	return entry
}

func (e *Engine) byWord(ctx context.Context, word string) *models.DictionaryEntry {
	if word == "" {
		return nil
	}
	entry, err := e.store.GetByWord(ctx, word)
	if err != nil {
		e.logger.Warn("dictionary lookup failed", "word", word, "error", err)
		return nil
	}
	return entry
}

// continuationMatches compares the part of a key after the clicked word with
// the normalized phrase context.
func continuationMatches(rest, phrase string) bool {
	// separators ignored
	if stripSeparators(rest) == stripSeparators(phrase) {
		return true
	}

	// every context word found among the continuation words
	restWords := splitWords(rest)
	contextWords := splitWords(phrase)
	if len(contextWords) > 0 && len(restWords) > 0 {
		all := true
		for _, cw := range contextWords {
			if !containsWord(restWords, cw) {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}

	return strings.Contains(rest, phrase) || strings.Contains(phrase, rest)
}

func stripSeparators(s string) string {
	return strings.NewReplacer("-", "", " ", "").Replace(s)
}

func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == '-' || r == ' ' || r == '\t' || r == '\n'
	})
}

func containsWord(words []string, target string) bool {
	for _, w := range words {
		if w == target || strings.Contains(w, target) {
			return true
		}
	}
	return false
}
