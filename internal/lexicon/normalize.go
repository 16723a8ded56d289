// ABOUTME: Turkish-aware text normalization shared by dictionary lookup and query analysis
// ABOUTME: Lowercases with Turkish casing rules and strips a fixed punctuation set
package lexicon

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Punctuation is the set of runes removed by Normalize
const Punctuation = `.,;!?'"()[]{}:`

var punctuationStripper = strings.NewReplacer(
	".", "", ",", "", ";", "", "!", "", "?", "",
	"'", "", `"`, "", "(", "", ")", "",
	"[", "", "]", "", "{", "", "}", "", ":", "",
)

// Normalize lowercases s using Turkish rules (I→ı, İ→i), removes punctuation
// and trims surrounding whitespace. Interior whitespace is kept. Invalid
// UTF-8 bytes are dropped first, so stripping punctuation can never join
// stray bytes into a new rune.
func Normalize(s string) string {
	s = strings.ToValidUTF8(s, "")
	// cases.Caser is stateful, so each call gets its own
	lower := cases.Lower(language.Turkish).String(s)
	return strings.TrimSpace(punctuationStripper.Replace(lower))
}

// Fold lowercases s rune-for-rune with Turkish casing and merges dotless ı
// into i, so "THIS", "this" and "thıs" fold alike and titles typed on an
// English keyboard still match. The output has exactly as many runes as the
// input: rune offsets found in the folded string address the same text in
// the original.
func Fold(s string) string {
	return strings.Map(func(r rune) rune {
		r = unicode.TurkishCase.ToLower(r)
		if r == 'ı' {
			return 'i'
		}
		return r
	}, s)
}

// MatchKey is the trimmed Fold of s, used as the stored title key
func MatchKey(s string) string {
	return Fold(strings.TrimSpace(s))
}
