// ABOUTME: Heuristic Turkish suffix stripping for dictionary fallback lookups
// ABOUTME: Emits candidate roots in inventory order from a single pass over known suffixes
package lexicon

import "strings"

// MinRootLength is the shortest stem CandidateRoots will emit, in runes
const MinRootLength = 2

// Suffixes is the suffix inventory, grouped by kind and ordered so more
// specific suffixes come first. CandidateRoots walks it top to bottom.
var Suffixes = []string{
	// Plural + possessive (+ case)
	"larımızdan", "lerimizden", "larınızdan", "lerinizden",
	"larımızla", "lerimizle", "larımıza", "lerimize", "larımızı", "lerimizi",
	"larımız", "lerimiz", "larınız", "leriniz",

	// Possessive + case
	"ümüzle", "imizle", "ımızla", "ınızla", "unuzla",
	"ümüzü", "imizi", "ımızı", "ınızı", "unuzu",
	"ümüze", "imize", "ımıza", "ınıza", "unuza",
	"ümüzden", "imizden", "ımızdan", "ınızdan", "unuzdan",

	// Possessive
	"ümüz", "imiz", "ımız", "umuz", "ınız", "unuz", "ünüz", "iniz",

	// Plural + case
	"lerden", "lardan", "lerde", "larda", "lere", "lara", "leri", "ları",

	// Case
	"den", "dan", "de", "da", "le", "la", "in", "ın", "un", "ün",

	// Plural
	"ler", "lar",

	// Bare vowels
	"e", "a", "i", "ı", "u", "ü",
}

// CandidateRoots returns possible roots of a normalized word by stripping each
// suffix in Suffixes that the word ends with. Stems shorter than MinRootLength
// are skipped, as are duplicates.
func CandidateRoots(word string) []string {
	wordRunes := []rune(word)
	var candidates []string
	seen := make(map[string]bool)

	for _, suffix := range Suffixes {
		if !strings.HasSuffix(word, suffix) {
			continue
		}
		stemLen := len(wordRunes) - len([]rune(suffix))
		if stemLen < MinRootLength {
			continue
		}
		stem := string(wordRunes[:stemLen])
		if seen[stem] {
			continue
		}
		seen[stem] = true
		candidates = append(candidates, stem)
	}

	return candidates
}
