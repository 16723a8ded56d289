// ABOUTME: Dictionary entries and the result of a word lookup
// ABOUTME: LookupMethod records which strategy of the lookup chain resolved the word
package models

// DictionaryEntry is one definition keyed by word or phrase
type DictionaryEntry struct {
	Word       string  `json:"word" yaml:"word"`
	Definition string  `json:"definition" yaml:"definition"`
	RootWord   *string `json:"root_word,omitempty" yaml:"root_word,omitempty"`
}

// LookupMethod identifies the strategy that produced a dictionary hit
type LookupMethod string

const (
	MethodExact          LookupMethod = "exact"
	MethodPhraseMatch    LookupMethod = "phrase_match"
	MethodSuffixStripped LookupMethod = "suffix_stripped"
	MethodRootWord       LookupMethod = "root_word"
)

// LookupResult is returned by every dictionary lookup; not-found is Found=false
type LookupResult struct {
	Found  bool             `json:"found"`
	Entry  *DictionaryEntry `json:"entry,omitempty"`
	Method LookupMethod     `json:"method,omitempty"`
}
