// ABOUTME: Splits a reader's selection into the clicked word and its phrase context
// ABOUTME: Used when a caller sends raw selected text instead of word plus context
package dictionary

import "strings"

// DefaultWordsAfter is how many following words are taken as phrase context
const DefaultWordsAfter = 2

// ExtractContextWindow returns the first word of selection and the context to
// try phrase matches with. A multi-word selection supplies its own context;
// otherwise the first wordsAfter words of following are used.
func ExtractContextWindow(selection, following string, wordsAfter int) (word, context string) {
	words := strings.Fields(selection)
	if len(words) == 0 {
		return "", ""
	}
	if len(words) > 1 {
		return words[0], strings.Join(words[1:], " ")
	}

	if wordsAfter <= 0 {
		wordsAfter = DefaultWordsAfter
	}
	next := strings.Fields(following)
	if len(next) > wordsAfter {
		next = next[:wordsAfter]
	}
	return words[0], strings.Join(next, " ")
}
