// ABOUTME: Query understanding types produced by the classifier
// ABOUTME: ChapterType enumerates the section families of the corpus
package models

// ChapterType is the canonical tag of a section family
type ChapterType string

const (
	ChapterTypeSoz    ChapterType = "söz"
	ChapterTypeMektup ChapterType = "mektup"
	ChapterTypeLema   ChapterType = "lem'a"
	ChapterTypeSua    ChapterType = "şua"
)

// ChapterTypes lists every section family in canonical order
var ChapterTypes = []ChapterType{ChapterTypeSoz, ChapterTypeMektup, ChapterTypeLema, ChapterTypeSua}

// Valid reports whether t is one of the known section families
func (t ChapterType) Valid() bool {
	for _, ct := range ChapterTypes {
		if t == ct {
			return true
		}
	}
	return false
}

// QueryUnderstanding is the classifier output for one question
type QueryUnderstanding struct {
	ReferencesSpecificChapter bool         `json:"referencesSpecificChapter"`
	ChapterNumber             *int         `json:"chapterNumber"`
	ChapterType               *ChapterType `json:"chapterType"`
	RelatedToCurrentContext   bool         `json:"relatedToCurrentContext"`
	SearchQuery               string       `json:"searchQuery"`
}

// DefaultUnderstanding is the safe result used whenever classification fails
func DefaultUnderstanding(question string) QueryUnderstanding {
	return QueryUnderstanding{SearchQuery: question}
}
