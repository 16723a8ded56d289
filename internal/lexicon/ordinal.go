// ABOUTME: Ordinal words, section keywords and book slugs for chapter references
// ABOUTME: Declarative Turkish and English tables plus the lookups built on them
package lexicon

import (
	"fmt"
	"sort"
	"strings"

	"github.com/harper/muzakir/internal/models"
)

// MaxOrdinal is the highest ordinal covered by the word tables
const MaxOrdinal = 33

// turkishOrdinalNames holds the canonical spelling for 1..MaxOrdinal, index 0 unused
var turkishOrdinalNames = [MaxOrdinal + 1]string{
	"",
	"birinci", "ikinci", "üçüncü", "dördüncü", "beşinci",
	"altıncı", "yedinci", "sekizinci", "dokuzuncu", "onuncu",
	"on birinci", "on ikinci", "on üçüncü", "on dördüncü", "on beşinci",
	"on altıncı", "on yedinci", "on sekizinci", "on dokuzuncu", "yirminci",
	"yirmi birinci", "yirmi ikinci", "yirmi üçüncü", "yirmi dördüncü", "yirmi beşinci",
	"yirmi altıncı", "yirmi yedinci", "yirmi sekizinci", "yirmi dokuzuncu", "otuzuncu",
	"otuz birinci", "otuz ikinci", "otuz üçüncü",
}

// turkishDiacriticVariants are spellings typed without Turkish letters
var turkishDiacriticVariants = map[string]string{
	"üçüncü":   "ucuncu",
	"dördüncü": "dorduncu",
	"beşinci":  "besinci",
	"altıncı":  "altinci",
}

var englishOrdinalNames = [MaxOrdinal + 1]string{
	"",
	"first", "second", "third", "fourth", "fifth",
	"sixth", "seventh", "eighth", "ninth", "tenth",
	"eleventh", "twelfth", "thirteenth", "fourteenth", "fifteenth",
	"sixteenth", "seventeenth", "eighteenth", "nineteenth", "twentieth",
	"twenty-first", "twenty-second", "twenty-third", "twenty-fourth", "twenty-fifth",
	"twenty-sixth", "twenty-seventh", "twenty-eighth", "twenty-ninth", "thirtieth",
	"thirty-first", "thirty-second", "thirty-third",
}

// TurkishOrdinals maps every accepted Turkish ordinal spelling to its number
var TurkishOrdinals = buildTurkishOrdinals()

// EnglishOrdinals maps English ordinal words, hyphenated and spaced, to numbers
var EnglishOrdinals = buildEnglishOrdinals()

func buildTurkishOrdinals() map[string]int {
	table := make(map[string]int)
	for n := 1; n <= MaxOrdinal; n++ {
		name := turkishOrdinalNames[n]
		table[name] = n
		for accented, plain := range turkishDiacriticVariants {
			if strings.HasSuffix(name, accented) {
				table[strings.TrimSuffix(name, accented)+plain] = n
			}
		}
	}
	return table
}

func buildEnglishOrdinals() map[string]int {
	table := make(map[string]int)
	for n := 1; n <= MaxOrdinal; n++ {
		name := englishOrdinalNames[n]
		table[name] = n
		if strings.Contains(name, "-") {
			table[strings.ReplaceAll(name, "-", " ")] = n
		}
	}
	return table
}

// TurkishOrdinalName returns the canonical Turkish ordinal for n
func TurkishOrdinalName(n int) (string, bool) {
	if n < 1 || n > MaxOrdinal {
		return "", false
	}
	return turkishOrdinalNames[n], true
}

// ParseOrdinal resolves a Turkish or English ordinal phrase to its number
func ParseOrdinal(phrase string) (int, bool) {
	key := strings.Join(strings.Fields(Normalize(phrase)), " ")
	if key == "" {
		return 0, false
	}
	if n, ok := TurkishOrdinals[key]; ok {
		return n, true
	}
	if n, ok := EnglishOrdinals[key]; ok {
		return n, true
	}
	return 0, false
}

// OrdinalPhrases returns the keys of table sorted longest first, so that
// alternations built from them prefer "on birinci" over "birinci".
func OrdinalPhrases(table map[string]int) []string {
	phrases := make([]string, 0, len(table))
	for phrase := range table {
		phrases = append(phrases, phrase)
	}
	sort.Slice(phrases, func(i, j int) bool {
		li, lj := len([]rune(phrases[i])), len([]rune(phrases[j]))
		if li != lj {
			return li > lj
		}
		return phrases[i] < phrases[j]
	})
	return phrases
}

// keywordFamily groups the words that name one section of the corpus.
// Keywords are stored normalized.
type keywordFamily struct {
	chapterType models.ChapterType
	tagged      bool
	keywords    []string
}

var chapterTypeFamilies = []keywordFamily{
	{models.ChapterTypeSoz, true, []string{"söz", "soz", "word", "words", "sözler"}},
	{models.ChapterTypeMektup, true, []string{"mektup", "mektub", "letter", "letters", "mektubat"}},
	{models.ChapterTypeLema, true, []string{"lema", "lemalar", "flash", "flashes"}},
	{models.ChapterTypeSua, true, []string{"şua", "sua", "şualar", "sualar", "ray", "rays"}},
	// Mesnevi has no section tag of its own
	{"", false, []string{"mesnevi", "mesnevî"}},
}

// genericChapterWords default to the söz section
var genericChapterWords = []string{"chapter", "bölüm", "bolum"}

// ParseChapterType maps a section keyword to its chapter type. Inflected forms
// ("sözde", "mektuba") resolve by prefix. Generic words such as "chapter" or
// "bölüm" fall back to söz, the most common section.
func ParseChapterType(word string) (models.ChapterType, bool) {
	w := Normalize(strings.ReplaceAll(word, "’", "'"))
	if w == "" {
		return "", false
	}
	for _, family := range chapterTypeFamilies {
		for _, kw := range family.keywords {
			if strings.HasPrefix(w, kw) {
				return family.chapterType, family.tagged
			}
		}
	}
	for _, kw := range genericChapterWords {
		if strings.HasPrefix(w, kw) {
			return models.ChapterTypeSoz, true
		}
	}
	return "", false
}

// bookSlugs maps each section to the slug of the book that holds its chapters
var bookSlugs = map[models.ChapterType]string{
	models.ChapterTypeSoz:    "sozler",
	models.ChapterTypeMektup: "mektubat",
	models.ChapterTypeLema:   "lemalar",
	models.ChapterTypeSua:    "sualar",
}

// BookSlugFor returns the book slug for a chapter type, or "" if unknown
func BookSlugFor(t models.ChapterType) string {
	return bookSlugs[t]
}

// SectionWords lists every keyword that can name a section in a chapter
// reference, including generic chapter words, longest first.
func SectionWords() []string {
	var words []string
	for _, family := range chapterTypeFamilies {
		if family.tagged {
			words = append(words, family.keywords...)
		}
	}
	words = append(words, genericChapterWords...)
	// lem'a is written with an apostrophe in questions, which Normalize would drop
	words = append(words, "lem'a", "lem’a")
	return longestFirst(words)
}

// NumberedSectionWords lists the bare keywords that may be followed directly
// by a chapter number, as in "söz 4" or "letter #12". Plurals and inflected
// forms are left out: "bölümde 3" counts something, it does not name a chapter.
func NumberedSectionWords() []string {
	return longestFirst([]string{
		"söz", "soz", "word",
		"mektup", "mektub", "letter",
		"lem'a", "lem’a", "lema", "flash",
		"şua", "sua", "ray",
		"chapter", "bölüm", "bolum",
	})
}

func longestFirst(words []string) []string {
	sort.SliceStable(words, func(i, j int) bool {
		return len([]rune(words[i])) > len([]rune(words[j]))
	})
	return words
}

// DescribeTurkishOrdinals renders the canonical Turkish ordinals as
// "birinci (1), ikinci (2), ..." for use in prompts.
func DescribeTurkishOrdinals() string {
	parts := make([]string, 0, MaxOrdinal)
	for n := 1; n <= MaxOrdinal; n++ {
		parts = append(parts, fmt.Sprintf("%s (%d)", turkishOrdinalNames[n], n))
	}
	return strings.Join(parts, ", ")
}
