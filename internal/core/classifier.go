// ABOUTME: Query classifier that extracts chapter references and context intent from a question
// ABOUTME: Runs deterministic fast-path rules first and falls back to an LLM with a JSON prompt
package core

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/harper/muzakir/internal/lexicon"
	"github.com/harper/muzakir/internal/logger"
	"github.com/harper/muzakir/internal/models"
)

// Placeholders replace the search query when removing the chapter reference leaves nothing
const (
	TurkishPlaceholderQuery = "ana tema içerik"
	EnglishPlaceholderQuery = "main theme content"
)

// QueryClassifier is the LLM call behind the fallback path. It returns the raw
// JSON text of the completion.
type QueryClassifier interface {
	ClassifyQuery(ctx context.Context, system, user string) (string, error)
}

// Rule is one fast-path pattern. Match receives the question and its
// lexicon.Fold and reports a classification when the pattern applies.
type Rule struct {
	Name  string
	Match func(question, folded string) (models.QueryUnderstanding, bool)
}

// Classifier turns a free-form question into a QueryUnderstanding
type Classifier struct {
	rules    []Rule
	fallback QueryClassifier
	logger   *logger.Logger
}

// NewClassifier creates a classifier with the default rules. A nil fallback
// means questions no rule matches get the default understanding.
func NewClassifier(fallback QueryClassifier, log *logger.Logger) *Classifier {
	return &Classifier{
		rules:    DefaultRules(),
		fallback: fallback,
		logger:   logger.OrNop(log),
	}
}

// Analyze classifies a question. It never fails: any fallback problem yields
// models.DefaultUnderstanding(question).
func (c *Classifier) Analyze(ctx context.Context, question, currentChapterTitle string) models.QueryUnderstanding {
	if u, ok := c.FastPath(question); ok {
		return u
	}
	return c.Fallback(ctx, question, currentChapterTitle)
}

// FastPath applies the rules in order; the first match wins
func (c *Classifier) FastPath(question string) (models.QueryUnderstanding, bool) {
	folded := lexicon.Fold(question)
	for _, r := range c.rules {
		if u, ok := r.Match(question, folded); ok {
			c.logger.Debug("fast path matched", "rule", r.Name)
			return u, true
		}
	}
	return models.QueryUnderstanding{}, false
}

// Fallback asks the LLM to classify the question
func (c *Classifier) Fallback(ctx context.Context, question, currentChapterTitle string) models.QueryUnderstanding {
	def := models.DefaultUnderstanding(question)
	if c.fallback == nil || strings.TrimSpace(question) == "" {
		return def
	}

	content, err := c.fallback.ClassifyQuery(ctx, classifierPrompt, classifierUserMessage(question, currentChapterTitle))
	if err != nil {
		c.logger.Warn("query classification failed, using default", "error", err)
		return def
	}
	u, err := decodeUnderstanding(content, question)
	if err != nil {
		c.logger.Warn("unparseable classification, using default", "error", err)
		return def
	}
	return u
}

// DefaultRules returns the fast-path rules in priority order
func DefaultRules() []Rule {
	return []Rule{
		{Name: "turkish_ordinal", Match: ordinalRule(turkishOrdinalPattern, TurkishPlaceholderQuery)},
		{Name: "english_ordinal", Match: ordinalRule(englishOrdinalPattern, EnglishPlaceholderQuery)},
		{Name: "numeric_before_section", Match: numberBeforeSection},
		{Name: "numeric_after_section", Match: numberAfterSection},
		{Name: "current_context", Match: currentContext},
	}
}

var (
	sectionGroup = `((?:` + alternation(lexicon.SectionWords()) + `)[\p{L}'’]*)`
	// bare keyword only: "bölümde 3" and "words 3" are not references
	numberedSectionGroup = `(` + alternation(lexicon.NumberedSectionWords()) + `)`

	// groups: 1 span start (with an optional "the"), 2 ordinal, 3 section word
	turkishOrdinalPattern = regexp.MustCompile(`(?:^|[^\p{L}])((` +
		alternation(lexicon.OrdinalPhrases(lexicon.TurkishOrdinals)) + `))\s+` + sectionGroup)
	englishOrdinalPattern = regexp.MustCompile(`(?:^|[^\p{L}])((?:the\s+)?(` +
		alternation(lexicon.OrdinalPhrases(lexicon.EnglishOrdinals)) + `))\s+` + sectionGroup)

	// "the 4th word", "4. söz", "4'üncü söz"; groups: 1 span start, 2 number, 3 section word
	numberBeforePattern = regexp.MustCompile(`(?:^|[^\p{L}\d])((?:the\s+)?(\d+))(?:st|nd|rd|th|'?(?:inci|uncu|üncü|nci|ncu|ncü))?\.?\s*` + sectionGroup)
	// "söz 4", "letter #12", "word no. 3"; groups: 1 section word, 2 number
	numberAfterPattern = regexp.MustCompile(`(?:^|[^\p{L}])` + numberedSectionGroup + `\s*(?:#|no\.?|number|numara)?\s*(\d+)`)

	// group 1 is the phrase plus any attached suffix ("bu bölümde")
	contextPattern = regexp.MustCompile(`(?:^|[^\p{L}])((?:` + alternation([]string{
		"this chapter", "this section", "this passage", "what i'm reading", "what im reading", "what i’m reading",
		"bu bölüm", "bu kısım", "bu pasaj", "okuduğum", "burada",
	}) + `)[\p{L}'’]*)`)
)

// alternation folds and quotes words into a regexp alternation, keeping their
// order. Spaces inside a phrase match any run of whitespace.
func alternation(words []string) string {
	parts := make([]string, 0, len(words))
	for _, w := range words {
		parts = append(parts, strings.ReplaceAll(regexp.QuoteMeta(lexicon.Fold(w)), " ", `\s+`))
	}
	return strings.Join(parts, "|")
}

func ordinalRule(pattern *regexp.Regexp, placeholder string) func(question, folded string) (models.QueryUnderstanding, bool) {
	return func(question, folded string) (models.QueryUnderstanding, bool) {
		m := pattern.FindStringSubmatchIndex(folded)
		if m == nil {
			return models.QueryUnderstanding{}, false
		}
		n, ok := lexicon.ParseOrdinal(folded[m[4]:m[5]])
		if !ok {
			return models.QueryUnderstanding{}, false
		}
		return chapterReference(n, folded[m[6]:m[7]], removeSpan(question, folded, m[2], m[7]), placeholder), true
	}
}

func numberBeforeSection(question, folded string) (models.QueryUnderstanding, bool) {
	m := numberBeforePattern.FindStringSubmatchIndex(folded)
	if m == nil {
		return models.QueryUnderstanding{}, false
	}
	n, err := strconv.Atoi(folded[m[4]:m[5]])
	if err != nil {
		return models.QueryUnderstanding{}, false
	}
	return chapterReference(n, folded[m[6]:m[7]], removeSpan(question, folded, m[2], m[7]), EnglishPlaceholderQuery), true
}

func numberAfterSection(question, folded string) (models.QueryUnderstanding, bool) {
	m := numberAfterPattern.FindStringSubmatchIndex(folded)
	if m == nil {
		return models.QueryUnderstanding{}, false
	}
	n, err := strconv.Atoi(folded[m[4]:m[5]])
	if err != nil {
		return models.QueryUnderstanding{}, false
	}
	return chapterReference(n, folded[m[2]:m[3]], removeSpan(question, folded, m[2], m[5]), EnglishPlaceholderQuery), true
}

func currentContext(question, folded string) (models.QueryUnderstanding, bool) {
	m := contextPattern.FindStringSubmatchIndex(folded)
	if m == nil {
		return models.QueryUnderstanding{}, false
	}
	query := removeSpan(question, folded, m[2], m[3])
	if !hasText(query) {
		query = question
	}
	return models.QueryUnderstanding{
		RelatedToCurrentContext: true,
		SearchQuery:             query,
	}, true
}

func chapterReference(n int, sectionWord, residual, placeholder string) models.QueryUnderstanding {
	u := models.QueryUnderstanding{
		ReferencesSpecificChapter: true,
		ChapterNumber:             &n,
		SearchQuery:               residual,
	}
	if t, ok := lexicon.ParseChapterType(sectionWord); ok {
		u.ChapterType = &t
	}
	if !hasText(u.SearchQuery) {
		u.SearchQuery = placeholder
	}
	return u
}

// removeSpan cuts the byte span [start, end) of folded out of question. Fold
// keeps one rune per rune, so the span is translated through rune counts.
func removeSpan(question, folded string, start, end int) string {
	runes := []rune(question)
	rs := utf8.RuneCountInString(folded[:start])
	re := utf8.RuneCountInString(folded[:end])
	rest := string(runes[:rs]) + " " + string(runes[re:])
	rest = strings.Join(strings.Fields(rest), " ")
	return strings.TrimLeft(rest, ",;:-–— ")
}

func hasText(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

var classifierPrompt = fmt.Sprintf(`You are a query analyzer for the Risale-i Nur collection. Analyze the user's question and extract structured information.

The Risale-i Nur consists of books like:
- Sözler (Words) - chapters called "Söz" (e.g., Birinci Söz = 1st Word, Dördüncü Söz = 4th Word)
- Mektubat (Letters) - chapters called "Mektup"
- Lem'alar (Flashes) - chapters called "Lem'a"
- Şualar (Rays) - chapters called "Şua"

Turkish ordinal numbers: %s.

Analyze the question and return ONLY a valid JSON object with these fields:
{
  "referencesSpecificChapter": boolean,
  "chapterNumber": number | null,
  "chapterType": "söz" | "mektup" | "lem'a" | "şua" | null,
  "relatedToCurrentContext": boolean,
  "searchQuery": "the core semantic query to search for"
}

Rules:
- referencesSpecificChapter: true if the user explicitly mentions a chapter number/name
- chapterNumber: the chapter number if mentioned (e.g., "4th chapter" = 4, "dördüncü söz" = 4)
- chapterType: the type of chapter if identifiable
- relatedToCurrentContext: true if the question uses phrases like "this chapter", "this passage", "what I'm reading", "bu bölüm", "burada"
- searchQuery: extract the core topic/question for semantic search (remove chapter references)

Examples:
Q: "Dördüncü söz ne anlatıyor?" → {"referencesSpecificChapter":true,"chapterNumber":4,"chapterType":"söz","relatedToCurrentContext":false,"searchQuery":"ana tema ve içerik"}
Q: "What is the 4th Word about?" → {"referencesSpecificChapter":true,"chapterNumber":4,"chapterType":"söz","relatedToCurrentContext":false,"searchQuery":"main theme and content"}
Q: "Bu bölümde namazdan bahsediyor mu?" → {"referencesSpecificChapter":false,"chapterNumber":null,"chapterType":null,"relatedToCurrentContext":true,"searchQuery":"namaz prayer"}
Q: "İman nedir?" → {"referencesSpecificChapter":false,"chapterNumber":null,"chapterType":null,"relatedToCurrentContext":false,"searchQuery":"iman faith belief definition"}`,
	lexicon.DescribeTurkishOrdinals())

// ClassifierPrompt returns the system prompt sent on the fallback path
func ClassifierPrompt() string {
	return classifierPrompt
}

func classifierUserMessage(question, currentChapterTitle string) string {
	if strings.TrimSpace(currentChapterTitle) != "" {
		return fmt.Sprintf("Current chapter being read: %q\n\nUser question: %s", currentChapterTitle, question)
	}
	return "User question: " + question
}

// rawUnderstanding accepts whatever the model sends; every field is optional
type rawUnderstanding struct {
	ReferencesSpecificChapter *bool           `json:"referencesSpecificChapter"`
	ChapterNumber             json.RawMessage `json:"chapterNumber"`
	ChapterType               *string         `json:"chapterType"`
	RelatedToCurrentContext   *bool           `json:"relatedToCurrentContext"`
	SearchQuery               *string         `json:"searchQuery"`
}

func decodeUnderstanding(content, question string) (models.QueryUnderstanding, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end < start {
		return models.QueryUnderstanding{}, fmt.Errorf("no JSON object in response %q", content)
	}

	var raw rawUnderstanding
	if err := json.Unmarshal([]byte(content[start:end+1]), &raw); err != nil {
		return models.QueryUnderstanding{}, fmt.Errorf("failed to decode classification: %w", err)
	}

	u := models.DefaultUnderstanding(question)
	if raw.ReferencesSpecificChapter != nil {
		u.ReferencesSpecificChapter = *raw.ReferencesSpecificChapter
	}
	if raw.RelatedToCurrentContext != nil {
		u.RelatedToCurrentContext = *raw.RelatedToCurrentContext
	}
	if raw.SearchQuery != nil && strings.TrimSpace(*raw.SearchQuery) != "" {
		u.SearchQuery = strings.TrimSpace(*raw.SearchQuery)
	}
	u.ChapterNumber = decodeChapterNumber(raw.ChapterNumber)
	if raw.ChapterType != nil {
		t := models.ChapterType(*raw.ChapterType)
		if !t.Valid() {
			t, _ = lexicon.ParseChapterType(*raw.ChapterType)
		}
		if t.Valid() {
			u.ChapterType = &t
		}
	}
	return u, nil
}

// decodeChapterNumber accepts 4, 4.0, "4" and "dördüncü"; anything else is nil.
// 0 is the front matter of a book.
func decodeChapterNumber(raw json.RawMessage) *int {
	if len(raw) == 0 {
		return nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		if f >= 0 && f <= math.MaxInt32 && f == math.Trunc(f) {
			n := int(f)
			return &n
		}
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil && n >= 0 {
		return &n
	}
	if n, ok := lexicon.ParseOrdinal(s); ok {
		return &n
	}
	return nil
}
