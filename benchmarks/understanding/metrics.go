// ABOUTME: Scoring for query understanding and dictionary lookup benchmarks
// ABOUTME: Deterministic field-by-field comparison against labelled ground truth

package understanding

import (
	"fmt"
	"strings"

	"github.com/harper/muzakir/internal/models"
)

// PassThreshold is the minimum score for a scenario to pass
const PassThreshold = 1.0

// TestResult is the scored outcome of one scenario
type TestResult struct {
	TestID   string                 `json:"test_id"`
	TestName string                 `json:"test_name"`
	Suite    string                 `json:"suite"`
	Score    float64                `json:"score"`
	Status   string                 `json:"status"`
	Details  map[string]interface{} `json:"details"`
}

// Passed reports whether the result met PassThreshold
func (r TestResult) Passed() bool {
	return r.Status == "PASS"
}

// MetricsCalculator scores benchmark outcomes
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// ScoreUnderstanding returns the fraction of checked fields that match and
// the list of mismatches. The chapter type and number are only checked when a
// reference is expected.
func (m *MetricsCalculator) ScoreUnderstanding(want GroundTruth, got models.QueryUnderstanding, fastPath bool) (float64, []string) {
	var checks, passed int
	var misses []string
	check := func(ok bool, format string, args ...interface{}) {
		checks++
		if ok {
			passed++
			return
		}
		misses = append(misses, fmt.Sprintf(format, args...))
	}

	wantRef := want.ChapterNumber > 0
	check(got.ReferencesSpecificChapter == wantRef,
		"referencesSpecificChapter = %v, want %v", got.ReferencesSpecificChapter, wantRef)
	if wantRef {
		check(got.ChapterNumber != nil && *got.ChapterNumber == want.ChapterNumber,
			"chapterNumber = %s, want %d", formatNumber(got.ChapterNumber), want.ChapterNumber)
		check(got.ChapterType != nil && *got.ChapterType == want.ChapterType,
			"chapterType = %s, want %q", formatType(got.ChapterType), want.ChapterType)
	}
	check(got.RelatedToCurrentContext == want.RelatedToCurrent,
		"relatedToCurrentContext = %v, want %v", got.RelatedToCurrentContext, want.RelatedToCurrent)
	if want.SearchQueryContains != "" {
		check(strings.Contains(got.SearchQuery, want.SearchQueryContains),
			"searchQuery = %q, want it to contain %q", got.SearchQuery, want.SearchQueryContains)
	}
	if want.FastPath {
		check(fastPath, "resolved by the model, want the pattern rules")
	}

	return float64(passed) / float64(checks), misses
}

// ScoreLookup returns 1 when the lookup found the labelled entry by the
// labelled method, 0.5 when only the entry matches, and 0 otherwise
func (m *MetricsCalculator) ScoreLookup(want LookupScenario, got models.LookupResult) (float64, string) {
	if !want.WantFound {
		if got.Found {
			return 0, fmt.Sprintf("found %q, want a miss", got.Entry.Word)
		}
		return 1, "miss as expected"
	}
	if !got.Found {
		return 0, fmt.Sprintf("no entry found, want %q", want.WantWord)
	}
	if got.Entry.Word != want.WantWord {
		return 0, fmt.Sprintf("found %q, want %q", got.Entry.Word, want.WantWord)
	}
	if got.Method != want.WantMethod {
		return 0.5, fmt.Sprintf("found by %s, want %s", got.Method, want.WantMethod)
	}
	return 1, "exact hit"
}

// Summary aggregates a result set
type Summary struct {
	Total        int     `json:"total"`
	Passed       int     `json:"passed"`
	Failed       int     `json:"failed"`
	AverageScore float64 `json:"average_score"`
}

// Summarize counts passes and averages scores
func Summarize(results []TestResult) Summary {
	s := Summary{Total: len(results)}
	if len(results) == 0 {
		return s
	}
	var total float64
	for _, r := range results {
		total += r.Score
		if r.Passed() {
			s.Passed++
		} else {
			s.Failed++
		}
	}
	s.AverageScore = total / float64(len(results))
	return s
}

func status(score float64) string {
	if score >= PassThreshold {
		return "PASS"
	}
	return "FAIL"
}

func formatNumber(n *int) string {
	if n == nil {
		return "null"
	}
	return fmt.Sprint(*n)
}

func formatType(t *models.ChapterType) string {
	if t == nil {
		return "null"
	}
	return fmt.Sprintf("%q", *t)
}
