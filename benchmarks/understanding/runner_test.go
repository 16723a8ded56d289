// ABOUTME: Tests for the benchmark runner and its scoring
// ABOUTME: Runs the offline suites end to end and checks partial scores

package understanding

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/harper/muzakir/internal/models"
)

func newTestRunner(t *testing.T) *BenchmarkRunner {
	t.Helper()
	r, err := NewBenchmarkRunner(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("NewBenchmarkRunner() error = %v", err)
	}
	t.Cleanup(r.Close)
	return r
}

func TestRunSuite_OfflineAllPass(t *testing.T) {
	r := newTestRunner(t)

	results, err := r.RunSuite(context.Background(), "")
	if err != nil {
		t.Fatalf("RunSuite() error = %v", err)
	}
	if want := len(UnderstandingScenarios()) + len(LookupScenarios()); len(results) != want {
		t.Fatalf("RunSuite() returned %d results, want %d", len(results), want)
	}
	for _, res := range results {
		if !res.Passed() {
			t.Errorf("%s %s (%s) score = %.2f, details = %v", res.Suite, res.TestID, res.TestName, res.Score, res.Details)
		}
	}
}

func TestRunSuite_Filter(t *testing.T) {
	r := newTestRunner(t)

	results, err := r.RunSuite(context.Background(), SuiteLookup)
	if err != nil {
		t.Fatalf("RunSuite() error = %v", err)
	}
	for _, res := range results {
		if res.Suite != SuiteLookup {
			t.Errorf("result %s has suite %q", res.TestID, res.Suite)
		}
	}

	if _, err := r.RunSuite(context.Background(), "nope"); err == nil {
		t.Error("RunSuite(nope) should fail")
	}
}

func TestScoreUnderstanding_Partial(t *testing.T) {
	m := NewMetricsCalculator()
	five := 5
	mektup := models.ChapterTypeMektup

	want := GroundTruth{ChapterNumber: 4, ChapterType: models.ChapterTypeSoz, FastPath: true}
	got := models.QueryUnderstanding{ReferencesSpecificChapter: true, ChapterNumber: &five, ChapterType: &mektup}

	score, misses := m.ScoreUnderstanding(want, got, true)
	// reference, related and fast path match; number and type do not
	if score != 0.6 {
		t.Errorf("score = %v, want 0.6", score)
	}
	if len(misses) != 2 {
		t.Errorf("misses = %v, want 2", misses)
	}
}

func TestScoreLookup(t *testing.T) {
	m := NewMetricsCalculator()
	want := LookupScenario{WantFound: true, WantWord: "kitap", WantMethod: models.MethodExact}

	tests := []struct {
		name string
		got  models.LookupResult
		want float64
	}{
		{"exact hit", models.LookupResult{Found: true, Entry: &models.DictionaryEntry{Word: "kitap"}, Method: models.MethodExact}, 1},
		{"wrong method", models.LookupResult{Found: true, Entry: &models.DictionaryEntry{Word: "kitap"}, Method: models.MethodSuffixStripped}, 0.5},
		{"wrong entry", models.LookupResult{Found: true, Entry: &models.DictionaryEntry{Word: "kitaplar"}, Method: models.MethodExact}, 0},
		{"miss", models.LookupResult{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, _ := m.ScoreLookup(want, tt.got); got != tt.want {
				t.Errorf("ScoreLookup() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize([]TestResult{
		{Score: 1, Status: "PASS"},
		{Score: 0.5, Status: "FAIL"},
	})
	if s.Total != 2 || s.Passed != 1 || s.Failed != 1 || s.AverageScore != 0.75 {
		t.Errorf("Summarize() = %+v", s)
	}
	if Summarize(nil).Total != 0 {
		t.Error("Summarize(nil) should be empty")
	}
}

func TestExportResults(t *testing.T) {
	r := newTestRunner(t)
	results, err := r.RunSuite(context.Background(), SuiteLookup)
	if err != nil {
		t.Fatalf("RunSuite() error = %v", err)
	}

	path := filepath.Join(t.TempDir(), "out", "results.json")
	if err := r.ExportResults(results, path); err != nil {
		t.Fatalf("ExportResults() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	var report struct {
		Summary Summary      `json:"summary"`
		Results []TestResult `json:"results"`
	}
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if report.Summary.Total != len(results) || len(report.Results) != len(results) {
		t.Errorf("report = %+v", report.Summary)
	}
}
