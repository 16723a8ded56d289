// ABOUTME: Benchmark runner for query understanding and dictionary lookup
// ABOUTME: Runs labelled scenarios through the classifier and dictionary engine and exports results

package understanding

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/harper/muzakir/internal/core"
	"github.com/harper/muzakir/internal/dictionary"
	"github.com/harper/muzakir/internal/logger"
	"github.com/harper/muzakir/internal/storage/sqlite"
)

// Suite names
const (
	SuiteUnderstanding = "understanding"
	SuiteLookup        = "lookup"
)

// BenchmarkRunner executes benchmark scenarios
type BenchmarkRunner struct {
	classifier *core.Classifier
	dictionary *dictionary.Engine
	store      *sqlite.Storage
	metrics    *MetricsCalculator
	logger     *logger.Logger
}

// NewBenchmarkRunner builds a runner over an in-memory dictionary. A nil
// fallback runs the classifier offline, pattern rules only.
func NewBenchmarkRunner(ctx context.Context, fallback core.QueryClassifier, log *logger.Logger) (*BenchmarkRunner, error) {
	log = logger.OrNop(log)
	store, err := sqlite.NewStorageInMemory()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	if _, err := store.Import(ctx, &sqlite.Bundle{Dictionary: Dictionary()}); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to load benchmark dictionary: %w", err)
	}

	return &BenchmarkRunner{
		classifier: core.NewClassifier(fallback, log),
		dictionary: dictionary.NewEngine(store, log),
		store:      store,
		metrics:    NewMetricsCalculator(),
		logger:     log,
	}, nil
}

// Close cleans up benchmark runner resources
func (r *BenchmarkRunner) Close() {
	if r.store != nil {
		_ = r.store.Close()
	}
}

// RunUnderstanding scores one classifier scenario
func (r *BenchmarkRunner) RunUnderstanding(ctx context.Context, s Scenario) TestResult {
	start := time.Now()
	got, fastPath := r.classifier.FastPath(s.Question)
	if !fastPath {
		got = r.classifier.Fallback(ctx, s.Question, s.CurrentChapter)
	}
	score, misses := r.metrics.ScoreUnderstanding(s.GroundTruth, got, fastPath)
	r.logger.Debug("understanding scenario", "id", s.ID, "score", score, "fast_path", fastPath)

	return TestResult{
		TestID:   s.ID,
		TestName: s.Name,
		Suite:    SuiteUnderstanding,
		Score:    score,
		Status:   status(score),
		Details: map[string]interface{}{
			"question":      s.Question,
			"understanding": got,
			"fast_path":     fastPath,
			"misses":        misses,
			"duration_ms":   time.Since(start).Milliseconds(),
		},
	}
}

// RunLookup scores one dictionary scenario
func (r *BenchmarkRunner) RunLookup(ctx context.Context, s LookupScenario) TestResult {
	got := r.dictionary.Lookup(ctx, s.Word, s.Context)
	score, detail := r.metrics.ScoreLookup(s, got)
	r.logger.Debug("lookup scenario", "id", s.ID, "score", score)

	return TestResult{
		TestID:   s.ID,
		TestName: s.Word,
		Suite:    SuiteLookup,
		Score:    score,
		Status:   status(score),
		Details: map[string]interface{}{
			"context": s.Context,
			"result":  got,
			"detail":  detail,
		},
	}
}

// RunSuite runs every scenario of the named suite, or both suites for ""
func (r *BenchmarkRunner) RunSuite(ctx context.Context, suite string) ([]TestResult, error) {
	var results []TestResult
	if suite == "" || suite == SuiteUnderstanding {
		for _, s := range UnderstandingScenarios() {
			results = append(results, r.RunUnderstanding(ctx, s))
		}
	}
	if suite == "" || suite == SuiteLookup {
		for _, s := range LookupScenarios() {
			results = append(results, r.RunLookup(ctx, s))
		}
	}
	if results == nil {
		return nil, fmt.Errorf("unknown suite %q (valid options: %s, %s)", suite, SuiteUnderstanding, SuiteLookup)
	}
	return results, nil
}

// ExportResults writes results and their summary as JSON
func (r *BenchmarkRunner) ExportResults(results []TestResult, outputPath string) error {
	report := struct {
		GeneratedAt time.Time    `json:"generated_at"`
		Summary     Summary      `json:"summary"`
		Results     []TestResult `json:"results"`
	}{
		GeneratedAt: time.Now().UTC(),
		Summary:     Summarize(results),
		Results:     results,
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	return nil
}
