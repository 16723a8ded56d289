// ABOUTME: Command-line runner for the query understanding and dictionary benchmarks
// ABOUTME: Runs offline by default; --llm sends unmatched questions to the classifier model

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/harper/muzakir/benchmarks/understanding"
	"github.com/harper/muzakir/internal/app"
	"github.com/harper/muzakir/internal/config"
	"github.com/harper/muzakir/internal/core"
	"github.com/harper/muzakir/internal/llm"
	"github.com/harper/muzakir/internal/logger"
)

func main() {
	suite := flag.String("suite", "", "Run one suite (understanding, lookup). If empty, runs all suites.")
	outputPath := flag.String("output", "benchmark_results.json", "Output path for JSON results")
	useLLM := flag.Bool("llm", false, "Classify questions the pattern rules miss with the OpenAI model")
	verbose := flag.Bool("verbose", false, "Enable verbose output")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found (continuing anyway): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	zl := logger.Nop()
	if *verbose {
		if zl, err = logger.New("dev"); err != nil {
			log.Fatalf("Failed to create logger: %v", err)
		}
	}

	var fallback core.QueryClassifier
	if *useLLM {
		if cfg.OpenAIKey == "" {
			log.Fatal("OPENAI_API_KEY environment variable is required with --llm")
		}
		fallback = llm.NewLazy(app.ClientConfig(cfg))
	}

	fmt.Println("========================================")
	fmt.Println("Muzakir Understanding Benchmarks")
	fmt.Println("========================================")

	ctx := context.Background()
	runner, err := understanding.NewBenchmarkRunner(ctx, fallback, zl)
	if err != nil {
		log.Fatalf("Failed to create benchmark runner: %v", err)
	}
	defer runner.Close()

	results, err := runner.RunSuite(ctx, *suite)
	if err != nil {
		log.Fatalf("Benchmark failed: %v", err)
	}

	for _, result := range results {
		fmt.Printf("\n[%s] %s: %s\n", result.Suite, result.TestID, result.TestName)
		fmt.Printf("  Score: %.2f\n", result.Score)
		fmt.Printf("  Status: %s\n", result.Status)
	}

	summary := understanding.Summarize(results)
	fmt.Println("\n========================================")
	fmt.Printf("Total Tests: %d\n", summary.Total)
	fmt.Printf("Passed: %d\n", summary.Passed)
	fmt.Printf("Failed: %d\n", summary.Failed)
	fmt.Printf("Average Score: %.2f\n", summary.AverageScore)
	fmt.Println("========================================")

	if err := runner.ExportResults(results, *outputPath); err != nil {
		log.Fatalf("Failed to export results: %v", err)
	}

	if summary.Failed > 0 {
		os.Exit(1)
	}
}
