// ABOUTME: CLI command for semantic passage search
// ABOUTME: Prints matches as a table or JSON
package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harper/muzakir/internal/core"
)

var (
	searchLimit     int
	searchThreshold float64
)

// NewSearchCmd creates search command
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search passages",
		Long: `Search passages by semantic similarity.

The query is embedded with the configured OpenAI model and compared
against every passage embedding in the corpus.

Examples:
  muzakir search "namazın kıymeti"
  muzakir search --limit 10 "resurrection"
  muzakir search --format json "haşir"`,
		Args: cobra.ExactArgs(1),
		RunE: runSearch,
	}

	cmd.Flags().IntVar(&searchLimit, "limit", 5, "Maximum results to return")
	cmd.Flags().Float64Var(&searchThreshold, "threshold", core.DefaultSearchThreshold, "Minimum similarity between 0 and 1")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	if err := validatePositiveInt(searchLimit, "limit"); err != nil {
		return err
	}

	query := strings.TrimSpace(args[0])
	if query == "" {
		return fmt.Errorf("query must not be empty")
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	results, err := a.Pipeline.Search(cmd.Context(), query, searchLimit, searchThreshold)
	if err != nil {
		return fmt.Errorf("searching passages: %w", err)
	}

	if len(results) == 0 {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No passages found for query: %s\n", query)
		}
		return nil
	}

	if jsonOutput() {
		return printJSON(cmd, results)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "SCORE\tSOURCE\tPREVIEW\n")
	fmt.Fprintf(w, "-----\t------\t-------\n")
	for _, m := range results {
		fmt.Fprintf(w, "%.3f\t%s\t%s\n",
			m.Similarity,
			truncate(m.Label(), 35),
			truncate(strings.Join(strings.Fields(m.Content), " "), 60))
	}
	_ = w.Flush()

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\nFound %d result(s)\n", len(results))
	}
	return nil
}
