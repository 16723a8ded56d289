// ABOUTME: CLI command to ask a question about the Risale-i Nur
// ABOUTME: Prints the generated answer, or only the assembled context with --context-only
package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harper/muzakir/internal/core"
)

var (
	askChapter     string
	askReference   string
	askContextOnly bool
)

// NewAskCmd creates the ask command
func NewAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a question",
		Long: `Ask a question in Turkish or English.

Chapter references such as "Dördüncü Söz", "the 4th Word" or
"10. mektup" are resolved to the chapter itself; everything else is
answered from semantically related passages.

Examples:
  muzakir ask "Dördüncü Söz ne anlatıyor?"
  muzakir ask --chapter "Yirminci Mektup" "Bu bölümün ana fikri nedir?"
  muzakir ask --context-only --format json "What does the 4th Word say about prayer?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: runAsk,
	}

	cmd.Flags().StringVar(&askChapter, "chapter", "", "Title of the chapter being read")
	cmd.Flags().StringVar(&askReference, "reference", "", "Selected passage to ask about")
	cmd.Flags().BoolVar(&askContextOnly, "context-only", false, "Print the assembled context instead of generating an answer")

	return cmd
}

func runAsk(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	req := core.AnswerRequest{
		Question:            strings.Join(args, " "),
		CurrentChapterTitle: askChapter,
		ReferenceText:       askReference,
	}
	out := cmd.OutOrStdout()

	if askContextOnly {
		answer, err := a.Pipeline.AnswerQuestion(cmd.Context(), req)
		if err != nil {
			return fmt.Errorf("answering question: %w", err)
		}
		if jsonOutput() {
			return printJSON(cmd, answer)
		}
		if answer.Context == "" {
			fmt.Fprintln(out, core.NoContextMarker)
		} else {
			fmt.Fprintln(out, answer.Context)
		}
		printSources(cmd, answer.Sources)
		return nil
	}

	resp, err := a.Pipeline.Respond(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("answering question: %w", err)
	}
	if jsonOutput() {
		return printJSON(cmd, resp)
	}
	fmt.Fprintln(out, resp.Response)
	printSources(cmd, resp.Sources)
	return nil
}

func printSources(cmd *cobra.Command, sources []string) {
	if quiet || len(sources) == 0 {
		return
	}
	fmt.Fprintln(cmd.OutOrStdout(), "\nSources:")
	for _, s := range sources {
		fmt.Fprintf(cmd.OutOrStdout(), "  • %s\n", s)
	}
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s\n", data)
	return nil
}
