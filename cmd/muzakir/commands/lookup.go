// ABOUTME: CLI command to look up a word in the Ottoman Turkish dictionary
// ABOUTME: Handles inflected forms and multi-word terms like "ehl-i sünnet"
package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harper/muzakir/internal/dictionary"
)

var (
	lookupContext   string
	lookupFollowing string
)

// NewLookupCmd creates the lookup command
func NewLookupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup <word>",
		Short: "Look up a word in the dictionary",
		Long: `Look up a word in the dictionary.

The lookup tries phrase matches with the following words, an exact
match, the word with Turkish suffixes stripped, and finally the root
word of an entry.

Examples:
  muzakir lookup kitaplarımızdan
  muzakir lookup "ehl-i sünnet"
  muzakir lookup --following "sünnet ve cemaat" ehl-i`,
		Args: cobra.MinimumNArgs(1),
		RunE: runLookup,
	}

	cmd.Flags().StringVar(&lookupContext, "context", "", "Words following the looked-up word")
	cmd.Flags().StringVar(&lookupFollowing, "following", "", "Text after the word; its first two words become the context")

	return cmd
}

func runLookup(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	word, phrase := strings.Join(args, " "), lookupContext
	if strings.TrimSpace(phrase) == "" {
		word, phrase = dictionary.ExtractContextWindow(word, lookupFollowing, dictionary.DefaultWordsAfter)
	}

	result := a.Dictionary.Lookup(cmd.Context(), word, phrase)
	if jsonOutput() {
		return printJSON(cmd, result)
	}
	if !result.Found {
		fmt.Fprintf(cmd.OutOrStdout(), "No definition found for %q\n", word)
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n\n%s\n", result.Entry.Word, result.Entry.Definition)
	if verbose {
		fmt.Fprintf(out, "\n(matched by %s)\n", result.Method)
	}
	return nil
}
