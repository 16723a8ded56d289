// ABOUTME: CLI commands to read chapters and list a book's contents
// ABOUTME: Chapters resolve by id, by number and section type, or by title
package commands

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harper/muzakir/internal/app"
	"github.com/harper/muzakir/internal/lexicon"
	"github.com/harper/muzakir/internal/models"
)

var (
	chapterID   int64
	chapterType string
)

// NewChapterCmd creates the chapter command group
func NewChapterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chapter [number|title]",
		Short: "Show a chapter or list a book's chapters",
		Long: `Show the full text of a chapter.

A number is resolved within the section type given by --type (söz,
mektup, lem'a, şua); without a type the first book with that chapter
number wins. Anything else is matched against chapter titles.

Examples:
  muzakir chapter --type söz 4
  muzakir chapter "Yirminci Mektup"
  muzakir chapter --id 42
  muzakir chapter list sozler`,
		Args: cobra.MaximumNArgs(1),
		RunE: runChapter,
	}

	cmd.Flags().Int64Var(&chapterID, "id", 0, "Chapter id")
	cmd.Flags().StringVar(&chapterType, "type", "", "Section type for numeric references")

	cmd.AddCommand(newChapterListCmd())
	return cmd
}

func newChapterListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <book-slug>",
		Short: "List the chapters of a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			book, chapters, err := a.Pipeline.Chapters().List(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("listing chapters: %w", err)
			}
			if jsonOutput() {
				return printJSON(cmd, map[string]interface{}{"book": book, "chapters": chapters})
			}

			if !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n\n", book.Title)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "NO\tID\tTITLE\n")
			fmt.Fprintf(w, "--\t--\t-----\n")
			for _, c := range chapters {
				fmt.Fprintf(w, "%d\t%d\t%s\n", c.ChapterNumber, c.ID, truncate(c.Title, 60))
			}
			return w.Flush()
		},
	}
}

func runChapter(cmd *cobra.Command, args []string) error {
	if chapterID == 0 && len(args) == 0 {
		return fmt.Errorf("a chapter number, title or --id is required")
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	chapter, err := resolveChapter(cmd, a, args)
	if err != nil {
		return err
	}
	if chapter == nil {
		return fmt.Errorf("chapter not found")
	}

	if jsonOutput() {
		return printJSON(cmd, chapter)
	}
	out := cmd.OutOrStdout()
	if !quiet {
		fmt.Fprintf(out, "%s\n\n", chapter.Label())
	}
	fmt.Fprintln(out, chapter.Content)
	return nil
}

func resolveChapter(cmd *cobra.Command, a *app.App, args []string) (*models.ChapterWithContent, error) {
	chapters := a.Pipeline.Chapters()
	if chapterID != 0 {
		if err := validatePositiveInt(int(chapterID), "id"); err != nil {
			return nil, err
		}
		return chapters.ByID(cmd.Context(), chapterID)
	}

	ref := strings.TrimSpace(args[0])
	if n, err := strconv.Atoi(ref); err == nil {
		if err := validatePositiveInt(n, "chapter number"); err != nil {
			return nil, err
		}
		var t *models.ChapterType
		if chapterType != "" {
			parsed, ok := lexicon.ParseChapterType(chapterType)
			if !ok {
				return nil, fmt.Errorf("unknown section type %q", chapterType)
			}
			t = &parsed
		}
		return chapters.ByNumber(cmd.Context(), n, t)
	}
	return chapters.ByTitle(cmd.Context(), ref)
}
