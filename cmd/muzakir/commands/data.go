// ABOUTME: Import and export commands for YAML corpus bundles
// ABOUTME: Bundles carry books, chapters, paragraphs, dictionary entries and passage embeddings
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/muzakir/internal/config"
	"github.com/harper/muzakir/internal/storage/sqlite"
)

// NewImportCmd creates the import command
func NewImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <bundle.yaml>",
		Short: "Import a corpus bundle into the local database",
		Long: `Import a YAML corpus bundle into the local SQLite database.

Books, chapters and dictionary entries with the same keys are updated;
a chapter's paragraphs are replaced. Passage vectors must all have the
bundle's declared dimension.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openLocalStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			stats, err := store.ImportFile(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("importing bundle: %w", err)
			}
			if jsonOutput() {
				return printJSON(cmd, stats)
			}
			if !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d book(s), %d chapter(s), %d paragraph(s), %d dictionary entr(ies), %d passage(s)\n",
					stats.Books, stats.Chapters, stats.Paragraphs, stats.Dictionary, stats.Passages)
			}
			return nil
		},
	}
}

// NewExportCmd creates the export command
func NewExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <bundle.yaml>",
		Short: "Export the local database as a corpus bundle",
		Long:  `Export every book, chapter, dictionary entry and passage embedding in the local SQLite database to a YAML bundle.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openLocalStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.ExportToYAML(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("exporting bundle: %w", err)
			}
			if !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", args[0])
			}
			return nil
		},
	}
}

// openLocalStore opens the SQLite database; bundles are not written to Postgres
func openLocalStore() (*sqlite.Storage, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Store != config.StoreSQLite {
		return nil, fmt.Errorf("import and export need MUZAKIR_STORE=%s, got %q", config.StoreSQLite, cfg.Store)
	}
	store, err := sqlite.NewStorageWithPath(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}
	return store, nil
}
