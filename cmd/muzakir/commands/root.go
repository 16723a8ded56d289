// ABOUTME: Root command and global flags for the Muzakir CLI
// ABOUTME: Loads .env and configuration and builds the services each subcommand uses
package commands

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/harper/muzakir/internal/app"
	"github.com/harper/muzakir/internal/config"
	"github.com/harper/muzakir/internal/logger"
)

var (
	verbose      bool
	quiet        bool
	outputFormat string
	configPath   string
)

const banner = `
███╗   ███╗██╗   ██╗███████╗ █████╗ ██╗  ██╗██╗██████╗
████╗ ████║██║   ██║╚══███╔╝██╔══██╗██║ ██╔╝██║██╔══██╗
██╔████╔██║██║   ██║  ███╔╝ ███████║█████╔╝ ██║██████╔╝
██║╚██╔╝██║██║   ██║ ███╔╝  ██╔══██║██╔═██╗ ██║██╔══██╗
██║ ╚═╝ ██║╚██████╔╝███████╗██║  ██║██║  ██╗██║██║  ██║
╚═╝     ╚═╝ ╚═════╝ ╚══════╝╚═╝  ╚═╝╚═╝  ╚═╝╚═╝╚═╝  ╚═╝`

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "muzakir",
		Short: "Question answering and dictionary lookup for the Risale-i Nur",
		Long: banner + `

Muzakir answers reader questions about the Risale-i Nur. It resolves
chapter references like "Dördüncü Söz" or "the 4th Word", retrieves
related passages by semantic similarity, and looks up Ottoman Turkish
words in the dictionary.

Set OPENAI_API_KEY (a .env file in the working directory is read) and
import a corpus bundle with 'muzakir import' before asking questions.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output with debug logging")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress informational output")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format: auto, table or json")
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(NewAskCmd())
	cmd.AddCommand(NewSearchCmd())
	cmd.AddCommand(NewLookupCmd())
	cmd.AddCommand(NewChapterCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMCPCmd())
	cmd.AddCommand(NewImportCmd())
	cmd.AddCommand(NewExportCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

// loadConfig reads .env, then the config file and environment
func loadConfig() (*config.Config, error) {
	_ = godotenv.Load()
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// newLogger picks the log sink for the global flags. Quiet runs log nothing
// and verbose runs get development-mode debug output.
func newLogger(cfg *config.Config) (*logger.Logger, error) {
	switch {
	case quiet:
		return logger.Nop(), nil
	case verbose:
		return logger.New("dev")
	case cfg.LogMode == "prod" || cfg.LogMode == "production":
		return logger.New(cfg.LogMode)
	default:
		// Non-verbose CLI runs only surface problems
		return logger.NewAtLevel(cfg.LogMode, "warn")
	}
}

// openApp builds the services for one command run
func openApp(ctx context.Context) (*app.App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}
	return a, nil
}

// jsonOutput reports whether results should be printed as JSON
func jsonOutput() bool {
	return outputFormat == "json"
}
