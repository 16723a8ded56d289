// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Lets LLM agents ask questions and look up words over stdio
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/harper/muzakir/internal/mcp"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs Muzakir as an MCP (Model Context Protocol) server over stdio, so
LLM agents like Claude can answer Risale-i Nur questions, look up
words and read chapters.

Configure in Claude Desktop's config file to enable the tools.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by Claude Desktop)
  muzakir mcp

  # Configure in claude_desktop_config.json:
  # {
  #   "mcpServers": {
  #     "muzakir": {
  #       "command": "muzakir",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

func runMCP(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			a.Logger.Warn("error closing storage", "error", err)
		}
	}()

	if a.Config.OpenAIKey == "" {
		a.Logger.Warn("OPENAI_API_KEY not set - questions and search will fail; dictionary and chapters still work")
	}

	server := mcpserver.NewMCPServer("Muzakir", versionInfo.Version)
	mcp.RegisterTools(server, a)

	a.Logger.Info("MCP server starting on stdio")

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		a.Logger.Info("shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}
	return nil
}
