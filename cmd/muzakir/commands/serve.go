// ABOUTME: Serve command runs the reader HTTP API
// ABOUTME: Chat, search, dictionary and chapter endpoints for the web reader
package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harper/muzakir/internal/httpapi"
)

var serveAddr string

// NewServeCmd creates the serve command
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the HTTP API used by the web reader.

Endpoints:
  POST /api/chat                  answer a question
  POST /api/search                semantic passage search
  POST /api/dictionary            dictionary lookup
  GET  /api/books/:slug/chapters  list a book's chapters
  GET  /api/chapters/:id          full chapter text
  GET  /healthcheck               liveness`,
		Example: `  muzakir serve
  muzakir serve --addr :9090`,
		RunE: runServe,
	}

	cmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from MUZAKIR_HTTP_ADDR or :8080)")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	addr := serveAddr
	if addr == "" {
		addr = a.Config.HTTPAddr
	}
	return httpapi.ListenAndServe(ctx, addr, httpapi.NewServer(a), a.Logger)
}
