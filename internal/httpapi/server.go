// ABOUTME: HTTP server lifecycle with graceful shutdown
// ABOUTME: Shared by the serve command and the standalone server binary
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/harper/muzakir/internal/app"
	"github.com/harper/muzakir/internal/logger"
)

const shutdownTimeout = 10 * time.Second

// NewServer builds the router for a wired app
func NewServer(a *app.App) http.Handler {
	return NewRouter(RouterConfig{
		Handlers: NewHandlers(a.Pipeline, a.Dictionary, a.Logger),
		Logger:   a.Logger,
	})
}

// ListenAndServe serves handler on addr until ctx is cancelled, then drains
// in-flight requests
func ListenAndServe(ctx context.Context, addr string, handler http.Handler, log *logger.Logger) error {
	log = logger.OrNop(log)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("http server listening", "addr", addr)
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		log.Info("shutdown signal received, draining requests")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}
