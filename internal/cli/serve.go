package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/existflow/planner/internal/logger"
	"github.com/existflow/planner/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the JSON API server",
	Long: `Run the planner JSON API under /api/v1.

Examples:
  planner serve
  planner serve --addr :9000
  planner serve --db-driver postgres --db postgres://localhost/planner`,
	RunE: runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openService()
		if err != nil {
			return err
		}
		defer closeService(svc)

		fmt.Printf("✓ Schema up to date (%s)\n", svc.DB().Dialect())
		return nil
	},
}

var serveAddr string

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "Listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	svc, err := openService()
	if err != nil {
		return err
	}

	addr := cfg.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	srv := server.New(svc, cfg.SessionTTL())
	defer func() {
		if err := srv.Close(); err != nil {
			logger.Error("Error closing server", logger.F("error", err))
		}
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(addr)
	}()
	fmt.Printf("Planner API listening on %s\n", addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
