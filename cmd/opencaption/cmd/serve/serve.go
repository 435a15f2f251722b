package serve

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"opencaption/cmd/opencaption/cmd/cmdutil"
	"opencaption/internal/api/server"
)

var shutdownTimeout time.Duration

func init() {
	Cmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 30*time.Second, "how long to wait for in-flight requests on shutdown")
}

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API",
	Long: `Serve the HTTP API under /api/v1, plus /health and /metrics.

The server stops on SIGINT or SIGTERM and waits for in-flight requests.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		application, cleanup, err := cmdutil.Bootstrap(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		cfg := application.Config.Server
		srv := server.NewServer(server.Config{
			Host:         cfg.Host,
			Port:         cfg.Port,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
			Environment:  cfg.Environment,
		}, application.Orchestrator, application.Metrics.Handler(), application.Logger)

		serveErr, err := srv.Start()
		if err != nil {
			return err
		}

		select {
		case err := <-serveErr:
			return err
		case <-ctx.Done():
		}

		application.Logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			application.Logger.Error("Server shutdown failed", zap.Error(err))
			return err
		}
		return nil
	},
}
