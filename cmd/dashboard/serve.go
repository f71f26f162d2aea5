package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"checkit-dashboard/internal/app"
	"checkit-dashboard/internal/config"
	"checkit-dashboard/pkg/logger"
)

func newServeCmd(opts *commandOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(loadConfig(opts))
		},
	}
}

func runServe(cfg *config.Config) error {
	logger.Info("Starting Checkit dashboard", map[string]interface{}{"environment": cfg.Environment})

	application, err := app.New(cfg, app.Options{})
	if err != nil {
		logger.Error(err, "Failed to initialize application", nil)
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		if err := application.Run(); err != nil {
			logger.Error(err, "Failed to start server", nil)
			serverErr <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("Shutting down server...", nil)
	case runErr = <-serverErr:
		logger.Error(runErr, "Server error occurred, initiating shutdown", nil)
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := application.Shutdown(shutdownCtx); err != nil {
		logger.Error(err, "Server forced to shutdown", nil)
		return err
	}

	logger.Info("Server exited gracefully", nil)
	return runErr
}
