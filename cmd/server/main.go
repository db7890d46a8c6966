// Package main provides the entry point for the lon-tz HTTP server.
// It resolves solar time zones from longitude over a JSON/YAML/CBOR API.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/atlet99/lon-tz/internal/config"
	"github.com/atlet99/lon-tz/internal/server"
	"github.com/atlet99/lon-tz/internal/version"
	"github.com/atlet99/lon-tz/pkg/logger"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, log, err := setup()
	if err != nil {
		log.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	log.Info("Starting lon-tz server",
		"version", version.Version,
		"commit", version.Commit,
		"buildTime", version.Date,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("Server error", "error", err)
		os.Exit(1)
	}
}

// setup loads the configuration and builds the default logger at its level.
// When loading fails the logger falls back to the LOG_LEVEL environment level.
func setup(envFiles ...string) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(envFiles...)
	if err != nil {
		return nil, logger.NewLogger(os.Getenv("LOG_LEVEL")), err
	}
	return cfg, logger.NewLogger(cfg.LogLevel), nil
}

// run serves until ctx is canceled or the listener fails, then shuts down
func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	srv := server.New(cfg, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		_ = srv.Shutdown(context.Background())
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		return err
	}

	log.Info("Server exited")
	return nil
}
