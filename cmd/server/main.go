// Package main runs the trading journal API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"tradejournal/internal/apiserver"
	"tradejournal/internal/config"
	"tradejournal/internal/logging"
	"tradejournal/internal/storage/memory"
	"tradejournal/internal/storage/migrations"
	"tradejournal/internal/storage/postgres"
)

const shutdownGrace = 15 * time.Second

func main() {
	// Load .env if present; real env vars win.
	_ = godotenv.Load()

	cfg, err := config.LoadServerConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog, err := logging.New("server", cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	if err := run(cfg, logger); err != nil {
		logger.Error("server failed", "err", err)
		closeLog()
		os.Exit(1)
	}
}

func run(cfg config.ServerConfig, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stores, cleanup, err := buildStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	srv := apiserver.NewServer(stores, logger).WithRefreshDebounce(cfg.RefreshDebounce)
	defer srv.Close()

	httpServer := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      srv.Router(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.ListenAddr, "storage", cfg.Storage)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen on %s: %w", cfg.ListenAddr, err)
	case <-ctx.Done():
	}

	logger.Info("shutting down", "grace", shutdownGrace)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("shutdown complete")
	return nil
}

// buildStores creates the configured storage backend. The returned cleanup
// closes any underlying connections.
func buildStores(ctx context.Context, cfg config.ServerConfig, logger *slog.Logger) (apiserver.Stores, func(), error) {
	if cfg.Storage == config.StorageMemory {
		logger.Warn("using in-memory storage, data will not survive a restart")
		return apiserver.Stores{
			Accounts: memory.NewAccountStore(),
			Trades:   memory.NewTradeStore(),
			Entries:  memory.NewDailyEntryStore(),
			Goals:    memory.NewGoalStore(),
		}, func() {}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.PostgresDSN)
	if err != nil {
		return apiserver.Stores{}, nil, err
	}

	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return apiserver.Stores{}, nil, fmt.Errorf("apply migrations: %w", err)
	}

	return apiserver.Stores{
		Accounts: postgres.NewAccountStore(pool),
		Trades:   postgres.NewTradeStore(pool),
		Entries:  postgres.NewDailyEntryStore(pool),
		Goals:    postgres.NewGoalStore(pool),
	}, pool.Close, nil
}
