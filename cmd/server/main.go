/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the studio engine HTTP server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load STUDIO_* environment config, then apply flag overrides
  2. Build the logger
  3. Initialize SQLite store
  4. Load the coverage policy and currency format
  5. Create API handler, router and alert sweep
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -addr    Listen address (overrides STUDIO_ADDR)
  -db      SQLite database path (overrides STUDIO_DB_PATH)
           Use ":memory:" for in-memory database

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the alert sweep
  2. Stop accepting new connections
  3. Wait for active requests to complete (30s timeout)
  4. Close database connection

EXAMPLES:
  # Run with file database
  ./server -db="./data/studio.db"

  # JSON logs, Indian digit grouping, custom coverage rules
  STUDIO_LOG_FORMAT=json STUDIO_CURRENCY_LOCALE=en-IN \
  STUDIO_COVERAGE_FILE=./coverage.yaml ./server

SEE ALSO:
  - config/config.go: Environment variables
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/warp/studio-engine/api"
	"github.com/warp/studio-engine/config"
	"github.com/warp/studio-engine/paystatus"
	"github.com/warp/studio-engine/schedule"
	"github.com/warp/studio-engine/store/sqlite"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "server:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Flags
	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP listen address")
	flag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path")
	flag.Parse()

	logger := config.NewLogger(cfg)

	if cfg.DBPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
	}

	// Initialize store
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer store.Close()

	coverage, err := schedule.LoadPolicy(cfg.CoverageFile)
	if err != nil {
		return err
	}
	currency, err := paystatus.NewCurrency(cfg.CurrencyPrefix, cfg.CurrencyLocale)
	if err != nil {
		return err
	}

	// Initialize handler
	handler := api.NewHandler(store, logger)
	handler.Coverage = coverage
	handler.Currency = currency

	alerts := api.NewAlertScheduler(handler)
	alerts.CheckInterval = cfg.AlertInterval
	alerts.Enabled = cfg.AlertInterval > 0

	router := api.NewRouter(handler, api.RouterOptions{AllowedOrigins: cfg.AllowedOrigins})

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", cfg.Addr, "db", cfg.DBPath, "coverage_rules", len(coverage.Requirements))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	alerts.Start()
	defer alerts.Stop()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-quit:
	}

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
