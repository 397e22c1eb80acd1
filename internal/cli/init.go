// Package cli provides common initialization shared by the binaries in cmd/.
package cli

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	"kopilka/internal/config"
	"kopilka/internal/ledger"
	"kopilka/internal/storage"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupDefaultLogger installs a plain text logger at info level, used until
// the configuration is loaded.
func SetupDefaultLogger() *slog.Logger {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)
	return logger
}

// SetupLogger installs the default slog logger according to the config.
// "pretty" selects the colored tint handler for local use.
func SetupLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	var handler slog.Handler
	if cfg.LogFormat == "pretty" {
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// LoadAndValidateConfig loads configuration and validates it.
// Exits the process on validation failure.
func LoadAndValidateConfig(logger *slog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// OpenStore builds the persister for the configured backend and hydrates
// the ledger from it. Returns the store and a close function for the
// underlying resources. Exits the process on failure.
func OpenStore(ctx context.Context, logger *slog.Logger, cfg *config.Config) (*ledger.Store, func()) {
	var (
		persister ledger.Persister
		closeFn   = func() {}
	)

	switch cfg.DataBackend {
	case "sqlite":
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to initialize SQLite storage", "error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		persister = repo
		closeFn = func() {
			if err := repo.Close(); err != nil {
				logger.Error("Failed to close SQLite storage", "error", err)
			}
		}
		logger.Info("Initialized sqlite backend", "path", cfg.SQLiteDBPath)
	default:
		persister = ledger.NewMemoryPersister()
		logger.Info("Initialized memory backend")
	}

	store, err := ledger.Open(ctx, persister)
	if err != nil {
		closeFn()
		logger.Error("Failed to hydrate ledger", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	return store, closeFn
}
