// Package storage persists the ledger snapshot in a local SQLite database.
// The whole snapshot is stored as one JSON payload in a key-value table
// under a fixed key, mirroring the single durable slot the ledger expects.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"kopilka/internal/ledger"

	_ "modernc.org/sqlite"
)

// StorageKey is the fixed slot the ledger snapshot lives under.
const StorageKey = "budget-storage"

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Save implements ledger.Persister. The snapshot replaces whatever is in
// the slot; there is no history kept.
func (r *SQLiteRepository) Save(ctx context.Context, snap ledger.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO snapshots (key, payload, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			payload = excluded.payload,
			updated_at = CURRENT_TIMESTAMP`,
		StorageKey, string(payload))
	if err != nil {
		return fmt.Errorf("write snapshot slot: %w", err)
	}

	slog.DebugContext(ctx, "Snapshot persisted",
		"key", StorageKey,
		"bytes", len(payload),
		"transactions", len(snap.Transactions),
		"categories", len(snap.Categories))
	return nil
}

// Load implements ledger.Persister. An empty slot returns nil, nil so the
// ledger can fall back to its seed state.
func (r *SQLiteRepository) Load(ctx context.Context) (*ledger.Snapshot, error) {
	var payload string
	err := r.db.QueryRowContext(ctx,
		`SELECT payload FROM snapshots WHERE key = ?`, StorageKey).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot slot: %w", err)
	}

	var snap ledger.Snapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}
