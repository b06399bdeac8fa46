// Package db provides access to the file-backed SQLite store for retail-etl.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/retaildata/retail-etl/internal/logging"
)

// Open opens (creating if necessary) the SQLite store at the given path.
// The handle is safe for concurrent readers; the loader is the single
// writer and must hold the handle for the duration of a load.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	handle, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	// Pragmas are per-connection; a single pooled connection keeps them in
	// force and serializes writers the way SQLite wants anyway.
	handle.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := handle.ExecContext(ctx, pragma); err != nil {
			handle.Close()
			return nil, fmt.Errorf("failed to apply %s: %w", pragma, err)
		}
	}

	// Verify the file is actually a usable database
	if err := handle.PingContext(ctx); err != nil {
		handle.Close()
		return nil, fmt.Errorf("failed to ping store: %w", err)
	}

	logging.Debug().
		Str("path", path).
		Msg("Opened store")

	return handle, nil
}

// Exists reports whether a store file is already present at the given path.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Size() > 0
}
