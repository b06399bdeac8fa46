//-------------------------------------------------------------------------
//
// retail-etl
//
// Copyright (c) 2025 - 2026, the retail-etl authors
// This software is released under The MIT License
//
//-------------------------------------------------------------------------

// Package testutil provides utilities for testing against a throwaway store.
package testutil

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/retaildata/retail-etl/internal/db"
)

// OpenTestStore opens an empty SQLite store in a per-test temp directory.
// The handle is closed when the test finishes.
func OpenTestStore(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "retail_test.db")
	handle, err := db.Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Failed to open test store: %v", err)
	}
	t.Cleanup(func() {
		handle.Close()
	})
	return handle
}
