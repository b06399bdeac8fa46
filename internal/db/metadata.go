//-------------------------------------------------------------------------
//
// retail-etl
//
// Copyright (c) 2025 - 2026, the retail-etl authors
// This software is released under The MIT License
//
//-------------------------------------------------------------------------

package db

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/retaildata/retail-etl/internal/logging"
	"github.com/retaildata/retail-etl/pkg/version"
)

const metadataTable = "etl_metadata"

// createMetadataTableSQL creates the metadata table if it doesn't exist.
const createMetadataTableSQL = `
CREATE TABLE IF NOT EXISTS etl_metadata (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
)`

// SaveMetadata records provenance of the latest load in the store.
func SaveMetadata(ctx context.Context, handle *sql.DB, source string, lineItems int64) error {
	// Create table if it doesn't exist
	_, err := handle.ExecContext(ctx, createMetadataTableSQL)
	if err != nil {
		return fmt.Errorf("failed to create metadata table: %w", err)
	}

	// Insert or update metadata
	metadata := map[string]string{
		"source":     source,
		"version":    version.Short(),
		"loaded_at":  time.Now().UTC().Format(time.RFC3339),
		"line_items": strconv.FormatInt(lineItems, 10),
	}

	for key, value := range metadata {
		_, err := handle.ExecContext(ctx, `
            INSERT INTO etl_metadata (key, value) VALUES (?, ?)
            ON CONFLICT (key) DO UPDATE SET value = excluded.value
        `, key, value)
		if err != nil {
			return fmt.Errorf("failed to save metadata %s: %w", key, err)
		}
	}

	logging.Debug().
		Str("source", source).
		Int64("line_items", lineItems).
		Msg("Saved metadata")

	return nil
}

// GetMetadataValue retrieves a single metadata value by key.
func GetMetadataValue(ctx context.Context, handle *sql.DB, key string) (string, error) {
	var value string
	err := handle.QueryRowContext(ctx, `
        SELECT value FROM etl_metadata WHERE key = ?
    `, key).Scan(&value)
	if err != nil {
		return "", err
	}
	return value, nil
}

// GetAllMetadata retrieves all metadata as a map.
func GetAllMetadata(ctx context.Context, handle *sql.DB) (map[string]string, error) {
	rows, err := handle.QueryContext(ctx, `SELECT key, value FROM etl_metadata`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	metadata := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		metadata[key] = value
	}

	return metadata, rows.Err()
}

// DropMetadata drops the metadata table.
func DropMetadata(ctx context.Context, handle *sql.DB) error {
	_, err := handle.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", metadataTable))
	return err
}

// MetadataExists checks if the metadata table exists.
func MetadataExists(ctx context.Context, handle *sql.DB) (bool, error) {
	var count int
	err := handle.QueryRowContext(ctx, `
        SELECT COUNT(*) FROM sqlite_master
        WHERE type = 'table' AND name = ?
    `, metadataTable).Scan(&count)
	return count > 0, err
}
