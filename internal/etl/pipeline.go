//-------------------------------------------------------------------------
//
// retail-etl
//
// Copyright (c) 2025 - 2026, the retail-etl authors
// This software is released under The MIT License
//
//-------------------------------------------------------------------------

package etl

import (
	"context"
	"database/sql"
)

// Run executes the full pipeline against the given store handle:
// read the source, clean it, ensure the schema, load. The handle is
// passed in explicitly so callers (and tests) control the store lifetime.
func Run(ctx context.Context, handle *sql.DB, sourcePath string, batchSize int) (LoadStats, error) {
	raw, err := ReadSource(sourcePath)
	if err != nil {
		return LoadStats{}, err
	}

	records := Clean(raw)

	if err := CreateSchema(ctx, handle); err != nil {
		return LoadStats{}, err
	}

	return NewLoader(handle, batchSize).Load(ctx, records)
}
