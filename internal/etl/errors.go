//-------------------------------------------------------------------------
//
// retail-etl
//
// Copyright (c) 2025 - 2026, the retail-etl authors
// This software is released under The MIT License
//
//-------------------------------------------------------------------------

package etl

import "fmt"

// SourceNotFoundError indicates the source file path does not exist.
// Fatal: the pipeline aborts before touching the store.
type SourceNotFoundError struct {
	Path string
}

func (e *SourceNotFoundError) Error() string {
	return fmt.Sprintf("source file not found: %s", e.Path)
}

// SchemaError indicates DDL against the store failed, usually because an
// existing relation has an incompatible definition. Fatal before any load.
type SchemaError struct {
	Relation string
	Err      error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema creation failed for %s: %v", e.Relation, e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// LoadError indicates a DML step of the load failed. The surrounding
// transaction is rolled back, so the prior committed generation survives.
type LoadError struct {
	Step string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load failed at %s: %v", e.Step, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
