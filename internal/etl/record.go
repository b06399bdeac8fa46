//-------------------------------------------------------------------------
//
// retail-etl
//
// Copyright (c) 2025 - 2026, the retail-etl authors
// This software is released under The MIT License
//
//-------------------------------------------------------------------------

// Package etl implements the normalization pipeline: reading the raw
// transactional export, cleaning it, and bulk-loading it into the
// star-like SQLite schema.
package etl

import "time"

// Source column names, case-sensitive, as exported by the upstream system.
const (
	ColInvoiceNo   = "InvoiceNo"
	ColStockCode   = "StockCode"
	ColDescription = "Description"
	ColQuantity    = "Quantity"
	ColInvoiceDate = "InvoiceDate"
	ColUnitPrice   = "UnitPrice"
	ColCustomerID  = "CustomerID"
	ColCountry     = "Country"
)

// TimestampLayout is how invoice timestamps are stored in the database.
const TimestampLayout = "2006-01-02 15:04:05"

// RawRecord is one source row as read, column name to cell text.
// Values are untyped passthrough; the cleaner owns all coercion.
type RawRecord map[string]string

// Record is one cleaned invoice line. Every field is populated: rows that
// cannot satisfy that are dropped by the cleaner, never carried as nulls.
type Record struct {
	InvoiceNo   string
	StockCode   string
	Description string
	Quantity    int
	InvoiceDate time.Time
	UnitPrice   float64
	CustomerID  int
	Country     string
}
