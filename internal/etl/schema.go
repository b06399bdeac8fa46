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

// Schema SQL for the normalized star-like schema. Dimensions (customers,
// products) accumulate across loads; facts (orders, order_items) are
// replaced wholesale by each load. Surrogate keys are assigned at insert
// time, never derived from result-set row positions.
const createSchemaSQL = `
-- Customer dimension: natural key is the external customer identifier
CREATE TABLE IF NOT EXISTS customers (
    customer_id INTEGER PRIMARY KEY,
    country     TEXT
);

-- Product dimension: one row per distinct stock code
CREATE TABLE IF NOT EXISTS products (
    product_id  INTEGER PRIMARY KEY AUTOINCREMENT,
    stock_code  TEXT UNIQUE,
    description TEXT
);

-- Order fact: one row per distinct (invoice_no, invoice_date, customer_id)
CREATE TABLE IF NOT EXISTS orders (
    order_id     INTEGER PRIMARY KEY AUTOINCREMENT,
    invoice_no   TEXT NOT NULL,
    invoice_date TIMESTAMP NOT NULL,
    customer_id  INTEGER NOT NULL,
    FOREIGN KEY (customer_id) REFERENCES customers(customer_id)
);

-- Order line fact: one row per cleaned source line
CREATE TABLE IF NOT EXISTS order_items (
    order_item_id INTEGER PRIMARY KEY AUTOINCREMENT,
    order_id      INTEGER NOT NULL,
    product_id    INTEGER NOT NULL,
    quantity      INTEGER NOT NULL,
    unit_price    REAL NOT NULL,
    FOREIGN KEY (order_id) REFERENCES orders(order_id),
    FOREIGN KEY (product_id) REFERENCES products(product_id)
);

-- Indexes for the analytical queries
CREATE INDEX IF NOT EXISTS idx_orders_customer ON orders(customer_id);
CREATE INDEX IF NOT EXISTS idx_orders_invoice_date ON orders(invoice_date);
CREATE UNIQUE INDEX IF NOT EXISTS idx_orders_natural_key ON orders(invoice_no, invoice_date, customer_id);
CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id);
CREATE INDEX IF NOT EXISTS idx_order_items_product ON order_items(product_id);
`

// Staging mirrors the cleaned record shape. It is transient scratch space
// for the loader, recreated on every load and never read by the query
// facade.
const createStagingSQL = `
DROP TABLE IF EXISTS staging;
CREATE TABLE staging (
    invoice_no   TEXT NOT NULL,
    stock_code   TEXT NOT NULL,
    description  TEXT,
    quantity     INTEGER NOT NULL,
    invoice_date TIMESTAMP NOT NULL,
    unit_price   REAL NOT NULL,
    customer_id  INTEGER NOT NULL,
    country      TEXT
);
`

const dropSchemaSQL = `
DROP TABLE IF EXISTS staging;
DROP TABLE IF EXISTS order_items;
DROP TABLE IF EXISTS orders;
DROP TABLE IF EXISTS products;
DROP TABLE IF EXISTS customers;
`

// execer covers both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// CreateSchema idempotently ensures the four permanent relations exist.
// Repeated calls never touch existing data.
func CreateSchema(ctx context.Context, handle execer) error {
	if _, err := handle.ExecContext(ctx, createSchemaSQL); err != nil {
		return &SchemaError{Relation: "normalized schema", Err: err}
	}
	return nil
}

// createStaging drops and recreates the staging relation. Called inside
// the load transaction so a failed load leaves no half-written staging.
func createStaging(ctx context.Context, handle execer) error {
	if _, err := handle.ExecContext(ctx, createStagingSQL); err != nil {
		return &SchemaError{Relation: "staging", Err: err}
	}
	return nil
}

// DropSchema removes all relations, including staging. Destructive;
// guarded behind an explicit flag at the CLI.
func DropSchema(ctx context.Context, handle execer) error {
	if _, err := handle.ExecContext(ctx, dropSchemaSQL); err != nil {
		return &SchemaError{Relation: "normalized schema", Err: err}
	}
	return nil
}
