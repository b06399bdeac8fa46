//-------------------------------------------------------------------------
//
// retail-etl
//
// Copyright (c) 2025 - 2026, the retail-etl authors
// This software is released under The MIT License
//
//-------------------------------------------------------------------------

// Package analytics is the read-only query facade over the normalized
// schema. It serves a fixed menu of analytical queries to the external
// presentation layer and never mutates schema or data.
package analytics

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// QueryError indicates malformed query parameters. It is raised before
// any SQL runs and never affects the store.
type QueryError struct {
	Reason string
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("invalid query parameters: %s", e.Reason)
}

// Row is one result row, column name to value.
type Row map[string]any

// Result is a tabular query result. Columns preserves select order, which
// the map rows cannot.
type Result struct {
	Columns []string
	Rows    []Row
}

// QueryNames lists the menu of analytical queries, in presentation order.
var QueryNames = []string{
	"kpi",
	"bounds",
	"monthly-revenue",
	"top-products",
	"cohort-retention",
	"rfm",
}

// Facade executes the fixed query menu against a store handle.
type Facade struct {
	handle *sql.DB
}

// New creates a query facade over an open store handle.
func New(handle *sql.DB) *Facade {
	return &Facade{handle: handle}
}

// KPISummary returns whole-store revenue, order count, customer count and
// average line value.
func (f *Facade) KPISummary(ctx context.Context) (Result, error) {
	return f.run(ctx, `
        SELECT COALESCE(SUM(oi.quantity * oi.unit_price), 0) AS revenue,
               COUNT(DISTINCT o.order_id) AS orders,
               COUNT(DISTINCT o.customer_id) AS customers,
               AVG(oi.quantity * oi.unit_price) AS avg_line_value
        FROM order_items oi
        JOIN orders o ON o.order_id = oi.order_id
    `)
}

// DateBounds returns the earliest and latest invoice timestamps.
func (f *Facade) DateBounds(ctx context.Context) (Result, error) {
	return f.run(ctx, `
        SELECT MIN(invoice_date) AS min_date,
               MAX(invoice_date) AS max_date
        FROM orders
    `)
}

// MonthlyRevenue returns revenue per calendar month within [start, end].
func (f *Facade) MonthlyRevenue(ctx context.Context, start, end time.Time) (Result, error) {
	if err := validateRange(start, end); err != nil {
		return Result{}, err
	}
	return f.run(ctx, `
        SELECT strftime('%Y-%m', o.invoice_date) AS month,
               SUM(oi.quantity * oi.unit_price) AS revenue
        FROM orders o
        JOIN order_items oi ON o.order_id = oi.order_id
        WHERE date(o.invoice_date) BETWEEN ? AND ?
        GROUP BY month
        ORDER BY month
    `, isoDate(start), isoDate(end))
}

// TopProducts returns the topN products by revenue within [start, end].
func (f *Facade) TopProducts(ctx context.Context, start, end time.Time, topN int) (Result, error) {
	if err := validateRange(start, end); err != nil {
		return Result{}, err
	}
	if err := validateTopN(topN); err != nil {
		return Result{}, err
	}
	return f.run(ctx, `
        SELECT p.product_id, p.stock_code, p.description,
               SUM(oi.quantity * oi.unit_price) AS revenue,
               SUM(oi.quantity) AS total_qty
        FROM order_items oi
        JOIN products p ON oi.product_id = p.product_id
        JOIN orders o ON o.order_id = oi.order_id
        WHERE date(o.invoice_date) BETWEEN ? AND ?
        GROUP BY p.product_id, p.stock_code, p.description
        ORDER BY revenue DESC
        LIMIT ?
    `, isoDate(start), isoDate(end), topN)
}

// CohortRetention returns the cohort retention matrix in long form: one
// row per (cohort_month, month_offset) with the fraction of the cohort
// still active. Offset 0 is 1.0 for every cohort by construction.
func (f *Facade) CohortRetention(ctx context.Context) (Result, error) {
	return f.run(ctx, `
        WITH first_order AS (
            SELECT customer_id, MIN(strftime('%Y-%m', invoice_date)) AS cohort_month
            FROM orders
            GROUP BY customer_id
        ),
        activity AS (
            SELECT DISTINCT o.customer_id, f.cohort_month,
                   strftime('%Y-%m', o.invoice_date) AS order_month
            FROM orders o
            JOIN first_order f ON f.customer_id = o.customer_id
        ),
        counts AS (
            SELECT cohort_month,
                   (CAST(substr(order_month, 1, 4) AS INTEGER) - CAST(substr(cohort_month, 1, 4) AS INTEGER)) * 12
                   + CAST(substr(order_month, 6, 2) AS INTEGER) - CAST(substr(cohort_month, 6, 2) AS INTEGER)
                       AS month_offset,
                   COUNT(DISTINCT customer_id) AS active_customers
            FROM activity
            GROUP BY cohort_month, order_month
        ),
        sizes AS (
            SELECT cohort_month, active_customers AS cohort_size
            FROM counts
            WHERE month_offset = 0
        )
        SELECT c.cohort_month, c.month_offset, c.active_customers,
               CAST(c.active_customers AS REAL) / s.cohort_size AS retention
        FROM counts c
        JOIN sizes s ON s.cohort_month = c.cohort_month
        ORDER BY c.cohort_month, c.month_offset
    `)
}

// RFM returns recency (days since last order, relative to the newest order
// in the store), frequency (order count) and monetary (revenue) per
// customer, highest spenders first, limited to topN.
func (f *Facade) RFM(ctx context.Context, topN int) (Result, error) {
	if err := validateTopN(topN); err != nil {
		return Result{}, err
	}
	return f.run(ctx, `
        WITH latest AS (
            SELECT MAX(invoice_date) AS max_date FROM orders
        ),
        cust AS (
            SELECT o.customer_id,
                   CAST(julianday((SELECT max_date FROM latest)) - julianday(MAX(o.invoice_date)) AS INTEGER) AS recency,
                   COUNT(DISTINCT o.order_id) AS frequency,
                   SUM(oi.quantity * oi.unit_price) AS monetary
            FROM orders o
            JOIN order_items oi ON o.order_id = oi.order_id
            GROUP BY o.customer_id
        )
        SELECT customer_id, recency, frequency, monetary
        FROM cust
        ORDER BY monetary DESC
        LIMIT ?
    `, topN)
}

func validateRange(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return &QueryError{Reason: "start and end dates are required"}
	}
	if end.Before(start) {
		return &QueryError{Reason: fmt.Sprintf(
			"end date %s is before start date %s", isoDate(end), isoDate(start))}
	}
	return nil
}

func validateTopN(topN int) error {
	if topN < 1 {
		return &QueryError{Reason: fmt.Sprintf("top_n must be at least 1, got %d", topN)}
	}
	return nil
}

func isoDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// run executes a read query and scans every row into a column-keyed map.
func (f *Facade) run(ctx context.Context, query string, args ...any) (Result, error) {
	rows, err := f.handle.QueryContext(ctx, query, args...)
	if err != nil {
		return Result{}, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return Result{}, fmt.Errorf("failed to read columns: %w", err)
	}

	result := Result{Columns: columns}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return Result{}, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make(Row, len(columns))
		for i, col := range columns {
			row[col] = values[i]
		}
		result.Rows = append(result.Rows, row)
	}

	return result, rows.Err()
}
