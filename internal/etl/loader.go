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
	"fmt"
	"strings"

	"github.com/retaildata/retail-etl/internal/logging"
)

// LoadStats reports row counts for one committed load generation.
type LoadStats struct {
	StagedRows   int64
	NewCustomers int64
	NewProducts  int64
	Orders       int64
	OrderItems   int64
}

// Loader performs the bulk load of cleaned records into the store.
type Loader struct {
	handle    *sql.DB
	batchSize int
}

// NewLoader creates a loader over an initialized store handle.
func NewLoader(handle *sql.DB, batchSize int) *Loader {
	if batchSize < 1 {
		batchSize = 200
	}
	return &Loader{handle: handle, batchSize: batchSize}
}

// Load materializes the cleaned records into staging and derives the
// normalized relations, all inside one transaction. Dimensions accumulate
// (insert-or-ignore on the natural key, first seen wins); facts are
// truncated and rebuilt. Any failure rolls the whole load back, leaving
// the prior committed generation intact.
func (l *Loader) Load(ctx context.Context, records []Record) (LoadStats, error) {
	var stats LoadStats

	tx, err := l.handle.BeginTx(ctx, nil)
	if err != nil {
		return stats, &LoadError{Step: "begin", Err: err}
	}
	defer tx.Rollback()

	if err := createStaging(ctx, tx); err != nil {
		return stats, &LoadError{Step: "staging schema", Err: err}
	}

	if err := l.stageRecords(ctx, tx, records); err != nil {
		return stats, &LoadError{Step: "staging insert", Err: err}
	}
	stats.StagedRows = int64(len(records))

	// Dimensions: insert-or-ignore keyed on the natural key. The MIN(rowid)
	// restriction pins "first seen wins" for conflicting attribute values,
	// which SELECT DISTINCT alone would leave to chance.
	res, err := tx.ExecContext(ctx, `
        INSERT OR IGNORE INTO customers (customer_id, country)
        SELECT customer_id, country FROM staging
        WHERE rowid IN (SELECT MIN(rowid) FROM staging GROUP BY customer_id)
    `)
	if err != nil {
		return stats, &LoadError{Step: "customers", Err: err}
	}
	stats.NewCustomers, _ = res.RowsAffected()

	res, err = tx.ExecContext(ctx, `
        INSERT OR IGNORE INTO products (stock_code, description)
        SELECT stock_code, description FROM staging
        WHERE rowid IN (SELECT MIN(rowid) FROM staging GROUP BY stock_code)
    `)
	if err != nil {
		return stats, &LoadError{Step: "products", Err: err}
	}
	stats.NewProducts, _ = res.RowsAffected()

	// Facts: full replace. Line items go first to satisfy the foreign key.
	if _, err := tx.ExecContext(ctx, `DELETE FROM order_items`); err != nil {
		return stats, &LoadError{Step: "truncate order_items", Err: err}
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM orders`); err != nil {
		return stats, &LoadError{Step: "truncate orders", Err: err}
	}

	res, err = tx.ExecContext(ctx, `
        INSERT INTO orders (invoice_no, invoice_date, customer_id)
        SELECT DISTINCT invoice_no, invoice_date, customer_id FROM staging
    `)
	if err != nil {
		return stats, &LoadError{Step: "orders", Err: err}
	}
	stats.Orders, _ = res.RowsAffected()

	// Resolve each line to its order by the full natural key. Joining on
	// invoice_no alone would fan a line out across every order sharing the
	// number when the source repeats invoice numbers.
	res, err = tx.ExecContext(ctx, `
        INSERT INTO order_items (order_id, product_id, quantity, unit_price)
        SELECT o.order_id, p.product_id, s.quantity, s.unit_price
        FROM staging s
        JOIN orders o ON o.invoice_no = s.invoice_no
                     AND o.invoice_date = s.invoice_date
                     AND o.customer_id = s.customer_id
        JOIN products p ON p.stock_code = s.stock_code
    `)
	if err != nil {
		return stats, &LoadError{Step: "order_items", Err: err}
	}
	stats.OrderItems, _ = res.RowsAffected()

	if err := tx.Commit(); err != nil {
		return stats, &LoadError{Step: "commit", Err: err}
	}

	logging.Info().
		Int64("staged", stats.StagedRows).
		Int64("new_customers", stats.NewCustomers).
		Int64("new_products", stats.NewProducts).
		Int64("orders", stats.Orders).
		Int64("order_items", stats.OrderItems).
		Msg("Load committed")

	return stats, nil
}

// stageRecords bulk-inserts the cleaned records into staging in batches.
func (l *Loader) stageRecords(ctx context.Context, tx *sql.Tx, records []Record) error {
	const columns = "(invoice_no, stock_code, description, quantity, invoice_date, unit_price, customer_id, country)"

	for start := 0; start < len(records); start += l.batchSize {
		end := min(start+l.batchSize, len(records))
		batch := records[start:end]

		placeholders := make([]string, 0, len(batch))
		args := make([]any, 0, len(batch)*8)
		for _, rec := range batch {
			placeholders = append(placeholders, "(?, ?, ?, ?, ?, ?, ?, ?)")
			args = append(args,
				rec.InvoiceNo,
				rec.StockCode,
				rec.Description,
				rec.Quantity,
				rec.InvoiceDate.Format(TimestampLayout),
				rec.UnitPrice,
				rec.CustomerID,
				rec.Country,
			)
		}

		query := fmt.Sprintf("INSERT INTO staging %s VALUES %s",
			columns, strings.Join(placeholders, ", "))
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}
	return nil
}
