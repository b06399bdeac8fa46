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
	"strconv"
	"strings"
	"time"

	"github.com/retaildata/retail-etl/internal/logging"
)

// cancelPrefix marks reversed/cancelled invoices in the source export.
// Cancelled lines are dropped outright, not netted against sales.
const cancelPrefix = "C"

// Invoice dates arrive day-first. Non-padded layouts also accept padded
// values, and ISO timestamps show up when the export went through another
// tool first.
var dateLayouts = []string{
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"2/1/2006",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Clean turns raw rows into loadable records, dropping rows that cannot
// participate in the normalized schema:
//   - missing any join key (CustomerID, InvoiceNo, StockCode, InvoiceDate)
//   - cancellation invoices (InvoiceNo starting with "C")
//   - unparseable invoice dates or customer identifiers
//   - non-positive quantities after coercion
//
// Row-level problems are recovered by dropping the row; Clean never fails.
// The input is not mutated.
func Clean(raw []RawRecord) []Record {
	records := make([]Record, 0, len(raw))

	var droppedKeys, droppedCancelled, droppedDate, droppedQuantity int

	for _, row := range raw {
		invoiceNo := strings.TrimSpace(row[ColInvoiceNo])
		stockCode := strings.TrimSpace(row[ColStockCode])
		customerID := strings.TrimSpace(row[ColCustomerID])
		invoiceDate := strings.TrimSpace(row[ColInvoiceDate])

		if invoiceNo == "" || stockCode == "" || customerID == "" || invoiceDate == "" {
			droppedKeys++
			continue
		}

		if strings.HasPrefix(invoiceNo, cancelPrefix) {
			droppedCancelled++
			continue
		}

		when, ok := parseInvoiceDate(invoiceDate)
		if !ok {
			droppedDate++
			continue
		}

		custID, ok := coerceInt(customerID)
		if !ok {
			// An unparseable customer identifier is an unusable join key
			droppedKeys++
			continue
		}

		quantity, _ := coerceInt(row[ColQuantity])
		if quantity <= 0 {
			droppedQuantity++
			continue
		}

		unitPrice, _ := coerceFloat(row[ColUnitPrice])

		records = append(records, Record{
			InvoiceNo:   invoiceNo,
			StockCode:   stockCode,
			Description: strings.TrimSpace(row[ColDescription]),
			Quantity:    quantity,
			InvoiceDate: when,
			UnitPrice:   unitPrice,
			CustomerID:  custID,
			Country:     strings.TrimSpace(row[ColCountry]),
		})
	}

	logging.Info().
		Int("input_rows", len(raw)).
		Int("cleaned_rows", len(records)).
		Int("dropped_missing_keys", droppedKeys).
		Int("dropped_cancelled", droppedCancelled).
		Int("dropped_bad_date", droppedDate).
		Int("dropped_non_positive_qty", droppedQuantity).
		Msg("Cleaned source rows")

	return records
}

// parseInvoiceDate parses a day-first invoice timestamp.
func parseInvoiceDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// coerceInt parses an integer cell. Exports that round-tripped through a
// spreadsheet tool often carry identifiers as floats ("17850.0"), so a
// float parse is accepted and truncated.
func coerceInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f), true
	}
	return 0, false
}

func coerceFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0.0, false
	}
	return f, true
}
