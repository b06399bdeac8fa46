//-------------------------------------------------------------------------
//
// retail-etl
//
// Copyright (c) 2025 - 2026, the retail-etl authors
// This software is released under The MIT License
//
//-------------------------------------------------------------------------

package datagen

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/retaildata/retail-etl/internal/logging"
)

// SampleConfig controls synthetic source generation.
type SampleConfig struct {
	// Rows is the number of invoice lines to write (excluding the header).
	Rows int

	// Seed makes generation reproducible when non-zero.
	Seed uint64

	// CancelledPct is the fraction of lines on a cancellation ("C") invoice.
	CancelledPct float64

	// DirtyPct is the fraction of lines with a deliberately broken field
	// (missing customer, malformed quantity, negative quantity, bad date).
	DirtyPct float64
}

// Shape of a catalog entry shared by the lines of a sample file.
type sampleProduct struct {
	stockCode   string
	description string
	unitPrice   float64
}

type sampleCustomer struct {
	id      int
	country string
}

// WriteSampleSource writes a synthetic CSV with the source column layout
// (InvoiceNo, StockCode, Description, Quantity, InvoiceDate, UnitPrice,
// CustomerID, Country; day-first dates). Lines are grouped into invoices
// of a few lines each so orders, dimensions and cohorts all come out
// non-trivial.
func WriteSampleSource(path string, cfg SampleConfig) error {
	faker := NewFaker()
	if cfg.Seed != 0 {
		faker = NewFakerWithSeed(cfg.Seed)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create sample file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"InvoiceNo", "StockCode", "Description", "Quantity",
		"InvoiceDate", "UnitPrice", "CustomerID", "Country",
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	// A stable catalog and customer base so natural keys repeat across
	// invoices, which is what the dimension dedup logic needs to see.
	numProducts := max(10, cfg.Rows/50)
	products := make([]sampleProduct, numProducts)
	for i := range products {
		products[i] = sampleProduct{
			stockCode:   fmt.Sprintf("%05d%s", faker.Int(10000, 99999), faker.Letter()),
			description: faker.ProductName(),
			unitPrice:   faker.Price(0.25, 40),
		}
	}

	numCustomers := max(5, cfg.Rows/40)
	customers := make([]sampleCustomer, numCustomers)
	for i := range customers {
		customers[i] = sampleCustomer{
			id:      12000 + i,
			country: faker.Country(),
		}
	}

	windowStart := time.Date(2010, 12, 1, 8, 0, 0, 0, time.UTC)
	windowEnd := time.Date(2011, 12, 9, 18, 0, 0, 0, time.UTC)

	invoiceNo := 536365
	written := 0
	for written < cfg.Rows {
		cust := Choose(faker, customers)
		when := faker.DateRange(windowStart, windowEnd)
		cancelled := faker.Float64(0, 1) < cfg.CancelledPct

		invoice := strconv.Itoa(invoiceNo)
		if cancelled {
			invoice = "C" + invoice
		}
		invoiceNo++

		lines := min(faker.Int(1, 6), cfg.Rows-written)
		for i := 0; i < lines; i++ {
			prod := Choose(faker, products)
			row := []string{
				invoice,
				prod.stockCode,
				prod.description,
				strconv.Itoa(faker.Int(1, 48)),
				when.Format("02/01/2006 15:04"),
				strconv.FormatFloat(prod.unitPrice, 'f', 2, 64),
				strconv.Itoa(cust.id),
				cust.country,
			}
			if faker.Float64(0, 1) < cfg.DirtyPct {
				dirtyRow(faker, row)
			}
			if err := w.Write(row); err != nil {
				return fmt.Errorf("failed to write sample row: %w", err)
			}
			written++
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush sample file: %w", err)
	}

	logging.Info().
		Str("path", path).
		Int("rows", written).
		Int("products", numProducts).
		Int("customers", numCustomers).
		Msg("Wrote sample source file")

	return nil
}

// dirtyRow breaks one field in place, mimicking the defects the cleaner
// has to survive in the real export.
func dirtyRow(faker *Faker, row []string) {
	switch faker.Int(0, 3) {
	case 0:
		row[6] = "" // missing customer identifier
	case 1:
		row[3] = "n/a" // malformed quantity
	case 2:
		row[3] = strconv.Itoa(-faker.Int(1, 12)) // negative quantity
	case 3:
		row[4] = "not a date"
	}
}
