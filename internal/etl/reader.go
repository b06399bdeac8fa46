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
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/retaildata/retail-etl/internal/logging"
)

// ReadSource loads the raw export at path into memory, one RawRecord per
// row. The format is picked by extension: .xlsx is read as a workbook,
// anything else as CSV. No validation happens here; cells pass through as
// text exactly as the source presents them.
func ReadSource(path string) ([]RawRecord, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, &SourceNotFoundError{Path: path}
	}

	var (
		records []RawRecord
		err     error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		records, err = readWorkbook(path)
	default:
		records, err = readCSV(path)
	}
	if err != nil {
		return nil, err
	}

	logging.Info().
		Str("source", path).
		Int("rows", len(records)).
		Msg("Read source file")

	return records, nil
}

func readCSV(path string) ([]RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open source: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // ragged rows are the cleaner's problem

	header, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	var records []RawRecord
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read source row: %w", err)
		}
		records = append(records, rowToRecord(header, row))
	}
	return records, nil
}

func readWorkbook(path string) ([]RawRecord, error) {
	wb, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}

	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := rows[0]
	records := make([]RawRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		records = append(records, rowToRecord(header, row))
	}
	return records, nil
}

func rowToRecord(header, row []string) RawRecord {
	rec := make(RawRecord, len(header))
	for i, col := range header {
		if i < len(row) {
			rec[col] = row[i]
		} else {
			rec[col] = ""
		}
	}
	return rec
}
