package datagen

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/retaildata/retail-etl/internal/etl"
)

func TestWriteSampleSourceRowCount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.csv")

	cfg := SampleConfig{Rows: 200, Seed: 42}
	if err := WriteSampleSource(path, cfg); err != nil {
		t.Fatalf("WriteSampleSource failed: %v", err)
	}

	raws, err := etl.ReadSource(path)
	if err != nil {
		t.Fatalf("ReadSource failed: %v", err)
	}
	if len(raws) != 200 {
		t.Errorf("Expected 200 data rows, got %d", len(raws))
	}
}

func TestWriteSampleSourceReproducible(t *testing.T) {
	dir := t.TempDir()
	pathA := filepath.Join(dir, "a.csv")
	pathB := filepath.Join(dir, "b.csv")

	cfg := SampleConfig{Rows: 100, Seed: 7, CancelledPct: 0.1, DirtyPct: 0.1}
	if err := WriteSampleSource(pathA, cfg); err != nil {
		t.Fatalf("WriteSampleSource failed: %v", err)
	}
	if err := WriteSampleSource(pathB, cfg); err != nil {
		t.Fatalf("WriteSampleSource failed: %v", err)
	}

	a, err := os.ReadFile(pathA)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", pathA, err)
	}
	b, err := os.ReadFile(pathB)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", pathB, err)
	}
	if string(a) != string(b) {
		t.Error("Expected identical files for the same seed")
	}
}

func TestWriteSampleSourceDifferentSeeds(t *testing.T) {
	dir := t.TempDir()
	pathA := filepath.Join(dir, "a.csv")
	pathB := filepath.Join(dir, "b.csv")

	if err := WriteSampleSource(pathA, SampleConfig{Rows: 100, Seed: 1}); err != nil {
		t.Fatalf("WriteSampleSource failed: %v", err)
	}
	if err := WriteSampleSource(pathB, SampleConfig{Rows: 100, Seed: 2}); err != nil {
		t.Fatalf("WriteSampleSource failed: %v", err)
	}

	a, _ := os.ReadFile(pathA)
	b, _ := os.ReadFile(pathB)
	if string(a) == string(b) {
		t.Error("Expected different files for different seeds")
	}
}

func TestSampleSourceSurvivesCleaning(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.csv")

	cfg := SampleConfig{Rows: 500, Seed: 99, CancelledPct: 0.1, DirtyPct: 0.1}
	if err := WriteSampleSource(path, cfg); err != nil {
		t.Fatalf("WriteSampleSource failed: %v", err)
	}

	raws, err := etl.ReadSource(path)
	if err != nil {
		t.Fatalf("ReadSource failed: %v", err)
	}

	records := etl.Clean(raws)
	if len(records) == 0 {
		t.Fatal("Expected some rows to survive cleaning")
	}
	if len(records) >= len(raws) {
		t.Errorf("Expected cancelled and dirty rows to be dropped, kept %d of %d",
			len(records), len(raws))
	}

	for _, rec := range records {
		if strings.HasPrefix(rec.InvoiceNo, "C") {
			t.Errorf("Cancelled invoice %s survived cleaning", rec.InvoiceNo)
		}
		if rec.Quantity <= 0 {
			t.Errorf("Non-positive quantity %d survived cleaning", rec.Quantity)
		}
		if rec.CustomerID == 0 {
			t.Error("Row without customer identifier survived cleaning")
		}
		if rec.InvoiceDate.IsZero() {
			t.Error("Row with unparsed date survived cleaning")
		}
	}
}

func TestSampleSourceCleanFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.csv")

	if err := WriteSampleSource(path, SampleConfig{Rows: 50, Seed: 3}); err != nil {
		t.Fatalf("WriteSampleSource failed: %v", err)
	}

	raws, err := etl.ReadSource(path)
	if err != nil {
		t.Fatalf("ReadSource failed: %v", err)
	}

	// No cancellations or defects requested: every row must clean through
	records := etl.Clean(raws)
	if len(records) != len(raws) {
		t.Fatalf("Expected all %d rows to survive, got %d", len(raws), len(records))
	}

	for _, rec := range records {
		if rec.StockCode == "" || rec.Country == "" {
			t.Errorf("Record has empty dimension fields: %+v", rec)
		}
		if rec.UnitPrice <= 0 {
			t.Errorf("Expected positive unit price, got %v", rec.UnitPrice)
		}
		if rec.InvoiceDate.Year() < 2010 || rec.InvoiceDate.Year() > 2011 {
			t.Errorf("Invoice date %v outside generation window", rec.InvoiceDate)
		}
	}
}
