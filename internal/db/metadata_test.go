package db_test

import (
	"context"
	"database/sql"
	"strconv"
	"testing"

	"github.com/retaildata/retail-etl/internal/db"
	"github.com/retaildata/retail-etl/internal/testutil"
)

func TestSaveAndGetMetadata(t *testing.T) {
	handle := testutil.OpenTestStore(t)
	ctx := context.Background()

	if err := db.SaveMetadata(ctx, handle, "online_retail.csv", 4223); err != nil {
		t.Fatalf("SaveMetadata failed: %v", err)
	}

	source, err := db.GetMetadataValue(ctx, handle, "source")
	if err != nil {
		t.Fatalf("GetMetadataValue failed: %v", err)
	}
	if source != "online_retail.csv" {
		t.Errorf("Expected source 'online_retail.csv', got %q", source)
	}

	items, err := db.GetMetadataValue(ctx, handle, "line_items")
	if err != nil {
		t.Fatalf("GetMetadataValue failed: %v", err)
	}
	if n, _ := strconv.ParseInt(items, 10, 64); n != 4223 {
		t.Errorf("Expected line_items 4223, got %q", items)
	}
}

func TestSaveMetadataOverwrites(t *testing.T) {
	handle := testutil.OpenTestStore(t)
	ctx := context.Background()

	if err := db.SaveMetadata(ctx, handle, "first.csv", 10); err != nil {
		t.Fatalf("SaveMetadata failed: %v", err)
	}
	if err := db.SaveMetadata(ctx, handle, "second.csv", 20); err != nil {
		t.Fatalf("SaveMetadata failed: %v", err)
	}

	source, err := db.GetMetadataValue(ctx, handle, "source")
	if err != nil {
		t.Fatalf("GetMetadataValue failed: %v", err)
	}
	if source != "second.csv" {
		t.Errorf("Expected source 'second.csv', got %q", source)
	}
}

func TestGetMetadataValueMissing(t *testing.T) {
	handle := testutil.OpenTestStore(t)
	ctx := context.Background()

	if err := db.SaveMetadata(ctx, handle, "x.csv", 1); err != nil {
		t.Fatalf("SaveMetadata failed: %v", err)
	}

	_, err := db.GetMetadataValue(ctx, handle, "no-such-key")
	if err != sql.ErrNoRows {
		t.Errorf("Expected sql.ErrNoRows, got %v", err)
	}
}

func TestGetAllMetadata(t *testing.T) {
	handle := testutil.OpenTestStore(t)
	ctx := context.Background()

	if err := db.SaveMetadata(ctx, handle, "x.csv", 7); err != nil {
		t.Fatalf("SaveMetadata failed: %v", err)
	}

	all, err := db.GetAllMetadata(ctx, handle)
	if err != nil {
		t.Fatalf("GetAllMetadata failed: %v", err)
	}

	for _, key := range []string{"source", "version", "loaded_at", "line_items"} {
		if all[key] == "" {
			t.Errorf("Expected metadata key %q to be set", key)
		}
	}
}

func TestMetadataExists(t *testing.T) {
	handle := testutil.OpenTestStore(t)
	ctx := context.Background()

	exists, err := db.MetadataExists(ctx, handle)
	if err != nil {
		t.Fatalf("MetadataExists failed: %v", err)
	}
	if exists {
		t.Error("Expected no metadata table in a fresh store")
	}

	if err := db.SaveMetadata(ctx, handle, "x.csv", 1); err != nil {
		t.Fatalf("SaveMetadata failed: %v", err)
	}

	exists, err = db.MetadataExists(ctx, handle)
	if err != nil {
		t.Fatalf("MetadataExists failed: %v", err)
	}
	if !exists {
		t.Error("Expected metadata table after SaveMetadata")
	}
}

func TestDropMetadata(t *testing.T) {
	handle := testutil.OpenTestStore(t)
	ctx := context.Background()

	if err := db.SaveMetadata(ctx, handle, "x.csv", 1); err != nil {
		t.Fatalf("SaveMetadata failed: %v", err)
	}
	if err := db.DropMetadata(ctx, handle); err != nil {
		t.Fatalf("DropMetadata failed: %v", err)
	}

	exists, err := db.MetadataExists(ctx, handle)
	if err != nil {
		t.Fatalf("MetadataExists failed: %v", err)
	}
	if exists {
		t.Error("Expected metadata table to be gone after DropMetadata")
	}
}

func TestOpenCreatesParentDirectory(t *testing.T) {
	path := t.TempDir() + "/nested/dir/store.db"

	handle, err := db.Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer handle.Close()

	if err := handle.Ping(); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}

func TestExists(t *testing.T) {
	dir := t.TempDir()

	if db.Exists(dir + "/missing.db") {
		t.Error("Expected Exists to be false for a missing file")
	}

	path := dir + "/store.db"
	handle, err := db.Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := handle.Exec("CREATE TABLE t (x INTEGER)"); err != nil {
		t.Fatalf("Exec failed: %v", err)
	}
	handle.Close()

	if !db.Exists(path) {
		t.Error("Expected Exists to be true for a populated store")
	}
}
