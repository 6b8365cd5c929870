package metadata

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestGeneratorCreatesMetadata(t *testing.T) {
	dir := t.TempDir()
	gen := NewGenerator(dir, "deliveries")
	df := DataFile{
		Path:        "match_id=1381217/date=2026-08-30/match_1381217_20260830120000.parquet",
		FileSize:    100,
		RecordCount: 12,
		Partition: map[string]any{
			"match_id": "1381217",
			"date":     "2026-08-30",
		},
		Timestamp: time.Unix(0, 0),
	}
	if err := gen.AddFile(df); err != nil {
		t.Fatalf("AddFile: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "metadata", "metadata.json")); err != nil {
		t.Fatalf("metadata not written: %v", err)
	}
	catalogDir := filepath.Join(dir, "catalog")
	if err := gen.WriteCatalogEntry(catalogDir); err != nil {
		t.Fatalf("catalog entry: %v", err)
	}
	if _, err := os.Stat(filepath.Join(catalogDir, "deliveries.json")); err != nil {
		t.Fatalf("catalog entry not written: %v", err)
	}
}
