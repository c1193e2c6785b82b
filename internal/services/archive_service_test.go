package services

import (
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
)

func TestStaleExportKeys(t *testing.T) {
	cutoff := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	objects := []minio.ObjectInfo{
		{Key: "exports/2026-06-01_aaaa.csv", LastModified: cutoff.Add(-time.Hour)},
		{Key: "exports/2026-08-15_bbbb.csv", LastModified: cutoff.Add(time.Hour)},
		{Key: "exports/unknown.csv"},
	}

	keys := staleExportKeys(objects, cutoff)
	if len(keys) != 1 {
		t.Fatalf("stale keys = %v, want exactly the expired object", keys)
	}
	if keys[0] != "exports/2026-06-01_aaaa.csv" {
		t.Errorf("stale key = %q, want the expired object", keys[0])
	}
}

func TestStaleExportKeysKeepsEverythingAtBoundary(t *testing.T) {
	cutoff := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	objects := []minio.ObjectInfo{
		{Key: "exports/at-cutoff.csv", LastModified: cutoff},
	}

	if keys := staleExportKeys(objects, cutoff); len(keys) != 0 {
		t.Errorf("stale keys = %v, want none at the cutoff boundary", keys)
	}
}
