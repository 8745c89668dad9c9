// Package testutils provides shared helpers for package tests.
package testutils

import (
	"os"
	"path/filepath"
	"testing"
)

// GenerateData returns deterministic test data of the given size.
func GenerateData(t *testing.T, size int64) []byte {
	t.Helper()
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i % 256)
	}
	return data
}

// WriteTempFile writes data to a file under a per-test temp dir and returns
// its path. The file is removed with the test's temp dir.
func WriteTempFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write temp file %s: %v", name, err)
	}
	return path
}
