package testsupport

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// WriteFiller writes size bytes of non-image filler to path and returns it.
// Detection sees plain text, so analysis fails with an unsupported format.
func WriteFiller(t testing.TB, path string, size int64) string {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, bytes.Repeat([]byte{'B'}, int(size)), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
