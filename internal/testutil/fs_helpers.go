// Package testutil provides filesystem helpers for moquilint tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile writes content under dir, creating parent directories as needed,
// and returns the full path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

// WriteTree materializes a file tree in a fresh temp directory and returns
// its root. Cleanup is handled via t.Cleanup through t.TempDir.
func WriteTree(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for name, content := range files {
		WriteFile(t, root, name, content)
	}
	return root
}
