// Package testutil holds helpers shared by tests.
package testutil

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

// Logger returns a logger that drops everything below error level.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

// WriteFile writes content to name inside a fresh temp dir and returns its path.
func WriteFile(t testing.TB, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}
