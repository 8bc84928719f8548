package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFile(t *testing.T) {
	path := WriteFile(t, "guild.yaml", "roles: {}\n")
	if filepath.Base(path) != "guild.yaml" {
		t.Errorf("unexpected file name %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read written file: %v", err)
	}
	if string(data) != "roles: {}\n" {
		t.Errorf("unexpected content %q", data)
	}
}

func TestLogger(t *testing.T) {
	if Logger() == nil {
		t.Fatal("Logger returned nil")
	}
}
