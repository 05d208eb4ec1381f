package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDiscoverDatabase_EnvOverride(t *testing.T) {
	t.Setenv("PLANLINT_DB_PATH", ":memory:")

	path, err := DiscoverDatabase()
	if err != nil {
		t.Fatalf("DiscoverDatabase failed: %v", err)
	}
	if path != ":memory:" {
		t.Errorf("Expected env value to pass through, got %q", path)
	}
}

func TestDiscoverDatabaseInDir_FindsDatabase(t *testing.T) {
	dir := t.TempDir()
	planlintDir := filepath.Join(dir, ".planlint")
	if err := os.MkdirAll(planlintDir, 0755); err != nil {
		t.Fatalf("Failed to create .planlint dir: %v", err)
	}
	dbPath := filepath.Join(planlintDir, "planlint.db")
	if err := os.WriteFile(dbPath, []byte{}, 0644); err != nil {
		t.Fatalf("Failed to create database file: %v", err)
	}

	found, err := discoverDatabaseInDir(dir)
	if err != nil {
		t.Fatalf("discoverDatabaseInDir failed: %v", err)
	}
	if !strings.HasSuffix(found, filepath.Join(".planlint", "planlint.db")) {
		t.Errorf("Expected discovered path to end in .planlint/planlint.db, got %q", found)
	}
	if !filepath.IsAbs(found) {
		t.Errorf("Expected absolute path, got %q", found)
	}
}

func TestDiscoverDatabaseInDir_IgnoresNonDatabaseFiles(t *testing.T) {
	dir := t.TempDir()
	planlintDir := filepath.Join(dir, ".planlint")
	if err := os.MkdirAll(planlintDir, 0755); err != nil {
		t.Fatalf("Failed to create .planlint dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(planlintDir, "config.yaml"), []byte("{}"), 0644); err != nil {
		t.Fatalf("Failed to create config file: %v", err)
	}

	_, err := discoverDatabaseInDir(dir)
	if err == nil {
		t.Fatal("Expected error when .planlint holds no database")
	}
	if !strings.Contains(err.Error(), "no .planlint/*.db found") {
		t.Errorf("Unexpected error message: %v", err)
	}
}

func TestDiscoverDatabaseInDir_MissingDirectory(t *testing.T) {
	_, err := discoverDatabaseInDir(t.TempDir())
	if err == nil {
		t.Fatal("Expected error for directory without .planlint")
	}
}
