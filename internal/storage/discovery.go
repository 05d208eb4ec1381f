package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DiscoverDatabase looks for .planlint/*.db in the current directory only,
// never in parents, so running planlint inside a nested project cannot pick
// up an outer project's database by accident.
//
// The PLANLINT_DB_PATH environment variable short-circuits discovery, which
// also gives tests a way to isolate themselves. Special values like
// ":memory:" pass through untouched.
func DiscoverDatabase() (string, error) {
	if dbPath := os.Getenv("PLANLINT_DB_PATH"); dbPath != "" {
		return dbPath, nil
	}

	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}
	return discoverDatabaseInDir(dir)
}

func discoverDatabaseInDir(dir string) (string, error) {
	planlintDir := filepath.Join(dir, ".planlint")

	if info, err := os.Stat(planlintDir); err == nil && info.IsDir() {
		entries, err := os.ReadDir(planlintDir)
		if err == nil {
			for _, entry := range entries {
				if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".db") {
					dbPath := filepath.Join(planlintDir, entry.Name())
					absPath, err := filepath.Abs(dbPath)
					if err != nil {
						return "", fmt.Errorf("failed to get absolute path: %w", err)
					}
					return absPath, nil
				}
			}
		}
	}

	return "", fmt.Errorf(
		"no .planlint/*.db found in %s\n"+
			"  Store a plan first ('planlint check --store <file>')\n"+
			"  Or use --db to point at the database explicitly",
		dir)
}
