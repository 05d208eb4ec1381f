// Package config loads planlint settings from defaults, an optional YAML
// file, and PLANLINT_-prefixed environment variables, in that order.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/planlint/planlint/internal/planning"
)

// DefaultDirName is the conventional per-project planlint directory.
const DefaultDirName = ".planlint"

// Config is the full planlint configuration.
type Config struct {
	Database DatabaseConfig `koanf:"database"`
	Lint     LintConfig     `koanf:"lint"`
	History  HistoryConfig  `koanf:"history"`
	Log      LogConfig      `koanf:"log"`
	Watch    WatchConfig    `koanf:"watch"`
}

// DatabaseConfig locates the plan store.
type DatabaseConfig struct {
	// Path is the SQLite database file. Relative paths resolve against the
	// working directory.
	Path string `koanf:"path"`
}

// LintConfig tunes the validator.
type LintConfig struct {
	// DenyTerms replaces the built-in subjective-term denylist when set.
	DenyTerms []string `koanf:"deny_terms"`

	// ExtraDenyTerms extends the denylist without replacing it.
	ExtraDenyTerms []string `koanf:"extra_deny_terms"`

	// SimilarityThreshold is the Jaccard score at or above which two stage
	// names warn as near-duplicates. Range: (0, 1].
	SimilarityThreshold float64 `koanf:"similarity_threshold"`
}

// HistoryConfig bounds stored validation runs.
type HistoryConfig struct {
	// KeepPerPlan is the number of runs retained per plan; older runs are
	// pruned when new ones are recorded. 0 means unlimited.
	// Default: 50, Range: 0 or 1-10000
	KeepPerPlan int `koanf:"keep_per_plan"`
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // json, text
}

// WatchConfig controls the file-watch loop.
type WatchConfig struct {
	// Interval is how often watched plan files are polled for changes.
	Interval time.Duration `koanf:"interval"`
}

// DefaultDatabasePath returns the conventional database location.
func DefaultDatabasePath() string {
	return filepath.Join(DefaultDirName, "planlint.db")
}

// DefaultConfigPath returns the conventional config file location.
func DefaultConfigPath() string {
	return filepath.Join(DefaultDirName, "config.yaml")
}

// Load builds the configuration: defaults, then the YAML file at path (or
// the conventional location when path is empty and the file exists), then
// PLANLINT_ environment overrides (PLANLINT_LINT_SIMILARITY_THRESHOLD maps
// to lint.similarity_threshold).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Defaults
	k.Set("database.path", DefaultDatabasePath())
	k.Set("lint.similarity_threshold", 0.8)
	k.Set("history.keep_per_plan", 50)
	k.Set("log.level", "info")
	k.Set("log.format", "text")
	k.Set("watch.interval", "2s")

	if path == "" {
		if _, err := os.Stat(DefaultConfigPath()); err == nil {
			path = DefaultConfigPath()
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// The config tree is two levels deep, so only the first underscore
	// separates section from key: PLANLINT_LINT_DENY_TERMS -> lint.deny_terms.
	if err := k.Load(env.Provider("PLANLINT_", ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, "PLANLINT_"))
		return strings.Replace(key, "_", ".", 1)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment overrides: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configuration has usable values.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path cannot be empty")
	}

	if c.Lint.SimilarityThreshold <= 0 || c.Lint.SimilarityThreshold > 1 {
		return fmt.Errorf("lint.similarity_threshold must be in (0, 1] (got %g)",
			c.Lint.SimilarityThreshold)
	}

	if c.History.KeepPerPlan < 0 {
		return fmt.Errorf("history.keep_per_plan cannot be negative (got %d)",
			c.History.KeepPerPlan)
	}
	if c.History.KeepPerPlan > 10000 {
		return fmt.Errorf("history.keep_per_plan too large (got %d, max 10000)",
			c.History.KeepPerPlan)
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn, or error (got %q)", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json (got %q)", c.Log.Format)
	}

	if c.Watch.Interval < 100*time.Millisecond {
		return fmt.Errorf("watch.interval must be at least 100ms (got %s)", c.Watch.Interval)
	}

	return nil
}

// Denylist assembles the effective subjective-term denylist: the built-in
// list unless deny_terms replaces it, plus any extra_deny_terms, with
// repeats dropped.
func (c *LintConfig) Denylist() []string {
	base := c.DenyTerms
	if len(base) == 0 {
		base = planning.DefaultDenylist()
	}

	seen := make(map[string]bool, len(base)+len(c.ExtraDenyTerms))
	out := make([]string, 0, len(base)+len(c.ExtraDenyTerms))
	for _, term := range append(append([]string{}, base...), c.ExtraDenyTerms...) {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		key := strings.ToLower(term)
		if !seen[key] {
			seen[key] = true
			out = append(out, term)
		}
	}
	return out
}
