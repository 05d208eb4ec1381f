package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Database.Path != DefaultDatabasePath() {
		t.Errorf("expected default database path %s, got %s", DefaultDatabasePath(), cfg.Database.Path)
	}
	if cfg.Lint.SimilarityThreshold != 0.8 {
		t.Errorf("expected default similarity threshold 0.8, got %g", cfg.Lint.SimilarityThreshold)
	}
	if cfg.History.KeepPerPlan != 50 {
		t.Errorf("expected default keep_per_plan 50, got %d", cfg.History.KeepPerPlan)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Errorf("expected info/text logging defaults, got %s/%s", cfg.Log.Level, cfg.Log.Format)
	}
	if cfg.Watch.Interval != 2*time.Second {
		t.Errorf("expected default watch interval 2s, got %s", cfg.Watch.Interval)
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	doc := `
database:
  path: /tmp/custom.db
lint:
  deny_terms: ["someday", "eventually"]
  similarity_threshold: 0.6
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Database.Path != "/tmp/custom.db" {
		t.Errorf("expected file database path, got %s", cfg.Database.Path)
	}
	if !reflect.DeepEqual(cfg.Lint.DenyTerms, []string{"someday", "eventually"}) {
		t.Errorf("expected deny terms from file, got %v", cfg.Lint.DenyTerms)
	}
	if cfg.Lint.SimilarityThreshold != 0.6 {
		t.Errorf("expected threshold 0.6, got %g", cfg.Lint.SimilarityThreshold)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected debug level, got %s", cfg.Log.Level)
	}
	// Untouched keys keep their defaults.
	if cfg.Log.Format != "text" {
		t.Errorf("expected default format text, got %s", cfg.Log.Format)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PLANLINT_LOG_LEVEL", "warn")
	t.Setenv("PLANLINT_LINT_SIMILARITY_THRESHOLD", "0.9")
	t.Setenv("PLANLINT_LINT_EXTRA_DENY_TERMS", "soon,eventually")
	t.Setenv("PLANLINT_WATCH_INTERVAL", "5s")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Log.Level != "warn" {
		t.Errorf("expected level warn from env, got %s", cfg.Log.Level)
	}
	if cfg.Lint.SimilarityThreshold != 0.9 {
		t.Errorf("expected threshold 0.9 from env, got %g", cfg.Lint.SimilarityThreshold)
	}
	if !reflect.DeepEqual(cfg.Lint.ExtraDenyTerms, []string{"soon", "eventually"}) {
		t.Errorf("expected extra deny terms from env, got %v", cfg.Lint.ExtraDenyTerms)
	}
	if cfg.Watch.Interval != 5*time.Second {
		t.Errorf("expected watch interval 5s from env, got %s", cfg.Watch.Interval)
	}
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	t.Setenv("PLANLINT_LOG_LEVEL", "error")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Log.Level != "error" {
		t.Errorf("expected env to override file, got %s", cfg.Log.Level)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
	if !strings.Contains(err.Error(), "absent.yaml") {
		t.Errorf("expected path in error, got: %v", err)
	}
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("lint:\n  similarity_threshold: 1.5\n"), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "similarity_threshold") {
		t.Errorf("expected threshold validation error, got: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Database: DatabaseConfig{Path: "x.db"},
			Lint:     LintConfig{SimilarityThreshold: 0.8},
			History:  HistoryConfig{KeepPerPlan: 50},
			Log:      LogConfig{Level: "info", Format: "text"},
			Watch:    WatchConfig{Interval: time.Second},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"empty db path", func(c *Config) { c.Database.Path = "" }, "database.path"},
		{"threshold too high", func(c *Config) { c.Lint.SimilarityThreshold = 1.2 }, "similarity_threshold"},
		{"threshold zero", func(c *Config) { c.Lint.SimilarityThreshold = 0 }, "similarity_threshold"},
		{"negative retention", func(c *Config) { c.History.KeepPerPlan = -1 }, "keep_per_plan"},
		{"huge retention", func(c *Config) { c.History.KeepPerPlan = 50000 }, "keep_per_plan"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"interval too small", func(c *Config) { c.Watch.Interval = time.Millisecond }, "watch.interval"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("expected valid config, got: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got: %v", tt.wantErr, err)
			}
		})
	}
}

func TestLintConfig_Denylist(t *testing.T) {
	// Empty config falls back to the built-in list.
	var lint LintConfig
	if len(lint.Denylist()) == 0 {
		t.Error("expected built-in denylist when nothing configured")
	}

	// deny_terms replaces, extra_deny_terms appends, repeats collapse.
	lint = LintConfig{
		DenyTerms:      []string{"someday", "eventually"},
		ExtraDenyTerms: []string{"Someday", "maybe", ""},
	}
	got := lint.Denylist()
	want := []string{"someday", "eventually", "maybe"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}
