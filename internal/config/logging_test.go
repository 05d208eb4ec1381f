package config

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestConfigureSlog_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := ConfigureSlog(&buf, LogConfig{Level: "info", Format: "json"})

	logger.Info("plan checked", "plan", "demo", "violations", 2)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "plan checked" {
		t.Errorf("expected msg 'plan checked', got %v", entry["msg"])
	}
	if entry["plan"] != "demo" {
		t.Errorf("expected plan attribute, got %v", entry["plan"])
	}
}

func TestConfigureSlog_TextDefault(t *testing.T) {
	var buf bytes.Buffer
	logger := ConfigureSlog(&buf, LogConfig{Level: "info", Format: ""})

	logger.Info("hello")

	if !strings.Contains(buf.String(), "msg=hello") {
		t.Errorf("expected text handler output, got %q", buf.String())
	}
}

func TestConfigureSlog_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger := ConfigureSlog(&buf, LogConfig{Level: "warn", Format: "text"})

	logger.Info("quiet")
	logger.Warn("loud")

	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Errorf("expected info suppressed at warn level, got %q", out)
	}
	if !strings.Contains(out, "loud") {
		t.Errorf("expected warn line present, got %q", out)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"shouting", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := parseLogLevel(tt.input); got != tt.want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
