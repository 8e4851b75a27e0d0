package logging

import (
	"log/slog"
	"testing"

	"github.com/nerrad567/gray-logic-node/internal/infrastructure/config"
)

func TestNew(t *testing.T) {
	cfg := config.LoggingConfig{
		Level:  "info",
		Format: "json",
		Output: "stdout",
	}

	log := New(cfg, "test")
	if log == nil {
		t.Fatal("New() returned nil")
	}
}

func TestNew_TextFormat(t *testing.T) {
	cfg := config.LoggingConfig{
		Level:  "debug",
		Format: "text",
		Output: "stderr",
	}

	log := New(cfg, "test")
	if log == nil {
		t.Fatal("New() returned nil")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestWith(t *testing.T) {
	log := Default()

	child := log.With("component", "test")
	if child == nil {
		t.Fatal("With() returned nil")
	}

	// Parent must be unchanged (With returns a new logger)
	if child == log {
		t.Error("With() returned the same logger instance")
	}
}

func TestDefault(t *testing.T) {
	log := Default()
	if log == nil {
		t.Fatal("Default() returned nil")
	}
}
