package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	mdwerror "github.com/msto63/transync/foundation/core/error"
)

func TestNewLogger_Defaults(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(LoggerConfig{Name: "transync", Format: "text", Output: &buf})
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	defer logger.Close()

	logger.Debug("hidden")
	logger.Info("scan finished", "files", 12, "keys", 40)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug message logged at info level: %q", out)
	}
	if !strings.Contains(out, "{transync} scan finished [files=12 keys=40]") {
		t.Errorf("output = %q, want text line with sorted fields", out)
	}
}

func TestNewLogger_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  LoggerConfig
	}{
		{"bad level", LoggerConfig{Level: "loud"}},
		{"bad format", LoggerConfig{Format: "xml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLogger(tt.cfg)
			if !mdwerror.HasCode(err, mdwerror.CodeInvalidConfig) {
				t.Errorf("NewLogger() error = %v, want %s", err, mdwerror.CodeInvalidConfig)
			}
		})
	}
}

func TestNewLogger_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logs", "transync.log")

	var buf bytes.Buffer
	logger, err := NewLogger(LoggerConfig{Name: "transync", Format: "console", File: path, Output: &buf})
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	logger.WithRunID("run-42").Warn("deprecated entries", "count", 2)
	if err := logger.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	var entry map[string]interface{}
	if err := json.Unmarshal(bytes.TrimSpace(data), &entry); err != nil {
		t.Fatalf("log file should hold JSON, got %q: %v", data, err)
	}
	if entry["run_id"] != "run-42" {
		t.Errorf("run_id = %v, want run-42", entry["run_id"])
	}
	if entry["count"] != float64(2) {
		t.Errorf("count = %v, want 2", entry["count"])
	}
	if !strings.Contains(buf.String(), "deprecated entries") {
		t.Errorf("primary output = %q, missing message", buf.String())
	}
}

func TestNilLoggerIsSilent(t *testing.T) {
	var logger *Logger
	logger.Info("nothing")
	logger.With("k", "v").Error("nothing")
	logger.LogError(mdwerror.New("x"))
	logger.StartTimer("op").Stop()
	if err := logger.Close(); err != nil {
		t.Errorf("Close() on nil = %v", err)
	}
	if logger.Name() != "" {
		t.Errorf("Name() on nil = %q", logger.Name())
	}
}

func TestToFields(t *testing.T) {
	tests := []struct {
		name  string
		input []interface{}
		want  int
	}{
		{"empty", nil, 0},
		{"pairs", []interface{}{"a", 1, "b", 2}, 2},
		{"odd trailing key", []interface{}{"a", 1, "b"}, 1},
		{"non-string key", []interface{}{42, "x", "c", 3}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(toFields(tt.input...)); got != tt.want {
				t.Errorf("len(toFields()) = %v, want %v", got, tt.want)
			}
		})
	}
}
