// File: format_test.go
// Title: Log Format Tests
// Description: Tests for the JSON, text, console and logfmt formatters.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-18
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with formatter tests
// - 2026-10-18 v0.2.0: Field ordering and coded error details

package log

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	mdwerror "github.com/msto63/transync/foundation/core/error"
)

func testEntry() *Entry {
	e := NewEntry(LevelInfo, "entries created")
	e.Timestamp = time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)
	e.Logger = "transync"
	e.Fields = Fields{"new_entries": 3, "context": "/Menu", "file": "app.xml"}
	return e
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{"TEXT", FormatText, false},
		{" console", FormatConsole, false},
		{"logfmt", FormatLogfmt, false},
		{"xml", FormatJSON, true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, want %v", tt.input, got, tt.want)
		}
		if !tt.wantErr && got.String() != strings.ToLower(strings.TrimSpace(tt.input)) {
			t.Errorf("Format.String() = %v, want %v", got.String(), tt.input)
		}
	}
}

func TestJSONFormatter_Format(t *testing.T) {
	e := testEntry()
	e.Duration = 1500 * time.Microsecond

	out, err := NewJSONFormatter().Format(e)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if !strings.HasSuffix(string(out), "\n") {
		t.Error("Format() output should end with a newline")
	}

	var data map[string]interface{}
	if err := json.Unmarshal(out, &data); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}

	checks := map[string]interface{}{
		"level":       "info",
		"message":     "entries created",
		"logger":      "transync",
		"context":     "/Menu",
		"new_entries": float64(3),
		"duration_ms": 1.5,
		"timestamp":   "2026-10-18T09:30:00Z",
	}
	for k, want := range checks {
		if data[k] != want {
			t.Errorf("data[%q] = %v, want %v", k, data[k], want)
		}
	}
}

func TestJSONFormatter_CodedError(t *testing.T) {
	e := testEntry()
	e.Error = mdwerror.New("bad root").WithCode(mdwerror.CodeParse)

	out, err := NewJSONFormatter().Format(e)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	var data map[string]interface{}
	if err := json.Unmarshal(out, &data); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	details, ok := data["error_details"].(map[string]interface{})
	if !ok {
		t.Fatalf("error_details missing in %s", out)
	}
	if details["code"] != "PARSE_ERROR" {
		t.Errorf("error_details.code = %v, want PARSE_ERROR", details["code"])
	}
}

func TestTextFormatter_Format(t *testing.T) {
	f := NewTextFormatter()
	f.DisableTimestamp = true

	out, _ := f.Format(testEntry())
	want := "[INF] {transync} entries created [context=/Menu file=app.xml new_entries=3]\n"
	if string(out) != want {
		t.Errorf("Format() = %q, want %q", out, want)
	}
}

func TestTextFormatter_ErrorAndTimestamp(t *testing.T) {
	e := testEntry()
	e.Fields = nil
	e.Error = errors.New("disk full")

	out, _ := NewTextFormatter().Format(e)
	s := string(out)
	if !strings.HasPrefix(s, "09:30:00 [INF]") {
		t.Errorf("Format() = %q, want timestamp prefix", s)
	}
	if !strings.Contains(s, `error="disk full"`) {
		t.Errorf("Format() = %q, missing error", s)
	}
}

func TestConsoleFormatter_Format(t *testing.T) {
	e := testEntry()
	e.Level = LevelError

	colored, _ := NewConsoleFormatter().Format(e)
	if !strings.HasPrefix(string(colored), LevelError.Color()) {
		t.Errorf("Format() = %q, want color prefix", colored)
	}
	if !strings.HasSuffix(string(colored), colorReset+"\n") {
		t.Errorf("Format() = %q, want reset suffix", colored)
	}

	plain := NewConsoleFormatter()
	plain.DisableColors = true
	out, _ := plain.Format(e)
	if strings.Contains(string(out), "\033[") {
		t.Errorf("Format() = %q, should not contain escape codes", out)
	}
}

func TestLogfmtFormatter_Format(t *testing.T) {
	e := testEntry()
	e.Fields["path"] = "src/main window.go"

	out, _ := NewLogfmtFormatter().Format(e)
	want := `timestamp=2026-10-18T09:30:00Z level=info message="entries created" logger=transync ` +
		`context=/Menu file=app.xml new_entries=3 path="src/main window.go"` + "\n"
	if string(out) != want {
		t.Errorf("Format() = %q, want %q", out, want)
	}
}

func TestGetFormatter(t *testing.T) {
	if _, ok := GetFormatter(FormatText).(*TextFormatter); !ok {
		t.Error("GetFormatter(FormatText) should return *TextFormatter")
	}
	if _, ok := GetFormatter(FormatConsole).(*ConsoleFormatter); !ok {
		t.Error("GetFormatter(FormatConsole) should return *ConsoleFormatter")
	}
	if _, ok := GetFormatter(FormatLogfmt).(*LogfmtFormatter); !ok {
		t.Error("GetFormatter(FormatLogfmt) should return *LogfmtFormatter")
	}
	if _, ok := GetFormatter(Format(42)).(*JSONFormatter); !ok {
		t.Error("GetFormatter(unknown) should fall back to *JSONFormatter")
	}
}
