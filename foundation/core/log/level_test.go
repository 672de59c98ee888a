// File: level_test.go
// Title: Log Level Tests
// Description: Tests for level names, filtering and parsing.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-18
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with comprehensive level tests
// - 2026-10-18 v0.2.0: Text marshaling tests

package log

import (
	"testing"
)

func TestLevelString(t *testing.T) {
	tests := []struct {
		level     Level
		wantLong  string
		wantShort string
	}{
		{LevelTrace, "trace", "TRC"},
		{LevelDebug, "debug", "DBG"},
		{LevelInfo, "info", "INF"},
		{LevelWarn, "warn", "WRN"},
		{LevelError, "error", "ERR"},
		{LevelFatal, "fatal", "FTL"},
		{LevelAudit, "audit", "AUD"},
		{Level(99), "unknown", "???"},
	}

	for _, tt := range tests {
		t.Run(tt.wantLong, func(t *testing.T) {
			if got := tt.level.String(); got != tt.wantLong {
				t.Errorf("String() = %v, want %v", got, tt.wantLong)
			}
			if got := tt.level.ShortString(); got != tt.wantShort {
				t.Errorf("ShortString() = %v, want %v", got, tt.wantShort)
			}
		})
	}
}

func TestLevelShouldLog(t *testing.T) {
	tests := []struct {
		level    Level
		minLevel Level
		want     bool
	}{
		{LevelDebug, LevelInfo, false},
		{LevelInfo, LevelInfo, true},
		{LevelError, LevelWarn, true},
		{LevelAudit, LevelFatal, true},
		{LevelTrace, LevelTrace, true},
	}

	for _, tt := range tests {
		if got := tt.level.ShouldLog(tt.minLevel); got != tt.want {
			t.Errorf("%v.ShouldLog(%v) = %v, want %v", tt.level, tt.minLevel, got, tt.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    Level
		wantErr bool
	}{
		{"trace", LevelTrace, false},
		{"DBG", LevelDebug, false},
		{" info ", LevelInfo, false},
		{"information", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"Error", LevelError, false},
		{"aud", LevelAudit, false},
		{"verbose", LevelInfo, true},
		{"", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseError(t *testing.T) {
	_, err := ParseLevel("loud")
	if err == nil {
		t.Fatal("ParseLevel() should fail")
	}
	if err.Error() != "invalid level: loud" {
		t.Errorf("Error() = %q, want %q", err.Error(), "invalid level: loud")
	}
}

func TestLevelTextMarshaling(t *testing.T) {
	text, err := LevelWarn.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText() error = %v", err)
	}
	if string(text) != "warn" {
		t.Errorf("MarshalText() = %s, want warn", text)
	}

	var l Level
	if err := l.UnmarshalText([]byte("debug")); err != nil {
		t.Fatalf("UnmarshalText() error = %v", err)
	}
	if l != LevelDebug {
		t.Errorf("UnmarshalText() = %v, want %v", l, LevelDebug)
	}
	if err := l.UnmarshalText([]byte("nope")); err == nil {
		t.Error("UnmarshalText() should reject unknown levels")
	}
}

func TestAllLevelsOrdered(t *testing.T) {
	levels := AllLevels()
	for i := 1; i < len(levels); i++ {
		if levels[i] <= levels[i-1] {
			t.Errorf("AllLevels()[%d] = %v is not above %v", i, levels[i], levels[i-1])
		}
	}
}
