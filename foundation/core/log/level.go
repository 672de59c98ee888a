// File: level.go
// Title: Log Level Definitions
// Description: Defines log levels for filtering log output, with parsing from
//              configuration strings and text marshaling.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-18
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with standard log levels
// - 2026-10-18 v0.2.0: Table-driven names, TextMarshaler support

package log

import (
	"strings"
)

// Level represents the importance level of a log message
type Level int

const (
	// LevelTrace is the most verbose level (per-key merge decisions)
	LevelTrace Level = iota

	// LevelDebug reports per-file and per-context progress
	LevelDebug

	// LevelInfo is the standard level for run summaries
	LevelInfo

	// LevelWarn indicates findings that do not fail a run
	LevelWarn

	// LevelError represents failed operations
	LevelError

	// LevelFatal represents errors that terminate the process
	LevelFatal

	// LevelAudit records document writes; always logged
	LevelAudit
)

type levelInfo struct {
	name  string
	short string
	color string
}

var levelTable = map[Level]levelInfo{
	LevelTrace: {"trace", "TRC", "\033[37m"},
	LevelDebug: {"debug", "DBG", "\033[36m"},
	LevelInfo:  {"info", "INF", "\033[32m"},
	LevelWarn:  {"warn", "WRN", "\033[33m"},
	LevelError: {"error", "ERR", "\033[31m"},
	LevelFatal: {"fatal", "FTL", "\033[35m"},
	LevelAudit: {"audit", "AUD", "\033[34m"},
}

const colorReset = "\033[0m"

// String returns the string representation of the log level
func (l Level) String() string {
	if info, ok := levelTable[l]; ok {
		return info.name
	}
	return "unknown"
}

// ShortString returns the three-letter representation used by text output
func (l Level) ShortString() string {
	if info, ok := levelTable[l]; ok {
		return info.short
	}
	return "???"
}

// Color returns the ANSI color code for the log level
func (l Level) Color() string {
	if info, ok := levelTable[l]; ok {
		return info.color
	}
	return colorReset
}

// ShouldLog returns true if this level should be logged given the minimum level
func (l Level) ShouldLog(minLevel Level) bool {
	if l == LevelAudit {
		return true
	}
	return l >= minLevel
}

// MarshalText implements encoding.TextMarshaler
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ParseLevel parses a string into a log level. Both the long and the short
// names are accepted, case-insensitively.
func ParseLevel(level string) (Level, error) {
	normalized := strings.ToLower(strings.TrimSpace(level))
	switch normalized {
	case "information":
		return LevelInfo, nil
	case "warning":
		return LevelWarn, nil
	}
	for _, l := range AllLevels() {
		info := levelTable[l]
		if normalized == info.name || normalized == strings.ToLower(info.short) {
			return l, nil
		}
	}
	return LevelInfo, &ParseError{Input: level, Type: "level"}
}

// ParseError represents an error parsing a log configuration value
type ParseError struct {
	Input string
	Type  string
}

func (e *ParseError) Error() string {
	return "invalid " + e.Type + ": " + e.Input
}

// AllLevels returns all available log levels in ascending order
func AllLevels() []Level {
	return []Level{LevelTrace, LevelDebug, LevelInfo, LevelWarn, LevelError, LevelFatal, LevelAudit}
}

// DefaultLevel returns the default log level
func DefaultLevel() Level {
	return LevelInfo
}
