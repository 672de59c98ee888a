// ============================================================================
// transync - Translation File Synchronization
// ============================================================================
//
// Package:     logging
// Description: Key-value logger facade over the foundation logger
// Author:      Mike Stoffels
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package logging

import (
	"io"

	mdwlog "github.com/msto63/transync/foundation/core/log"
)

// Logger wraps the foundation logger with key-value methods. A nil *Logger
// is valid and discards everything.
type Logger struct {
	*mdwlog.Logger
	name string

	// Optional JSON copy of every entry
	file   *mdwlog.Logger
	closer io.Closer
}

// Name returns the logger name
func (l *Logger) Name() string {
	if l == nil {
		return ""
	}
	return l.name
}

// With returns a logger that adds the key-value pairs to every entry
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	if l == nil {
		return nil
	}
	fields := toFields(keysAndValues...)
	clone := &Logger{
		Logger: l.Logger.WithFields(fields),
		name:   l.name,
		closer: l.closer,
	}
	if l.file != nil {
		clone.file = l.file.WithFields(fields)
	}
	return clone
}

// WithRunID returns a logger tagging every entry with the run ID
func (l *Logger) WithRunID(runID string) *Logger {
	return l.With(mdwlog.RunIDField, runID)
}

// Debug logs a debug message with key-value pairs
func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.emit(mdwlog.LevelDebug, msg, keysAndValues)
}

// Info logs an info message with key-value pairs
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.emit(mdwlog.LevelInfo, msg, keysAndValues)
}

// Warn logs a warning message with key-value pairs
func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.emit(mdwlog.LevelWarn, msg, keysAndValues)
}

// Error logs an error message with key-value pairs
func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.emit(mdwlog.LevelError, msg, keysAndValues)
}

// LogError logs err at the level matching its severity
func (l *Logger) LogError(err error) {
	if l == nil {
		return
	}
	l.Logger.LogError(err)
	if l.file != nil {
		l.file.LogError(err)
	}
}

// Audit records an always-logged event, used for document writes
func (l *Logger) Audit(msg string, keysAndValues ...interface{}) {
	l.emit(mdwlog.LevelAudit, msg, keysAndValues)
}

// StartTimer starts a timer on the primary output
func (l *Logger) StartTimer(operation string) *mdwlog.Timer {
	if l == nil {
		return mdwlog.NewTimer(nil, operation)
	}
	return l.Logger.StartTimer(operation)
}

// Close releases the log file, if any
func (l *Logger) Close() error {
	if l == nil || l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

func (l *Logger) emit(level mdwlog.Level, msg string, keysAndValues []interface{}) {
	if l == nil {
		return
	}
	fields := toFields(keysAndValues...)
	for _, target := range []*mdwlog.Logger{l.Logger, l.file} {
		if target == nil {
			continue
		}
		switch level {
		case mdwlog.LevelDebug:
			target.Debug(msg, fields)
		case mdwlog.LevelInfo:
			target.Info(msg, fields)
		case mdwlog.LevelWarn:
			target.Warn(msg, fields)
		case mdwlog.LevelAudit:
			target.Audit(msg, fields)
		default:
			target.Error(msg, fields)
		}
	}
}

// toFields converts key-value pairs to mdwlog.Fields. Non-string keys and a
// trailing key without value are dropped.
func toFields(keysAndValues ...interface{}) mdwlog.Fields {
	if len(keysAndValues) == 0 {
		return nil
	}

	fields := make(mdwlog.Fields)
	for i := 0; i < len(keysAndValues)-1; i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields[key] = keysAndValues[i+1]
	}
	return fields
}
