// ============================================================================
// transync - Translation File Synchronization
// ============================================================================
//
// Package:     logging
// Description: Factory functions for creating loggers from configuration
// Author:      Mike Stoffels
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package logging

import (
	"io"
	"os"
	"path/filepath"

	mdwerror "github.com/msto63/transync/foundation/core/error"
	mdwlog "github.com/msto63/transync/foundation/core/log"
)

// LoggerConfig holds configuration for creating loggers
type LoggerConfig struct {
	// Logger name, written as the "logger" field
	Name string

	// Log level (trace, debug, info, warn, error)
	Level string

	// Output format: json, text, console or logfmt (default: console)
	Format string

	// Optional log file; entries are appended in JSON regardless of Format
	File string

	// Primary output (default: stderr)
	Output io.Writer
}

// DefaultLoggerConfig returns a default configuration
func DefaultLoggerConfig(name string) LoggerConfig {
	return LoggerConfig{
		Name:   name,
		Level:  "info",
		Format: "console",
	}
}

// NewLogger creates a logger from cfg. When cfg.File is set the returned
// logger owns the file and Close releases it.
func NewLogger(cfg LoggerConfig) (*Logger, error) {
	level, err := mdwlog.ParseLevel(orDefault(cfg.Level, "info"))
	if err != nil {
		return nil, mdwerror.Wrap(err, "invalid log level").
			WithCode(mdwerror.CodeInvalidConfig).
			WithDetail("level", cfg.Level)
	}
	format, err := mdwlog.ParseFormat(orDefault(cfg.Format, "console"))
	if err != nil {
		return nil, mdwerror.Wrap(err, "invalid log format").
			WithCode(mdwerror.CodeInvalidConfig).
			WithDetail("format", cfg.Format)
	}

	var output io.Writer = os.Stderr
	if cfg.Output != nil {
		output = cfg.Output
	}

	logger := &Logger{
		Logger: mdwlog.NewWithConfig(mdwlog.Config{
			Level:  level,
			Format: format,
			Output: output,
			Name:   cfg.Name,
		}),
		name: cfg.Name,
	}

	if cfg.File == "" {
		return logger, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return nil, mdwerror.Wrap(err, "create log directory").WithCode(mdwerror.CodeIO)
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, mdwerror.Wrap(err, "open log file").
			WithCode(mdwerror.CodeIO).
			WithDetail("path", cfg.File)
	}

	logger.file = mdwlog.NewWithConfig(mdwlog.Config{
		Level:  level,
		Format: mdwlog.FormatJSON,
		Output: f,
		Name:   cfg.Name,
	})
	logger.closer = f
	return logger, nil
}

// New creates a console logger at info level on stderr
func New(name string) *Logger {
	logger, err := NewLogger(DefaultLoggerConfig(name))
	if err != nil {
		return Nop()
	}
	return logger
}

// Nop returns a logger that discards everything
func Nop() *Logger {
	return &Logger{Logger: mdwlog.Discard()}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
