// Package log provides structured logging for transync.
//
// Package: log
// Title: Structured Logging Framework
// Description: Structured logger with persistent context fields, level
//              filtering, JSON/text/console/logfmt output and integration with
//              the coded error package. Loggers are immutable: every With*
//              method returns a configured copy.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-18
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with structured logging and error integration
// - 2026-10-18 v0.2.0: Run correlation IDs, deterministic text output
//
// Usage:
//
//	import mdwlog "github.com/msto63/transync/foundation/core/log"
//
//	logger := mdwlog.New().
//		WithLevel(mdwlog.LevelInfo).
//		WithFormat(mdwlog.FormatText).
//		WithRunID(runID)
//
//	logger.Info("entries created", mdwlog.Fields{"new_entries": 3})
//
//	timer := logger.StartTimer("sync")
//	// ... merge and write
//	timer.Stop()
//
//	logger.LogError(err) // level follows the error severity
package log
