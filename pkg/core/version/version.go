// ============================================================================
// transync - Translation File Synchronization
// ============================================================================
//
// Package:     version
// Description: Version information for the transync binary
// Author:      Mike Stoffels
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package version

import (
	"fmt"
	"runtime"
)

// Version constants
const (
	// Tool version
	Tool = "1.0.0"

	// DocumentFormat is the translation file format revision the tool writes
	DocumentFormat = "1"

	// HistorySchema is the run history database schema revision
	HistorySchema = 1
)

// Set at build time via -ldflags "-X github.com/msto63/transync/pkg/core/version.Commit=..."
var (
	Commit    = "unknown"
	BuildDate = "unknown"
)

// Info returns the one-line version string printed by `transync version`
func Info() string {
	return fmt.Sprintf("transync %s (commit %s, built %s, %s %s/%s)",
		Tool, Commit, BuildDate, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
