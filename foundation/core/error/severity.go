// File: severity.go
// Title: Error Severity Levels
// Description: Defines severity levels for errors. The logger picks the log level of
//              an error from its severity.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-18
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with severity levels
// - 2026-10-18 v0.2.0: Severity mapping for the toolchain codes

package error

// Severity represents the severity level of an error
type Severity int

const (
	// SeverityLow indicates a problem with user input that the user can fix directly
	SeverityLow Severity = iota

	// SeverityMedium indicates an error that aborts the current operation
	SeverityMedium

	// SeverityHigh indicates an error that aborts the run, e.g. an unreadable document
	SeverityHigh

	// SeverityCritical indicates a programming error such as using an engine without a document
	SeverityCritical
)

// String returns the string representation of the severity level
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// ShouldAlert returns true if this severity level should be shown prominently
func (s Severity) ShouldAlert() bool {
	return s >= SeverityHigh
}

// GetSeverityFromCode determines appropriate severity level based on error code
func GetSeverityFromCode(code Code) Severity {
	switch code {
	case CodeInvalidState, CodeInternal:
		return SeverityCritical
	case CodeParse, CodeIO, CodeDatabaseError:
		return SeverityHigh
	case CodeInvalidInput, CodeNotFound, CodeInvalidConfig, CodeMissingConfig, CodeInvalidPattern:
		return SeverityLow
	default:
		return SeverityMedium
	}
}
