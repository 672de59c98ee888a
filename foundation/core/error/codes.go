// File: codes.go
// Title: Error Code Definitions
// Description: Defines the error codes used to classify failures of the translation
//              toolchain. The CLI maps codes to process exit codes.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-18
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with core error codes
// - 2026-10-18 v0.2.0: Parse/state/pattern codes for the synchronization engine

package error

// Code represents a structured error code for categorizing errors
type Code string

const (
	// Generic codes
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL"
	CodeNotFound     Code = "NOT_FOUND"
	CodeInvalidInput Code = "INVALID_INPUT"

	// Document and engine
	CodeParse        Code = "PARSE_ERROR"
	CodeInvalidState Code = "INVALID_STATE"
	CodeIO           Code = "IO_ERROR"

	// Storage
	CodeDatabaseError Code = "DATABASE_ERROR"

	// Configuration and environment
	CodeConfigError    Code = "CONFIG_ERROR"
	CodeMissingConfig  Code = "MISSING_CONFIG"
	CodeInvalidConfig  Code = "INVALID_CONFIG"
	CodeInvalidPattern Code = "INVALID_PATTERN"
)

// String returns the string representation of the error code
func (c Code) String() string {
	return string(c)
}

// IsValid checks if the error code is a known valid code
func (c Code) IsValid() bool {
	switch c {
	case CodeUnknown, CodeInternal, CodeNotFound, CodeInvalidInput,
		CodeParse, CodeInvalidState, CodeIO,
		CodeDatabaseError,
		CodeConfigError, CodeMissingConfig, CodeInvalidConfig, CodeInvalidPattern:
		return true
	default:
		return false
	}
}

// Category returns the high-level category of the error code
func (c Code) Category() string {
	switch c {
	case CodeParse, CodeInvalidState:
		return "document"
	case CodeIO, CodeDatabaseError:
		return "storage"
	case CodeConfigError, CodeMissingConfig, CodeInvalidConfig, CodeInvalidPattern:
		return "configuration"
	default:
		return "generic"
	}
}

// ExitCode returns the process exit code the CLI uses for this error code.
// Usage and configuration problems exit with 2, everything else with 1.
func (c Code) ExitCode() int {
	switch c {
	case CodeConfigError, CodeMissingConfig, CodeInvalidConfig, CodeInvalidPattern, CodeInvalidInput:
		return 2
	default:
		return 1
	}
}
