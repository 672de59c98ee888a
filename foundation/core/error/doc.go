// Package error provides the coded error type used across transync.
//
// Package: error
// Title: transync Error Handling
// Description: Structured errors carrying a code, a severity, the failing operation and
//              free-form details. The synchronization engine, the document loader and the
//              CLI classify failures through the codes defined here (for example a
//              ParseError is an Error with CodeParse, an InvalidStateError one with
//              CodeInvalidState).
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-18
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with contextual errors and codes
// - 2026-10-18 v0.2.0: Reduced to the codes of the translation toolchain, errors.As support
//
// Usage:
//
//	err := mdwerror.New("unexpected root element").
//		WithCode(mdwerror.CodeParse).
//		WithOperation("document.Load").
//		WithDetail("element", "resources")
//
//	if mdwerror.HasCode(err, mdwerror.CodeParse) {
//		// abort the run
//	}
package error
