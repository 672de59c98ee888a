// File: error_test.go
// Title: Error Module Tests
// Description: Tests for error creation, wrapping, codes, severity and metadata.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-18
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with comprehensive test coverage
// - 2026-10-18 v0.2.0: Chain-aware HasCode/GetCode, exit code mapping

package error

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	msg := "test error message"
	err := New(msg)

	if err == nil {
		t.Fatal("New() returned nil")
	}

	if err.Error() != msg {
		t.Errorf("Error() = %q, want %q", err.Error(), msg)
	}

	if err.Code() != CodeUnknown {
		t.Errorf("Code() = %v, want %v", err.Code(), CodeUnknown)
	}

	if err.Severity() != SeverityMedium {
		t.Errorf("Severity() = %v, want %v", err.Severity(), SeverityMedium)
	}

	if err.Timestamp().IsZero() {
		t.Error("Timestamp() should not be zero")
	}

	if len(err.StackTrace()) == 0 {
		t.Error("StackTrace() should not be empty")
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		message string
		wantNil bool
		wantMsg string
	}{
		{
			name:    "wrap nil error",
			err:     nil,
			message: "context",
			wantNil: true,
		},
		{
			name:    "wrap standard error",
			err:     errors.New("disk full"),
			message: "write translations",
			wantMsg: "write translations: disk full",
		},
		{
			name:    "wrap coded error",
			err:     New("bad root").WithCode(CodeParse),
			message: "load document",
			wantMsg: "load document: bad root",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Wrap(tt.err, tt.message)
			if tt.wantNil {
				if got != nil {
					t.Errorf("Wrap() = %v, want nil", got)
				}
				return
			}
			if got.Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got.Error(), tt.wantMsg)
			}
			if !errors.Is(got, tt.err) {
				t.Error("errors.Is() should find the wrapped cause")
			}
		})
	}
}

func TestWrap_InheritsCodeAndDetails(t *testing.T) {
	inner := New("unexpected root element").
		WithCode(CodeParse).
		WithDetail("element", "resources")

	outer := Wrap(inner, "load translations.xml")

	if outer.Code() != CodeParse {
		t.Errorf("Code() = %v, want %v", outer.Code(), CodeParse)
	}
	if outer.Severity() != SeverityHigh {
		t.Errorf("Severity() = %v, want %v", outer.Severity(), SeverityHigh)
	}
	if v, ok := outer.Detail("element"); !ok || v != "resources" {
		t.Errorf("Detail(element) = %v, %v, want resources, true", v, ok)
	}
	if outer.RootCause() != inner {
		t.Error("RootCause() should return the innermost error")
	}
}

func TestHasCode_WalksChain(t *testing.T) {
	base := New("no document loaded").WithCode(CodeInvalidState)
	wrapped := fmt.Errorf("sync: %w", base)

	if !HasCode(wrapped, CodeInvalidState) {
		t.Error("HasCode() should find code through fmt.Errorf wrapping")
	}
	if HasCode(wrapped, CodeParse) {
		t.Error("HasCode() reported a code that is not in the chain")
	}
	if HasCode(errors.New("plain"), CodeUnknown) {
		t.Error("HasCode() should be false for plain errors")
	}
	if GetCode(wrapped) != CodeInvalidState {
		t.Errorf("GetCode() = %v, want %v", GetCode(wrapped), CodeInvalidState)
	}
	if GetCode(errors.New("plain")) != CodeUnknown {
		t.Error("GetCode() of a plain error should be CodeUnknown")
	}
	if GetSeverity(wrapped) != SeverityCritical {
		t.Errorf("GetSeverity() = %v, want %v", GetSeverity(wrapped), SeverityCritical)
	}
}

func TestWithSeverity_NotOverriddenByCode(t *testing.T) {
	err := New("x").WithSeverity(SeverityLow).WithCode(CodeIO)
	if err.Severity() != SeverityLow {
		t.Errorf("Severity() = %v, want %v", err.Severity(), SeverityLow)
	}
}

func TestCode_Classification(t *testing.T) {
	tests := []struct {
		code     Code
		valid    bool
		category string
		exit     int
	}{
		{CodeParse, true, "document", 1},
		{CodeInvalidState, true, "document", 1},
		{CodeIO, true, "storage", 1},
		{CodeDatabaseError, true, "storage", 1},
		{CodeInvalidConfig, true, "configuration", 2},
		{CodeInvalidPattern, true, "configuration", 2},
		{CodeInvalidInput, true, "generic", 2},
		{Code("SOMETHING_ELSE"), false, "generic", 1},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := tt.code.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
			if got := tt.code.Category(); got != tt.category {
				t.Errorf("Category() = %v, want %v", got, tt.category)
			}
			if got := tt.code.ExitCode(); got != tt.exit {
				t.Errorf("ExitCode() = %v, want %v", got, tt.exit)
			}
		})
	}
}

func TestSeverity_String(t *testing.T) {
	tests := []struct {
		severity Severity
		want     string
	}{
		{SeverityLow, "low"},
		{SeverityMedium, "medium"},
		{SeverityHigh, "high"},
		{SeverityCritical, "critical"},
		{Severity(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.severity.String(); got != tt.want {
			t.Errorf("Severity(%d).String() = %v, want %v", tt.severity, got, tt.want)
		}
	}
	if SeverityMedium.ShouldAlert() {
		t.Error("SeverityMedium should not alert")
	}
	if !SeverityHigh.ShouldAlert() {
		t.Error("SeverityHigh should alert")
	}
}

func TestError_StringAndJSON(t *testing.T) {
	err := New("malformed structure").
		WithCode(CodeParse).
		WithOperation("document.Load").
		WithDetail("line", 7).
		WithDetail("kind", "malformed")

	s := err.String()
	for _, want := range []string{"Error: malformed structure", "Code: PARSE_ERROR", "Operation: document.Load", "Details: {kind=malformed, line=7}"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, missing %q", s, want)
		}
	}

	data, jerr := json.Marshal(err)
	if jerr != nil {
		t.Fatalf("json.Marshal() error = %v", jerr)
	}
	var decoded map[string]interface{}
	if jerr := json.Unmarshal(data, &decoded); jerr != nil {
		t.Fatalf("json.Unmarshal() error = %v", jerr)
	}
	if decoded["code"] != "PARSE_ERROR" {
		t.Errorf("code = %v, want PARSE_ERROR", decoded["code"])
	}
	if decoded["operation"] != "document.Load" {
		t.Errorf("operation = %v, want document.Load", decoded["operation"])
	}
}
