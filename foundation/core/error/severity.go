// File: severity.go
// Title: Error Severity Levels
// Description: Severity levels used to choose log levels for errors.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2025-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with severity levels
// - 2025-10-19 v0.2.0: Defaults for calculator codes

package error

// Severity represents the severity level of an error
type Severity int

const (
	// SeverityLow indicates a user-caused error such as bad input or a domain error
	SeverityLow Severity = iota

	// SeverityMedium indicates an error that affects functionality but has workarounds
	SeverityMedium

	// SeverityHigh indicates a serious error such as a broken history store
	SeverityHigh

	// SeverityCritical indicates the process cannot continue
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

// ShouldAlert returns true if this severity level should trigger alerts
func (s Severity) ShouldAlert() bool {
	return s >= SeverityHigh
}

// GetSeverityFromCode determines appropriate severity level based on error code
func GetSeverityFromCode(code Code) Severity {
	switch code {
	case CodeServiceUnavailable:
		return SeverityCritical

	case CodeDatabaseError, CodeConnectionFailed, CodeServiceInitialization,
		CodeConfigError, CodeInvalidConfig:
		return SeverityHigh

	case CodeInvalidInput, CodeNotFound, CodeDomainError, CodeDivisionByZero,
		CodeValueOutOfRange, CodeUnknownUnit, CodeUnknownOperation, CodeInvalidBase,
		CodeDegenerateEquation:
		return SeverityLow

	default:
		return SeverityMedium
	}
}
