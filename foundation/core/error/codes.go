// File: codes.go
// Title: Error Code Definitions
// Description: Defines the error codes used by the calculator engine and the
//              services around it. Codes drive HTTP status mapping, severity
//              defaults and log levels.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2025-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with core error codes
// - 2025-10-19 v0.2.0: Calculator domain codes

package error

// Code represents a structured error code for categorizing errors
type Code string

const (
	// Generic codes
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL"
	CodeNotFound     Code = "NOT_FOUND"
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeTimeout      Code = "TIMEOUT"

	// Calculator domain
	CodeDomainError        Code = "DOMAIN_ERROR"
	CodeDivisionByZero     Code = "DIVISION_BY_ZERO"
	CodeValueOutOfRange    Code = "VALUE_OUT_OF_RANGE"
	CodeUnknownUnit        Code = "UNKNOWN_UNIT"
	CodeUnknownOperation   Code = "UNKNOWN_OPERATION"
	CodeInvalidBase        Code = "INVALID_BASE"
	CodeDegenerateEquation Code = "DEGENERATE_EQUATION"

	// Storage
	CodeDatabaseError    Code = "DATABASE_ERROR"
	CodeConnectionFailed Code = "CONNECTION_FAILED"

	// Service and network
	CodeServiceUnavailable    Code = "SERVICE_UNAVAILABLE"
	CodeServiceInitialization Code = "SERVICE_INITIALIZATION"
	CodeNetworkError          Code = "NETWORK_ERROR"

	// Configuration
	CodeConfigError   Code = "CONFIG_ERROR"
	CodeMissingConfig Code = "MISSING_CONFIG"
	CodeInvalidConfig Code = "INVALID_CONFIG"
)

// String returns the string representation of the error code
func (c Code) String() string {
	return string(c)
}

// IsValid checks if the error code is a known valid code
func (c Code) IsValid() bool {
	switch c {
	case CodeUnknown, CodeInternal, CodeNotFound, CodeInvalidInput, CodeTimeout,
		CodeDomainError, CodeDivisionByZero, CodeValueOutOfRange, CodeUnknownUnit,
		CodeUnknownOperation, CodeInvalidBase, CodeDegenerateEquation,
		CodeDatabaseError, CodeConnectionFailed,
		CodeServiceUnavailable, CodeServiceInitialization, CodeNetworkError,
		CodeConfigError, CodeMissingConfig, CodeInvalidConfig:
		return true
	default:
		return false
	}
}

// Category returns the high-level category of the error code
func (c Code) Category() string {
	switch c {
	case CodeDomainError, CodeDivisionByZero, CodeValueOutOfRange, CodeUnknownUnit,
		CodeUnknownOperation, CodeInvalidBase, CodeDegenerateEquation:
		return "calculation"
	case CodeDatabaseError, CodeConnectionFailed:
		return "database"
	case CodeServiceUnavailable, CodeServiceInitialization, CodeNetworkError:
		return "service"
	case CodeConfigError, CodeMissingConfig, CodeInvalidConfig:
		return "configuration"
	default:
		return "generic"
	}
}

// HTTPStatus returns the appropriate HTTP status code for this error code
func (c Code) HTTPStatus() int {
	switch c {
	case CodeNotFound:
		return 404
	case CodeInvalidInput, CodeValueOutOfRange, CodeUnknownUnit, CodeInvalidBase:
		return 400
	case CodeDomainError, CodeDivisionByZero, CodeDegenerateEquation, CodeUnknownOperation:
		return 422
	case CodeTimeout:
		return 408
	case CodeServiceUnavailable, CodeDatabaseError, CodeConnectionFailed:
		return 503
	default:
		return 500
	}
}
