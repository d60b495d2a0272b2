// File: standards.go
// Title: Error Standards for mRW Modules
// Description: Module identifiers, ErrorBuilder and the standardized error
//              constructors used by the calculator engine and its services.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2025-10-19
//
// Change History:
// - 2025-01-25 v0.1.0: Initial implementation for error standardization
// - 2025-10-19 v0.2.0: Calculator modules, dropped string-matching code lookup

package errors

import (
	"fmt"

	mdwerror "github.com/msto63/rechenwerk/foundation/core/error"
)

// Module identifiers for error categorization
const (
	ModuleArith     = "arith"
	ModuleEngine    = "accumulator"
	ModuleSolver    = "solver"
	ModuleStats     = "stats"
	ModuleConvert   = "convert"
	ModuleHistory   = "history"
	ModuleStore     = "store"
	ModuleConfig    = "config"
	ModuleGateway   = "gateway"
	ModuleRPC       = "rpc"
	ModuleSession   = "session"
	ModuleNumberFmt = "numfmt"
	ModuleService   = "service"
)

// ErrorBuilder provides a fluent interface for building standardized errors
type ErrorBuilder struct {
	module    string
	operation string
	message   string
	cause     error
	details   map[string]interface{}
	severity  *mdwerror.Severity
	code      mdwerror.Code
}

// NewErrorBuilder creates a new error builder for the specified module
func NewErrorBuilder(module string) *ErrorBuilder {
	return &ErrorBuilder{
		module:  module,
		details: make(map[string]interface{}),
		code:    mdwerror.CodeInternal,
	}
}

// Operation sets the operation name for the error
func (eb *ErrorBuilder) Operation(operation string) *ErrorBuilder {
	eb.operation = operation
	return eb
}

// Message sets the error message
func (eb *ErrorBuilder) Message(message string) *ErrorBuilder {
	eb.message = message
	return eb
}

// Messagef sets the error message with formatting
func (eb *ErrorBuilder) Messagef(format string, args ...interface{}) *ErrorBuilder {
	eb.message = fmt.Sprintf(format, args...)
	return eb
}

// Cause sets the underlying cause of the error
func (eb *ErrorBuilder) Cause(cause error) *ErrorBuilder {
	eb.cause = cause
	return eb
}

// Detail adds a detail key-value pair to the error
func (eb *ErrorBuilder) Detail(key string, value interface{}) *ErrorBuilder {
	eb.details[key] = value
	return eb
}

// Severity overrides the severity derived from the code
func (eb *ErrorBuilder) Severity(severity mdwerror.Severity) *ErrorBuilder {
	eb.severity = &severity
	return eb
}

// Code sets the error code
func (eb *ErrorBuilder) Code(code mdwerror.Code) *ErrorBuilder {
	eb.code = code
	return eb
}

// Build creates the final error
func (eb *ErrorBuilder) Build() *mdwerror.Error {
	if eb.message == "" {
		if eb.operation != "" {
			eb.message = fmt.Sprintf("%s.%s failed", eb.module, eb.operation)
		} else {
			eb.message = fmt.Sprintf("%s operation failed", eb.module)
		}
	}

	eb.details["module"] = eb.module

	var err *mdwerror.Error
	if eb.cause != nil {
		err = mdwerror.Wrap(eb.cause, eb.message)
	} else {
		err = mdwerror.New(eb.message)
	}

	if eb.severity != nil {
		err = err.WithSeverity(*eb.severity)
	} else {
		err = err.WithSeverity(mdwerror.GetSeverityFromCode(eb.code))
	}

	err = err.WithCode(eb.code).WithDetails(eb.details)
	if eb.operation != "" {
		err = err.WithOperation(eb.module + "." + eb.operation)
	}
	return err
}

// Domain creates a domain error: the operation is undefined for its inputs
func Domain(module, operation, reason string) *mdwerror.Error {
	return NewErrorBuilder(module).
		Operation(operation).
		Message(reason).
		Code(mdwerror.CodeDomainError).
		Build()
}

// DivisionByZero creates the error for x / 0
func DivisionByZero(module, operation string) *mdwerror.Error {
	return NewErrorBuilder(module).
		Operation(operation).
		Message("division by zero").
		Code(mdwerror.CodeDivisionByZero).
		Build()
}

// InvalidInput creates a standardized invalid input error
func InvalidInput(module, operation string, input interface{}, expected string) *mdwerror.Error {
	return NewErrorBuilder(module).
		Operation(operation).
		Messagef("invalid input for %s.%s", module, operation).
		Code(mdwerror.CodeInvalidInput).
		Detail("input", input).
		Detail("expected", expected).
		Build()
}

// OutOfRange creates a standardized out of range error
func OutOfRange(module, operation string, value, min, max interface{}) *mdwerror.Error {
	return NewErrorBuilder(module).
		Operation(operation).
		Messagef("value %v out of range [%v, %v]", value, min, max).
		Code(mdwerror.CodeValueOutOfRange).
		Detail("value", value).
		Detail("min", min).
		Detail("max", max).
		Build()
}

// UnknownUnit creates the error for a unit that is not part of a category
func UnknownUnit(category, unit string) *mdwerror.Error {
	return NewErrorBuilder(ModuleConvert).
		Operation("unit").
		Messagef("unknown %s unit %q", category, unit).
		Code(mdwerror.CodeUnknownUnit).
		Detail("category", category).
		Detail("unit", unit).
		Build()
}

// NotFound creates a standardized not found error
func NotFound(module, operation string, identifier interface{}) *mdwerror.Error {
	return NewErrorBuilder(module).
		Operation(operation).
		Messagef("%v not found", identifier).
		Code(mdwerror.CodeNotFound).
		Detail("identifier", identifier).
		Build()
}

// StoreFailure wraps a persistence error
func StoreFailure(operation string, cause error) *mdwerror.Error {
	return NewErrorBuilder(ModuleStore).
		Operation(operation).
		Messagef("store.%s failed", operation).
		Cause(cause).
		Code(mdwerror.CodeDatabaseError).
		Build()
}

// ExtractModule extracts the module name from a standardized error
func ExtractModule(err error) string {
	if mdwErr, ok := mdwerror.As(err); ok {
		if module, ok := mdwErr.Details()["module"].(string); ok {
			return module
		}
	}
	return ""
}

// IsModuleError checks if an error belongs to a specific module
func IsModuleError(err error, module string) bool {
	return ExtractModule(err) == module
}
