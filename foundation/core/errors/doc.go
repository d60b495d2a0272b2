// Package errors provides standardized constructors on top of the structured
// error type so every calculator module reports failures the same way.
//
// Package: errors
// Title: mRW Error Standards
// Description: Fluent ErrorBuilder plus one constructor per recurring failure
//
//	(domain error, division by zero, invalid input, out of range,
//	unknown unit, store failure). Each error carries the module and
//	operation in its details.
//
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2025-10-19
//
// Change History:
// - 2025-01-25 v0.1.0: Initial implementation for error standardization
// - 2025-10-19 v0.2.0: Calculator modules and constructors
//
// Usage:
//
//	return errors.Domain(errors.ModuleArith, "factorial", "factorial is defined for 0..170").
//	  WithDetail("n", n)
package errors
