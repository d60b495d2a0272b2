// Package error provides the structured error type used across meinRECHENWERK.
//
// Package: error
// Title: mRW Error Handling Framework
// Description: Structured errors with codes, severity, operation context and
//              details. Calculator domain failures (domain errors, division by
//              zero, unknown units) and infrastructure failures (config, store,
//              transport) share the same type so every boundary can map them to
//              HTTP status codes, gRPC codes and log levels.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2025-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with contextual errors and codes
// - 2025-10-19 v0.2.0: Calculator codes, dropped localisation keys and stack pooling
//
// Usage:
//   import mdwerror "github.com/msto63/rechenwerk/foundation/core/error"
//
//   err := mdwerror.New("factorial is defined for 0..170").
//     WithCode(mdwerror.CodeDomainError).
//     WithOperation("arith.Factorial").
//     WithDetail("n", 171)
//
//   if mdwerror.HasCode(err, mdwerror.CodeDomainError) {
//     // show "Error" on the display
//   }
package error
