// Package log provides structured logging for meinRECHENWERK.
//
// Package: log
// Title: mRW Structured Logging Framework
// Description: Leveled, structured logging with JSON, text and console output
//              and integration with the structured error type. Loggers are
//              immutable: every With* call returns a configured copy, so a
//              session or request logger can be derived without locking the
//              parent.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2025-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with structured logging and error integration
// - 2025-10-19 v0.2.0: Session IDs, synchronous writes only, dropped timers and audit level
//
// Usage:
//   import mdwlog "github.com/msto63/rechenwerk/foundation/core/log"
//
//   logger := mdwlog.New().
//     WithLevel(mdwlog.LevelInfo).
//     WithFormat(mdwlog.FormatJSON).
//     WithField("component", "gateway").
//     WithSessionID(sessionID)
//
//   logger.Info("key pressed", mdwlog.Field("key", "add"))
//   logger.LogError(err)
package log
