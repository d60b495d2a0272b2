// ============================================================================
// meinRECHENWERK (mRW) - Rechner-Engine
// ============================================================================
//
// Package:     logging
// Description: Factory functions for creating component loggers
// Author:      msto63
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package logging

import (
	"io"
	"os"
	"sync"

	mdwlog "github.com/msto63/rechenwerk/foundation/core/log"
)

var (
	// Process-wide defaults used by New. The CLI sets them once from flags
	// and configuration before any component is created.
	defaultsMu    sync.RWMutex
	defaultLevel            = "info"
	defaultFormat           = "text"
	defaultOutput io.Writer = os.Stderr
)

// LoggerConfig holds configuration for creating loggers
type LoggerConfig struct {
	// Component name
	ServiceName string

	// Log level (trace, debug, info, warn, error)
	Level string

	// Output format: "json", "text" or "console"
	Format string

	// Primary output, stderr when nil
	Output io.Writer

	// Additional outputs (besides Output)
	AdditionalOutputs []io.Writer
}

// DefaultLoggerConfig returns the configuration New uses for serviceName
func DefaultLoggerConfig(serviceName string) LoggerConfig {
	defaultsMu.RLock()
	defer defaultsMu.RUnlock()
	return LoggerConfig{
		ServiceName: serviceName,
		Level:       defaultLevel,
		Format:      defaultFormat,
		Output:      defaultOutput,
	}
}

// SetDefaults changes the level, format and output picked up by New.
// Empty strings and a nil writer keep the current value.
func SetDefaults(level, format string, output io.Writer) {
	defaultsMu.Lock()
	defer defaultsMu.Unlock()
	if level != "" {
		defaultLevel = level
	}
	if format != "" {
		defaultFormat = format
	}
	if output != nil {
		defaultOutput = output
	}
}

// NewLogger creates a new Foundation logger
func NewLogger(cfg LoggerConfig) *mdwlog.Logger {
	var output io.Writer = os.Stderr
	if cfg.Output != nil {
		output = cfg.Output
	}
	if len(cfg.AdditionalOutputs) > 0 {
		writers := append([]io.Writer{output}, cfg.AdditionalOutputs...)
		output = io.MultiWriter(writers...)
	}

	format, err := mdwlog.ParseFormat(cfg.Format)
	if err != nil {
		format = mdwlog.FormatText
	}

	return mdwlog.NewWithConfig(mdwlog.Config{
		Level:        parseLevel(cfg.Level),
		Format:       format,
		Output:       output,
		Name:         cfg.ServiceName,
		EnableCaller: format == mdwlog.FormatJSON,
	})
}

// NewSimpleLogger creates a logger with the process defaults
func NewSimpleLogger(serviceName string) *mdwlog.Logger {
	return NewLogger(DefaultLoggerConfig(serviceName))
}

// parseLevel converts a string level to mdwlog.Level
func parseLevel(level string) mdwlog.Level {
	switch level {
	case "trace":
		return mdwlog.LevelTrace
	case "debug":
		return mdwlog.LevelDebug
	case "info":
		return mdwlog.LevelInfo
	case "warn", "warning":
		return mdwlog.LevelWarn
	case "error":
		return mdwlog.LevelError
	case "fatal":
		return mdwlog.LevelFatal
	default:
		return mdwlog.LevelInfo
	}
}

// Logger wraps the Foundation logger with key-value logging methods
type Logger struct {
	*mdwlog.Logger
	name string
}

// New creates a component logger with the process defaults
func New(name string) *Logger {
	return &Logger{
		Logger: NewSimpleLogger(name),
		name:   name,
	}
}

// NewWithOutput creates a component logger that writes to w
func NewWithOutput(name string, w io.Writer) *Logger {
	cfg := DefaultLoggerConfig(name)
	cfg.Output = w
	return &Logger{Logger: NewLogger(cfg), name: name}
}

// Discard returns a logger that drops everything, for tests
func Discard(name string) *Logger {
	return NewWithOutput(name, io.Discard)
}

// Name returns the component name
func (l *Logger) Name() string {
	return l.name
}

// With returns a logger that adds the key-value pairs to every entry
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{
		Logger: l.Logger.WithFields(toFields(keysAndValues...)),
		name:   l.name,
	}
}

// WithSession tags every entry with a calculator session id
func (l *Logger) WithSession(id string) *Logger {
	return &Logger{
		Logger: l.Logger.WithSessionID(id),
		name:   l.name,
	}
}

// WithRequest tags every entry with a request id
func (l *Logger) WithRequest(id string) *Logger {
	return &Logger{
		Logger: l.Logger.WithRequestID(id),
		name:   l.name,
	}
}

// Debug logs a debug message with key-value pairs
func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.Logger.Debug(msg, toFields(keysAndValues...))
}

// Info logs an info message with key-value pairs
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.Logger.Info(msg, toFields(keysAndValues...))
}

// Warn logs a warning message with key-value pairs
func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.Logger.Warn(msg, toFields(keysAndValues...))
}

// Error logs an error message with key-value pairs
func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.Logger.Error(msg, toFields(keysAndValues...))
}

// toFields converts key-value pairs to mdwlog.Fields
func toFields(keysAndValues ...interface{}) mdwlog.Fields {
	if len(keysAndValues) == 0 {
		return nil
	}

	fields := make(mdwlog.Fields)
	for i := 0; i < len(keysAndValues)-1; i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields[key] = keysAndValues[i+1]
	}
	return fields
}
