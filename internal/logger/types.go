// Package logger provides logging functionality for the application.
package logger

// Level represents the logging level.
type Level string

const (
	// DebugLevel logs debug messages.
	DebugLevel Level = "debug"
	// InfoLevel logs info messages.
	InfoLevel Level = "info"
	// WarnLevel logs warning messages.
	WarnLevel Level = "warn"
	// ErrorLevel logs error messages.
	ErrorLevel Level = "error"
	// FatalLevel logs fatal messages and exits.
	FatalLevel Level = "fatal"
)

// Config holds the logger configuration.
type Config struct {
	// Level is the minimum logging level (debug, info, warn, error, fatal).
	Level Level
	// Development enables development mode with prettier output.
	Development bool
	// Encoding is the log output format ("json" or "console").
	Encoding string
	// OutputPaths is a list of file paths or URLs to write log output to.
	OutputPaths []string
	// EnableColor enables colored level output in development mode.
	EnableColor bool
}
