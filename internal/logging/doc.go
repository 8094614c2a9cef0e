// Package logging assembles structured slog loggers and formatting helpers used
// across vdesk.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so launcher code automatically
// tags log lines with the session id and machine name. The package also
// provides a no-op logger for tests and wiring code that cannot fail.
package logging
