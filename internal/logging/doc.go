// Package logging assembles structured slog loggers used across lenscheck.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so analysis code can tag log
// lines with the current input and request correlation IDs. The package also
// provides a no-op logger for tests and wiring code that cannot fail.
package logging
