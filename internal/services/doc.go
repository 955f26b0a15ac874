// Package services defines shared utilities consumed by the analysis pipeline,
// the CLI, and the web UI.
//
// Key responsibilities:
//   - Sentinel error markers for the input failure taxonomy (not found,
//     unreadable, unsupported or corrupt format, missing metadata) plus the
//     Wrap helper that tags failures with operation context.
//   - Kind, which turns any wrapped error into the stable string reported in
//     JSON output and API responses.
//   - Context helpers that stamp the current input and request correlation
//     identifiers for logging.
//
// Use these helpers when adding new failure paths so the CLI and web UI keep
// reporting errors the same way.
package services
