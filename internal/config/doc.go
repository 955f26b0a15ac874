// Package config loads, normalizes, and validates lenscheck configuration data.
//
// It supplies repository defaults, reads TOML files from the conventional
// locations, and applies LENSCHECK_* environment overrides before
// normalization. The Config type centralizes the heuristic thresholds, report
// options, web UI settings, remote fetch limits, and logging knobs so the CLI
// and server resolve settings in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized values and clear validation errors.
package config
