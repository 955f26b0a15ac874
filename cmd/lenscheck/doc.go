// Package main hosts the lenscheck CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration once, builds the structured
// logger, and hands inputs to the provenance analyzer or the web UI server.
// Subcommands stay thin: analysis, fetching, and HTTP handling live in the
// internal packages.
package main
