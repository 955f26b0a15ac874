// Package remote downloads images named by http(s) URLs so they can be
// analyzed like local files.
package remote
