// Package provenance turns the container facts from imaging and the tag
// mapping from exifdata into a Report: a set of independent weighted checks,
// a score, a camera-or-not signal and a one-line verdict.
//
// The checks are heuristics. A high score means the file carries the traces a
// camera pipeline usually leaves, not that it is authentic.
package provenance
