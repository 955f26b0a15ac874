// Package imaging loads image bytes and derives the container-level facts the
// provenance checks need: sniffed format, pixel dimensions, JPEG quantization
// tables, and the raw EXIF and XMP payloads.
//
// Decoding the EXIF payload itself is left to the exifdata package.
package imaging
