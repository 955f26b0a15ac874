// Package exifdata decodes EXIF payloads with goexif and exposes them as a
// flat tag mapping with typed accessors for the fields the provenance checks
// read.
package exifdata
