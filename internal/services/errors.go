package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound          = errors.New("file not found")
	ErrUnreadable        = errors.New("unreadable input")
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrCorrupt           = errors.New("corrupt image")
	ErrTooLarge          = errors.New("input too large")
	ErrMetadataMissing   = errors.New("metadata missing")
	ErrConfiguration     = errors.New("configuration error")
)

// Kind strings reported to users alongside error messages.
const (
	KindNotFound          = "not_found"
	KindUnreadable        = "unreadable"
	KindUnsupportedFormat = "unsupported_format"
	KindCorrupt           = "corrupt"
	KindTooLarge          = "too_large"
	KindMetadataMissing   = "metadata_missing"
	KindConfiguration     = "configuration"
	KindInternal          = "internal"
)

// Wrap builds an error message that includes operation context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, operation, message string, err error) error {
	detail := buildDetail(operation, message)
	if marker == nil {
		marker = ErrUnreadable
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Kind maps an error to the stable kind string used in reports and API responses.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrUnsupportedFormat):
		return KindUnsupportedFormat
	case errors.Is(err, ErrCorrupt):
		return KindCorrupt
	case errors.Is(err, ErrTooLarge):
		return KindTooLarge
	case errors.Is(err, ErrMetadataMissing):
		return KindMetadataMissing
	case errors.Is(err, ErrConfiguration):
		return KindConfiguration
	case errors.Is(err, ErrUnreadable):
		return KindUnreadable
	default:
		return KindInternal
	}
}

// Fatal reports whether err stops analysis of a single input. Missing metadata
// is recorded as a warning instead.
func Fatal(err error) bool {
	return err != nil && !errors.Is(err, ErrMetadataMissing)
}

func buildDetail(operation, message string) string {
	parts := make([]string, 0, 2)
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "analysis failure"
	}
	return strings.Join(parts, ": ")
}
