package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Console lines read:
//
//	2026-05-01 10:21:33 WARN  [photo.jpg] analyzer: analysis failed error_kind=not_found error="..."
//
// The analyzed input is bracketed ahead of the message and the failure kind
// and correlation id lead the remaining fields.
var leadingKeys = []string{FieldErrorKind, FieldCorrelationID}

type field struct {
	key   string
	value slog.Value
}

type consoleHandler struct {
	mu     *sync.Mutex
	w      io.Writer
	level  slog.Level
	caller bool
	fields []field
	prefix string
}

func newConsoleHandler(w io.Writer, level slog.Level, caller bool) *consoleHandler {
	return &consoleHandler{mu: &sync.Mutex{}, w: w, level: level, caller: caller}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.fields = appendFields(slices.Clone(h.fields), h.prefix, attrs)
	return &clone
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.prefix = h.prefix + name + "."
	return &clone
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	fields := slices.Clone(h.fields)
	record.Attrs(func(attr slog.Attr) bool {
		fields = appendFields(fields, h.prefix, []slog.Attr{attr})
		return true
	})

	var (
		component string
		input     string
		lead      = make([]*field, len(leadingKeys))
		rest      = make([]field, 0, len(fields))
	)
	for i := range fields {
		f := fields[i]
		switch f.key {
		case FieldComponent:
			if component == "" {
				component = f.value.String()
			}
			continue
		case FieldSource:
			input = f.value.String()
			continue
		}
		if idx := slices.Index(leadingKeys, f.key); idx >= 0 {
			lead[idx] = &fields[i]
			continue
		}
		rest = append(rest, f)
	}

	ts := record.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	var b strings.Builder
	b.WriteString(ts.Format(time.DateTime))
	fmt.Fprintf(&b, " %-5s ", levelLabel(record.Level))
	if input != "" {
		b.WriteString("[" + input + "] ")
	}
	if component != "" {
		b.WriteString(component + ": ")
	}
	if msg := strings.TrimSpace(record.Message); msg != "" {
		b.WriteString(msg)
	} else {
		b.WriteString("(no message)")
	}
	for _, f := range lead {
		if f != nil {
			writeField(&b, *f)
		}
	}
	for _, f := range rest {
		writeField(&b, f)
	}
	if h.caller {
		if src := record.Source(); src != nil && src.File != "" {
			fmt.Fprintf(&b, " (%s:%d)", filepath.Base(src.File), src.Line)
		}
	}
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func appendFields(dst []field, prefix string, attrs []slog.Attr) []field {
	for _, attr := range attrs {
		attr.Value = attr.Value.Resolve()
		if attr.Equal(slog.Attr{}) {
			continue
		}
		if attr.Value.Kind() == slog.KindGroup {
			next := prefix
			if attr.Key != "" {
				next += attr.Key + "."
			}
			dst = appendFields(dst, next, attr.Value.Group())
			continue
		}
		dst = append(dst, field{key: prefix + attr.Key, value: attr.Value})
	}
	return dst
}

func writeField(b *strings.Builder, f field) {
	b.WriteByte(' ')
	b.WriteString(f.key)
	b.WriteByte('=')
	b.WriteString(formatValue(f.value))
}

func formatValue(v slog.Value) string {
	var s string
	switch v.Kind() {
	case slog.KindDuration:
		s = v.Duration().Round(time.Millisecond).String()
	case slog.KindTime:
		s = v.Time().Format(time.RFC3339)
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			s = err.Error()
		} else {
			s = fmt.Sprint(v.Any())
		}
	default:
		s = v.String()
	}
	if s == "" || strings.ContainsAny(s, " =\"\t\n") {
		return strconv.Quote(s)
	}
	return s
}

func levelLabel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}
