package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"lenscheck/internal/logging"
	"lenscheck/internal/services"
	"lenscheck/internal/testsupport"
)

func readLog(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	return string(content)
}

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithLogFile())

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("configured logger")

	if !strings.Contains(readLog(t, cfg.Logging.File), "configured logger") {
		t.Fatal("expected message in log file")
	}
	if filepath.Dir(cfg.Logging.File) != filepath.Join(testsupport.BaseDir(cfg), "logs") {
		t.Fatalf("unexpected log path %q", cfg.Logging.File)
	}
}

func TestNewFromNilConfig(t *testing.T) {
	logger, err := logging.NewFromConfig(nil)
	if err != nil {
		t.Fatalf("NewFromConfig(nil) returned error: %v", err)
	}
	if logger == nil {
		t.Fatal("expected logger instance")
	}
}

func TestConsoleLoggerOmitsCallerForInfo(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("message without caller")

	content := buf.String()
	if strings.Contains(content, ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", content)
	}
	if !strings.Contains(content, " INFO  message without caller") {
		t.Fatalf("expected padded level label, got %q", content)
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "debug", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("message with caller")

	if content := buf.String(); !strings.Contains(content, "(logger_test.go:") {
		t.Fatalf("expected caller information in debug logs, got %q", content)
	}
}

func TestConsoleLoggerPromotesComponent(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logging.NewComponentLogger(logger, "analyzer").Info("analyzed", logging.String("verdict", "Likely screenshot"))

	content := buf.String()
	if !strings.Contains(content, "analyzer: analyzed") {
		t.Fatalf("expected component prefix, got %q", content)
	}
	if !strings.Contains(content, `verdict="Likely screenshot"`) {
		t.Fatalf("expected quoted attribute, got %q", content)
	}
}

func TestConsoleLoggerLeadsWithInputAndErrorKind(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := services.WithSource(context.Background(), "holiday.jpg")
	logger = logging.WithContext(ctx, logging.NewComponentLogger(logger, "analyzer"))
	logger.Warn("analysis failed",
		logging.String("error_hint", "check the path"),
		logging.String(logging.FieldErrorKind, services.KindNotFound),
		logging.Int64("file_size", 2048),
	)

	content := buf.String()
	want := `WARN  [holiday.jpg] analyzer: analysis failed error_kind=not_found error_hint="check the path" file_size=2048`
	if !strings.Contains(content, want) {
		t.Fatalf("expected %q in %q", want, content)
	}
	if strings.Contains(content, "source=") || strings.Contains(content, "component=") {
		t.Fatalf("promoted fields must not repeat, got %q", content)
	}
}

func TestConsoleLoggerFlattensGroups(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.WithGroup("upload").Info("received", logging.Int("bytes", 10), logging.Duration("elapsed", 1500*time.Microsecond))

	if content := buf.String(); !strings.Contains(content, "upload.bytes=10 upload.elapsed=2ms") {
		t.Fatalf("expected grouped keys, got %q", content)
	}
}

func TestJSONLoggerIncludesContextFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := context.Background()
	ctx = services.WithSource(ctx, "photo.jpg")
	ctx = services.WithRequestID(ctx, "req-xyz")
	logging.WithContext(ctx, logger).Info("contextual log")

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	if entry["msg"] != "contextual log" {
		t.Fatalf("unexpected msg: %v", entry["msg"])
	}
	if entry["level"] != "info" {
		t.Fatalf("unexpected level: %v", entry["level"])
	}
	if entry[logging.FieldSource] != "photo.jpg" {
		t.Fatalf("unexpected source: %v", entry[logging.FieldSource])
	}
	if entry[logging.FieldCorrelationID] != "req-xyz" {
		t.Fatalf("unexpected correlation id: %v", entry[logging.FieldCorrelationID])
	}
}

func TestJSONLoggerKeepsInputSourceAtDebug(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Level: "debug", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logging.WithContext(services.WithSource(context.Background(), "photo.jpg"), logger).Debug("decoded")

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	if entry[logging.FieldSource] != "photo.jpg" {
		t.Fatalf("unexpected source: %v", entry[logging.FieldSource])
	}
	if caller, _ := entry["caller"].(string); !strings.HasPrefix(caller, "logger_test.go:") {
		t.Fatalf("expected caller key, got %v", entry["caller"])
	}
}

func TestNewRejectsUnknownFormatAndLevel(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
	if _, err := logging.New(logging.Options{Level: "loud"}); err == nil {
		t.Fatal("expected error for unsupported level")
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":       slog.LevelInfo,
		"debug":  slog.LevelDebug,
		" WARN ": slog.LevelWarn,
		"error":  slog.LevelError,
	}
	for input, want := range tests {
		got, err := logging.ParseLevel(input)
		if err != nil || got != want {
			t.Fatalf("ParseLevel(%q) = %v, %v; want %v", input, got, err, want)
		}
	}
	if _, err := logging.ParseLevel("verbose"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logging.WarnWithContext(logger, "input failed", "analysis_failed", logging.String(logging.FieldImpact, "report has error entry"))

	content := buf.String()
	for _, fragment := range []string{`"event_type":"analysis_failed"`, `"error_hint"`, `"impact":"report has error entry"`} {
		if !strings.Contains(content, fragment) {
			t.Fatalf("expected %s in %q", fragment, content)
		}
	}
}
