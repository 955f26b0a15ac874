package testsupport

import (
	"path/filepath"
	"testing"

	"lenscheck/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a default config whose file outputs live in a per-test
// temp directory. Options are applied in order.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Server.Bind = "127.0.0.1:0"
	cfgVal.Fetch.TimeoutSeconds = 5

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithAPIToken sets the bearer token guarding the JSON API.
func WithAPIToken(token string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Server.APIToken = token
	}
}

// WithMaxUploadBytes overrides the web upload cap.
func WithMaxUploadBytes(limit int64) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Server.MaxUploadBytes = limit
	}
}

// WithMaxDownloadBytes overrides the remote fetch cap.
func WithMaxDownloadBytes(limit int64) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Fetch.MaxDownloadBytes = limit
	}
}

// WithTagDump enables the full tag mapping in reports.
func WithTagDump() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Report.IncludeTags = true
	}
}

// WithGPSCoordinates enables decimal coordinates in reports.
func WithGPSCoordinates() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Report.IncludeGPSCoordinates = true
	}
}

// WithLogFile routes logs to a file under the test base directory.
func WithLogFile() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Logging.File = filepath.Join(b.baseDir, "logs", "lenscheck.log")
	}
}

// BaseDir returns the temp directory backing a config built with WithLogFile.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(filepath.Dir(cfg.Logging.File))
}
