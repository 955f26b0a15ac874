package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v9"
	"github.com/pelletier/go-toml/v2"

	"lenscheck/internal/services"
)

//go:embed sample_config.toml
var sampleConfig string

// EnvPrefix is prepended to every environment override (LENSCHECK_SERVER_BIND, ...).
const EnvPrefix = "LENSCHECK_"

// Heuristics tunes the provenance checks.
type Heuristics struct {
	MinFileBytes      int64     `toml:"min_file_bytes" env:"MIN_FILE_BYTES"`
	MaxFileBytes      int64     `toml:"max_file_bytes" env:"MAX_FILE_BYTES"`
	MinDimension      int       `toml:"min_dimension" env:"MIN_DIMENSION"`
	MaxDimension      int       `toml:"max_dimension" env:"MAX_DIMENSION"`
	CameraScore       int       `toml:"camera_score" env:"CAMERA_SCORE"`
	ScreenshotAspects []float64 `toml:"screenshot_aspects" env:"SCREENSHOT_ASPECTS"`
	AspectTolerance   float64   `toml:"aspect_tolerance" env:"ASPECT_TOLERANCE"`

	// ExtraMakers are recognized in addition to the built-in catalog and
	// classified as "other" devices.
	ExtraMakers  []string `toml:"extra_makers" env:"EXTRA_MAKERS"`
	ExtraEditors []string `toml:"extra_editors" env:"EXTRA_EDITORS"`
}

// Report controls optional report fields.
type Report struct {
	IncludeTags           bool `toml:"include_tags" env:"INCLUDE_TAGS"`
	IncludeGPSCoordinates bool `toml:"include_gps_coordinates" env:"INCLUDE_GPS_COORDINATES"`
}

// Server contains web UI settings.
type Server struct {
	Bind           string `toml:"bind" env:"BIND"`
	APIToken       string `toml:"api_token" env:"API_TOKEN"`
	MaxUploadBytes int64  `toml:"max_upload_bytes" env:"MAX_UPLOAD_BYTES"`
}

// Fetch contains settings for analyzing http(s) sources.
type Fetch struct {
	TimeoutSeconds   int    `toml:"timeout_seconds" env:"TIMEOUT_SECONDS"`
	MaxDownloadBytes int64  `toml:"max_download_bytes" env:"MAX_DOWNLOAD_BYTES"`
	UserAgent        string `toml:"user_agent" env:"USER_AGENT"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format" env:"FORMAT"`
	Level  string `toml:"level" env:"LEVEL"`
	File   string `toml:"file" env:"FILE"`
}

// Config encapsulates all configuration values for lenscheck.
//
// Configuration sections:
//   - Heuristics: thresholds and catalogs used by the provenance checks
//   - Report: optional report fields (tag dump, GPS coordinates)
//   - Server: web UI bind address, API token, upload cap
//   - Fetch: remote image download settings
//   - Logging: log format, level, and optional file
type Config struct {
	Heuristics Heuristics `toml:"heuristics" envPrefix:"HEURISTICS_"`
	Report     Report     `toml:"report" envPrefix:"REPORT_"`
	Server     Server     `toml:"server" envPrefix:"SERVER_"`
	Fetch      Fetch      `toml:"fetch" envPrefix:"FETCH_"`
	Logging    Logging    `toml:"logging" envPrefix:"LOG_"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/lenscheck/config.toml")
}

// Load locates, parses, and validates a configuration file. Environment
// overrides are applied after the file and before normalization.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("%w: parse %s: %w", services.ErrConfiguration, resolvedPath, err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, "", false, fmt.Errorf("%w: environment overrides: %w", services.ErrConfiguration, err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("lenscheck.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
