package config

import (
	"fmt"
	"net"

	"lenscheck/internal/services"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateHeuristics(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateFetch(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateHeuristics() error {
	h := c.Heuristics
	if h.MinFileBytes < 0 {
		return invalid("heuristics.min_file_bytes must not be negative")
	}
	if h.MaxFileBytes <= 0 {
		return invalid("heuristics.max_file_bytes must be positive")
	}
	if h.MinFileBytes >= h.MaxFileBytes {
		return invalid("heuristics.min_file_bytes must be below heuristics.max_file_bytes")
	}
	if h.MinDimension <= 0 {
		return invalid("heuristics.min_dimension must be positive")
	}
	if h.MaxDimension <= h.MinDimension {
		return invalid("heuristics.max_dimension must exceed heuristics.min_dimension")
	}
	if h.CameraScore < 1 {
		return invalid("heuristics.camera_score must be at least 1")
	}
	if h.AspectTolerance < 0 || h.AspectTolerance >= 0.5 {
		return invalid("heuristics.aspect_tolerance must be between 0 and 0.5")
	}
	for _, aspect := range h.ScreenshotAspects {
		if aspect < 1 {
			return invalid("heuristics.screenshot_aspects must contain positive ratios")
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	if _, _, err := net.SplitHostPort(c.Server.Bind); err != nil {
		return invalid(fmt.Sprintf("server.bind %q is not host:port", c.Server.Bind))
	}
	if c.Server.MaxUploadBytes < 0 {
		return invalid("server.max_upload_bytes must be positive")
	}
	return nil
}

func (c *Config) validateFetch() error {
	if c.Fetch.TimeoutSeconds < 0 {
		return invalid("fetch.timeout_seconds must be positive")
	}
	if c.Fetch.MaxDownloadBytes < 0 {
		return invalid("fetch.max_download_bytes must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return invalid(fmt.Sprintf("logging.format %q must be console or json", c.Logging.Format))
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return invalid(fmt.Sprintf("logging.level %q must be debug, info, warn, or error", c.Logging.Level))
	}
	return nil
}

func invalid(message string) error {
	return fmt.Errorf("%w: %s", services.ErrConfiguration, message)
}
