package config

import (
	"sort"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeHeuristics()
	c.normalizeServer()
	c.normalizeFetch()
	return c.normalizeLogging()
}

func (c *Config) normalizeHeuristics() {
	if len(c.Heuristics.ScreenshotAspects) == 0 {
		c.Heuristics.ScreenshotAspects = append([]float64(nil), defaultScreenshotAspects...)
	}
	aspects := make([]float64, 0, len(c.Heuristics.ScreenshotAspects))
	for _, aspect := range c.Heuristics.ScreenshotAspects {
		// Portrait ratios are folded onto the landscape value.
		if aspect > 0 && aspect < 1 {
			aspect = 1 / aspect
		}
		aspects = append(aspects, aspect)
	}
	sort.Float64s(aspects)
	c.Heuristics.ScreenshotAspects = aspects
	if c.Heuristics.AspectTolerance == 0 {
		c.Heuristics.AspectTolerance = defaultAspectTolerance
	}
	c.Heuristics.ExtraMakers = dedupeTrimmed(c.Heuristics.ExtraMakers)
	c.Heuristics.ExtraEditors = dedupeTrimmed(c.Heuristics.ExtraEditors)
}

func (c *Config) normalizeServer() {
	c.Server.Bind = strings.TrimSpace(c.Server.Bind)
	if c.Server.Bind == "" {
		c.Server.Bind = defaultServerBind
	}
	c.Server.APIToken = strings.TrimSpace(c.Server.APIToken)
	if c.Server.MaxUploadBytes == 0 {
		c.Server.MaxUploadBytes = defaultMaxUploadBytes
	}
}

func (c *Config) normalizeFetch() {
	if c.Fetch.TimeoutSeconds == 0 {
		c.Fetch.TimeoutSeconds = defaultFetchTimeoutSeconds
	}
	if c.Fetch.MaxDownloadBytes == 0 {
		c.Fetch.MaxDownloadBytes = defaultMaxDownloadBytes
	}
	c.Fetch.UserAgent = strings.TrimSpace(c.Fetch.UserAgent)
	if c.Fetch.UserAgent == "" {
		c.Fetch.UserAgent = defaultFetchUserAgent
	}
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if file := strings.TrimSpace(c.Logging.File); file != "" {
		expanded, err := expandPath(file)
		if err != nil {
			return err
		}
		c.Logging.File = expanded
	}
	return nil
}

func dedupeTrimmed(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			continue
		}
		key := strings.ToLower(trimmed)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}
