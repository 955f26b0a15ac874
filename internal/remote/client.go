package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"lenscheck/internal/config"
	"lenscheck/internal/imaging"
	"lenscheck/internal/logging"
	"lenscheck/internal/services"
)

const maxRedirects = 5

// Client fetches remote images with a size cap.
type Client struct {
	restyClient *resty.Client
	maxBytes    int64
	logger      *slog.Logger
}

// NewClient builds a fetch client from the [fetch] config section.
func NewClient(cfg config.Fetch, logger *slog.Logger) *Client {
	logger = logging.NewComponentLogger(logger, "remote")

	restyClient := resty.New().
		SetTimeout(time.Duration(cfg.TimeoutSeconds)*time.Second).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "image/jpeg, image/png, image/tiff, image/webp, image/bmp;q=0.9, */*;q=0.1").
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(maxRedirects)).
		SetLogger(restyLogger{logger: logger})

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,
	}
	restyClient.SetTransport(transport)

	return &Client{
		restyClient: restyClient,
		maxBytes:    cfg.MaxDownloadBytes,
		logger:      logger,
	}
}

// IsURL reports whether input names an http or https resource.
func IsURL(input string) bool {
	lower := strings.ToLower(strings.TrimSpace(input))
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return false
	}
	parsed, err := url.Parse(strings.TrimSpace(input))
	return err == nil && parsed.Host != ""
}

// Fetch downloads rawURL into memory. Errors carry ErrNotFound for 404/410,
// ErrTooLarge when the body exceeds the configured cap, and ErrUnreadable for
// transport failures and other non-2xx statuses.
func (c *Client) Fetch(ctx context.Context, rawURL string) (imaging.Source, error) {
	if !IsURL(rawURL) {
		return imaging.Source{}, services.Wrap(services.ErrUnreadable, "fetch", fmt.Sprintf("%q is not an http(s) URL", rawURL), nil)
	}

	started := time.Now()
	resp, err := c.restyClient.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(rawURL)
	if err != nil {
		return imaging.Source{}, services.Wrap(services.ErrUnreadable, "fetch", rawURL, err)
	}
	body := resp.RawBody()
	if body == nil {
		return imaging.Source{}, services.Wrap(services.ErrUnreadable, "fetch", rawURL+": empty response", nil)
	}
	defer body.Close()

	switch status := resp.StatusCode(); {
	case status == http.StatusNotFound, status == http.StatusGone:
		return imaging.Source{}, services.Wrap(services.ErrNotFound, "fetch", fmt.Sprintf("%s: HTTP %d", rawURL, status), nil)
	case status < 200 || status > 299:
		return imaging.Source{}, services.Wrap(services.ErrUnreadable, "fetch", fmt.Sprintf("%s: HTTP %d", rawURL, status), nil)
	}

	if c.maxBytes > 0 && resp.RawResponse != nil && resp.RawResponse.ContentLength > c.maxBytes {
		return imaging.Source{}, c.tooLarge(rawURL)
	}

	reader := io.Reader(body)
	if c.maxBytes > 0 {
		reader = io.LimitReader(body, c.maxBytes+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return imaging.Source{}, services.Wrap(services.ErrUnreadable, "fetch", rawURL+": download interrupted", err)
		}
		return imaging.Source{}, services.Wrap(services.ErrUnreadable, "fetch", rawURL, err)
	}
	if c.maxBytes > 0 && int64(len(data)) > c.maxBytes {
		return imaging.Source{}, c.tooLarge(rawURL)
	}

	c.logger.Debug("remote image downloaded",
		logging.String(logging.FieldSource, rawURL),
		logging.Int("bytes", len(data)),
		logging.Duration("elapsed", time.Since(started)),
	)
	return imaging.Source{Name: rawURL, Data: data}, nil
}

func (c *Client) tooLarge(rawURL string) error {
	return services.Wrap(services.ErrTooLarge, "fetch", fmt.Sprintf("%s exceeds %d bytes", rawURL, c.maxBytes), nil)
}

// restyLogger routes resty's printf-style diagnostics into slog.
type restyLogger struct {
	logger *slog.Logger
}

func (l restyLogger) Errorf(format string, v ...any) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l restyLogger) Warnf(format string, v ...any) {
	l.logger.Warn(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l restyLogger) Debugf(format string, v ...any) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)))
}
