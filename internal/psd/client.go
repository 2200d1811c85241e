// Package psd is a client for the USDA FAS Production, Supply and
// Distribution (PSD) open data API.
package psd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cropline/psdgate/internal/id"
	"github.com/cropline/psdgate/internal/metrics"
	"github.com/cropline/psdgate/internal/ratelimit"
)

const (
	// DefaultBaseURL is the public PSD API root.
	DefaultBaseURL = "https://apps.fas.usda.gov/OpenData/api/psd"

	defaultRPS     = 5.0
	defaultBurst   = 10
	defaultTimeout = 30 * time.Second

	// rawTextLimit bounds the body kept when a response is not JSON.
	rawTextLimit = 1200

	userAgent = "psdgate/1.0"
)

// Paths holds the upstream endpoint templates. CountryYear and WorldYear
// take the commodity code and the market year.
type Paths struct {
	Commodities string
	Countries   string
	Attributes  string
	Units       string
	CountryYear string
	WorldYear   string
}

// DefaultPaths returns the OpenData endpoint layout.
func DefaultPaths() Paths {
	return Paths{
		Commodities: "/commodities",
		Countries:   "/countries",
		Attributes:  "/commodityAttributes",
		Units:       "/unitsOfMeasure",
		CountryYear: "/commodity/%s/country/all/year/%d",
		WorldYear:   "/commodity/%s/world/year/%d",
	}
}

// Config configures a Client.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	RPS     float64
	Burst   int
	Paths   Paths
}

// Client is a rate-limited PSD API client.
type Client struct {
	http    *http.Client
	base    *url.URL
	apiKey  string
	paths   Paths
	limiter *ratelimit.KeyedRateLimiter
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// New creates a client. Zero config fields take their defaults.
func New(cfg Config, m *metrics.Metrics, logger *slog.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.RPS == 0 {
		cfg.RPS = defaultRPS
	}
	if cfg.Burst <= 0 {
		cfg.Burst = defaultBurst
	}
	if cfg.Paths == (Paths{}) {
		cfg.Paths = DefaultPaths()
	}
	if logger == nil {
		logger = slog.Default()
	}

	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", cfg.BaseURL)
	}

	return &Client{
		http:    &http.Client{Timeout: cfg.Timeout},
		base:    base,
		apiKey:  strings.TrimSpace(cfg.APIKey),
		paths:   cfg.Paths,
		limiter: ratelimit.New(cfg.RPS, cfg.Burst),
		metrics: m,
		logger:  logger,
	}, nil
}

// Close releases resources held by the client.
func (c *Client) Close() {
	c.limiter.Stop()
}

// HasAPIKey reports whether a key is configured.
func (c *Client) HasAPIKey() bool {
	return c.apiKey != ""
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// Paths returns the endpoint templates in use.
func (c *Client) Paths() Paths {
	return c.paths
}

// Fetch performs an authenticated GET of path and wraps the result in an
// Envelope. The envelope is always returned, also on failure, so callers
// can report what upstream said; err is non-nil whenever envelope.OK is
// false.
func (c *Client) Fetch(ctx context.Context, path string, query url.Values) (*Envelope, error) {
	return c.fetch(ctx, "fetch", path, query)
}

func (c *Client) fetch(ctx context.Context, op, path string, query url.Values) (*Envelope, error) {
	u := *c.base
	u.Path = c.base.Path + path

	if c.apiKey == "" {
		env := &Envelope{
			StatusCode: http.StatusInternalServerError,
			URL:        u.String(),
			Data:       map[string]any{"error": ErrNoAPIKey.Error()},
		}
		return env, &Error{Op: op, Path: path, Status: env.StatusCode, Details: env.Data, Err: ErrNoAPIKey}
	}

	q := url.Values{}
	for k, v := range query {
		q[k] = v
	}
	if q.Get("api_key") == "" {
		q.Set("api_key", c.apiKey)
	}
	u.RawQuery = q.Encode()

	if err := c.limiter.Wait(ctx, c.base.Host); err != nil {
		return nil, &Error{Op: op, Path: path, Status: http.StatusBadGateway, Err: fmt.Errorf("rate limit wait: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &Error{Op: op, Path: path, Status: http.StatusInternalServerError, Err: fmt.Errorf("create request: %w", err)}
	}

	requestID := id.Request()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("API_KEY", c.apiKey)
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("X-Request-ID", requestID)

	c.logger.Debug("psd request",
		"op", op,
		"path", path,
		"request_id", requestID,
	)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.ObserveUpstream(op, http.StatusBadGateway, time.Since(start))
		c.logger.Warn("psd connection failed",
			"op", op,
			"path", path,
			"request_id", requestID,
			"error", err,
		)
		env := &Envelope{
			StatusCode: http.StatusBadGateway,
			URL:        redact(&u),
			Data:       map[string]any{"error": ErrConnection.Error(), "details": err.Error()},
		}
		return env, &Error{
			Op:      op,
			Path:    path,
			Status:  http.StatusBadGateway,
			Details: env.Data,
			Err:     fmt.Errorf("%w: %w", ErrConnection, err),
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	c.metrics.ObserveUpstream(op, resp.StatusCode, time.Since(start))
	if err != nil {
		return nil, &Error{Op: op, Path: path, Status: http.StatusBadGateway, Err: fmt.Errorf("%w: read response: %w", ErrConnection, err)}
	}

	env := &Envelope{
		OK:         resp.StatusCode >= 200 && resp.StatusCode < 300,
		StatusCode: resp.StatusCode,
		URL:        redact(resp.Request.URL),
		Data:       decodeData(body),
		body:       body,
	}

	c.logger.Debug("psd response",
		"op", op,
		"path", path,
		"request_id", requestID,
		"status", resp.StatusCode,
		"bytes", len(body),
		"elapsed", time.Since(start),
	)

	if !env.OK {
		return env, &Error{
			Op:      op,
			Path:    path,
			Status:  resp.StatusCode,
			Details: env.Data,
			Err:     statusError(resp.StatusCode),
		}
	}

	return env, nil
}

// decodeData parses body as JSON, falling back to a truncated raw text.
func decodeData(body []byte) any {
	var data any
	if err := json.Unmarshal(body, &data); err == nil {
		return data
	}
	return map[string]any{"raw_text": truncate(string(body), rawTextLimit)}
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

// redact hides the api key in a URL that is returned to callers.
func redact(u *url.URL) string {
	if u == nil {
		return ""
	}
	c := *u
	q := c.Query()
	if q.Has("api_key") {
		q.Set("api_key", "REDACTED")
		c.RawQuery = q.Encode()
	}
	return c.String()
}

// decodeList decodes the envelope body as a JSON array.
func decodeList[T any](env *Envelope, op, path string) ([]T, error) {
	var items []T
	if err := json.Unmarshal(env.body, &items); err != nil {
		return nil, &Error{
			Op:      op,
			Path:    path,
			Status:  http.StatusBadGateway,
			Details: env.Data,
			Err:     fmt.Errorf("%w: %w", ErrDecode, err),
		}
	}
	return items, nil
}

// IsUpstream reports whether err came from this client.
func IsUpstream(err error) bool {
	var e *Error
	return errors.As(err, &e)
}
