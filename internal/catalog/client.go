package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Fetcher is implemented by *Client and lets callers substitute the catalog in tests.
type Fetcher interface {
	FetchSatellites(ctx context.Context, objectTypes []ObjectType) (Response, error)
}

var _ Fetcher = (*Client)(nil)

// Client talks to the remote satellite catalog.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	logger    *slog.Logger
}

const (
	DefaultBaseURL        = "https://backend.digantara.dev/v1"
	DefaultRequestTimeout = 30 * time.Second
	defaultUserAgent      = "satscope/0.1"
	satellitesPath        = "satellites"
	maxResponseBytes      = 64 << 20
)

// Option customizes a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout. Zero or negative disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d < 0 {
			d = 0
		}
		c.http.Timeout = d
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua = strings.TrimSpace(ua); ua != "" {
			c.userAgent = ua
		}
	}
}

// NewClient builds a Client for the given catalog base URL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:   base,
		http:      &http.Client{Timeout: DefaultRequestTimeout},
		userAgent: defaultUserAgent,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalized catalog base URL.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// FetchSatellites queries the catalog, restricted to objectTypes when the set
// is non-empty. Every failure is returned as a *FetchError.
func (c *Client) FetchSatellites(ctx context.Context, objectTypes []ObjectType) (Response, error) {
	if c == nil {
		return Response{}, &FetchError{Message: "catalog client is nil"}
	}
	reqURL := c.satellitesURL(objectTypes)
	requestID := uuid.NewString()
	logger := c.logger.With("request_id", requestID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return Response{}, &FetchError{Message: networkErrorMessage, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	logger.Debug("catalog request", "url", reqURL)
	resp, err := c.http.Do(req)
	if err != nil {
		logger.Warn("catalog request failed", "error", err)
		return Response{}, &FetchError{Message: networkErrorMessage, Err: fmt.Errorf("execute request: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := readLimited(resp.Body, maxResponseBytes)
	if err != nil {
		return Response{}, &FetchError{Message: networkErrorMessage, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := failedFetchMessage
		var payload errorPayload
		if json.Unmarshal(body, &payload) == nil && strings.TrimSpace(payload.Message) != "" {
			message = strings.TrimSpace(payload.Message)
		}
		logger.Warn("catalog returned error status", "status", resp.StatusCode, "message", message)
		return Response{}, &FetchError{
			Message:    message,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("api %s returned status %d", satellitesPath, resp.StatusCode),
		}
	}

	var payload Response
	if err := json.Unmarshal(body, &payload); err != nil {
		logger.Warn("catalog response malformed", "error", err)
		return Response{}, &FetchError{Message: malformedMessage, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	logger.Debug("catalog response", "status", resp.StatusCode, "records", len(payload.Data), "duration", time.Since(start))
	return payload, nil
}

func (c *Client) satellitesURL(objectTypes []ObjectType) string {
	values := url.Values{}
	if types := NormalizeObjectTypes(objectTypes); len(types) > 0 {
		parts := make([]string, len(types))
		for i, t := range types {
			parts[i] = string(t)
		}
		values.Set("objectTypes", strings.Join(parts, ","))
	}
	values.Set("attributes", strings.Join(Attributes, ","))
	rel := &url.URL{Path: satellitesPath, RawQuery: values.Encode()}
	return c.baseURL.ResolveReference(rel).String()
}

func readLimited(r io.Reader, limit int64) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("read response: body exceeds %d byte limit", limit)
	}
	return body, nil
}

// parseBaseURL normalizes the configured base URL so that relative resolution
// of "satellites" lands under its path.
func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse base url %q: missing host", raw)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
