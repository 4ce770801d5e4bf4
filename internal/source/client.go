// Package source fetches the roster document from a URL or a local file.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"eraleague.org/roster-web/internal/league"
	"eraleague.org/roster-web/internal/observability"
)

const (
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 8 << 20
)

// ErrNoSource is returned when the client has no location configured.
var ErrNoSource = errors.New("source: location not configured")

// StatusError reports a non-2xx response from an HTTP source.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

type format int

const (
	formatJSON format = iota
	formatYAML
)

// Client loads roster snapshots. Every Fetch goes to the source; nothing is cached.
type Client struct {
	location string
	http     *http.Client
	timeout  time.Duration
	logger   *zap.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client used for remote sources.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout bounds a single fetch. Non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the logger used when the request context carries none.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient constructs a Client for an http(s) URL or a file path.
func NewClient(location string, opts ...Option) *Client {
	c := &Client{
		location: strings.TrimSpace(location),
		http:     &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		timeout:  defaultTimeout,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Location returns the configured source.
func (c *Client) Location() string { return c.location }

// Remote reports whether the source is fetched over HTTP.
func (c *Client) Remote() bool {
	return isRemote(c.location)
}

// Fetch reads and decodes the roster document once.
func (c *Client) Fetch(ctx context.Context) (*league.Snapshot, error) {
	if c == nil || c.location == "" {
		return nil, ErrNoSource
	}
	ctx, span := observability.Tracer().Start(ctx, "source.Fetch",
		trace.WithAttributes(
			attribute.String("roster.source", c.location),
			attribute.Bool("roster.source.remote", c.Remote()),
		))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	raw, f, err := c.read(ctx)
	if err == nil {
		var snap *league.Snapshot
		snap, err = decode(raw, f)
		if err == nil {
			c.log(ctx).Debug("roster data fetched",
				zap.String("source", c.location),
				zap.Int("bytes", len(raw)),
				zap.Int("divisions", len(snap.Divisions)),
				zap.Duration("duration", time.Since(start)),
			)
			span.SetAttributes(attribute.Int("roster.divisions", len(snap.Divisions)))
			return snap, nil
		}
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return nil, err
}

func (c *Client) read(ctx context.Context) ([]byte, format, error) {
	if c.Remote() {
		return c.readHTTP(ctx)
	}
	return c.readFile(ctx)
}

func (c *Client) readHTTP(ctx context.Context) ([]byte, format, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.location, nil)
	if err != nil {
		return nil, formatJSON, fmt.Errorf("source: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9")
	req.Header.Set("Cache-Control", "no-store")
	req.Header.Set("Pragma", "no-cache")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, formatJSON, fmt.Errorf("source: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, formatJSON, &StatusError{StatusCode: resp.StatusCode}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, formatJSON, fmt.Errorf("source: read body: %w", err)
	}

	f := formatFor(urlPath(c.location))
	if ct := resp.Header.Get("Content-Type"); ct != "" {
		if mt, _, err := mime.ParseMediaType(ct); err == nil && strings.Contains(mt, "yaml") {
			f = formatYAML
		}
	}
	return raw, f, nil
}

func (c *Client) readFile(ctx context.Context) ([]byte, format, error) {
	if err := ctx.Err(); err != nil {
		return nil, formatJSON, fmt.Errorf("source: %w", err)
	}
	p := strings.TrimPrefix(c.location, "file://")
	raw, err := os.ReadFile(p)
	if err != nil {
		return nil, formatJSON, fmt.Errorf("source: read %s: %w", p, err)
	}
	return raw, formatFor(p), nil
}

func (c *Client) log(ctx context.Context) *zap.Logger {
	if l := observability.FromContext(ctx); l.Core().Enabled(zap.ErrorLevel) {
		return l
	}
	return c.logger
}

func decode(raw []byte, f format) (*league.Snapshot, error) {
	if f == formatYAML {
		return league.DecodeYAML(raw)
	}
	return league.DecodeJSON(raw)
}

func formatFor(p string) format {
	switch strings.ToLower(path.Ext(p)) {
	case ".yaml", ".yml":
		return formatYAML
	default:
		return formatJSON
	}
}

func isRemote(location string) bool {
	lower := strings.ToLower(location)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func urlPath(location string) string {
	u, err := url.Parse(location)
	if err != nil {
		return location
	}
	return u.Path
}
