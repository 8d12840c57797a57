// Package api is a client for the pokerbots platform API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-querystring/query"
	"github.com/google/uuid"
	"github.com/upac/pokerbots/pkg/cache"
	"github.com/upac/pokerbots/pkg/config"
)

// maxResponseSize caps the size of JSON responses.
const maxResponseSize = 8 << 20

// Client talks to the platform API.
type Client struct {
	base   *url.URL
	origin *url.URL
	client *http.Client
	cache  cache.Cache
	ttl    time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
// The client's cookie jar is replaced when a session is configured.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// WithCache sets the cache used to resolve bots and teams.
func WithCache(ca cache.Cache) Option {
	return func(c *Client) {
		c.cache = ca
	}
}

// WithCacheTTL sets how long resolved bots and teams stay cached. It
// overrides the configured cache TTL.
func WithCacheTTL(d time.Duration) Option {
	return func(c *Client) {
		c.ttl = d
	}
}

// New returns a new API client for the given configuration.
func New(cfg *config.Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, config.ErrNilConfig
	}

	base, err := url.Parse(strings.TrimSuffix(cfg.API.URL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse api url: %w", err)
	}

	c := &Client{
		base:   base,
		origin: &url.URL{Scheme: base.Scheme, Host: base.Host},
		ttl:    cfg.Cache.TTL.Std(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.client == nil {
		c.client = &http.Client{Timeout: cfg.API.Timeout.Std()}
	}

	if cfg.API.Session != "" {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, err
		}
		name := cfg.API.SessionCookie
		if name == "" {
			name = "id"
		}
		jar.SetCookies(c.origin, []*http.Cookie{{
			Name:  name,
			Value: cfg.API.Session,
			Path:  "/",
		}})
		hc := *c.client
		hc.Jar = jar
		c.client = &hc
	}

	return c, nil
}

// BaseURL returns the API base URL.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// Origin returns the site the API is mounted on.
func (c *Client) Origin() string {
	return c.origin.String()
}

func (c *Client) endpointURL(endpoint string, q any) (string, error) {
	u := *c.base
	u.Path = strings.TrimSuffix(u.Path, "/") + "/" + strings.TrimPrefix(endpoint, "/")
	if q != nil {
		v, err := query.Values(q)
		if err != nil {
			return "", fmt.Errorf("encode query: %w", err)
		}
		u.RawQuery = v.Encode()
	}
	return u.String(), nil
}

// do performs a request and returns the response for a successful or
// domain-level status. The caller must close the body.
func (c *Client) do(ctx context.Context, method, endpoint string, q any, body io.Reader, callback func(*http.Request)) (*http.Response, error) {
	logger := log.FromContext(ctx).WithPrefix("api")
	u, err := c.endpointURL(endpoint, q)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		logger.Errorf("Error creating request: %v", err)
		return nil, err
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", reqID)
	if callback != nil {
		callback(req)
	}

	logger.Debug("calling", "method", method, "url", u, "request_id", reqID)
	start := time.Now()
	res, err := c.client.Do(req)
	if err != nil {
		observe(endpoint, "error", start)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		logger.Errorf("Error while processing request: %v", err)
		return nil, &TransportError{Endpoint: endpoint, Err: err}
	}
	observe(endpoint, strconv.Itoa(res.StatusCode), start)

	switch {
	case res.StatusCode == http.StatusUnauthorized, res.StatusCode == http.StatusForbidden:
		res.Body.Close() // nolint: errcheck
		logger.Warn("request rejected", "endpoint", endpoint, "status", res.StatusCode)
		return nil, fmt.Errorf("%s: %w", endpoint, ErrUnauthorized)
	case res.StatusCode >= 300:
		defer res.Body.Close() // nolint: errcheck
		// The server may still explain itself with an error payload.
		if err := decode(endpoint, res.Body, nil); err != nil && IsDomainError(err) {
			return nil, err
		}
		if res.StatusCode == http.StatusNotFound {
			return nil, &TransportError{Endpoint: endpoint, Status: res.StatusCode, Err: ErrNotFound}
		}
		return nil, &TransportError{Endpoint: endpoint, Status: res.StatusCode, Err: errors.New(res.Status)}
	}

	return res, nil
}

// call performs a request and decodes a JSON response into v.
// v may be nil when the response carries no data.
func (c *Client) call(ctx context.Context, method, endpoint string, q any, v any) error {
	res, err := c.do(ctx, method, endpoint, q, nil, nil)
	if err != nil {
		return err
	}
	defer res.Body.Close() // nolint: errcheck
	return decode(endpoint, res.Body, v)
}

// upload streams r as the raw request body.
func (c *Client) upload(ctx context.Context, method, endpoint string, r io.Reader, size int64) (*UploadResult, error) {
	res, err := c.do(ctx, method, endpoint, nil, r, func(req *http.Request) {
		req.Header.Set("Content-Type", "application/octet-stream")
		if size >= 0 {
			req.ContentLength = size
		}
	})
	if err != nil {
		return nil, err
	}
	defer res.Body.Close() // nolint: errcheck

	var result UploadResult
	if err := decode(endpoint, res.Body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

type errorPayload struct {
	Error *string `json:"error"`
}

// decode reads a JSON body. A body holding a non-null "error" field is
// returned as an *Error. An empty body decodes to nothing. A body that isn't
// JSON is a *TransportError when a value was expected.
func decode(endpoint string, r io.Reader, v any) error {
	data, err := io.ReadAll(io.LimitReader(r, maxResponseSize))
	if err != nil {
		return &TransportError{Endpoint: endpoint, Err: err}
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}

	if data[0] == '{' {
		var ep errorPayload
		if err := json.Unmarshal(data, &ep); err == nil && ep.Error != nil {
			return &Error{Endpoint: endpoint, Message: *ep.Error}
		}
	}

	if v == nil {
		return nil
	}

	if err := json.Unmarshal(data, v); err != nil {
		return &TransportError{Endpoint: endpoint, Err: fmt.Errorf("decode json: %w", err)}
	}

	return nil
}
