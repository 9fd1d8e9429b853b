package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/OilerRig/WebApp/internal/logging"
	"github.com/OilerRig/WebApp/internal/port"
)

const errBodyLimit = 8 * 1024

type Config struct {
	BaseURL string
	// Timeout bounds every request; zero means no client-side timeout.
	Timeout   time.Duration
	Metrics   *Metrics
	Transport http.RoundTripper
}

// Client talks to the storefront REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *Metrics
}

var (
	_ port.CatalogAPI = (*Client)(nil)
	_ port.OrderAPI   = (*Client)(nil)
	_ port.AdminAPI   = (*Client)(nil)
)

func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}

	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("url.Parse[%s]: %w", cfg.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base URL scheme must be http or https, got %q", u.Scheme)
	}

	transport := cfg.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		metrics: cfg.Metrics,
	}, nil
}

type request struct {
	method string
	// route is the path template, used as a low-cardinality metrics label
	route string
	path  string
	query url.Values
	token string
	body  any
}

// do sends the request and returns the response of a 2xx reply.
// The caller owns the response body.
func (c *Client) do(ctx context.Context, r request) (*http.Response, error) {
	var reqBody io.Reader
	if r.body != nil {
		payload, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("json.Marshal: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	target := c.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target, reqBody)
	if err != nil {
		return nil, fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := time.Since(start)

	if err != nil {
		c.metrics.observe(r.method, r.route, 0, elapsed)
		return nil, &NetworkError{Method: r.method, Path: r.path, Err: err}
	}
	c.metrics.observe(r.method, r.route, resp.StatusCode, elapsed)

	logging.FromCtx(ctx).Debug("api request",
		"method", r.method,
		"path", r.path,
		"status", resp.StatusCode,
		"dur_ms", elapsed.Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body := readCapped(resp.Body, errBodyLimit)
		return nil, &StatusError{
			Method:     r.method,
			Path:       r.path,
			StatusCode: resp.StatusCode,
			Body:       body,
		}
	}

	return resp, nil
}

func (c *Client) getJSON(ctx context.Context, r request, out any) error {
	resp, err := c.do(ctx, r)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("json.Decode: %w", err)
	}

	return nil
}

// getText returns the plain text body, used by the admin endpoints which
// answer with a human readable message.
func (c *Client) getText(ctx context.Context, r request) (string, error) {
	resp, err := c.do(ctx, r)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("io.ReadAll: %w", err)
	}

	return strings.TrimSpace(string(body)), nil
}

func readCapped(rc io.ReadCloser, n int) string {
	defer rc.Close()

	var buf bytes.Buffer
	_, _ = io.CopyN(&buf, rc, int64(n))
	return buf.String()
}
