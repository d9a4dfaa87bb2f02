// Package httpclient is the HTTP adapter shared by every resource service.
// It owns the bearer credential and drops it whenever the backend answers 401.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/miseventos/miseventos-go/internal/apierror"
	"github.com/miseventos/miseventos-go/internal/metrics"
)

const maxBodyBytes = 10 << 20 // 10MB

// Client sends requests to the backend relative to a base URL.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	logger  *slog.Logger
	limiter *rate.Limiter
	metrics *metrics.Recorder

	mu             sync.RWMutex
	token          string
	onUnauthorized []func(*http.Request)
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithRateLimit caps outgoing requests per second. rps <= 0 disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithMetrics records every request on rec.
func WithMetrics(rec *metrics.Recorder) Option {
	return func(c *Client) { c.metrics = rec }
}

// NewHTTPClient returns an *http.Client with a tuned transport.
func NewHTTPClient(timeout time.Duration) *http.Client {
	tr := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 60 * time.Second}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: tr}
}

// New creates a Client for the backend at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		baseURL: u,
		http:    NewHTTPClient(15 * time.Second),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SetAuthToken attaches token as a bearer credential to every subsequent
// request. An empty token removes the Authorization header.
func (c *Client) SetAuthToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// AuthToken returns the bearer credential currently attached, if any.
func (c *Client) AuthToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// OnUnauthorized registers fn to run after a 401 response, once the
// credential has already been dropped.
func (c *Client) OnUnauthorized(fn func(*http.Request)) {
	c.mu.Lock()
	c.onUnauthorized = append(c.onUnauthorized, fn)
	c.mu.Unlock()
}

type request struct {
	query       url.Values
	body        io.Reader
	contentType string
	bearer      *string
	encodeErr   error
}

// RequestOption configures a single request.
type RequestOption func(*request)

// Query sets the URL query parameters.
func Query(v url.Values) RequestOption {
	return func(r *request) { r.query = v }
}

// JSON sends v as a JSON body.
func JSON(v any) RequestOption {
	return func(r *request) {
		b, err := json.Marshal(v)
		if err != nil {
			r.encodeErr = fmt.Errorf("encode request body: %w", err)
			return
		}
		r.body = bytes.NewReader(b)
		r.contentType = "application/json"
	}
}

// Form sends v as an application/x-www-form-urlencoded body.
func Form(v url.Values) RequestOption {
	return func(r *request) {
		r.body = strings.NewReader(v.Encode())
		r.contentType = "application/x-www-form-urlencoded"
	}
}

// WithBearer overrides the attached credential for this request only.
func WithBearer(token string) RequestOption {
	return func(r *request) { r.bearer = &token }
}

// Do sends a request and decodes a successful JSON response into out (which
// may be nil). Non-2xx responses and transport failures are returned as
// *apierror.Error.
func (c *Client) Do(ctx context.Context, method, path string, out any, opts ...RequestOption) error {
	var r request
	for _, opt := range opts {
		opt(&r)
	}
	if r.encodeErr != nil {
		return apierror.Unexpected(method, path, 0, r.encodeErr)
	}

	u := c.baseURL.JoinPath(path)
	if len(r.query) > 0 {
		u.RawQuery = r.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), r.body)
	if err != nil {
		return apierror.Unexpected(method, path, 0, err)
	}
	req.Header.Set("Accept", "application/json")
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	token := c.AuthToken()
	if r.bearer != nil {
		token = *r.bearer
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return apierror.Network(method, path, err)
		}
	}

	route := routeLabel(path)
	start := time.Now()
	resp, err := c.http.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		c.metrics.ObserveRequest(method, route, 0, elapsed)
		c.logger.Error("request failed", "method", method, "path", path, "duration", elapsed, "error", err)
		return apierror.Network(method, path, err)
	}
	defer resp.Body.Close()

	c.metrics.ObserveRequest(method, route, resp.StatusCode, elapsed)

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return apierror.Network(method, path, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.handleUnauthorized(req)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := apierror.FromResponse(method, path, resp.StatusCode, body)
		c.logger.Warn("request rejected", "method", method, "path", path, "status", resp.StatusCode, "duration", elapsed, "message", apiErr.Message)
		return apiErr
	}

	c.logger.Debug("request processed", "method", method, "path", path, "status", resp.StatusCode, "duration", elapsed)

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return apierror.Unexpected(method, path, resp.StatusCode, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func (c *Client) handleUnauthorized(req *http.Request) {
	c.mu.Lock()
	c.token = ""
	hooks := append([]func(*http.Request){}, c.onUnauthorized...)
	c.mu.Unlock()

	c.metrics.CredentialsCleared()
	c.logger.Warn("unauthorized response, credentials cleared", "method", req.Method, "path", req.URL.Path)

	for _, fn := range hooks {
		fn(req)
	}
}

// Get is shorthand for Do with GET.
func (c *Client) Get(ctx context.Context, path string, out any, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodGet, path, out, opts...)
}

// Post is shorthand for Do with POST.
func (c *Client) Post(ctx context.Context, path string, out any, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodPost, path, out, opts...)
}

// Put is shorthand for Do with PUT.
func (c *Client) Put(ctx context.Context, path string, out any, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodPut, path, out, opts...)
}

// Patch is shorthand for Do with PATCH.
func (c *Client) Patch(ctx context.Context, path string, out any, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodPatch, path, out, opts...)
}

// Delete is shorthand for Do with DELETE.
func (c *Client) Delete(ctx context.Context, path string, out any, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodDelete, path, out, opts...)
}

// routeLabel collapses numeric path segments so metric labels stay bounded.
func routeLabel(path string) string {
	segments := strings.Split(path, "/")
	for i, s := range segments {
		if s == "" {
			continue
		}
		if strings.Trim(s, "0123456789") == "" {
			segments[i] = "{id}"
		}
	}
	return strings.Join(segments, "/")
}
