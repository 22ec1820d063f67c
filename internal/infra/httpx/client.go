package httpx

// Shared HTTP client used by all provider API clients
// Wraps net/http with rate limiting, a circuit breaker and request logging
// Providers are unreliable by assumption: a non-2xx answer becomes an
// HTTPError the caller classifies as "no data", never a panic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"token-radar/internal/infra/log"
)

// HTTPError is returned for any non-2xx response so callers can
// distinguish transport failures from unusable payloads.
type HTTPError struct {
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "http error: <nil>"
	}
	if len(e.Body) == 0 {
		return fmt.Sprintf("http error (%d)", e.StatusCode)
	}
	return fmt.Sprintf("http error (%d): %s", e.StatusCode, string(e.Body))
}

// Client is a provider-scoped HTTP client. Each external API gets its own
// instance so one misbehaving provider trips only its own breaker.
type Client struct {
	name            string
	httpClient      *http.Client
	rateLimiter     *rate.Limiter
	circuitBreaker  *gobreaker.CircuitBreaker
	maxResponseSize int64
	headers         map[string]string
	basicAuthUser   string
	basicAuthSet    bool
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithRateLimit caps outgoing request frequency.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) {
		c.rateLimiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithHeader adds a header to every request.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.headers[key] = value
	}
}

// WithBasicAuth sends the credential as the basic-auth username
// with an empty password on every request.
func WithBasicAuth(username string) Option {
	return func(c *Client) {
		c.basicAuthUser = username
		c.basicAuthSet = true
	}
}

// NewClient builds a client for one provider. The defaults match the
// most permissive provider; tune per provider with options.
func NewClient(name string, opts ...Option) *Client {
	c := &Client{
		name:            name,
		maxResponseSize: 10 * 1024 * 1024,
		headers: map[string]string{
			"Accept":     "application/json",
			"User-Agent": "TokenRadar/1.0",
		},
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				DisableKeepAlives: false,
				MaxIdleConns:      10,
				IdleConnTimeout:   90 * time.Second,
			},
		},
		rateLimiter: rate.NewLimiter(rate.Limit(10), 20),
	}
	c.circuitBreaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	})
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CanMakeRequest reports whether the rate limiter has budget left.
// The aggregators consult this before touching rate-sensitive providers
// and skip the provider when denied.
func (c *Client) CanMakeRequest() bool {
	return c.rateLimiter.Allow()
}

// GetJSON performs a GET and decodes the JSON body into out.
func (c *Client) GetJSON(ctx context.Context, url string, out interface{}) error {
	body, err := c.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", c.name, err)
	}
	return nil
}

// Get performs a GET and returns the raw body, leaving shape
// classification to the caller.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, url, nil)
}

// PostJSON sends a JSON payload and decodes the JSON response into out.
func (c *Client) PostJSON(ctx context.Context, url string, payload, out interface{}) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%s: encode payload: %w", c.name, err)
	}
	body, err := c.do(ctx, http.MethodPost, url, encoded)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", c.name, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, url string, payload []byte) ([]byte, error) {
	requestID := log.GenerateRequestID()
	startTime := time.Now()

	if ctx.Err() != nil {
		return nil, fmt.Errorf("context cancelled: %w", ctx.Err())
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%s: rate limiter: %w", c.name, err)
	}

	result, err := c.circuitBreaker.Execute(func() (interface{}, error) {
		var bodyReader io.Reader
		if payload != nil {
			bodyReader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
		if err != nil {
			return nil, err
		}
		for key, value := range c.headers {
			req.Header.Set(key, value)
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if c.basicAuthSet {
			req.SetBasicAuth(c.basicAuthUser, "")
		}

		log.LogRequest(requestID, method, url)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxResponseSize))
		if err != nil {
			return nil, err
		}

		log.LogResponse(requestID, resp.StatusCode, time.Since(startTime).Milliseconds(),
			zap.String("provider", c.name))

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, &HTTPError{StatusCode: resp.StatusCode, Body: body}
		}
		return body, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.name, err)
	}
	return result.([]byte), nil
}
