package bubblemaps

// Client for the legacy holder-analytics API family
// Two related endpoints: map-data (full holder graph or pre-aggregated
// map) and map-metadata (flat stats only)
// Returns raw bodies; shape classification lives in the holders package
// because the API answers in three different formats

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"token-radar/internal/infra/httpx"
	"token-radar/internal/infra/ratelimit"
)

const legacyAPIBase = "https://api-legacy.bubblemaps.io"

const (
	mapDataTimeout     = 15 * time.Second
	mapMetadataTimeout = 10 * time.Second
)

type Client struct {
	baseURL string
	limiter *ratelimit.Limiter
	http    *httpx.Client
}

type Option func(*Client)

// WithBaseURL points the client at a different host, used in tests.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		c.baseURL = base
	}
}

// WithRequestsPerMinute caps how many holder lookups this client will
// attempt per minute.
func WithRequestsPerMinute(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.limiter = ratelimit.PerMinute(n)
		}
	}
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: legacyAPIBase,
		limiter: ratelimit.PerMinute(30),
		http: httpx.NewClient("bubblemaps",
			httpx.WithTimeout(mapDataTimeout),
		),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CanMakeRequest exposes the limiter to the aggregator, which skips the
// lookup entirely when denied.
func (c *Client) CanMakeRequest() bool {
	return c.limiter.CanMakeRequest()
}

// MapData fetches the holder graph / pre-aggregated map for a token.
func (c *Client) MapData(ctx context.Context, address, chain string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, mapDataTimeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s/map-data?token=%s&chain=%s",
		c.baseURL, url.QueryEscape(address), url.QueryEscape(chain))
	return c.http.Get(ctx, endpoint)
}

// MapMetadata fetches the flat stats-only shape for a token.
func (c *Client) MapMetadata(ctx context.Context, address, chain string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, mapMetadataTimeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s/map-metadata?chain=%s&token=%s",
		c.baseURL, url.QueryEscape(chain), url.QueryEscape(address))
	return c.http.Get(ctx, endpoint)
}
