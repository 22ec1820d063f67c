package jupiter

// Solana price aggregator client (price.jup.ag)
// Serves as the DEX price discovery path for SPL tokens, where the
// EVM factory probing does not apply

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"token-radar/internal/infra/httpx"
)

const apiBase = "https://price.jup.ag"

type Client struct {
	baseURL string
	http    *httpx.Client
}

type Option func(*Client)

func WithBaseURL(base string) Option {
	return func(c *Client) { c.baseURL = base }
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: apiBase,
		http: httpx.NewClient("jupiter",
			httpx.WithTimeout(5*time.Second),
		),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type priceResponse struct {
	Data map[string]priceData `json:"data"`
}

type priceData struct {
	// Price arrives as either a JSON number or a quoted string
	// depending on API version; keep it raw.
	Price          interface{} `json:"price"`
	PriceChange24h *float64    `json:"priceChange24h"`
}

// Price is a mint's aggregated DEX price.
type Price struct {
	Price                    float64
	PriceChangePercentage24h *float64
}

// FetchPrice returns the aggregated price for a mint, or nil when the
// aggregator does not know it.
func (c *Client) FetchPrice(ctx context.Context, mint string) (*Price, error) {
	endpoint := fmt.Sprintf("%s/v4/price?ids=%s", c.baseURL, url.QueryEscape(mint))

	var resp priceResponse
	if err := c.http.GetJSON(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	data, ok := resp.Data[mint]
	if !ok {
		return nil, nil
	}

	price, ok := parsePrice(data.Price)
	if !ok || price == 0 {
		return nil, nil
	}

	result := &Price{Price: price}
	if data.PriceChange24h != nil {
		// The aggregator reports a fraction; convert to percent.
		change := *data.PriceChange24h * 100
		result.PriceChangePercentage24h = &change
	}
	return result, nil
}

func parsePrice(raw interface{}) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		return parsed, err == nil
	default:
		return 0, false
	}
}
