package defillama

// Price-oracle aggregator client (coins.llama.fi)
// Current price plus a recent chart; the chart derives 24h high/low
// and the percent change between its first and last samples

import (
	"context"
	"fmt"
	"time"

	"token-radar/internal/chains"
	"token-radar/internal/infra/httpx"
	"token-radar/internal/token"
)

const apiBase = "https://coins.llama.fi"

// chainSlugs maps registry chain ids to the provider's internal slugs.
var chainSlugs = map[string]string{
	"eth":   "ethereum",
	"bsc":   "bsc",
	"ftm":   "fantom",
	"avax":  "avax",
	"poly":  "polygon",
	"arbi":  "arbitrum",
	"cro":   "cronos",
	"base":  "base",
	"sol":   "solana",
	"sonic": "sonic",
}

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
		http: httpx.NewClient("defillama",
			httpx.WithTimeout(5*time.Second),
		),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type currentPricesResponse struct {
	Coins map[string]coinData `json:"coins"`
}

type coinData struct {
	Price       *float64 `json:"price"`
	Symbol      string   `json:"symbol"`
	Name        string   `json:"name"`
	Timestamp   int64    `json:"timestamp"`
	Confidence  *float64 `json:"confidence"`
	MarketCap   *float64 `json:"mcap"`
	TotalSupply *float64 `json:"totalSupply"`
	Volume      *float64 `json:"volume"`
	Decimals    int      `json:"decimals"`
}

type chartResponse struct {
	Prices []chartPoint `json:"prices"`
}

type chartPoint struct {
	Timestamp int64   `json:"timestamp"`
	Price     float64 `json:"price"`
}

// FetchMarketData returns a snapshot for the token, or nil when the
// provider has no data for it.
func (c *Client) FetchMarketData(ctx context.Context, address string, chain chains.Chain) (*token.MarketSnapshot, error) {
	slug, ok := chainSlugs[chain.ID]
	if !ok {
		slug = "ethereum"
	}
	formatted := chains.NormalizeAddress(address, chain)
	coinKey := slug + ":" + formatted

	var current currentPricesResponse
	if err := c.http.GetJSON(ctx, fmt.Sprintf("%s/prices/current/%s", c.baseURL, coinKey), &current); err != nil {
		return nil, err
	}
	coin, ok := current.Coins[coinKey]
	if !ok {
		return nil, nil
	}

	snapshot := &token.MarketSnapshot{
		Address:     formatted,
		Chain:       chain.ID,
		Name:        valueOr(coin.Name, "Unknown Token"),
		Symbol:      valueOr(coin.Symbol, "???"),
		Price:       coin.Price,
		MarketCap:   coin.MarketCap,
		TotalSupply: coin.TotalSupply,
		Volume24h:   coin.Volume,
		Source:      "defi-llama",
		LastUpdated: time.Now().UTC(),
		Success:     true,
	}
	if coin.Timestamp > 0 {
		snapshot.LastUpdated = time.Unix(coin.Timestamp, 0).UTC()
	}

	// Chart failures only cost the derived fields.
	var chart chartResponse
	if err := c.http.GetJSON(ctx, fmt.Sprintf("%s/chart/%s", c.baseURL, coinKey), &chart); err == nil {
		applyChart(snapshot, chart.Prices)
	}

	return snapshot, nil
}

// applyChart fills high/low and the 24h change from chart samples:
// the last-24h window when it has enough points, otherwise the most
// recent samples.
func applyChart(snapshot *token.MarketSnapshot, prices []chartPoint) {
	if len(prices) == 0 {
		return
	}

	cutoff := time.Now().Add(-24 * time.Hour).Unix()
	var window []chartPoint
	for _, p := range prices {
		if p.Timestamp > cutoff {
			window = append(window, p)
		}
	}
	if len(window) <= 10 {
		n := len(prices)
		if n > 24 {
			n = 24
		}
		window = prices[len(prices)-n:]
	}
	if len(window) == 0 {
		return
	}

	high, low := window[0].Price, window[0].Price
	for _, p := range window[1:] {
		if p.Price > high {
			high = p.Price
		}
		if p.Price < low {
			low = p.Price
		}
	}
	snapshot.High24h = token.Float(high)
	snapshot.Low24h = token.Float(low)

	if len(window) >= 2 && window[0].Price != 0 {
		change := (window[len(window)-1].Price - window[0].Price) / window[0].Price * 100
		snapshot.PriceChangePercentage24h = token.Float(change)
	}
}

func valueOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
