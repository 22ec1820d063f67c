package coingecko

// Coin-metadata aggregator client (api.coingecko.com)
// Richest schema in the cascade: multi-horizon changes, market cap
// rank, ATH/ATL, community/developer scores and exchange tickers

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"token-radar/internal/chains"
	"token-radar/internal/infra/httpx"
	"token-radar/internal/token"
)

const apiBase = "https://api.coingecko.com"

// platformSlugs maps registry chain ids to the provider's platform
// slugs.
var platformSlugs = map[string]string{
	"eth":  "ethereum",
	"bsc":  "binance-smart-chain",
	"ftm":  "fantom",
	"avax": "avalanche",
	"poly": "polygon-pos",
	"arbi": "arbitrum-one",
	"cro":  "cronos",
	"base": "base",
	"sol":  "solana",
}

type Client struct {
	baseURL string
	apiKey  string
	http    *httpx.Client
}

type Option func(*Client)

func WithBaseURL(base string) Option {
	return func(c *Client) { c.baseURL = base }
}

func NewClient(apiKey string, opts ...Option) *Client {
	clientOpts := []httpx.Option{
		httpx.WithTimeout(10 * time.Second),
		httpx.WithRateLimit(1, 3), // public tier is touchy
	}
	if apiKey != "" {
		clientOpts = append(clientOpts, httpx.WithHeader("x-cg-pro-api-key", apiKey))
	}
	c := &Client{
		baseURL: apiBase,
		apiKey:  apiKey,
		http:    httpx.NewClient("coingecko", clientOpts...),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type usdValue struct {
	USD *float64 `json:"usd"`
}

type usdDate struct {
	USD string `json:"usd"`
}

type contractResponse struct {
	Name       string `json:"name"`
	Symbol     string `json:"symbol"`
	MarketData *struct {
		CurrentPrice             usdValue `json:"current_price"`
		PriceChange24h           *float64 `json:"price_change_percentage_24h"`
		PriceChange7d            *float64 `json:"price_change_percentage_7d"`
		PriceChange30d           *float64 `json:"price_change_percentage_30d"`
		MarketCap                usdValue `json:"market_cap"`
		MarketCapRank            *int     `json:"market_cap_rank"`
		FullyDilutedValuation    usdValue `json:"fully_diluted_valuation"`
		TotalVolume              usdValue `json:"total_volume"`
		TotalVolumeChange24h     *float64 `json:"total_volume_change_percentage_24h"`
		CirculatingSupply        *float64 `json:"circulating_supply"`
		TotalSupply              *float64 `json:"total_supply"`
		MaxSupply                *float64 `json:"max_supply"`
		ATH                      usdValue `json:"ath"`
		ATHDate                  usdDate  `json:"ath_date"`
		ATHChangePercentage      usdValue `json:"ath_change_percentage"`
		ATL                      usdValue `json:"atl"`
		ATLDate                  usdDate  `json:"atl_date"`
		ATLChangePercentage      usdValue `json:"atl_change_percentage"`
		High24h                  usdValue `json:"high_24h"`
		Low24h                   usdValue `json:"low_24h"`
	} `json:"market_data"`
	Tickers     []tickerData `json:"tickers"`
	LastUpdated string       `json:"last_updated"`
}

type tickerData struct {
	Base   string `json:"base"`
	Target string `json:"target"`
	Market struct {
		Name string `json:"name"`
	} `json:"market"`
	Last       float64 `json:"last"`
	Volume     float64 `json:"volume"`
	TrustScore string  `json:"trust_score"`
}

// FetchMarketData returns a snapshot, or nil when the provider does
// not index the contract.
func (c *Client) FetchMarketData(ctx context.Context, address string, chain chains.Chain) (*token.MarketSnapshot, error) {
	platform, ok := platformSlugs[chain.ID]
	if !ok {
		platform = "ethereum"
	}
	formatted := chains.NormalizeAddress(address, chain)

	url := fmt.Sprintf("%s/api/v3/coins/%s/contract/%s"+
		"?localization=false&tickers=true&market_data=true&community_data=true&developer_data=false&sparkline=true",
		c.baseURL, platform, formatted)

	var resp contractResponse
	if err := c.http.GetJSON(ctx, url, &resp); err != nil {
		return nil, err
	}
	if resp.Name == "" && resp.MarketData == nil {
		return nil, nil
	}

	snapshot := &token.MarketSnapshot{
		Address:     formatted,
		Chain:       chain.ID,
		Name:        valueOr(resp.Name, "Unknown Token"),
		Symbol:      valueOr(strings.ToUpper(resp.Symbol), "???"),
		Exchanges:   topExchanges(resp.Tickers),
		Source:      "coingecko",
		LastUpdated: time.Now().UTC(),
		Success:     true,
	}
	if t, err := time.Parse(time.RFC3339, resp.LastUpdated); err == nil {
		snapshot.LastUpdated = t
	}

	if md := resp.MarketData; md != nil {
		snapshot.Price = md.CurrentPrice.USD
		snapshot.PriceChangePercentage24h = md.PriceChange24h
		snapshot.PriceChangePercentage7d = md.PriceChange7d
		snapshot.PriceChangePercentage30d = md.PriceChange30d
		snapshot.MarketCap = md.MarketCap.USD
		snapshot.MarketCapRank = md.MarketCapRank
		snapshot.FullyDilutedValuation = md.FullyDilutedValuation.USD
		snapshot.Volume24h = md.TotalVolume.USD
		snapshot.VolumeChangePercentage24h = md.TotalVolumeChange24h
		snapshot.CirculatingSupply = md.CirculatingSupply
		snapshot.TotalSupply = md.TotalSupply
		snapshot.MaxSupply = md.MaxSupply
		snapshot.AllTimeHigh = md.ATH.USD
		snapshot.AllTimeHighDate = md.ATHDate.USD
		snapshot.AllTimeHighChangePercent = md.ATHChangePercentage.USD
		snapshot.AllTimeLow = md.ATL.USD
		snapshot.AllTimeLowDate = md.ATLDate.USD
		snapshot.AllTimeLowChangePercent = md.ATLChangePercentage.USD
		snapshot.High24h = md.High24h.USD
		snapshot.Low24h = md.Low24h.USD
	}

	return snapshot, nil
}

// topExchanges keeps the five highest-volume tickers.
func topExchanges(tickers []tickerData) []token.ExchangeListing {
	if len(tickers) == 0 {
		return nil
	}
	sorted := make([]tickerData, len(tickers))
	copy(sorted, tickers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Volume > sorted[j].Volume
	})

	limit := 5
	if len(sorted) < limit {
		limit = len(sorted)
	}
	listings := make([]token.ExchangeListing, 0, limit)
	for _, ticker := range sorted[:limit] {
		listings = append(listings, token.ExchangeListing{
			Name:       valueOr(ticker.Market.Name, "Unknown"),
			Pair:       ticker.Base + "/" + ticker.Target,
			Price:      ticker.Last,
			Volume:     ticker.Volume,
			TrustScore: ticker.TrustScore,
		})
	}
	return listings
}

func valueOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
