package covalent

// Chain-indexer client (api.covalenthq.com)
// Requires a provisioned API key sent as the basic-auth username; the
// market cascade skips this provider entirely when no key is set
// The Solana endpoint answers a different shape than the EVM one

import (
	"context"
	"fmt"
	"time"

	"token-radar/internal/chains"
	"token-radar/internal/infra/httpx"
	"token-radar/internal/token"
)

const apiBase = "https://api.covalenthq.com"

// chainIDs maps registry chain ids to the provider's numeric ids.
var chainIDs = map[string]string{
	"eth":  "1",
	"bsc":  "56",
	"ftm":  "250",
	"avax": "43114",
	"poly": "137",
	"arbi": "42161",
	"cro":  "25",
	"base": "8453",
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

// NewClient builds the client. An empty apiKey yields a client whose
// Enabled() is false.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: apiBase,
		apiKey:  apiKey,
		http: httpx.NewClient("covalent",
			httpx.WithTimeout(10*time.Second),
			httpx.WithBasicAuth(apiKey),
		),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Enabled reports whether a credential is provisioned.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

type evmTokensResponse struct {
	Data struct {
		Items []tokenItem `json:"items"`
	} `json:"data"`
}

type solanaTokensResponse struct {
	Data *tokenItem `json:"data"`
}

type tokenItem struct {
	ContractName         string   `json:"contract_name"`
	ContractTickerSymbol string   `json:"contract_ticker_symbol"`
	ContractDecimals     int      `json:"contract_decimals"`
	QuoteRate            *float64 `json:"quote_rate"`
	MarketCapUSD         *float64 `json:"market_cap_usd"`
	TotalSupply          *float64 `json:"total_supply,string"`
	LogoURL              string   `json:"logo_url"`
}

// FetchMarketData returns a snapshot, or nil when the provider knows
// nothing about the token or no credential is configured.
func (c *Client) FetchMarketData(ctx context.Context, address string, chain chains.Chain) (*token.MarketSnapshot, error) {
	if !c.Enabled() {
		return nil, nil
	}
	if chain.IsSolana() {
		return c.fetchSolana(ctx, address)
	}

	chainID, ok := chainIDs[chain.ID]
	if !ok {
		return nil, nil
	}
	formatted := chains.NormalizeAddress(address, chain)

	var resp evmTokensResponse
	url := fmt.Sprintf("%s/v1/%s/tokens/%s/", c.baseURL, chainID, formatted)
	if err := c.http.GetJSON(ctx, url, &resp); err != nil {
		return nil, err
	}
	if len(resp.Data.Items) == 0 {
		return nil, nil
	}

	return snapshotFromItem(&resp.Data.Items[0], formatted, chain.ID, "covalent"), nil
}

func (c *Client) fetchSolana(ctx context.Context, address string) (*token.MarketSnapshot, error) {
	var resp solanaTokensResponse
	url := fmt.Sprintf("%s/v1/solana-mainnet/tokens/%s/", c.baseURL, address)
	if err := c.http.GetJSON(ctx, url, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, nil
	}
	return snapshotFromItem(resp.Data, address, "sol", "covalent-solana"), nil
}

func snapshotFromItem(item *tokenItem, address, chainID, source string) *token.MarketSnapshot {
	name := item.ContractName
	if name == "" {
		name = "Unknown Token"
	}
	symbol := item.ContractTickerSymbol
	if symbol == "" {
		symbol = "???"
	}
	return &token.MarketSnapshot{
		Address:     address,
		Chain:       chainID,
		Name:        name,
		Symbol:      symbol,
		Price:       item.QuoteRate,
		MarketCap:   item.MarketCapUSD,
		TotalSupply: item.TotalSupply,
		Source:      source,
		LastUpdated: time.Now().UTC(),
		Success:     true,
	}
}
