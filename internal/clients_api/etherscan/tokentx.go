package etherscan

// Explorer-family API client (Etherscan, BscScan and clones)
// Only the token-transfer listing is consumed, for the activity view
// Credentialed: without a key the provider is skipped, not errored

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"token-radar/internal/infra/httpx"
)

type Client struct {
	baseURL string
	apiKey  string
	http    *httpx.Client
}

type Option func(*Client)

func WithBaseURL(base string) Option {
	return func(c *Client) { c.baseURL = base }
}

// NewClient builds a client for one explorer instance. name feeds the
// circuit breaker and logs.
func NewClient(name, baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http: httpx.NewClient(name,
			httpx.WithTimeout(5*time.Second),
			httpx.WithRateLimit(4, 4), // free-tier limit is 5/s
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

// Transfer is one token-transfer event as the explorer reports it.
// Numeric fields stay strings: value is a raw integer scaled by
// TokenDecimal.
type Transfer struct {
	Hash         string `json:"hash"`
	TimeStamp    string `json:"timeStamp"`
	From         string `json:"from"`
	To           string `json:"to"`
	Value        string `json:"value"`
	TokenSymbol  string `json:"tokenSymbol"`
	TokenDecimal string `json:"tokenDecimal"`
}

type tokentxResponse struct {
	Status  string     `json:"status"`
	Message string     `json:"message"`
	Result  []Transfer `json:"result"`
}

// TokenTransfers lists the most recent transfers of a token contract,
// newest first, at most 100.
func (c *Client) TokenTransfers(ctx context.Context, contract string) ([]Transfer, error) {
	if !c.Enabled() {
		return nil, nil
	}

	endpoint := fmt.Sprintf(
		"%s?module=account&action=tokentx&contractaddress=%s&page=1&offset=100&sort=desc&apikey=%s",
		c.baseURL, url.QueryEscape(contract), url.QueryEscape(c.apiKey))

	var resp tokentxResponse
	if err := c.http.GetJSON(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	if resp.Status != "1" {
		// "0" covers both empty result sets and key problems; either
		// way there is nothing to show.
		return nil, nil
	}
	return resp.Result, nil
}
