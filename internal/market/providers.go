package market

// Provider cascade for market data
// Every provider has the same signature: normalized snapshot, nil for
// "no data", error for transport trouble; both of the latter fall
// through to the next provider in order

import (
	"context"

	"token-radar/internal/chains"
	"token-radar/internal/clients_api/coingecko"
	"token-radar/internal/clients_api/covalent"
	"token-radar/internal/clients_api/defillama"
	"token-radar/internal/token"
)

// Provider is one entry of the cascade. Adding or removing a provider
// is a wiring change, not an aggregator change.
type Provider struct {
	Name  string
	Fetch func(ctx context.Context, address string, chain chains.Chain) (*token.MarketSnapshot, error)
}

// FromDefiLlama wraps the price-oracle aggregator.
func FromDefiLlama(client *defillama.Client) Provider {
	return Provider{
		Name:  "defi-llama",
		Fetch: client.FetchMarketData,
	}
}

// FromCovalent wraps the chain indexer. Without a credential the
// provider reports no data and the cascade moves on silently.
func FromCovalent(client *covalent.Client) Provider {
	return Provider{
		Name: "covalent",
		Fetch: func(ctx context.Context, address string, chain chains.Chain) (*token.MarketSnapshot, error) {
			if !client.Enabled() {
				return nil, nil
			}
			return client.FetchMarketData(ctx, address, chain)
		},
	}
}

// FromCoinGecko wraps the coin-metadata aggregator.
func FromCoinGecko(client *coingecko.Client) Provider {
	return Provider{
		Name:  "coingecko",
		Fetch: client.FetchMarketData,
	}
}
