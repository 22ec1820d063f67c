package market

// Final cascade entry: on-chain price discovery
// EVM chains go through the AMM resolver plus direct ERC-20 metadata
// reads; Solana goes through the Jupiter aggregator plus RPC
// supply/account-info calls

import (
	"context"
	"math/big"
	"time"

	"github.com/shopspring/decimal"

	"token-radar/internal/amm"
	"token-radar/internal/chains"
	"token-radar/internal/clients_api/jupiter"
	"token-radar/internal/onchain"
	"token-radar/internal/token"
)

// PriceResolver derives a price from pool reserves.
type PriceResolver interface {
	ResolvePrice(ctx context.Context, address, chainID string) *amm.Quote
}

// MetadataReader reads ERC-20 identity straight from the contract.
type MetadataReader interface {
	TokenMetadata(ctx context.Context, tokenAddr string) (name, symbol string, decimals int, totalSupply *big.Int, err error)
}

// SolanaReader reads SPL mint state over RPC.
type SolanaReader interface {
	GetTokenSupply(ctx context.Context, mint string) (*onchain.TokenSupply, error)
	GetMintInfo(ctx context.Context, mint string) (*onchain.MintInfo, error)
}

// JupiterAPI serves aggregated Solana DEX prices.
type JupiterAPI interface {
	FetchPrice(ctx context.Context, mint string) (*jupiter.Price, error)
}

// DexDeps bundles everything the on-chain fallback needs.
type DexDeps struct {
	Resolver  PriceResolver
	EVMReader func(chain chains.Chain) MetadataReader
	Solana    SolanaReader
	Jupiter   JupiterAPI
}

// FromDex builds the last-resort provider.
func FromDex(deps DexDeps) Provider {
	return Provider{
		Name: "dex",
		Fetch: func(ctx context.Context, address string, chain chains.Chain) (*token.MarketSnapshot, error) {
			if chain.IsSolana() {
				return fetchSolanaDex(ctx, deps, address, chain)
			}
			return fetchEVMDex(ctx, deps, address, chain)
		},
	}
}

func fetchEVMDex(ctx context.Context, deps DexDeps, address string, chain chains.Chain) (*token.MarketSnapshot, error) {
	if deps.Resolver == nil {
		return nil, nil
	}
	quote := deps.Resolver.ResolvePrice(ctx, address, chain.ID)
	if quote == nil {
		return nil, nil
	}

	formatted := chains.NormalizeAddress(address, chain)
	snapshot := &token.MarketSnapshot{
		Address:      formatted,
		Chain:        chain.ID,
		Name:         "Unknown Token",
		Symbol:       "???",
		Price:        token.Float(quote.Price),
		LiquidityUSD: token.Float(quote.LiquidityUSD),
		Source:       quote.Source,
		LastUpdated:  time.Now().UTC(),
		Success:      true,
	}

	// Identity comes straight from the contract; a failed read costs
	// only the name fields, the price stands.
	if deps.EVMReader != nil {
		reader := deps.EVMReader(chain)
		if name, symbol, decimals, totalSupply, err := reader.TokenMetadata(ctx, formatted); err == nil {
			if name != "" {
				snapshot.Name = name
			}
			if symbol != "" {
				snapshot.Symbol = symbol
			}
			if totalSupply != nil && decimals >= 0 {
				scaled, _ := decimal.NewFromBigInt(totalSupply, int32(-decimals)).Float64()
				snapshot.TotalSupply = token.Float(scaled)
			}
		}
	}
	return snapshot, nil
}

func fetchSolanaDex(ctx context.Context, deps DexDeps, address string, chain chains.Chain) (*token.MarketSnapshot, error) {
	if deps.Jupiter == nil {
		return nil, nil
	}
	price, err := deps.Jupiter.FetchPrice(ctx, address)
	if err != nil {
		return nil, err
	}
	if price == nil {
		return nil, nil
	}

	snapshot := &token.MarketSnapshot{
		Address:                  address,
		Chain:                    chain.ID,
		Name:                     "Solana Token",
		Symbol:                   "???",
		Price:                    token.Float(price.Price),
		PriceChangePercentage24h: price.PriceChangePercentage24h,
		Source:                   "jupiter-aggregator",
		LastUpdated:              time.Now().UTC(),
		Success:                  true,
	}

	if deps.Solana != nil {
		if supply, err := deps.Solana.GetTokenSupply(ctx, address); err == nil && supply != nil {
			snapshot.TotalSupply = token.Float(supply.UIAmount)
		}
		// An uninitialized account cannot be a live mint; an RPC failure
		// is not fatal, the aggregator price stands on its own.
		if info, err := deps.Solana.GetMintInfo(ctx, address); err == nil && info != nil && !info.IsInitialized {
			return nil, nil
		}
	}
	return snapshot, nil
}
