package market

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"token-radar/internal/amm"
	"token-radar/internal/chains"
	"token-radar/internal/clients_api/jupiter"
	"token-radar/internal/onchain"
)

type fakeResolver struct {
	quote *amm.Quote
}

func (f *fakeResolver) ResolvePrice(ctx context.Context, address, chainID string) *amm.Quote {
	return f.quote
}

type fakeMetadataReader struct {
	name   string
	symbol string
	err    error
}

func (f *fakeMetadataReader) TokenMetadata(ctx context.Context, tokenAddr string) (string, string, int, *big.Int, error) {
	if f.err != nil {
		return "", "", 0, nil, f.err
	}
	supply := new(big.Int)
	supply.SetString("1000000000000000000000000", 10) // 1M at 18 decimals
	return f.name, f.symbol, 18, supply, nil
}

type fakeJupiter struct {
	price *jupiter.Price
	err   error
}

func (f *fakeJupiter) FetchPrice(ctx context.Context, mint string) (*jupiter.Price, error) {
	return f.price, f.err
}

type fakeSolanaReader struct {
	supply *onchain.TokenSupply
}

func (f *fakeSolanaReader) GetTokenSupply(ctx context.Context, mint string) (*onchain.TokenSupply, error) {
	return f.supply, nil
}

func (f *fakeSolanaReader) GetMintInfo(ctx context.Context, mint string) (*onchain.MintInfo, error) {
	return &onchain.MintInfo{Decimals: 9, IsInitialized: true}, nil
}

func TestDexProviderEVMQuote(t *testing.T) {
	registry := chains.NewRegistry("eth", nil)
	provider := FromDex(DexDeps{
		Resolver: &fakeResolver{quote: &amm.Quote{Price: 5.0, Source: "dex-native", LiquidityUSD: 10000}},
		EVMReader: func(chain chains.Chain) MetadataReader {
			return &fakeMetadataReader{name: "Onchain Token", symbol: "ONC"}
		},
	})

	snapshot, err := provider.Fetch(context.Background(), "0x1f9840a85d5aF5bf1D1762F925BDADdC4201F984", registry.Resolve("eth"))
	require.NoError(t, err)
	require.NotNil(t, snapshot)

	assert.Equal(t, 5.0, *snapshot.Price)
	assert.Equal(t, "dex-native", snapshot.Source)
	assert.Equal(t, 10000.0, *snapshot.LiquidityUSD)
	assert.Equal(t, "Onchain Token", snapshot.Name)
	assert.Equal(t, "ONC", snapshot.Symbol)
	assert.InDelta(t, 1_000_000, *snapshot.TotalSupply, 1e-6)
	assert.True(t, snapshot.HasData())
}

func TestDexProviderEVMNoPool(t *testing.T) {
	registry := chains.NewRegistry("eth", nil)
	provider := FromDex(DexDeps{Resolver: &fakeResolver{quote: nil}})

	snapshot, err := provider.Fetch(context.Background(), "0xabc", registry.Resolve("eth"))
	assert.NoError(t, err)
	assert.Nil(t, snapshot)
}

func TestDexProviderEVMMetadataFailureKeepsPrice(t *testing.T) {
	registry := chains.NewRegistry("eth", nil)
	provider := FromDex(DexDeps{
		Resolver: &fakeResolver{quote: &amm.Quote{Price: 0.25, Source: "dex-stable"}},
		EVMReader: func(chain chains.Chain) MetadataReader {
			return &fakeMetadataReader{err: assert.AnError}
		},
	})

	snapshot, err := provider.Fetch(context.Background(), "0xabc", registry.Resolve("eth"))
	require.NoError(t, err)
	require.NotNil(t, snapshot)
	assert.Equal(t, 0.25, *snapshot.Price)
	assert.Equal(t, "Unknown Token", snapshot.Name)
	assert.Equal(t, "???", snapshot.Symbol)
}

func TestDexProviderSolana(t *testing.T) {
	registry := chains.NewRegistry("eth", nil)
	change := 4.2
	provider := FromDex(DexDeps{
		Jupiter: &fakeJupiter{price: &jupiter.Price{Price: 1.01, PriceChangePercentage24h: &change}},
		Solana:  &fakeSolanaReader{supply: &onchain.TokenSupply{Amount: "500000000000000", Decimals: 9, UIAmount: 500000}},
	})

	snapshot, err := provider.Fetch(context.Background(), "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v", registry.Resolve("sol"))
	require.NoError(t, err)
	require.NotNil(t, snapshot)

	assert.Equal(t, "Solana Token", snapshot.Name)
	assert.Equal(t, "jupiter-aggregator", snapshot.Source)
	assert.Equal(t, 1.01, *snapshot.Price)
	assert.Equal(t, 4.2, *snapshot.PriceChangePercentage24h)
	assert.Equal(t, 500000.0, *snapshot.TotalSupply)
}

func TestDexProviderSolanaUnknownMint(t *testing.T) {
	registry := chains.NewRegistry("eth", nil)
	provider := FromDex(DexDeps{Jupiter: &fakeJupiter{price: nil}})

	snapshot, err := provider.Fetch(context.Background(), "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v", registry.Resolve("sol"))
	assert.NoError(t, err)
	assert.Nil(t, snapshot)
}
