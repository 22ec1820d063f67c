package market

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"token-radar/internal/chains"
	"token-radar/internal/clients_api/covalent"
	"token-radar/internal/infra/ratelimit"
	"token-radar/internal/token"
)

func snapshotWithPrice(source string, price float64) *token.MarketSnapshot {
	return &token.MarketSnapshot{
		Name:        "Test Token",
		Symbol:      "TST",
		Price:       token.Float(price),
		Source:      source,
		LastUpdated: time.Now().UTC(),
	}
}

func countingProvider(name string, snapshot *token.MarketSnapshot, err error, calls *int) Provider {
	return Provider{
		Name: name,
		Fetch: func(ctx context.Context, address string, chain chains.Chain) (*token.MarketSnapshot, error) {
			*calls++
			return snapshot, err
		},
	}
}

func TestFetchMarketDataFirstProviderWins(t *testing.T) {
	var firstCalls, secondCalls int
	aggregator := NewAggregator(chains.NewRegistry("eth", nil),
		countingProvider("first", snapshotWithPrice("first", 1.5), nil, &firstCalls),
		countingProvider("second", snapshotWithPrice("second", 2.5), nil, &secondCalls),
	)

	snapshot := aggregator.FetchMarketData(context.Background(), "0xabc", "eth")
	require.True(t, snapshot.Success)
	assert.Equal(t, "first", snapshot.Source)
	assert.Equal(t, 1.5, *snapshot.Price)
	assert.Equal(t, 1, firstCalls)
	assert.Equal(t, 0, secondCalls)
}

func TestFetchMarketDataSkipsErroringProvider(t *testing.T) {
	var firstCalls, secondCalls int
	aggregator := NewAggregator(chains.NewRegistry("eth", nil),
		countingProvider("first", nil, errors.New("timeout"), &firstCalls),
		countingProvider("second", snapshotWithPrice("second", 3.0), nil, &secondCalls),
	)

	snapshot := aggregator.FetchMarketData(context.Background(), "0xabc", "eth")
	require.True(t, snapshot.Success)
	assert.Equal(t, "second", snapshot.Source)
	assert.Equal(t, 1, firstCalls)
	assert.Equal(t, 1, secondCalls)
}

func TestFetchMarketDataSkipsEmptySnapshots(t *testing.T) {
	var calls int
	empty := &token.MarketSnapshot{Name: "Named But Empty", Source: "first"}
	aggregator := NewAggregator(chains.NewRegistry("eth", nil),
		countingProvider("first", empty, nil, &calls),
		countingProvider("second", snapshotWithPrice("second", 1.0), nil, &calls),
	)

	snapshot := aggregator.FetchMarketData(context.Background(), "0xabc", "eth")
	// A snapshot without a single economic figure does not win.
	assert.Equal(t, "second", snapshot.Source)
}

func TestFetchMarketDataExhaustionFallback(t *testing.T) {
	var calls int
	aggregator := NewAggregator(chains.NewRegistry("eth", nil),
		countingProvider("first", nil, errors.New("down"), &calls),
		countingProvider("second", nil, nil, &calls),
	)

	snapshot := aggregator.FetchMarketData(context.Background(), "0xABCDEF0123456789abcdef0123456789ABCDEF01", "eth")
	require.NotNil(t, snapshot)
	assert.False(t, snapshot.Success)
	assert.Equal(t, "Unknown Token", snapshot.Name)
	assert.Equal(t, "???", snapshot.Symbol)
	assert.Equal(t, "fallback", snapshot.Source)
	assert.Equal(t, "Failed to fetch market data from all available sources", snapshot.Error)
	assert.Equal(t, "0xabcdef0123456789abcdef0123456789abcdef01", snapshot.Address)
	assert.Equal(t, 2, calls)
}

func TestFetchMarketDataTotalSupplyCountsAsData(t *testing.T) {
	supplyOnly := &token.MarketSnapshot{Source: "supply", TotalSupply: token.Float(1_000_000)}
	var calls int
	aggregator := NewAggregator(chains.NewRegistry("eth", nil),
		countingProvider("supply", supplyOnly, nil, &calls),
	)

	snapshot := aggregator.FetchMarketData(context.Background(), "0xabc", "eth")
	assert.True(t, snapshot.Success)
	assert.Equal(t, "supply", snapshot.Source)
}

func TestFetchMarketDataRespectsLimiter(t *testing.T) {
	var calls int
	aggregator := NewAggregator(chains.NewRegistry("eth", nil),
		countingProvider("first", snapshotWithPrice("first", 1.0), nil, &calls),
	)
	aggregator.Limiter = ratelimit.PerMinute(1)

	first := aggregator.FetchMarketData(context.Background(), "0xabc", "eth")
	assert.True(t, first.Success)

	// Budget spent: no provider is contacted and the fallback answers.
	second := aggregator.FetchMarketData(context.Background(), "0xabc", "eth")
	assert.False(t, second.Success)
	assert.Equal(t, "fallback", second.Source)
	assert.Equal(t, 1, calls)
}

func TestFromCovalentSkipsWithoutCredential(t *testing.T) {
	// Enabled() gates the request, the cascade sees "no data".
	provider := FromCovalent(covalent.NewClient(""))
	snapshot, err := provider.Fetch(context.Background(), "0xabc", chains.NewRegistry("eth", nil).Resolve("eth"))
	assert.NoError(t, err)
	assert.Nil(t, snapshot)
}
