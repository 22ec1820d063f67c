package coingecko

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"token-radar/internal/chains"
)

const uniAddress = "0x1f9840a85d5af5bf1d1762f925bdaddc4201f984"

func testChain() chains.Chain {
	return chains.NewRegistry("eth", nil).Resolve("eth")
}

func TestFetchMarketData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/api/v3/coins/ethereum/contract/"+uniAddress)
		fmt.Fprint(w, `{
			"name": "Uniswap",
			"symbol": "uni",
			"market_data": {
				"current_price": {"usd": 7.25},
				"price_change_percentage_24h": -2.1,
				"price_change_percentage_7d": 4.8,
				"market_cap": {"usd": 4350000000},
				"market_cap_rank": 22,
				"total_volume": {"usd": 120000000},
				"circulating_supply": 600000000,
				"total_supply": 1000000000,
				"ath": {"usd": 44.92},
				"ath_date": {"usd": "2021-05-03T05:25:04.822Z"},
				"ath_change_percentage": {"usd": -83.9},
				"high_24h": {"usd": 7.5},
				"low_24h": {"usd": 7.0}
			},
			"tickers": [
				{"base": "UNI", "target": "USDT", "market": {"name": "Binance"}, "last": 7.24, "volume": 9000000, "trust_score": "green"},
				{"base": "UNI", "target": "USD", "market": {"name": "Coinbase"}, "last": 7.26, "volume": 12000000, "trust_score": "green"}
			],
			"last_updated": "2024-03-15T12:00:00Z"
		}`)
	}))
	defer server.Close()

	client := NewClient("", WithBaseURL(server.URL))
	snapshot, err := client.FetchMarketData(context.Background(), uniAddress, testChain())
	require.NoError(t, err)
	require.NotNil(t, snapshot)

	assert.Equal(t, "Uniswap", snapshot.Name)
	assert.Equal(t, "UNI", snapshot.Symbol)
	assert.Equal(t, 7.25, *snapshot.Price)
	assert.Equal(t, -2.1, *snapshot.PriceChangePercentage24h)
	assert.Equal(t, 4.8, *snapshot.PriceChangePercentage7d)
	assert.Equal(t, 22, *snapshot.MarketCapRank)
	assert.Equal(t, 600_000_000.0, *snapshot.CirculatingSupply)
	assert.Equal(t, 44.92, *snapshot.AllTimeHigh)
	assert.Equal(t, "2021-05-03T05:25:04.822Z", snapshot.AllTimeHighDate)
	assert.Equal(t, "coingecko", snapshot.Source)
	assert.True(t, snapshot.Success)
	assert.Equal(t, "2024-03-15T12:00:00Z", snapshot.LastUpdated.Format("2006-01-02T15:04:05Z"))

	// Exchanges come back sorted by volume.
	require.Len(t, snapshot.Exchanges, 2)
	assert.Equal(t, "Coinbase", snapshot.Exchanges[0].Name)
	assert.Equal(t, "UNI/USD", snapshot.Exchanges[0].Pair)
	assert.Equal(t, "Binance", snapshot.Exchanges[1].Name)
}

func TestFetchMarketDataUnknownContract(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	client := NewClient("", WithBaseURL(server.URL))
	snapshot, err := client.FetchMarketData(context.Background(), uniAddress, testChain())
	assert.NoError(t, err)
	assert.Nil(t, snapshot)
}

func TestFetchMarketDataNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "coin not found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient("", WithBaseURL(server.URL))
	snapshot, err := client.FetchMarketData(context.Background(), uniAddress, testChain())
	assert.Error(t, err)
	assert.Nil(t, snapshot)
}

func TestTopExchangesLimit(t *testing.T) {
	tickers := make([]tickerData, 8)
	for i := range tickers {
		tickers[i] = tickerData{
			Base:   "TST",
			Target: "USDT",
			Volume: float64(i * 1000),
		}
		tickers[i].Market.Name = fmt.Sprintf("Market %d", i)
	}

	listings := topExchanges(tickers)
	require.Len(t, listings, 5)
	assert.Equal(t, "Market 7", listings[0].Name)
	assert.Equal(t, 7000.0, listings[0].Volume)
}
