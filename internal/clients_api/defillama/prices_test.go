package defillama

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"token-radar/internal/chains"
)

const uniAddress = "0x1f9840a85d5af5bf1d1762f925bdaddc4201f984"

func testChain() chains.Chain {
	return chains.NewRegistry("eth", nil).Resolve("eth")
}

func TestFetchMarketData(t *testing.T) {
	coinKey := "ethereum:" + uniAddress

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/prices/current/"):
			assert.Contains(t, r.URL.Path, coinKey)
			fmt.Fprintf(w, `{"coins": {"%s": {
				"price": 7.25, "symbol": "UNI", "name": "Uniswap",
				"mcap": 4350000000, "totalSupply": 1000000000, "volume": 120000000,
				"timestamp": 1700000000
			}}}`, coinKey)
		case strings.HasPrefix(r.URL.Path, "/chart/"):
			now := time.Now().Unix()
			var points []map[string]interface{}
			// Twelve in-window samples climbing from 7.00 to 7.55.
			for i := 0; i < 12; i++ {
				points = append(points, map[string]interface{}{
					"timestamp": now - int64(12-i)*3600,
					"price":     7.0 + float64(i)*0.05,
				})
			}
			json.NewEncoder(w).Encode(map[string]interface{}{"prices": points})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))
	snapshot, err := client.FetchMarketData(context.Background(), uniAddress, testChain())
	require.NoError(t, err)
	require.NotNil(t, snapshot)

	assert.Equal(t, "Uniswap", snapshot.Name)
	assert.Equal(t, "UNI", snapshot.Symbol)
	assert.Equal(t, 7.25, *snapshot.Price)
	assert.Equal(t, 4_350_000_000.0, *snapshot.MarketCap)
	assert.Equal(t, 1_000_000_000.0, *snapshot.TotalSupply)
	assert.Equal(t, 120_000_000.0, *snapshot.Volume24h)
	assert.Equal(t, "defi-llama", snapshot.Source)
	assert.True(t, snapshot.Success)
	assert.Equal(t, int64(1700000000), snapshot.LastUpdated.Unix())

	// Chart-derived fields.
	require.NotNil(t, snapshot.High24h)
	assert.InDelta(t, 7.55, *snapshot.High24h, 1e-9)
	assert.InDelta(t, 7.0, *snapshot.Low24h, 1e-9)
	require.NotNil(t, snapshot.PriceChangePercentage24h)
	assert.InDelta(t, (7.55-7.0)/7.0*100, *snapshot.PriceChangePercentage24h, 1e-6)
}

func TestFetchMarketDataUnknownToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"coins": {}}`)
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))
	snapshot, err := client.FetchMarketData(context.Background(), uniAddress, testChain())
	assert.NoError(t, err)
	assert.Nil(t, snapshot)
}

func TestFetchMarketDataServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broken", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))
	snapshot, err := client.FetchMarketData(context.Background(), uniAddress, testChain())
	assert.Error(t, err)
	assert.Nil(t, snapshot)
}

func TestFetchMarketDataChartFailureKeepsSnapshot(t *testing.T) {
	coinKey := "ethereum:" + uniAddress

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/prices/current/") {
			fmt.Fprintf(w, `{"coins": {"%s": {"price": 1.0, "symbol": "TST", "name": "Test"}}}`, coinKey)
			return
		}
		http.Error(w, "no chart", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))
	snapshot, err := client.FetchMarketData(context.Background(), uniAddress, testChain())
	require.NoError(t, err)
	require.NotNil(t, snapshot)
	assert.Equal(t, 1.0, *snapshot.Price)
	assert.Nil(t, snapshot.High24h)
	assert.Nil(t, snapshot.PriceChangePercentage24h)
}

func TestFetchMarketDataNameFallbacks(t *testing.T) {
	coinKey := "ethereum:" + uniAddress

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/prices/current/") {
			fmt.Fprintf(w, `{"coins": {"%s": {"price": 0.5}}}`, coinKey)
			return
		}
		fmt.Fprint(w, `{"prices": []}`)
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))
	snapshot, err := client.FetchMarketData(context.Background(), uniAddress, testChain())
	require.NoError(t, err)
	require.NotNil(t, snapshot)
	assert.Equal(t, "Unknown Token", snapshot.Name)
	assert.Equal(t, "???", snapshot.Symbol)
}
