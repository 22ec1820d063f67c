package bot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"token-radar/internal/analyzer"
	"token-radar/internal/chains"
	"token-radar/internal/insights"
	"token-radar/internal/risk"
	"token-radar/internal/token"
)

func TestFormatPrice(t *testing.T) {
	cases := []struct {
		price float64
		want  string
	}{
		{0.00000123, "$1.230000e-06"},
		{0.00456, "$0.004560"},
		{0.42, "$0.4200"},
		{1.25, "$1.25"},
		{999.99, "$999.99"},
		{45678.9, "$45.68K"},
		{2_500_000_000, "$2.50B"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatPrice(tc.price), "price=%v", tc.price)
	}
}

func TestFormatLargeNumber(t *testing.T) {
	cases := []struct {
		num  float64
		want string
	}{
		{950, "950.00"},
		{1_500, "1.50K"},
		{2_345_678, "2.35M"},
		{7_890_000_000, "7.89B"},
		{1_200_000_000_000, "1.20T"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatLargeNumber(tc.num), "num=%v", tc.num)
	}
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "0", FormatNumber(0))
	assert.Equal(t, "999", FormatNumber(999))
	assert.Equal(t, "1,000", FormatNumber(1000))
	assert.Equal(t, "12,345", FormatNumber(12345))
	assert.Equal(t, "1,234,567", FormatNumber(1234567))
}

func TestFormatDecentralizationScore(t *testing.T) {
	low := FormatDecentralizationScore(25)
	assert.Contains(t, low, "25.00%")
	assert.Contains(t, low, "🟩🟩⬜⬜⬜⬜⬜⬜⬜⬜")
	assert.Contains(t, low, "🔴 Low")

	medium := FormatDecentralizationScore(55)
	assert.Contains(t, medium, "🟡 Medium")

	high := FormatDecentralizationScore(100)
	assert.Contains(t, high, "🟩🟩🟩🟩🟩🟩🟩🟩🟩🟩")
	assert.Contains(t, high, "🟢 High")
}

func TestRiskEmoji(t *testing.T) {
	assert.Equal(t, "🟢", riskEmoji("Low"))
	assert.Equal(t, "🟡", riskEmoji("Medium"))
	assert.Equal(t, "🟠", riskEmoji("High"))
	assert.Equal(t, "🔴", riskEmoji("Very High"))
	assert.Equal(t, "⚪", riskEmoji("unknown"))
}

func TestSourceDisplay(t *testing.T) {
	assert.Equal(t, "DeFi Llama", sourceDisplay("defi-llama"))
	assert.Equal(t, "CoinGecko", sourceDisplay("coingecko"))
	assert.Equal(t, "Covalent", sourceDisplay("covalent"))
	assert.Equal(t, "Covalent", sourceDisplay("covalent-solana"))
	assert.Equal(t, "Jupiter", sourceDisplay("jupiter-aggregator"))
	assert.Equal(t, "DEX (native)", sourceDisplay("dex-native"))
	assert.Equal(t, "DEX (stable)", sourceDisplay("dex-stable"))
	assert.Equal(t, "something-else", sourceDisplay("something-else"))
}

func sampleReport() *analyzer.Report {
	return &analyzer.Report{
		Token: &token.Snapshot{
			Identity: token.Identity{
				Name:    "Test Token",
				Symbol:  "TST",
				Address: "0xabc123",
				Chain:   "eth",
			},
			Stats: token.DistributionStats{
				Top10Percentage:       35.5,
				DecentralizationScore: 62,
				CexPercentage:         12,
				ContractsPercentage:   4,
				HoldersCount:          15234,
			},
			UpdatedAt: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			Success:   true,
		},
		Market: &token.MarketSnapshot{
			Name:                     "Test Token",
			Symbol:                   "TST",
			Price:                    token.Float(1.25),
			PriceChangePercentage24h: token.Float(-3.2),
			MarketCap:                token.Float(500_000_000),
			MarketCapRank:            token.Int(120),
			Volume24h:                token.Float(25_000_000),
			Source:                   "defi-llama",
			Success:                  true,
		},
		Risk: risk.Assessment{
			OverallRisk:       risk.Medium,
			ConcentrationRisk: risk.Medium,
			LiquidityRisk:     risk.Low,
			RiskFactors:       []string{"first factor", "second factor", "third factor"},
		},
		Insights: insights.Insights{Summary: "Test Token (TST) is a small-cap token."},
		MapURL:   "https://app.bubblemaps.io/eth/token/0xabc123",
	}
}

func TestFormatAnalysisMessage(t *testing.T) {
	chain := chains.NewRegistry("eth", nil).Resolve("eth")
	msg := FormatAnalysisMessage(sampleReport(), chain)

	assert.Contains(t, msg, "<b>Token Analysis: Test Token (TST)</b>")
	assert.Contains(t, msg, "<b>Chain:</b> Ethereum")
	assert.Contains(t, msg, "<code>0xabc123</code>")
	assert.Contains(t, msg, "• Price: $1.25 📉 -3.20%")
	assert.Contains(t, msg, "• Market Cap: $500.00M (Rank #120)")
	assert.Contains(t, msg, "• 24h Volume: $25.00M")
	assert.Contains(t, msg, "• Top 10 Holders: 35.50%")
	assert.Contains(t, msg, "• Total Holders: 15,234")
	assert.Contains(t, msg, "• Overall Risk: 🟡 Medium")
	// Only the first two risk factors make the message.
	assert.Contains(t, msg, "first factor; second factor")
	assert.NotContains(t, msg, "third factor")
	assert.Contains(t, msg, `<a href="https://app.bubblemaps.io/eth/token/0xabc123">View bubble map</a>`)
	assert.Contains(t, msg, "<i>Last updated: 2024-03-15</i>")
	assert.Contains(t, msg, "<i>Market data: DeFi Llama</i>")
	assert.Contains(t, msg, "<i>Powered by BubbleMaps</i>")
}

func TestFormatAnalysisMessageEscapesHTML(t *testing.T) {
	report := sampleReport()
	report.Token.Identity.Name = "Evil <script> Token"
	chain := chains.NewRegistry("eth", nil).Resolve("eth")

	msg := FormatAnalysisMessage(report, chain)
	assert.Contains(t, msg, "Evil &lt;script&gt; Token")
	assert.NotContains(t, msg, "<script>")
}

func TestFormatAnalysisMessageWithoutMarketData(t *testing.T) {
	report := sampleReport()
	report.Market = &token.MarketSnapshot{
		Name: "Unknown Token", Symbol: "???", Source: "fallback", Success: false,
	}
	chain := chains.NewRegistry("eth", nil).Resolve("eth")

	msg := FormatAnalysisMessage(report, chain)
	assert.NotContains(t, msg, "Market Data:")
	assert.NotContains(t, msg, "Market data:")
	// Distribution still renders from the holder snapshot.
	assert.Contains(t, msg, "Supply Distribution:")
	assert.Contains(t, msg, "Decentralization Score:")
}

func TestFormatAnalysisMessageEstimatedMarketCap(t *testing.T) {
	report := sampleReport()
	report.Market.MarketCap = nil
	report.Market.MarketCapRank = nil
	report.Market.TotalSupply = token.Float(1_000_000)
	chain := chains.NewRegistry("eth", nil).Resolve("eth")

	msg := FormatAnalysisMessage(report, chain)
	// 1M supply at $1.25 estimates a $1.25M cap.
	assert.Contains(t, msg, "• Market Cap (est): $1.25M")
}
