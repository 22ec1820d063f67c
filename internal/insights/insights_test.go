package insights

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"token-radar/internal/risk"
	"token-radar/internal/token"
)

func sampleDist() *token.Snapshot {
	return &token.Snapshot{
		Identity: token.Identity{Name: "Test Token", Symbol: "TST"},
		Stats: token.DistributionStats{
			Top10Percentage:       35.5,
			DecentralizationScore: 80,
			CexPercentage:         12.25,
			ContractsPercentage:   4.5,
		},
		Success: true,
	}
}

func sampleMarket() *token.MarketSnapshot {
	return &token.MarketSnapshot{
		Name:      "Test Token",
		Symbol:    "TST",
		Price:     token.Float(1.25),
		MarketCap: token.Float(15_000_000_000),
		Success:   true,
	}
}

func TestGenerateWithMissingInputs(t *testing.T) {
	const want = "Could not generate investment insights due to insufficient data."

	assert.Equal(t, want, Generate(nil, sampleMarket(), risk.Assessment{}).Summary)
	assert.Equal(t, want, Generate(sampleDist(), nil, risk.Assessment{}).Summary)
}

func TestSummaryMarketCapTiers(t *testing.T) {
	cases := []struct {
		marketCap float64
		want      string
	}{
		{15_000_000_000, "large-cap"},
		{2_000_000_000, "mid-cap"},
		{500_000_000, "small-cap"},
		{5_000_000, "micro-cap"},
	}
	for _, tc := range cases {
		market := sampleMarket()
		market.MarketCap = token.Float(tc.marketCap)
		got := Generate(sampleDist(), market, risk.Assessment{})
		assert.Contains(t, got.Summary, tc.want, "marketCap=%v", tc.marketCap)
	}
}

func TestSummaryRankAndDecentralization(t *testing.T) {
	market := sampleMarket()
	market.MarketCapRank = token.Int(42)

	got := Generate(sampleDist(), market, risk.Assessment{OverallRisk: risk.Low})
	assert.Contains(t, got.Summary, "ranked #42 by market cap")
	assert.Contains(t, got.Summary, "high decentralization score")
	assert.Contains(t, got.Summary, "risk is assessed as low")
	assert.Contains(t, got.Summary, "suitable for investors")

	dist := sampleDist()
	dist.Stats.DecentralizationScore = 25
	got = Generate(dist, market, risk.Assessment{OverallRisk: risk.VeryHigh})
	assert.Contains(t, got.Summary, "low decentralization score, suggesting concentrated ownership")
	assert.Contains(t, got.Summary, "suggesting caution for potential investors")
}

func TestKeyPoints(t *testing.T) {
	market := sampleMarket()
	market.PriceChangePercentage24h = token.Float(-3.5)
	market.AllTimeHigh = token.Float(10.0)
	market.AllTimeHighChangePercent = token.Float(-87.5)

	assessment := risk.Assessment{
		RiskFactors:   []string{"Top 10 holders control over 70% of supply"},
		SafetyFactors: []string{"Listed on multiple major exchanges"},
	}

	got := Generate(sampleDist(), market, assessment)
	require.NotEmpty(t, got.KeyPoints)

	assert.Contains(t, got.KeyPoints, "Price is down 3.50% in the last 24 hours")
	assert.Contains(t, got.KeyPoints, "Currently 87.50% from all-time high of $10.00")
	assert.Contains(t, got.KeyPoints, "Top 10 holders control 35.50% of token supply")
	assert.Contains(t, got.KeyPoints, "12.25% on exchanges, 4.50% in contracts")
	assert.Contains(t, got.KeyPoints, "Risk factor: Top 10 holders control over 70% of supply")
	assert.Contains(t, got.KeyPoints, "Positive factor: Listed on multiple major exchanges")
}

func TestTechnicalOutlookWithoutVolatility(t *testing.T) {
	got := Generate(sampleDist(), sampleMarket(), risk.Assessment{})
	assert.Equal(t, "Insufficient data for technical analysis.", got.TechnicalOutlook)
}

func TestTechnicalOutlookMomentum(t *testing.T) {
	market := sampleMarket()
	market.TechnicalVolatility = "High"
	market.PriceChangePercentage24h = token.Float(2.0)
	market.PriceChangePercentage7d = token.Float(5.0)

	got := Generate(sampleDist(), market, risk.Assessment{})
	assert.Contains(t, got.TechnicalOutlook, "Technical analysis shows high volatility.")
	assert.Contains(t, got.TechnicalOutlook, "Both short and long-term momentum are positive.")

	market.PriceChangePercentage24h = token.Float(2.0)
	market.PriceChangePercentage7d = token.Float(-8.0)
	got = Generate(sampleDist(), market, risk.Assessment{})
	assert.Contains(t, got.TechnicalOutlook,
		"Short-term momentum is positive while long-term momentum is negative, indicating potential trend reversal.")
}

func TestRiskAssessmentNarrative(t *testing.T) {
	assessment := risk.Assessment{
		OverallRisk:       risk.High,
		ConcentrationRisk: risk.VeryHigh,
		LiquidityRisk:     risk.Medium,
		RiskFactors:       []string{"first", "second"},
	}

	got := Generate(sampleDist(), sampleMarket(), assessment)
	assert.Contains(t, got.RiskAssessment, "Overall risk is rated as HIGH.")
	assert.Contains(t, got.RiskAssessment, "Concentration risk: Very High.")
	assert.Contains(t, got.RiskAssessment, "Liquidity risk: Medium.")
	assert.NotContains(t, got.RiskAssessment, "Volatility risk")
	assert.Contains(t, got.RiskAssessment, "Key risk factors include: first; second.")
}

func TestRiskAssessmentUnavailable(t *testing.T) {
	got := Generate(sampleDist(), sampleMarket(), risk.Assessment{})
	assert.Equal(t, "Risk assessment unavailable due to insufficient data.", got.RiskAssessment)
}
