package insights

// Plain-language investment commentary
// Purely derived text: every sentence restates a figure already in the
// snapshots, no figure is invented here

import (
	"fmt"
	"math"
	"strings"

	"token-radar/internal/risk"
	"token-radar/internal/token"
)

// Insights is the narrative block of an analysis report.
type Insights struct {
	Summary          string
	KeyPoints        []string
	TechnicalOutlook string
	RiskAssessment   string
}

// Generate builds the narrative for one token. Both snapshots must be
// present; with either missing there is nothing worth narrating.
func Generate(dist *token.Snapshot, market *token.MarketSnapshot, assessment risk.Assessment) Insights {
	if dist == nil || market == nil {
		return Insights{Summary: "Could not generate investment insights due to insufficient data."}
	}
	return Insights{
		Summary:          summary(dist, market, assessment),
		KeyPoints:        keyPoints(dist, market, assessment),
		TechnicalOutlook: technicalOutlook(market),
		RiskAssessment:   riskAssessment(assessment),
	}
}

func summary(dist *token.Snapshot, market *token.MarketSnapshot, assessment risk.Assessment) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s) is ", dist.Identity.Name, dist.Identity.Symbol)

	if market.MarketCap != nil {
		marketCap := *market.MarketCap
		switch {
		case marketCap > 10_000_000_000:
			b.WriteString("a large-cap token ")
		case marketCap > 1_000_000_000:
			b.WriteString("a mid-cap token ")
		case marketCap > 100_000_000:
			b.WriteString("a small-cap token ")
		default:
			b.WriteString("a micro-cap token ")
		}
		if market.MarketCapRank != nil {
			fmt.Fprintf(&b, "ranked #%d by market cap. ", *market.MarketCapRank)
		} else {
			b.WriteString("by market capitalization. ")
		}
	}

	score := dist.Stats.DecentralizationScore
	switch {
	case score > 70:
		b.WriteString("The token has a high decentralization score, indicating well-distributed ownership. ")
	case score > 40:
		b.WriteString("The token has a moderate decentralization score. ")
	default:
		b.WriteString("The token has a low decentralization score, suggesting concentrated ownership. ")
	}

	if assessment.OverallRisk != "" {
		fmt.Fprintf(&b, "Overall investment risk is assessed as %s, ", strings.ToLower(assessment.OverallRisk))
		if assessment.OverallRisk == risk.Low || assessment.OverallRisk == risk.Medium {
			b.WriteString("which may be suitable for investors with appropriate risk tolerance. ")
		} else {
			b.WriteString("suggesting caution for potential investors. ")
		}
	}

	return b.String()
}

func keyPoints(dist *token.Snapshot, market *token.MarketSnapshot, assessment risk.Assessment) []string {
	var points []string

	if market.Price != nil && market.PriceChangePercentage24h != nil {
		direction := "up"
		if *market.PriceChangePercentage24h < 0 {
			direction = "down"
		}
		points = append(points, fmt.Sprintf("Price is %s %.2f%% in the last 24 hours",
			direction, math.Abs(*market.PriceChangePercentage24h)))
	}

	if market.AllTimeHigh != nil && market.AllTimeHighChangePercent != nil {
		points = append(points, fmt.Sprintf("Currently %.2f%% from all-time high of $%.2f",
			math.Abs(*market.AllTimeHighChangePercent), *market.AllTimeHigh))
	}

	if dist.Stats.Top10Percentage > 0 {
		points = append(points, fmt.Sprintf("Top 10 holders control %.2f%% of token supply",
			dist.Stats.Top10Percentage))
	}
	points = append(points, fmt.Sprintf("%.2f%% on exchanges, %.2f%% in contracts",
		dist.Stats.CexPercentage, dist.Stats.ContractsPercentage))

	for _, factor := range assessment.RiskFactors {
		points = append(points, "Risk factor: "+factor)
	}
	for _, factor := range assessment.SafetyFactors {
		points = append(points, "Positive factor: "+factor)
	}

	return points
}

func technicalOutlook(market *token.MarketSnapshot) string {
	if market.TechnicalVolatility == "" {
		return "Insufficient data for technical analysis."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Technical analysis shows %s volatility. ", strings.ToLower(market.TechnicalVolatility))

	if market.PriceChangePercentage24h != nil && market.PriceChangePercentage7d != nil {
		shortTerm := momentum(*market.PriceChangePercentage24h)
		longTerm := momentum(*market.PriceChangePercentage7d)
		if shortTerm == longTerm {
			fmt.Fprintf(&b, "Both short and long-term momentum are %s. ", shortTerm)
		} else {
			fmt.Fprintf(&b, "Short-term momentum is %s while long-term momentum is %s, indicating potential trend reversal. ",
				shortTerm, longTerm)
		}
	}

	return b.String()
}

func momentum(change float64) string {
	if change >= 0 {
		return "positive"
	}
	return "negative"
}

func riskAssessment(assessment risk.Assessment) string {
	if assessment.OverallRisk == "" {
		return "Risk assessment unavailable due to insufficient data."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Overall risk is rated as %s. ", strings.ToUpper(assessment.OverallRisk))
	if assessment.ConcentrationRisk != "" {
		fmt.Fprintf(&b, "Concentration risk: %s. ", assessment.ConcentrationRisk)
	}
	if assessment.LiquidityRisk != "" {
		fmt.Fprintf(&b, "Liquidity risk: %s. ", assessment.LiquidityRisk)
	}
	if assessment.VolatilityRisk != "" {
		fmt.Fprintf(&b, "Volatility risk: %s. ", assessment.VolatilityRisk)
	}
	if len(assessment.RiskFactors) > 0 {
		fmt.Fprintf(&b, "Key risk factors include: %s. ", strings.Join(assessment.RiskFactors, "; "))
	}
	return b.String()
}
