package risk

// Risk scoring over holder distribution and market economics
// Three component ratings are folded into one weighted overall rating;
// a component without data defaults to the middle of the scale so one
// blind spot cannot swing the verdict

import (
	"token-radar/internal/token"
)

// Ratings, ordered from safest to riskiest.
const (
	Low      = "Low"
	Medium   = "Medium"
	High     = "High"
	VeryHigh = "Very High"
)

// Assessment is the full risk verdict for one token.
type Assessment struct {
	ConcentrationRisk string
	LiquidityRisk     string
	VolatilityRisk    string
	OverallRisk       string
	RiskFactors       []string
	SafetyFactors     []string
}

// Assess rates a token from its distribution snapshot and market
// snapshot. Either input may carry partial data; the corresponding
// component rating stays empty and defaults to Medium in the overall
// weighting.
func Assess(dist *token.Snapshot, market *token.MarketSnapshot) Assessment {
	var a Assessment

	if dist != nil {
		stats := dist.Stats
		a.ConcentrationRisk = concentrationRisk(stats)

		if stats.Top10Percentage > 70 {
			a.RiskFactors = append(a.RiskFactors, "Top 10 holders control over 70% of supply")
		}
		if stats.CexPercentage > 50 {
			a.RiskFactors = append(a.RiskFactors, "Over 50% of supply held on centralized exchanges")
		}
		if stats.Top10Percentage < 30 {
			a.SafetyFactors = append(a.SafetyFactors, "Well-distributed token supply")
		}
	}

	if market != nil {
		a.LiquidityRisk = liquidityRisk(market)

		if market.Volume24h != nil && market.MarketCap != nil && *market.MarketCap > 0 &&
			*market.Volume24h / *market.MarketCap < 0.03 {
			a.RiskFactors = append(a.RiskFactors, "Low trading volume relative to market cap")
		}

		if market.TechnicalVolatility != "" {
			a.VolatilityRisk = market.TechnicalVolatility
			if market.TechnicalVolatility == High {
				a.RiskFactors = append(a.RiskFactors, "High price volatility")
			}
		}

		if market.MarketCapRank != nil && *market.MarketCapRank < 100 {
			a.SafetyFactors = append(a.SafetyFactors, "Top 100 cryptocurrency by market cap")
		}
		if len(market.Exchanges) > 3 {
			a.SafetyFactors = append(a.SafetyFactors, "Listed on multiple major exchanges")
		}
	}

	a.OverallRisk = overallRisk(a.ConcentrationRisk, a.LiquidityRisk, a.VolatilityRisk)
	return a
}

// concentrationRisk weighs top-10 ownership against the
// decentralization score.
func concentrationRisk(stats token.DistributionStats) string {
	score := stats.Top10Percentage*0.7 + (100-stats.DecentralizationScore)*0.3

	switch {
	case score < 30:
		return Low
	case score < 50:
		return Medium
	case score < 75:
		return High
	default:
		return VeryHigh
	}
}

// liquidityRisk rates the volume-to-market-cap ratio. Missing figures
// rate High: an unknown market is treated as a thin one.
func liquidityRisk(market *token.MarketSnapshot) string {
	if market.MarketCap == nil || market.Volume24h == nil || *market.MarketCap == 0 {
		return High
	}
	ratio := *market.Volume24h / *market.MarketCap

	switch {
	case ratio > 0.15:
		return Low
	case ratio > 0.05:
		return Medium
	case ratio > 0.01:
		return High
	default:
		return VeryHigh
	}
}

var ratingScores = map[string]float64{
	Low:      1,
	Medium:   2,
	High:     3,
	VeryHigh: 4,
}

func scoreOf(rating string) float64 {
	if score, ok := ratingScores[rating]; ok {
		return score
	}
	return 2
}

// overallRisk folds the three components, concentration carrying the
// most weight.
func overallRisk(concentration, liquidity, volatility string) string {
	weighted := scoreOf(concentration)*0.5 + scoreOf(liquidity)*0.3 + scoreOf(volatility)*0.2

	switch {
	case weighted < 1.5:
		return Low
	case weighted < 2.5:
		return Medium
	case weighted < 3.5:
		return High
	default:
		return VeryHigh
	}
}
