package bot

// Telegram message builders for analysis replies
// HTML parse mode throughout; every dynamic value goes through one of
// the format helpers so missing data renders as N/A, never as 0

import (
	"fmt"
	"html"
	"math"
	"strings"
	"time"

	"token-radar/internal/analyzer"
	"token-radar/internal/chains"
	"token-radar/internal/risk"
	"token-radar/internal/token"
)

// FormatAnalysisMessage renders the full analysis reply.
func FormatAnalysisMessage(report *analyzer.Report, chain chains.Chain) string {
	dist := report.Token
	market := report.Market

	var b strings.Builder
	fmt.Fprintf(&b, "🔍 <b>Token Analysis: %s (%s)</b> 🔍\n\n",
		html.EscapeString(dist.Identity.Name), html.EscapeString(dist.Identity.Symbol))
	fmt.Fprintf(&b, "%s <b>Chain:</b> %s\n", chain.Emoji, chain.Name)
	fmt.Fprintf(&b, "📝 <b>Contract:</b> <code>%s</code>\n\n", dist.Identity.Address)

	if market != nil && market.Success {
		b.WriteString(formatMarketSection(market, dist.Identity.Symbol))
	}

	fmt.Fprintf(&b, "🏆 <b>Decentralization Score:</b> %s\n\n",
		FormatDecentralizationScore(dist.Stats.DecentralizationScore))
	b.WriteString(formatDistributionSection(dist))

	if report.Risk.OverallRisk != "" {
		b.WriteString(formatRiskSection(report.Risk))
	}
	if len(report.Whale.RecentMovements) > 0 || report.Whale.Alert != "" {
		b.WriteString(formatActivitySection(report))
	}
	if report.Insights.Summary != "" {
		fmt.Fprintf(&b, "💡 <b>Insights:</b>\n%s\n\n", html.EscapeString(report.Insights.Summary))
	}

	fmt.Fprintf(&b, "🗺 <a href=\"%s\">View bubble map</a>\n", report.MapURL)

	if !dist.UpdatedAt.IsZero() {
		fmt.Fprintf(&b, "\n<i>Last updated: %s</i>\n", dist.UpdatedAt.Format("2006-01-02"))
	}
	if market != nil && market.Source != "" && market.Source != "fallback" {
		fmt.Fprintf(&b, "<i>Market data: %s</i>\n", sourceDisplay(market.Source))
	}
	b.WriteString("<i>Powered by BubbleMaps</i>")

	return b.String()
}

func formatMarketSection(market *token.MarketSnapshot, symbol string) string {
	var b strings.Builder
	b.WriteString("💰 <b>Market Data:</b>\n")

	if market.Price != nil {
		fmt.Fprintf(&b, "• Price: %s", FormatPrice(*market.Price))
		if market.PriceChangePercentage24h != nil {
			fmt.Fprintf(&b, " %s %s", trendEmoji(*market.PriceChangePercentage24h),
				FormatPercentage(*market.PriceChangePercentage24h))
		}
		b.WriteString("\n")
	}
	if market.MarketCap != nil {
		fmt.Fprintf(&b, "• Market Cap: $%s", FormatLargeNumber(*market.MarketCap))
		if market.MarketCapRank != nil {
			fmt.Fprintf(&b, " (Rank #%d)", *market.MarketCapRank)
		}
		b.WriteString("\n")
	} else if market.TotalSupply != nil && market.Price != nil {
		fmt.Fprintf(&b, "• Market Cap (est): $%s\n", FormatLargeNumber(*market.TotalSupply**market.Price))
	}
	if market.Volume24h != nil {
		fmt.Fprintf(&b, "• 24h Volume: $%s", FormatLargeNumber(*market.Volume24h))
		if market.VolumeChangePercentage24h != nil {
			fmt.Fprintf(&b, " %s %s", trendEmoji(*market.VolumeChangePercentage24h),
				FormatPercentage(*market.VolumeChangePercentage24h))
		}
		b.WriteString("\n")
	}
	if market.LiquidityUSD != nil {
		fmt.Fprintf(&b, "• Liquidity: $%s\n", FormatLargeNumber(*market.LiquidityUSD))
	}
	if market.AllTimeHigh != nil {
		fmt.Fprintf(&b, "• ATH: %s", FormatPrice(*market.AllTimeHigh))
		if market.AllTimeHighChangePercent != nil {
			fmt.Fprintf(&b, " (%s from current)", FormatPercentage(*market.AllTimeHighChangePercent))
		}
		if market.AllTimeHighDate != "" {
			if athDate, err := time.Parse(time.RFC3339, market.AllTimeHighDate); err == nil {
				fmt.Fprintf(&b, " on %s", athDate.Format("2006-01-02"))
			}
		}
		b.WriteString("\n")
	}
	if market.CirculatingSupply != nil || market.TotalSupply != nil {
		b.WriteString("• Supply: ")
		if market.CirculatingSupply != nil {
			fmt.Fprintf(&b, "%s %s circulating", FormatLargeNumber(*market.CirculatingSupply), symbol)
			if market.TotalSupply != nil {
				fmt.Fprintf(&b, " / %s total", FormatLargeNumber(*market.TotalSupply))
			}
		} else {
			fmt.Fprintf(&b, "%s %s total", FormatLargeNumber(*market.TotalSupply), symbol)
		}
		b.WriteString("\n")
	}
	if market.High24h != nil && market.Low24h != nil {
		fmt.Fprintf(&b, "• 24h Range: %s - %s\n", FormatPrice(*market.Low24h), FormatPrice(*market.High24h))
	}

	b.WriteString("\n")
	return b.String()
}

func formatDistributionSection(dist *token.Snapshot) string {
	var b strings.Builder
	b.WriteString("📊 <b>Supply Distribution:</b>\n")
	fmt.Fprintf(&b, "• CEX: %s\n", FormatPercentage(dist.Stats.CexPercentage))
	fmt.Fprintf(&b, "• Contracts: %s\n", FormatPercentage(dist.Stats.ContractsPercentage))
	fmt.Fprintf(&b, "• Top 10 Holders: %s\n", FormatPercentage(dist.Stats.Top10Percentage))
	if dist.Stats.HoldersCount > 0 {
		fmt.Fprintf(&b, "• Total Holders: %s\n", FormatNumber(dist.Stats.HoldersCount))
	}
	b.WriteString("\n")
	return b.String()
}

func formatRiskSection(assessment risk.Assessment) string {
	var b strings.Builder
	b.WriteString("⚠️ <b>Risk Assessment:</b>\n")
	fmt.Fprintf(&b, "• Overall Risk: %s %s\n", riskEmoji(assessment.OverallRisk), assessment.OverallRisk)
	if assessment.ConcentrationRisk != "" {
		fmt.Fprintf(&b, "• Concentration Risk: %s %s\n", riskEmoji(assessment.ConcentrationRisk), assessment.ConcentrationRisk)
	}
	if assessment.LiquidityRisk != "" {
		fmt.Fprintf(&b, "• Liquidity Risk: %s %s\n", riskEmoji(assessment.LiquidityRisk), assessment.LiquidityRisk)
	}
	if len(assessment.RiskFactors) > 0 {
		factors := assessment.RiskFactors
		if len(factors) > 2 {
			factors = factors[:2]
		}
		fmt.Fprintf(&b, "• Key Risk Factors: %s\n", strings.Join(factors, "; "))
	}
	b.WriteString("\n")
	return b.String()
}

func formatActivitySection(report *analyzer.Report) string {
	var b strings.Builder
	b.WriteString("🔄 <b>Recent Activity:</b>\n")
	if report.Whale.Alert != "" {
		fmt.Fprintf(&b, "• Alert: %s\n", report.Whale.Alert)
	}
	if report.Whale.NetFlow24h != 0 {
		direction := "inflow"
		if report.Whale.NetFlow24h < 0 {
			direction = "outflow"
		}
		fmt.Fprintf(&b, "• 24h Net Flow: %.2f %s\n", math.Abs(report.Whale.NetFlow24h), direction)
	}
	movements := report.Whale.RecentMovements
	if len(movements) > 2 {
		movements = movements[:2]
	}
	for i, movement := range movements {
		fmt.Fprintf(&b, "• Transaction %d: %s %.2f %s at %s\n",
			i+1, movement.Type, movement.Amount, movement.Symbol, movement.Time.Format("15:04"))
	}
	b.WriteString("\n")
	return b.String()
}

// FormatDecentralizationScore renders the score with a ten-block bar.
func FormatDecentralizationScore(score float64) string {
	fullBlocks := int(score / 10)
	if fullBlocks > 10 {
		fullBlocks = 10
	}
	visual := strings.Repeat("🟩", fullBlocks) + strings.Repeat("⬜", 10-fullBlocks)

	var label string
	switch {
	case score < 30:
		label = "🔴 Low"
	case score < 70:
		label = "🟡 Medium"
	default:
		label = "🟢 High"
	}
	return fmt.Sprintf("%.2f%% %s %s", score, visual, label)
}

func trendEmoji(change float64) string {
	if change >= 0 {
		return "📈"
	}
	return "📉"
}

func riskEmoji(level string) string {
	switch strings.ToLower(level) {
	case "low":
		return "🟢"
	case "medium":
		return "🟡"
	case "high":
		return "🟠"
	case "very high":
		return "🔴"
	default:
		return "⚪"
	}
}

// FormatPrice scales precision with magnitude so sub-cent tokens stay
// readable.
func FormatPrice(price float64) string {
	switch {
	case price < 0.0001:
		return fmt.Sprintf("$%.6e", price)
	case price < 0.01:
		return fmt.Sprintf("$%.6f", price)
	case price < 1:
		return fmt.Sprintf("$%.4f", price)
	case price < 1000:
		return fmt.Sprintf("$%.2f", price)
	default:
		return "$" + FormatLargeNumber(price)
	}
}

// FormatLargeNumber abbreviates with K/M/B/T suffixes.
func FormatLargeNumber(num float64) string {
	switch {
	case num >= 1e12:
		return fmt.Sprintf("%.2fT", num/1e12)
	case num >= 1e9:
		return fmt.Sprintf("%.2fB", num/1e9)
	case num >= 1e6:
		return fmt.Sprintf("%.2fM", num/1e6)
	case num >= 1e3:
		return fmt.Sprintf("%.2fK", num/1e3)
	default:
		return fmt.Sprintf("%.2f", num)
	}
}

func FormatPercentage(value float64) string {
	return fmt.Sprintf("%.2f%%", value)
}

// FormatNumber adds thousands separators.
func FormatNumber(num int) string {
	s := fmt.Sprintf("%d", num)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteString(",")
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

func sourceDisplay(source string) string {
	switch {
	case source == "defi-llama":
		return "DeFi Llama"
	case source == "coingecko":
		return "CoinGecko"
	case source == "covalent" || source == "covalent-solana":
		return "Covalent"
	case source == "jupiter-aggregator":
		return "Jupiter"
	case strings.HasPrefix(source, "dex-"):
		return fmt.Sprintf("DEX (%s)", strings.TrimPrefix(source, "dex-"))
	default:
		return source
	}
}
