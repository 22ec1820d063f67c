package commands

// One-shot analysis from the command line, mostly for debugging the
// pipeline without a Telegram round trip

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"token-radar/bot"
	"token-radar/internal/chains"
	"token-radar/internal/infra/config"
	logging "token-radar/internal/infra/log"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze {address} [chain]",
	Short: "Analyze a token once and print the report",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runAnalyze,
}

var chainsCmd = &cobra.Command{
	Use:   "chains",
	Short: "List supported chains",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry := chains.NewRegistry("eth", nil)
		for _, chain := range registry.All() {
			fmt.Printf("%-6s %s\n", chain.ID, chain.Name)
		}
		return nil
	},
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		logging.LogError("Failed to load config", zap.Error(err))
		return fmt.Errorf("failed to load config: %w", err)
	}

	tokenAnalyzer, registry := buildAnalyzer(cfg)

	address := args[0]
	var chain chains.Chain
	if len(args) > 1 {
		chainID := strings.ToLower(args[1])
		if !registry.IsValid(chainID) {
			return fmt.Errorf("unknown chain %q, supported: %s", chainID, strings.Join(registry.IDs(), ", "))
		}
		chain = registry.Resolve(chainID)
	} else {
		chain = registry.DetectChain(address)
	}

	if !chains.ValidAddress(address, chain) {
		return fmt.Errorf("invalid contract address for chain %s: %s", chain.ID, address)
	}

	report := tokenAnalyzer.Analyze(cmd.Context(), address, chain.ID)

	fmt.Printf("Token:    %s (%s) on %s\n", report.Token.Identity.Name, report.Token.Identity.Symbol, chain.Name)
	fmt.Printf("Contract: %s\n", report.Token.Identity.Address)
	fmt.Printf("Map:      %s\n\n", report.MapURL)

	stats := report.Token.Stats
	fmt.Printf("Decentralization score: %.2f\n", stats.DecentralizationScore)
	fmt.Printf("Top 10 holders:         %.2f%%\n", stats.Top10Percentage)
	fmt.Printf("CEX / Contracts:        %.2f%% / %.2f%%\n\n", stats.CexPercentage, stats.ContractsPercentage)

	if market := report.Market; market != nil && market.Success {
		if market.Price != nil {
			fmt.Printf("Price:      %s\n", bot.FormatPrice(*market.Price))
		}
		if market.MarketCap != nil {
			fmt.Printf("Market cap: $%.0f\n", *market.MarketCap)
		}
		if market.Volume24h != nil {
			fmt.Printf("24h volume: $%.0f\n", *market.Volume24h)
		}
		fmt.Printf("Source:     %s\n\n", market.Source)
	}

	fmt.Printf("Overall risk: %s\n", report.Risk.OverallRisk)
	for _, factor := range report.Risk.RiskFactors {
		fmt.Printf("  - %s\n", factor)
	}
	for _, factor := range report.Risk.SafetyFactors {
		fmt.Printf("  + %s\n", factor)
	}
	if report.Insights.Summary != "" {
		fmt.Printf("\n%s\n", report.Insights.Summary)
	}
	return nil
}
