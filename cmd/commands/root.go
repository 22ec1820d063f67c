package commands

// Root command for Cobra CLI
// Defines the main command structure of the application
// Registers all subcommands (bot, analyze, chains)

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "token-radar",
	Short: "Token Radar - Telegram bot for token holder, market and risk analysis",
	Long: `Token Radar is a Go-based Telegram bot that aggregates holder distribution,
market data and on-chain liquidity into a single token analysis with
risk scoring and investment insights.`,
	Version: "1.0.0",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(botCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(chainsCmd)
}
