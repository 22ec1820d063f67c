package commands

// Command to run the Telegram bot
// Initializes configuration, wires the analysis pipeline and starts
// the long-polling update handler
// Implements graceful shutdown for proper termination

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"token-radar/bot"
	"token-radar/internal/infra/config"
	logging "token-radar/internal/infra/log"
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run the Telegram bot (analysis via chat)",
	Long:  `Run the Telegram bot that answers /analyze commands and bare contract addresses with full token analyses.`,
	RunE:  runBot,
}

func runBot(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		logging.LogError("Failed to load config", zap.Error(err))
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.Telegram.BotToken == "" {
		return fmt.Errorf("no bot token provided: TELEGRAM_BOT_TOKEN is required")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		logging.LogError("Failed to initialize bot", zap.Error(err))
		return fmt.Errorf("failed to initialize bot: %w", err)
	}
	logging.LogSuccess("Bot authorized", zap.String("username", api.Self.UserName))

	tokenAnalyzer, registry := buildAnalyzer(cfg)
	handler := bot.NewHandler(api, tokenAnalyzer, registry)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		handler.Run(ctx)
	}()

	logging.LogSuccess("Bot is running", zap.String("default_chain", registry.Default().ID))

	<-ctx.Done()
	logging.LogInfo("Shutdown signal received, gracefully stopping...")

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logging.LogSuccess("Bot stopped gracefully")
	case <-time.After(10 * time.Second):
		logging.LogWarn("Timeout waiting for handler to stop, forcing shutdown")
	}

	return nil
}
