package bot

// Telegram gateway
// Long-polling update loop; commands plus bare contract addresses
// Analysis replies are text first, chart photo second, so a chart
// failure never blocks the analysis itself

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"token-radar/internal/analyzer"
	"token-radar/internal/chains"
	"token-radar/internal/features/tg_charts"
	log "token-radar/internal/infra/log"
)

const startMessage = `🔍 <b>Welcome to Token Radar!</b> 🔍

Analyze any cryptocurrency token with detailed holder, market and risk insights.

<b>What can I do?</b>
• Show token decentralization scores
• Display supply distribution data
• Provide market information
• Assess investment risk

<b>How to use:</b>
Just send me a token contract address or use the /analyze command followed by an address.

Example: /analyze 0x1f9840a85d5aF5bf1D1762F925BDADdC4201F984

Use /help to see all available commands.`

const helpMessage = `📚 <b>Token Radar Help</b> 📚

<b>Available Commands:</b>
• /start - Start the bot and get a welcome message
• /help - Display this help message
• /analyze &lt;address&gt; [chain] - Analyze a token by its contract address
• /chains - View supported blockchain networks

<b>Quick Usage:</b>
1. Simply paste any contract address
2. Add a chain id after the address if it is not on Ethereum
3. Receive detailed token analysis

<b>About Decentralization Score:</b>
The score (0-100%) indicates how well distributed a token is. Higher scores mean less concentration risk.`

const invalidAddressMessage = "❌ Please provide a valid contract address (0x followed by 40 hexadecimal characters, or a Solana mint address)"

const loadingMessage = "🔍 <b>Analyzing token...</b> Please wait while I gather data."

// Handler routes Telegram updates to the analysis pipeline.
type Handler struct {
	bot      *tgbotapi.BotAPI
	analyzer *analyzer.Analyzer
	registry *chains.Registry
}

func NewHandler(bot *tgbotapi.BotAPI, a *analyzer.Analyzer, registry *chains.Registry) *Handler {
	return &Handler{bot: bot, analyzer: a, registry: registry}
}

// Run consumes updates until ctx is cancelled.
func (h *Handler) Run(ctx context.Context) {
	if h.bot == nil {
		log.LogWarn("Bot is nil, update handler not started")
		return
	}

	log.LogInfo("Starting update handler", zap.String("bot", h.bot.Self.UserName))

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := h.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			h.bot.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			h.handleMessage(ctx, update.Message)
		}
	}
}

func (h *Handler) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message.IsCommand() {
		command := message.Command()
		args := strings.TrimSpace(message.CommandArguments())

		log.LogDebug("Received command",
			zap.String("command", command),
			zap.String("args", args),
			zap.Int64("chatID", message.Chat.ID),
			zap.String("username", message.From.UserName))

		switch command {
		case "start":
			h.sendHTML(message, startMessage)
		case "help":
			h.sendHTML(message, helpMessage)
		case "chains":
			h.sendHTML(message, h.chainsMessage())
		case "analyze":
			if args == "" {
				h.sendHTML(message, "Usage: /analyze {address} [chain]\n\nExample: /analyze 0x1f9840a85d5aF5bf1D1762F925BDADdC4201F984 eth")
				return
			}
			h.handleAnalyze(ctx, message, args)
		}
		return
	}

	// Bare addresses pasted into the chat get analyzed directly.
	if address := chains.ExtractAddress(message.Text); address != "" {
		h.handleAnalyze(ctx, message, address)
	}
}

// handleAnalyze parses "{address} [chain]", runs the pipeline and
// replies with the formatted report plus the holders chart.
func (h *Handler) handleAnalyze(ctx context.Context, message *tgbotapi.Message, args string) {
	parts := strings.Fields(args)
	address := parts[0]

	var chain chains.Chain
	if len(parts) > 1 {
		chainID := strings.ToLower(parts[1])
		if !h.registry.IsValid(chainID) {
			h.sendHTML(message, fmt.Sprintf("❌ Unknown chain <code>%s</code>. Use /chains to see supported networks.", chainID))
			return
		}
		chain = h.registry.Resolve(chainID)
	} else {
		chain = h.registry.DetectChain(address)
	}

	if !chains.ValidAddress(address, chain) {
		h.sendHTML(message, invalidAddressMessage)
		return
	}

	h.sendHTML(message, loadingMessage)

	report := h.analyzer.Analyze(ctx, address, chain.ID)

	h.sendHTML(message, FormatAnalysisMessage(report, chain))

	if report.Token != nil && report.Token.Success && len(report.Token.TopHolders) > 0 {
		chartPath, err := tg_charts.GenerateHoldersChart(report.Token)
		if err != nil {
			log.LogWarn("Failed to generate holders chart",
				zap.String("address", address),
				zap.Error(err))
			return
		}
		photo := tgbotapi.NewPhoto(message.Chat.ID, tgbotapi.FilePath(chartPath))
		photo.Caption = fmt.Sprintf("Top holders of %s (%s)",
			report.Token.Identity.Name, report.Token.Identity.Symbol)
		if _, err := h.bot.Send(photo); err != nil {
			log.LogError("Failed to send holders chart",
				zap.String("chartPath", chartPath),
				zap.Error(err))
		}
	}

	log.LogInfo("Analysis sent",
		zap.String("address", address),
		zap.String("chain", chain.ID),
		zap.Int64("chatID", message.Chat.ID),
		zap.String("username", message.From.UserName))
}

func (h *Handler) chainsMessage() string {
	var b strings.Builder
	b.WriteString("🔗 <b>Supported Blockchain Networks</b> 🔗\n\n")
	for _, chain := range h.registry.All() {
		fmt.Fprintf(&b, "%s %s - <code>%s</code>\n", chain.Emoji, chain.Name, chain.ID)
	}
	b.WriteString("\nAppend the chain id to /analyze for non-Ethereum tokens.")
	return b.String()
}

func (h *Handler) sendHTML(message *tgbotapi.Message, text string) {
	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	msg.ReplyToMessageID = message.MessageID
	if _, err := h.bot.Send(msg); err != nil {
		log.LogError("Failed to send message", zap.Error(err))
	}
}
