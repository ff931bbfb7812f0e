// Package notify sends scrape completion messages over Telegram.
package notify

import (
	"fmt"
	"os"
	"strings"

	"github.com/Comba92/paginegialle-scraper/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notifier sends run summaries to a Telegram chat
type Notifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewNotifier creates a Notifier. The bot token comes from the
// TELEGRAM_BOT_TOKEN environment variable.
func NewNotifier(chatID int64) (*Notifier, error) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is not set")
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}

	return &Notifier{bot: bot, chatID: chatID}, nil
}

// SendSummary sends the run summary for a finished scrape
func (n *Notifier) SendSummary(query string, summary models.Summary, outputPath string) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "✅ Scrape finished for %s\n\n", query)
	fmt.Fprintf(&sb, "Requests: %d\nPages fetched: %d\nRecords parsed: %d\nRecords kept: %d\n",
		summary.Requested, summary.Fetched, summary.Parsed, summary.Kept)
	if len(summary.EmptyCities) > 0 {
		fmt.Fprintf(&sb, "Cities without results: %s\n", strings.Join(summary.EmptyCities, ", "))
	}
	fmt.Fprintf(&sb, "\nOutput: %s", outputPath)

	msg := tgbotapi.NewMessage(n.chatID, sb.String())
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send Telegram message: %w", err)
	}
	return nil
}
