// Package reporter pushes scrape-run summaries to Telegram. Reporting is
// optional: when no token is configured the engine runs silently.
package reporter

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type TelegramReporter struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramReporter(token string, chatID int64) (*TelegramReporter, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}
	return &TelegramReporter{bot: bot, chatID: chatID}, nil
}

// SendSummary reports the outcome of one scrape cycle.
func (t *TelegramReporter) SendSummary(scraped, saved, newJobs int) error {
	text := fmt.Sprintf(
		"📊 <b>Scrape run finished</b>\n"+
			"🔎 Listings scraped: %d\n"+
			"💾 Jobs saved: %d\n"+
			"✨ New since last run: %d",
		scraped, saved, newJobs)
	return t.sendMessage(text)
}

// SendError flags a failed run.
func (t *TelegramReporter) SendError(runErr error) error {
	return t.sendMessage(fmt.Sprintf("⚠️ <b>Scrape run failed</b>:\n%v", runErr))
}

func (t *TelegramReporter) sendMessage(text string) error {
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = "HTML"
	_, err := t.bot.Send(msg)
	return err
}
