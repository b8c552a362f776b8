package notify

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/AdamSweetapple/garmin-to-notion/internal/config"
	"github.com/AdamSweetapple/garmin-to-notion/internal/sync"
)

// Notifier delivers a run report to the owner.
type Notifier interface {
	SendReport(text string) error
}

// telegramNotifier sends run reports as Telegram messages.
type telegramNotifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegramNotifier initializes the Telegram Bot API for send-only use.
func NewTelegramNotifier(cfg *config.Config) (Notifier, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}
	return &telegramNotifier{api: bot, chatID: cfg.TelegramChatID}, nil
}

// SendReport sends the report text as a Markdown message.
func (n *telegramNotifier) SendReport(text string) error {
	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send report: %w", err)
	}
	return nil
}

// FormatReport renders a run report as a Telegram Markdown message.
// Digests are optional per-date lines keyed by date.
func FormatReport(report sync.Report, digests map[string]string) string {
	var b strings.Builder
	b.WriteString("🍎 *MyFitnessPal → Notion Sync*\n")

	for _, res := range report.Results {
		switch {
		case res.Err != nil:
			fmt.Fprintf(&b, "• %s: failed (%v)\n", res.Date, res.Err)
		case res.Skipped:
			fmt.Fprintf(&b, "• %s: skipped, no diary data\n", res.Date)
		default:
			fmt.Fprintf(&b, "• %s: %s", res.Date, res.Action)
			if res.Snapshot != nil {
				fmt.Fprintf(&b, " — %d kcal in, %d net", res.Snapshot.CaloriesIn, res.Snapshot.NetCalories)
			}
			b.WriteString("\n")
		}
		if d := digests[res.Date]; d != "" {
			fmt.Fprintf(&b, "  _%s_\n", d)
		}
	}

	created, updated, unchanged, skipped, failed := report.Counts()
	fmt.Fprintf(&b, "\nCreated %d · Updated %d · Unchanged %d · Skipped %d · Failed %d",
		created, updated, unchanged, skipped, failed)
	return b.String()
}
