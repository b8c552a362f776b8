package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const defaultMFPBaseURL = "https://www.myfitnesspal.com"

// Config holds the configuration for a sync run.
type Config struct {
	NotionToken      string
	NotionDatabaseID string
	Location         *time.Location

	// MyFitnessPal session. The cookie must be acquired out of band
	// (browser export); this program only consumes it.
	MFPBaseURL string
	MFPCookie  string

	// SyncDays is the number of calendar days to process, counting back
	// from today in the local timezone.
	SyncDays    int
	JournalPath string

	// Optional integrations
	GeminiAPIKey     string
	TelegramBotToken string
	TelegramChatID   int64
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	// A .env file is optional; real environment variables win.
	_ = godotenv.Load()

	notionToken := os.Getenv("NOTION_TOKEN")
	if notionToken == "" {
		return nil, fmt.Errorf("NOTION_TOKEN environment variable not set")
	}

	databaseID := os.Getenv("NOTION_MFP_DATABASE_ID")
	if databaseID == "" {
		return nil, fmt.Errorf("NOTION_MFP_DATABASE_ID environment variable not set")
	}

	tzName := os.Getenv("LOCAL_TIMEZONE")
	if tzName == "" {
		tzName = "Etc/GMT"
	}
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid LOCAL_TIMEZONE %q: %w", tzName, err)
	}

	baseURL := os.Getenv("MFP_BASE_URL")
	if baseURL == "" {
		baseURL = defaultMFPBaseURL
	}

	syncDays := 1
	if v := os.Getenv("SYNC_DAYS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid SYNC_DAYS %q: expected a positive integer", v)
		}
		syncDays = n
	}

	var chatID int64
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		chatID, err = strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID %q: %w", v, err)
		}
	}

	return &Config{
		NotionToken:      notionToken,
		NotionDatabaseID: databaseID,
		Location:         loc,
		MFPBaseURL:       baseURL,
		MFPCookie:        os.Getenv("MFP_COOKIE"),
		SyncDays:         syncDays,
		JournalPath:      os.Getenv("SYNC_JOURNAL_PATH"),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:   chatID,
	}, nil
}
