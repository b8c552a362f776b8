package config

import (
	"os"
	"strings"
	"testing"
)

func TestNewFromEnv(t *testing.T) {
	setRequired := func(t *testing.T) {
		t.Helper()
		t.Setenv("NOTION_TOKEN", "secret_token")
		t.Setenv("NOTION_MFP_DATABASE_ID", "db123")
	}
	clearOptional := func(t *testing.T) {
		t.Helper()
		for _, key := range []string{
			"LOCAL_TIMEZONE", "MFP_BASE_URL", "MFP_COOKIE", "SYNC_DAYS",
			"SYNC_JOURNAL_PATH", "GEMINI_API_KEY", "TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID",
		} {
			t.Setenv(key, "")
			os.Unsetenv(key)
		}
	}

	t.Run("SuccessWithDefaults", func(t *testing.T) {
		setRequired(t)
		clearOptional(t)

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.NotionToken != "secret_token" {
			t.Errorf("Expected NotionToken to be 'secret_token', got '%s'", cfg.NotionToken)
		}
		if cfg.NotionDatabaseID != "db123" {
			t.Errorf("Expected NotionDatabaseID to be 'db123', got '%s'", cfg.NotionDatabaseID)
		}
		if cfg.Location.String() != "Etc/GMT" {
			t.Errorf("Expected default timezone 'Etc/GMT', got '%s'", cfg.Location.String())
		}
		if cfg.MFPBaseURL != defaultMFPBaseURL {
			t.Errorf("Expected default MFP base URL, got '%s'", cfg.MFPBaseURL)
		}
		if cfg.SyncDays != 1 {
			t.Errorf("Expected SyncDays to default to 1, got %d", cfg.SyncDays)
		}
		if cfg.JournalPath != "" || cfg.GeminiAPIKey != "" || cfg.TelegramBotToken != "" {
			t.Error("Expected optional integrations to be unset")
		}
	})

	t.Run("MissingNotionToken", func(t *testing.T) {
		clearOptional(t)
		t.Setenv("NOTION_MFP_DATABASE_ID", "db123")
		t.Setenv("NOTION_TOKEN", "")
		os.Unsetenv("NOTION_TOKEN")

		_, err := NewFromEnv()
		if err == nil {
			t.Fatal("Expected an error for missing NOTION_TOKEN, got nil")
		}
		expectedError := "NOTION_TOKEN environment variable not set"
		if err.Error() != expectedError {
			t.Errorf("Expected error '%s', got '%s'", expectedError, err.Error())
		}
	})

	t.Run("MissingDatabaseID", func(t *testing.T) {
		clearOptional(t)
		t.Setenv("NOTION_TOKEN", "secret_token")
		t.Setenv("NOTION_MFP_DATABASE_ID", "")
		os.Unsetenv("NOTION_MFP_DATABASE_ID")

		_, err := NewFromEnv()
		if err == nil {
			t.Fatal("Expected an error for missing NOTION_MFP_DATABASE_ID, got nil")
		}
		expectedError := "NOTION_MFP_DATABASE_ID environment variable not set"
		if err.Error() != expectedError {
			t.Errorf("Expected error '%s', got '%s'", expectedError, err.Error())
		}
	})

	t.Run("CustomTimezone", func(t *testing.T) {
		setRequired(t)
		clearOptional(t)
		t.Setenv("LOCAL_TIMEZONE", "Europe/Lisbon")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.Location.String() != "Europe/Lisbon" {
			t.Errorf("Expected timezone 'Europe/Lisbon', got '%s'", cfg.Location.String())
		}
	})

	t.Run("InvalidTimezone", func(t *testing.T) {
		setRequired(t)
		clearOptional(t)
		t.Setenv("LOCAL_TIMEZONE", "Not/AZone")

		_, err := NewFromEnv()
		if err == nil {
			t.Fatal("Expected an error for invalid LOCAL_TIMEZONE, got nil")
		}
		if !strings.Contains(err.Error(), "LOCAL_TIMEZONE") {
			t.Errorf("Expected error to name LOCAL_TIMEZONE, got '%s'", err.Error())
		}
	})

	t.Run("SyncDays", func(t *testing.T) {
		setRequired(t)
		clearOptional(t)
		t.Setenv("SYNC_DAYS", "7")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.SyncDays != 7 {
			t.Errorf("Expected SyncDays 7, got %d", cfg.SyncDays)
		}
	})

	t.Run("InvalidSyncDays", func(t *testing.T) {
		setRequired(t)
		clearOptional(t)

		for _, bad := range []string{"0", "-2", "abc"} {
			t.Setenv("SYNC_DAYS", bad)
			if _, err := NewFromEnv(); err == nil {
				t.Errorf("Expected an error for SYNC_DAYS=%q, got nil", bad)
			}
		}
	})

	t.Run("TelegramChatID", func(t *testing.T) {
		setRequired(t)
		clearOptional(t)
		t.Setenv("TELEGRAM_BOT_TOKEN", "bot-token")
		t.Setenv("TELEGRAM_CHAT_ID", "123456789")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.TelegramChatID != 123456789 {
			t.Errorf("Expected TelegramChatID 123456789, got %d", cfg.TelegramChatID)
		}
	})

	t.Run("InvalidTelegramChatID", func(t *testing.T) {
		setRequired(t)
		clearOptional(t)
		t.Setenv("TELEGRAM_CHAT_ID", "not-a-number")

		if _, err := NewFromEnv(); err == nil {
			t.Fatal("Expected an error for invalid TELEGRAM_CHAT_ID, got nil")
		}
	})
}
