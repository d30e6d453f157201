package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the application configuration
type Config struct {
	TelegramToken string
	AdminGroupID  int64

	// Bot mode configuration
	WebhookMode bool   // If true, use webhook mode; if false, use polling mode
	WebhookURL  string // URL for webhook (required if WebhookMode is true)

	// Storage configuration
	SQLitePath string
	UseMockDB  bool
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	config := &Config{}

	// Telegram Bot Token (required)
	config.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if config.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is required")
	}

	// Operations group for deposit notifications (required)
	adminGroupStr := os.Getenv("ADMIN_GROUP_ID")
	if adminGroupStr == "" {
		return nil, fmt.Errorf("ADMIN_GROUP_ID is required")
	}
	adminGroupID, err := strconv.ParseInt(adminGroupStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid ADMIN_GROUP_ID: %w", err)
	}
	config.AdminGroupID = adminGroupID

	// Bot mode configuration
	config.WebhookMode = os.Getenv("WEBHOOK_MODE") == "true"
	if config.WebhookMode {
		config.WebhookURL = os.Getenv("WEBHOOK_URL")
		if config.WebhookURL == "" {
			return nil, fmt.Errorf("WEBHOOK_URL is required when WEBHOOK_MODE is true")
		}
	}

	// Use Mock DB (default: false)
	config.UseMockDB = os.Getenv("USE_MOCK_DB") == "true"

	config.SQLitePath = os.Getenv("SQLITE_PATH")
	if config.SQLitePath == "" {
		config.SQLitePath = "gg4nextwin.db"
	}

	return config, nil
}
