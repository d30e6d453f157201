package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aungnyeinchamthu/GG-4-NEXT-WIN/internal/storage"
)

// NewBot creates a new Telegram bot
func NewBot(token string, adminGroupID int64, db storage.Storage, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		logger.Error("Failed to create bot API", zap.Error(err))
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	logger.Info("Bot created",
		zap.String("bot_username", api.Self.UserName),
		zap.Int64("admin_group_id", adminGroupID),
	)

	return &Bot{
		api:          api,
		db:           db,
		adminGroupID: adminGroupID,
		states:       make(map[int64]*ConversationState),
		logger:       logger,
	}, nil
}

// GetAPI returns the bot API for testing
func (b *Bot) GetAPI() *tgbotapi.BotAPI {
	return b.api
}
