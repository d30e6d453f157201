package bot

import (
	"context"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// telegramID converts a Telegram numeric user ID to the string form the
// storage layer keys on
func telegramID(userID int64) string {
	return strconv.FormatInt(userID, 10)
}

// handleMessage processes a single message
func (b *Bot) handleMessage(message *tgbotapi.Message) {
	// Recover from panics to prevent bot crashes
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Recovered from panic in handleMessage", zap.Any("panic", r))
			msg := tgbotapi.NewMessage(message.Chat.ID, "An error occurred while processing your request. Please try again.")
			b.sendMessage(msg)
		}
	}()

	userID := message.From.ID
	ctx := context.Background()

	// Every contact refreshes the user record (username, last_active_at).
	if err := b.db.UpsertUser(ctx, telegramID(userID), message.From.UserName); err != nil {
		b.logger.Error("Failed to upsert user",
			zap.Error(err),
			zap.Int64("user_id", userID),
		)
	}

	if message.IsCommand() {
		// Any command interrupts an in-flight conversation, discarding
		// partially collected fields.
		b.clearState(userID)

		switch message.Command() {
		case "start":
			b.handleStart(ctx, message)
		case "deposit":
			b.startDepositFlow(userID, message.Chat.ID)
		case "help":
			b.handleHelp(message)
		case "cancel":
			msg := tgbotapi.NewMessage(message.Chat.ID, "Nothing to cancel. Use /start to see the menu.")
			b.sendMessage(msg)
		default:
			msg := tgbotapi.NewMessage(message.Chat.ID, "Unknown command. Use /start to see available options.")
			b.sendMessage(msg)
		}
		return
	}

	if state := b.state(userID); state != nil && state.Step != StepIdle {
		b.handleConversation(ctx, message, state)
		return
	}

	// Stray input while idle is ignored. This includes a redelivered slip
	// photo after a deposit was already finalized.
}

// handleCallbackQuery processes inline keyboard button clicks
func (b *Bot) handleCallbackQuery(query *tgbotapi.CallbackQuery) {
	// Recover from panics
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Recovered from panic in handleCallbackQuery", zap.Any("panic", r))
		}
	}()

	ctx := context.Background()

	// Answer the callback query to remove the loading state
	if b.api != nil {
		b.api.Request(tgbotapi.NewCallback(query.ID, ""))
	}

	if query.Message == nil {
		return
	}

	data := query.Data

	// Deposit review buttons live on the operations-group message and are
	// pressed by staff, not by bot users.
	if strings.HasPrefix(data, "deposit:") {
		b.handleDepositReviewCallback(ctx, query)
		return
	}

	userID := query.From.ID
	if err := b.db.UpsertUser(ctx, telegramID(userID), query.From.UserName); err != nil {
		b.logger.Error("Failed to upsert user",
			zap.Error(err),
			zap.Int64("user_id", userID),
		)
	}

	switch {
	case strings.HasPrefix(data, "menu:"):
		b.handleMenuCallback(ctx, query)
	case strings.HasPrefix(data, "bank:"):
		b.handleBankCallback(ctx, query)
	case data == "cancel":
		b.handleCancelCallback(query)
	}
}
