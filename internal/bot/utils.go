package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// sendMessage sends a prepared message, logging delivery failures.
// A failed send never rolls back storage writes that already happened.
func (b *Bot) sendMessage(msg tgbotapi.MessageConfig) {
	if b.api == nil {
		return // For testing
	}
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", msg.ChatID),
		)
	}
}

// state returns the conversation state for a user, or nil
func (b *Bot) state(userID int64) *ConversationState {
	b.statesMu.RLock()
	defer b.statesMu.RUnlock()
	return b.states[userID]
}

// setState installs a fresh conversation state for a user
func (b *Bot) setState(userID int64, state *ConversationState) {
	b.statesMu.Lock()
	defer b.statesMu.Unlock()
	b.states[userID] = state
}

// clearState discards the user's conversation state, dropping any
// partially collected deposit fields
func (b *Bot) clearState(userID int64) {
	b.statesMu.Lock()
	defer b.statesMu.Unlock()
	delete(b.states, userID)
}

// cancelKeyboard is the single-button keyboard attached to every prompt
// inside the deposit conversation
func cancelKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", "cancel"),
		),
	)
}
