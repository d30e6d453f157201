package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/aungnyeinchamthu/GG-4-NEXT-WIN/internal/models"
)

// validAccountID reports whether s is a betting account ID: digits only,
// 9 to 13 characters
func validAccountID(s string) bool {
	if len(s) < 9 || len(s) > 13 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// parseAmount parses a deposit amount, rejecting anything that is not a
// positive number
func parseAmount(s string) (decimal.Decimal, bool) {
	amount, err := decimal.NewFromString(s)
	if err != nil || !amount.IsPositive() {
		return decimal.Zero, false
	}
	return amount, true
}

// startDepositFlow begins the deposit conversation for a user
func (b *Bot) startDepositFlow(userID, chatID int64) {
	b.setState(userID, &ConversationState{Step: StepAwaitingAccountID})

	msg := tgbotapi.NewMessage(chatID, "Please enter your betting account ID (9-13 digits):")
	msg.ReplyMarkup = cancelKeyboard()
	b.sendMessage(msg)
}

// handleConversation advances the deposit state machine with an incoming
// message. Invalid input re-prompts and leaves the state where it is.
func (b *Bot) handleConversation(ctx context.Context, message *tgbotapi.Message, state *ConversationState) {
	switch state.Step {
	case StepAwaitingAccountID:
		b.handleAccountIDStep(message, state)
	case StepAwaitingAmount:
		b.handleAmountStep(message, state)
	case StepAwaitingBank:
		// The bank is picked from the keyboard; typed text just brings the
		// keyboard back.
		b.promptBankSelection(message.Chat.ID)
	case StepAwaitingSlip:
		b.handleSlipStep(ctx, message, state)
	}
}

func (b *Bot) handleAccountIDStep(message *tgbotapi.Message, state *ConversationState) {
	if !validAccountID(message.Text) {
		msg := tgbotapi.NewMessage(message.Chat.ID, "❌ That doesn't look like a betting account ID. Please enter 9-13 digits:")
		msg.ReplyMarkup = cancelKeyboard()
		b.sendMessage(msg)
		return
	}

	state.BettingAccountID = message.Text
	state.Step = StepAwaitingAmount

	msg := tgbotapi.NewMessage(message.Chat.ID, "Enter the deposit amount:")
	msg.ReplyMarkup = cancelKeyboard()
	b.sendMessage(msg)
}

func (b *Bot) handleAmountStep(message *tgbotapi.Message, state *ConversationState) {
	amount, ok := parseAmount(message.Text)
	if !ok {
		msg := tgbotapi.NewMessage(message.Chat.ID, "❌ Invalid amount. Please enter a positive number:")
		msg.ReplyMarkup = cancelKeyboard()
		b.sendMessage(msg)
		return
	}

	state.Amount = amount
	state.Step = StepAwaitingBank
	b.promptBankSelection(message.Chat.ID)
}

// promptBankSelection shows the supported payment methods as an inline
// keyboard, two per row
func (b *Bot) promptBankSelection(chatID int64) {
	msg := tgbotapi.NewMessage(chatID, "🏦 Select the bank you paid through:")

	var rows [][]tgbotapi.InlineKeyboardButton
	var currentRow []tgbotapi.InlineKeyboardButton
	for i, bank := range models.Banks {
		button := tgbotapi.NewInlineKeyboardButtonData(bank.Label, "bank:"+bank.ID)
		currentRow = append(currentRow, button)

		if len(currentRow) == 2 || i == len(models.Banks)-1 {
			rows = append(rows, currentRow)
			currentRow = []tgbotapi.InlineKeyboardButton{}
		}
	}
	rows = append(rows, []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", "cancel"),
	})

	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	b.sendMessage(msg)
}

func (b *Bot) handleSlipStep(ctx context.Context, message *tgbotapi.Message, state *ConversationState) {
	slipRef := highestResPhotoRef(message.Photo)
	if slipRef == "" {
		msg := tgbotapi.NewMessage(message.Chat.ID, "📷 Please send a photo of your payment slip:")
		msg.ReplyMarkup = cancelKeyboard()
		b.sendMessage(msg)
		return
	}

	b.finalizeDeposit(ctx, message, state, slipRef)
}

// highestResPhotoRef returns the file reference of the largest photo
// variant, or "" when the message carries no photo
func highestResPhotoRef(photos []tgbotapi.PhotoSize) string {
	ref := ""
	best := 0
	for _, p := range photos {
		if area := p.Width * p.Height; area >= best {
			best = area
			ref = p.FileID
		}
	}
	return ref
}

// finalizeDeposit converts the collected fields into a durable deposit
// record, alerts the operations group and resets the conversation
func (b *Bot) finalizeDeposit(ctx context.Context, message *tgbotapi.Message, state *ConversationState, slipRef string) {
	userID := message.From.ID

	deposit := models.Deposit{
		UserID:           telegramID(userID),
		Amount:           state.Amount,
		PaymentMethod:    state.PaymentMethod,
		PaymentSlipRef:   slipRef,
		BettingAccountID: state.BettingAccountID,
		Status:           models.DepositPending,
	}

	id, err := b.db.InsertDeposit(ctx, deposit)
	if err != nil {
		// State is left untouched so the user can resend the slip without
		// re-entering the other fields.
		b.logger.Error("Failed to store deposit",
			zap.Error(err),
			zap.Int64("user_id", userID),
		)
		msg := tgbotapi.NewMessage(message.Chat.ID, "⚠️ We couldn't save your deposit right now. Please send the slip again in a moment.")
		b.sendMessage(msg)
		return
	}
	deposit.ID = id

	b.notifyOperations(deposit, message.From.UserName)
	b.clearState(userID)

	text := fmt.Sprintf("✅ Deposit #%d submitted!\n\nAccount: %s\nAmount: %s\nBank: %s\n\nOur team will review it shortly.",
		id, deposit.BettingAccountID, deposit.Amount.String(), models.BankLabel(deposit.PaymentMethod))
	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	b.sendMessage(msg)

	b.logger.Info("Deposit submitted",
		zap.Int64("deposit_id", id),
		zap.Int64("user_id", userID),
		zap.String("amount", deposit.Amount.String()),
		zap.String("bank", deposit.PaymentMethod),
	)
}
