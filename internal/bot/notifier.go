package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aungnyeinchamthu/GG-4-NEXT-WIN/internal/models"
)

// notifyOperations forwards the payment slip to the operations group with
// a summary and approve/reject buttons. Delivery is at-least-once from
// the group's point of view: a failed send is logged and the already
// committed deposit stays committed, so Telegram redelivery can produce
// duplicate notifications.
func (b *Bot) notifyOperations(deposit models.Deposit, username string) {
	if b.api == nil {
		return // For testing
	}

	caption := fmt.Sprintf("💰 New deposit #%d\n\nUser: @%s (%s)\nBetting account: %s\nAmount: %s\nBank: %s",
		deposit.ID, username, deposit.UserID, deposit.BettingAccountID,
		deposit.Amount.String(), models.BankLabel(deposit.PaymentMethod))

	photo := tgbotapi.NewPhoto(b.adminGroupID, tgbotapi.FileID(deposit.PaymentSlipRef))
	photo.Caption = caption
	photo.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Approve", fmt.Sprintf("deposit:approve:%d", deposit.ID)),
			tgbotapi.NewInlineKeyboardButtonData("❌ Reject", fmt.Sprintf("deposit:reject:%d", deposit.ID)),
		),
	)

	if _, err := b.api.Send(photo); err != nil {
		b.logger.Error("Failed to notify operations group",
			zap.Error(err),
			zap.Int64("deposit_id", deposit.ID),
		)
	}
}
