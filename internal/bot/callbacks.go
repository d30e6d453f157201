package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aungnyeinchamthu/GG-4-NEXT-WIN/internal/models"
	"github.com/aungnyeinchamthu/GG-4-NEXT-WIN/internal/storage"
)

// handleMenuCallback routes main menu selections
func (b *Bot) handleMenuCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	action := strings.TrimPrefix(query.Data, "menu:")
	chatID := query.Message.Chat.ID
	userID := query.From.ID

	switch action {
	case "deposit":
		b.startDepositFlow(userID, chatID)
	case "withdraw":
		msg := tgbotapi.NewMessage(chatID, "💸 Withdrawals are handled by our support team. Please contact @GG4NEXTWIN_support with your betting account ID.")
		b.sendMessage(msg)
	case "new_account":
		msg := tgbotapi.NewMessage(chatID, "🆕 To open a new betting account, contact @GG4NEXTWIN_support and mention this bot.")
		b.sendMessage(msg)
	case "cashback":
		b.showCashback(ctx, chatID, userID)
	case "referral":
		b.showReferralLink(ctx, chatID, userID)
	case "rank":
		b.showRank(ctx, chatID, userID)
	case "help":
		msg := tgbotapi.NewMessage(chatID, helpText)
		b.sendMessage(msg)
	}
}

// showCashback reports the user's accumulated cashback points
func (b *Bot) showCashback(ctx context.Context, chatID, userID int64) {
	user, err := b.db.GetUser(ctx, telegramID(userID))
	if err != nil {
		b.logger.Error("Failed to load user for cashback view",
			zap.Error(err),
			zap.Int64("user_id", userID),
		)
		b.sendMessage(tgbotapi.NewMessage(chatID, "⚠️ Couldn't load your cashback right now. Please try again."))
		return
	}

	earned, err := b.db.SumReferralEarnings(ctx, telegramID(userID))
	if err != nil {
		b.logger.Error("Failed to sum referral earnings",
			zap.Error(err),
			zap.Int64("user_id", userID),
		)
		b.sendMessage(tgbotapi.NewMessage(chatID, "⚠️ Couldn't load your cashback right now. Please try again."))
		return
	}

	text := fmt.Sprintf("🎁 Cashback points: %s\nOf which from referrals: %s",
		user.CashbackPoints.String(), earned.String())
	b.sendMessage(tgbotapi.NewMessage(chatID, text))
}

// showReferralLink sends the user their personal invite link
func (b *Bot) showReferralLink(ctx context.Context, chatID, userID int64) {
	count, err := b.db.CountReferrals(ctx, telegramID(userID))
	if err != nil {
		b.logger.Error("Failed to count referrals",
			zap.Error(err),
			zap.Int64("user_id", userID),
		)
		b.sendMessage(tgbotapi.NewMessage(chatID, "⚠️ Couldn't load your referral link right now. Please try again."))
		return
	}

	botName := "GG4NEXTWIN_bot"
	if b.api != nil {
		botName = b.api.Self.UserName
	}

	text := fmt.Sprintf("🔗 Your referral link:\nhttps://t.me/%s?start=%d\n\nFriends invited so far: %d",
		botName, userID, count)
	b.sendMessage(tgbotapi.NewMessage(chatID, text))
}

// showRank reports the user's current rank level
func (b *Bot) showRank(ctx context.Context, chatID, userID int64) {
	user, err := b.db.GetUser(ctx, telegramID(userID))
	if err != nil {
		b.logger.Error("Failed to load user for rank view",
			zap.Error(err),
			zap.Int64("user_id", userID),
		)
		b.sendMessage(tgbotapi.NewMessage(chatID, "⚠️ Couldn't load your rank right now. Please try again."))
		return
	}

	b.sendMessage(tgbotapi.NewMessage(chatID, fmt.Sprintf("🏆 Your rank level: %d", user.RankLevel)))
}

// handleBankCallback processes a bank selection during the deposit flow
func (b *Bot) handleBankCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	userID := query.From.ID
	chatID := query.Message.Chat.ID

	state := b.state(userID)
	if state == nil || state.Step != StepAwaitingBank {
		// Stale button press from an earlier conversation.
		return
	}

	bankID := strings.TrimPrefix(query.Data, "bank:")
	if !models.IsValidBank(bankID) {
		b.promptBankSelection(chatID)
		return
	}

	state.PaymentMethod = bankID
	state.Step = StepAwaitingSlip

	msg := tgbotapi.NewMessage(chatID, "📷 Please send a photo of your payment slip:")
	msg.ReplyMarkup = cancelKeyboard()
	b.sendMessage(msg)
}

// handleCancelCallback aborts the deposit conversation from any step
func (b *Bot) handleCancelCallback(query *tgbotapi.CallbackQuery) {
	userID := query.From.ID

	if state := b.state(userID); state == nil || state.Step == StepIdle {
		return
	}
	b.clearState(userID)

	msg := tgbotapi.NewMessage(query.Message.Chat.ID, "Deposit cancelled. Nothing was saved. Use /start to see the menu.")
	b.sendMessage(msg)

	b.logger.Info("Deposit conversation cancelled", zap.Int64("user_id", userID))
}

// handleDepositReviewCallback processes approve/reject presses on the
// operations-group notification. Only the review status transition is
// handled here; payout itself happens outside the bot.
func (b *Bot) handleDepositReviewCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	if query.Message.Chat.ID != b.adminGroupID {
		b.logger.Warn("Deposit review callback from outside the admin group",
			zap.Int64("chat_id", query.Message.Chat.ID),
			zap.Int64("user_id", query.From.ID),
		)
		return
	}

	parts := strings.Split(query.Data, ":")
	if len(parts) != 3 {
		return
	}
	action := parts[1]
	depositID, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return
	}

	var status models.DepositStatus
	switch action {
	case "approve":
		status = models.DepositApproved
	case "reject":
		status = models.DepositRejected
	default:
		return
	}

	if err := b.db.UpdateDepositStatus(ctx, depositID, status); err != nil {
		if errors.Is(err, storage.ErrDepositNotFound) {
			b.logger.Warn("Review for unknown deposit", zap.Int64("deposit_id", depositID))
			return
		}
		b.logger.Error("Failed to update deposit status",
			zap.Error(err),
			zap.Int64("deposit_id", depositID),
		)
		return
	}

	b.logger.Info("Deposit reviewed",
		zap.Int64("deposit_id", depositID),
		zap.String("status", string(status)),
		zap.Int64("reviewer_id", query.From.ID),
	)

	// Rebuild the ops message from the stored deposit so the edit
	// reflects what was actually persisted, buttons stripped.
	deposit, err := b.db.GetDeposit(ctx, depositID)
	if err != nil {
		b.logger.Warn("Failed to reload deposit after review",
			zap.Error(err),
			zap.Int64("deposit_id", depositID),
		)
		return
	}

	if b.api != nil {
		edit := tgbotapi.NewEditMessageCaption(b.adminGroupID, query.Message.MessageID,
			reviewCaption(deposit, query.From.UserName))
		if _, err := b.api.Request(edit); err != nil {
			b.logger.Warn("Failed to edit review message", zap.Error(err))
		}
	}
}

// reviewCaption formats the operations-group caption for a reviewed deposit.
func reviewCaption(deposit *models.Deposit, reviewer string) string {
	return fmt.Sprintf("💰 Deposit #%d\n\nUser: %s\nBetting account: %s\nAmount: %s\nBank: %s\n\nStatus: %s (by @%s)",
		deposit.ID, deposit.UserID, deposit.BettingAccountID,
		deposit.Amount.String(), models.BankLabel(deposit.PaymentMethod),
		deposit.Status, reviewer)
}
