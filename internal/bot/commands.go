package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const helpText = `GG4NEXTWIN bot commands:

/start - Show the main menu
/deposit - Submit a deposit
/cancel - Abort the current submission

To deposit, you will be asked for your betting account ID, the amount,
the bank you paid through and a photo of the payment slip. Our team
reviews every submission before it is credited.`

// mainMenuKeyboard is the top-level menu shown on /start
func mainMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💰 Deposit", "menu:deposit"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💸 Withdraw", "menu:withdraw"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🆕 New Account", "menu:new_account"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎁 Cashback Points", "menu:cashback"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔗 Referral Link", "menu:referral"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❓ Help", "menu:help"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🏆 Check Rank", "menu:rank"),
		),
	)
}

// handleStart registers the user, runs the referral hand-off when a
// referrer token is attached, and shows the main menu
func (b *Bot) handleStart(ctx context.Context, message *tgbotapi.Message) {
	userID := message.From.ID

	// A start link of the form t.me/<bot>?start=<referrerID> carries the
	// referrer token as the command argument.
	if token := message.CommandArguments(); token != "" {
		b.processReferral(ctx, telegramID(userID), token)
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, "Welcome to GG4NEXTWIN!\n\nAvailable options:")
	msg.ReplyMarkup = mainMenuKeyboard()
	b.sendMessage(msg)
}

// handleHelp shows the command overview
func (b *Bot) handleHelp(message *tgbotapi.Message) {
	msg := tgbotapi.NewMessage(message.Chat.ID, helpText)
	b.sendMessage(msg)
}
