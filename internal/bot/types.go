package bot

import (
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/aungnyeinchamthu/GG-4-NEXT-WIN/internal/storage"
)

// Bot represents the Telegram bot wrapper
type Bot struct {
	api          *tgbotapi.BotAPI
	db           storage.Storage
	adminGroupID int64
	states       map[int64]*ConversationState
	statesMu     sync.RWMutex
	logger       *zap.Logger
}

// DepositStep identifies the user's position in the deposit conversation
type DepositStep int

const (
	StepIdle DepositStep = iota
	StepAwaitingAccountID
	StepAwaitingAmount
	StepAwaitingBank
	StepAwaitingSlip
)

// ConversationState accumulates deposit fields across turns for one user.
// It lives only in memory; a restart drops any in-flight submission.
type ConversationState struct {
	Step             DepositStep
	BettingAccountID string
	Amount           decimal.Decimal
	PaymentMethod    string
}
