package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DepositStatus is the lifecycle state of a submitted deposit.
type DepositStatus string

const (
	DepositPending   DepositStatus = "pending"
	DepositApproved  DepositStatus = "approved"
	DepositRejected  DepositStatus = "rejected"
	DepositProcessed DepositStatus = "processed"
)

// User represents a registered bot user
type User struct {
	TelegramID       string
	Username         string
	BettingAccountID string
	CashbackPoints   decimal.Decimal
	RankLevel        int
	ReferrerID       string // empty when the user joined without a referral
	CreatedAt        time.Time
	LastActiveAt     time.Time
}

// Deposit represents a submitted deposit request
type Deposit struct {
	ID               int64
	UserID           string
	Amount           decimal.Decimal
	PaymentMethod    string
	PaymentSlipRef   string
	BettingAccountID string
	Status           DepositStatus
	CreatedAt        time.Time
	ProcessedAt      *time.Time
}

// Referral links a referred user to the referrer who invited them
type Referral struct {
	ID             int64
	ReferrerID     string
	ReferralID     string
	EarnedCashback decimal.Decimal
	RegisteredAt   time.Time
}

// Bank is a payment method users can deposit through
type Bank struct {
	ID    string
	Label string
}

// Banks is the closed set of supported payment methods.
var Banks = []Bank{
	{ID: "kpay", Label: "KBZPay"},
	{ID: "wave", Label: "WavePay"},
	{ID: "aya", Label: "AYA Bank"},
	{ID: "cb", Label: "CB Bank"},
}

// IsValidBank reports whether id is one of the supported payment methods
func IsValidBank(id string) bool {
	for _, b := range Banks {
		if b.ID == id {
			return true
		}
	}
	return false
}

// BankLabel returns the display label for a bank ID, or the ID itself
// when the ID is not in the supported set
func BankLabel(id string) string {
	for _, b := range Banks {
		if b.ID == id {
			return b.Label
		}
	}
	return id
}
