package storage

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/aungnyeinchamthu/GG-4-NEXT-WIN/internal/models"
)

// Sentinel errors shared across all storage implementations.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrDepositNotFound = errors.New("deposit not found")
)

// Storage defines the interface for data storage operations
type Storage interface {
	// User operations

	// UpsertUser registers a user on first contact or refreshes the
	// username and last-active timestamp on subsequent contacts. Existing
	// cashback, rank and referrer data is preserved.
	UpsertUser(ctx context.Context, telegramID, username string) error
	GetUser(ctx context.Context, telegramID string) (*models.User, error)

	// Deposit operations

	// InsertDeposit stores a fully collected deposit with status pending
	// and returns its assigned sequence number.
	InsertDeposit(ctx context.Context, deposit models.Deposit) (int64, error)
	GetDeposit(ctx context.Context, id int64) (*models.Deposit, error)
	// UpdateDepositStatus moves a deposit to the given status. The
	// processed-at timestamp is stamped the first time the deposit leaves
	// pending and never overwritten afterwards.
	UpdateDepositStatus(ctx context.Context, id int64, status models.DepositStatus) error

	// Referral operations

	// RegisterReferral links referralID to referrerID, records the referral
	// and credits the bonus to the referrer, all as a single transaction.
	// It returns false without error when the referred user already has a
	// referrer (first-write-wins), and ErrUserNotFound when either user is
	// unknown.
	RegisterReferral(ctx context.Context, referrerID, referralID string, bonus decimal.Decimal) (bool, error)
	CountReferrals(ctx context.Context, referrerID string) (int, error)
	SumReferralEarnings(ctx context.Context, referrerID string) (decimal.Decimal, error)

	// Lifecycle
	Initialize(ctx context.Context) error
	Close() error
}
