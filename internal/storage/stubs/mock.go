package stubs

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/aungnyeinchamthu/GG-4-NEXT-WIN/internal/models"
	"github.com/aungnyeinchamthu/GG-4-NEXT-WIN/internal/storage"
)

// Compile-time check: *MockDB must satisfy storage.Storage.
var _ storage.Storage = (*MockDB)(nil)

// MockDB is an in-memory implementation of the Storage interface for testing
type MockDB struct {
	mu        sync.RWMutex
	users     map[string]*models.User
	deposits  []models.Deposit
	referrals []models.Referral
	nextID    int64

	// InsertDepositErr, when set, is returned by InsertDeposit to simulate
	// a storage failure.
	InsertDepositErr error
}

// NewMockDB creates a new mock database
func NewMockDB() *MockDB {
	return &MockDB{
		users:  make(map[string]*models.User),
		nextID: 1,
	}
}

// Initialize does nothing for the mock DB
func (m *MockDB) Initialize(ctx context.Context) error {
	return nil
}

// UpsertUser registers a user or refreshes username and last-active time
func (m *MockDB) UpsertUser(ctx context.Context, telegramID, username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	if user, ok := m.users[telegramID]; ok {
		user.Username = username
		user.LastActiveAt = now
		return nil
	}

	m.users[telegramID] = &models.User{
		TelegramID:     telegramID,
		Username:       username,
		CashbackPoints: decimal.Zero,
		RankLevel:      1,
		CreatedAt:      now,
		LastActiveAt:   now,
	}
	return nil
}

// GetUser returns a copy of the user with the given Telegram ID
func (m *MockDB) GetUser(ctx context.Context, telegramID string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[telegramID]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

// InsertDeposit stores a deposit with status pending
func (m *MockDB) InsertDeposit(ctx context.Context, deposit models.Deposit) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.InsertDepositErr != nil {
		return 0, m.InsertDepositErr
	}

	deposit.ID = m.nextID
	m.nextID++
	deposit.Status = models.DepositPending
	deposit.CreatedAt = time.Now().UTC()
	m.deposits = append(m.deposits, deposit)

	if user, ok := m.users[deposit.UserID]; ok {
		user.BettingAccountID = deposit.BettingAccountID
	}

	return deposit.ID, nil
}

// GetDeposit returns the deposit with the given sequence number
func (m *MockDB) GetDeposit(ctx context.Context, id int64) (*models.Deposit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, d := range m.deposits {
		if d.ID == id {
			copied := d
			return &copied, nil
		}
	}
	return nil, storage.ErrDepositNotFound
}

// UpdateDepositStatus moves a deposit to the given status
func (m *MockDB) UpdateDepositStatus(ctx context.Context, id int64, status models.DepositStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.deposits {
		if m.deposits[i].ID == id {
			m.deposits[i].Status = status
			if m.deposits[i].ProcessedAt == nil {
				now := time.Now().UTC()
				m.deposits[i].ProcessedAt = &now
			}
			return nil
		}
	}
	return storage.ErrDepositNotFound
}

// RegisterReferral links a referred user to a referrer and credits the bonus
func (m *MockDB) RegisterReferral(ctx context.Context, referrerID, referralID string, bonus decimal.Decimal) (bool, error) {
	if referrerID == referralID {
		// Self-referral is forbidden.
		return false, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	referrer, ok := m.users[referrerID]
	if !ok {
		return false, storage.ErrUserNotFound
	}
	referred, ok := m.users[referralID]
	if !ok {
		return false, storage.ErrUserNotFound
	}
	if referred.ReferrerID != "" {
		// First write wins; repeat registrations are a no-op.
		return false, nil
	}

	referred.ReferrerID = referrerID
	m.referrals = append(m.referrals, models.Referral{
		ID:             m.nextID,
		ReferrerID:     referrerID,
		ReferralID:     referralID,
		EarnedCashback: bonus,
		RegisteredAt:   time.Now().UTC(),
	})
	m.nextID++
	referrer.CashbackPoints = referrer.CashbackPoints.Add(bonus)

	return true, nil
}

// CountReferrals returns how many users were referred by the given user
func (m *MockDB) CountReferrals(ctx context.Context, referrerID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, r := range m.referrals {
		if r.ReferrerID == referrerID {
			count++
		}
	}
	return count, nil
}

// SumReferralEarnings returns the total cashback earned from referrals
func (m *MockDB) SumReferralEarnings(ctx context.Context, referrerID string) (decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	total := decimal.Zero
	for _, r := range m.referrals {
		if r.ReferrerID == referrerID {
			total = total.Add(r.EarnedCashback)
		}
	}
	return total, nil
}

// Deposits returns a snapshot of all stored deposits, for tests
func (m *MockDB) Deposits() []models.Deposit {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snapshot := make([]models.Deposit, len(m.deposits))
	copy(snapshot, m.deposits)
	return snapshot
}

// Close does nothing for the mock DB
func (m *MockDB) Close() error {
	return nil
}
