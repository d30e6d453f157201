package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/aungnyeinchamthu/GG-4-NEXT-WIN/internal/models"
	"github.com/aungnyeinchamthu/GG-4-NEXT-WIN/internal/storage"
)

// Compile-time check: *SQLiteDB must satisfy storage.Storage.
var _ storage.Storage = (*SQLiteDB)(nil)

type SQLiteDB struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLiteDB opens the SQLite database at path and configures it as a
// single serialized writer: one connection, one in-flight statement.
// database/sql queues concurrent callers on that connection, so handlers
// for unrelated users never hold a database lock against each other.
func NewSQLiteDB(path string, logger *zap.Logger) (*SQLiteDB, error) {
	if path == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	logger.Info("SQLite database opened", zap.String("path", path))

	return &SQLiteDB{db: db, logger: logger}, nil
}

// Initialize creates the schema when it does not exist yet. Deployments
// that run cmd/migrate end up with the same tables; this keeps a bare
// start working.
func (s *SQLiteDB) Initialize(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		telegram_id TEXT PRIMARY KEY,
		username TEXT NOT NULL DEFAULT '',
		betting_account_id TEXT,
		cashback_points TEXT NOT NULL DEFAULT '0',
		rank_level INTEGER NOT NULL DEFAULT 1,
		referrer_id TEXT REFERENCES users(telegram_id),
		created_at TIMESTAMP NOT NULL,
		last_active_at TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS deposits (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL REFERENCES users(telegram_id),
		amount TEXT NOT NULL,
		payment_method TEXT NOT NULL,
		payment_slip_ref TEXT NOT NULL,
		betting_account_id TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending'
			CHECK (status IN ('pending', 'approved', 'rejected', 'processed')),
		created_at TIMESTAMP NOT NULL,
		processed_at TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_deposits_user ON deposits(user_id);
	CREATE INDEX IF NOT EXISTS idx_deposits_status ON deposits(status);

	CREATE TABLE IF NOT EXISTS referrals (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		referrer_id TEXT NOT NULL REFERENCES users(telegram_id),
		referral_id TEXT NOT NULL REFERENCES users(telegram_id),
		earned_cashback TEXT NOT NULL DEFAULT '0',
		registered_at TIMESTAMP NOT NULL,
		UNIQUE (referrer_id, referral_id)
	);
	CREATE INDEX IF NOT EXISTS idx_referrals_referrer ON referrals(referrer_id);
	`

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("unable to initialize schema: %w", err)
	}
	return nil
}

// UpsertUser registers a user or refreshes username and last_active_at
func (s *SQLiteDB) UpsertUser(ctx context.Context, telegramID, username string) error {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (telegram_id, username, created_at, last_active_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (telegram_id) DO UPDATE SET
			username = excluded.username,
			last_active_at = excluded.last_active_at`,
		telegramID, username, now, now)
	if err != nil {
		return fmt.Errorf("failed to upsert user %s: %w", telegramID, err)
	}
	return nil
}

// GetUser returns the user with the given Telegram ID
func (s *SQLiteDB) GetUser(ctx context.Context, telegramID string) (*models.User, error) {
	var (
		user       models.User
		accountID  sql.NullString
		cashback   string
		referrerID sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT telegram_id, username, betting_account_id, cashback_points,
		       rank_level, referrer_id, created_at, last_active_at
		FROM users WHERE telegram_id = ?`, telegramID).
		Scan(&user.TelegramID, &user.Username, &accountID, &cashback,
			&user.RankLevel, &referrerID, &user.CreatedAt, &user.LastActiveAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", telegramID, err)
	}

	user.BettingAccountID = accountID.String
	user.ReferrerID = referrerID.String
	user.CashbackPoints, err = decimal.NewFromString(cashback)
	if err != nil {
		return nil, fmt.Errorf("invalid cashback value for user %s: %w", telegramID, err)
	}
	return &user, nil
}

// InsertDeposit stores a finalized deposit and returns its sequence number
func (s *SQLiteDB) InsertDeposit(ctx context.Context, deposit models.Deposit) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO deposits (user_id, amount, payment_method, payment_slip_ref,
		                      betting_account_id, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		deposit.UserID, deposit.Amount.String(), deposit.PaymentMethod,
		deposit.PaymentSlipRef, deposit.BettingAccountID,
		string(models.DepositPending), time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to insert deposit for user %s: %w", deposit.UserID, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read deposit id: %w", err)
	}

	// The betting account is remembered on the user for the next deposit.
	_, err = tx.ExecContext(ctx,
		`UPDATE users SET betting_account_id = ? WHERE telegram_id = ?`,
		deposit.BettingAccountID, deposit.UserID)
	if err != nil {
		return 0, fmt.Errorf("failed to remember betting account for user %s: %w", deposit.UserID, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit deposit for user %s: %w", deposit.UserID, err)
	}
	return id, nil
}

// GetDeposit returns the deposit with the given sequence number
func (s *SQLiteDB) GetDeposit(ctx context.Context, id int64) (*models.Deposit, error) {
	var (
		deposit     models.Deposit
		amount      string
		status      string
		processedAt sql.NullTime
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, amount, payment_method, payment_slip_ref,
		       betting_account_id, status, created_at, processed_at
		FROM deposits WHERE id = ?`, id).
		Scan(&deposit.ID, &deposit.UserID, &amount, &deposit.PaymentMethod,
			&deposit.PaymentSlipRef, &deposit.BettingAccountID, &status,
			&deposit.CreatedAt, &processedAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrDepositNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get deposit %d: %w", id, err)
	}

	deposit.Status = models.DepositStatus(status)
	if processedAt.Valid {
		t := processedAt.Time
		deposit.ProcessedAt = &t
	}
	deposit.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount value for deposit %d: %w", id, err)
	}
	return &deposit, nil
}

// UpdateDepositStatus moves a deposit to the given status, stamping
// processed_at the first time the deposit leaves pending
func (s *SQLiteDB) UpdateDepositStatus(ctx context.Context, id int64, status models.DepositStatus) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE deposits
		SET status = ?, processed_at = COALESCE(processed_at, ?)
		WHERE id = ?`,
		string(status), time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update deposit %d status: %w", id, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows for deposit %d: %w", id, err)
	}
	if rows == 0 {
		return storage.ErrDepositNotFound
	}
	return nil
}

// RegisterReferral links a referred user to a referrer, records the
// referral and credits the flat bonus, all in one transaction so a reader
// never observes the referral row without the referrer linkage.
func (s *SQLiteDB) RegisterReferral(ctx context.Context, referrerID, referralID string, bonus decimal.Decimal) (bool, error) {
	if referrerID == referralID {
		// Self-referral is forbidden.
		return false, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin referral transaction: %w", err)
	}
	defer tx.Rollback()

	var referrerCashback string
	err = tx.QueryRowContext(ctx,
		`SELECT cashback_points FROM users WHERE telegram_id = ?`, referrerID).
		Scan(&referrerCashback)
	if err == sql.ErrNoRows {
		return false, storage.ErrUserNotFound
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up referrer %s: %w", referrerID, err)
	}

	var existingReferrer sql.NullString
	err = tx.QueryRowContext(ctx,
		`SELECT referrer_id FROM users WHERE telegram_id = ?`, referralID).
		Scan(&existingReferrer)
	if err == sql.ErrNoRows {
		return false, storage.ErrUserNotFound
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up referred user %s: %w", referralID, err)
	}
	if existingReferrer.Valid {
		// First write wins; repeat registrations are a no-op.
		return false, nil
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE users SET referrer_id = ? WHERE telegram_id = ?`,
		referrerID, referralID); err != nil {
		return false, fmt.Errorf("failed to set referrer for user %s: %w", referralID, err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO referrals (referrer_id, referral_id, earned_cashback, registered_at)
		VALUES (?, ?, ?, ?)`,
		referrerID, referralID, bonus.String(), time.Now().UTC()); err != nil {
		return false, fmt.Errorf("failed to insert referral %s -> %s: %w", referrerID, referralID, err)
	}

	current, err := decimal.NewFromString(referrerCashback)
	if err != nil {
		return false, fmt.Errorf("invalid cashback value for referrer %s: %w", referrerID, err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE users SET cashback_points = ? WHERE telegram_id = ?`,
		current.Add(bonus).String(), referrerID); err != nil {
		return false, fmt.Errorf("failed to credit referrer %s: %w", referrerID, err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit referral transaction: %w", err)
	}
	return true, nil
}

// CountReferrals returns how many users were referred by the given user
func (s *SQLiteDB) CountReferrals(ctx context.Context, referrerID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM referrals WHERE referrer_id = ?`, referrerID).
		Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count referrals for %s: %w", referrerID, err)
	}
	return count, nil
}

// SumReferralEarnings returns the total cashback earned from referrals
func (s *SQLiteDB) SumReferralEarnings(ctx context.Context, referrerID string) (decimal.Decimal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT earned_cashback FROM referrals WHERE referrer_id = ?`, referrerID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to query referral earnings for %s: %w", referrerID, err)
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var earned string
		if err := rows.Scan(&earned); err != nil {
			return decimal.Zero, fmt.Errorf("failed to scan referral earning: %w", err)
		}
		value, err := decimal.NewFromString(earned)
		if err != nil {
			return decimal.Zero, fmt.Errorf("invalid referral earning value: %w", err)
		}
		total = total.Add(value)
	}
	if err := rows.Err(); err != nil {
		return decimal.Zero, fmt.Errorf("failed to iterate referral earnings: %w", err)
	}
	return total, nil
}

// Close closes the database connection
func (s *SQLiteDB) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
