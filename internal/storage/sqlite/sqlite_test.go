package sqlite

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aungnyeinchamthu/GG-4-NEXT-WIN/internal/models"
	"github.com/aungnyeinchamthu/GG-4-NEXT-WIN/internal/storage"
)

func setupTestDB(t *testing.T) *SQLiteDB {
	t.Helper()

	db, err := NewSQLiteDB(":memory:", zap.NewNop())
	require.NoError(t, err, "Failed to open test database")
	require.NoError(t, db.Initialize(context.Background()), "Failed to initialize schema")

	t.Cleanup(func() { db.Close() })
	return db
}

func TestUpsertUser(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.UpsertUser(ctx, "42", "punter"))

	user, err := db.GetUser(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, "42", user.TelegramID)
	assert.Equal(t, "punter", user.Username)
	assert.Equal(t, 1, user.RankLevel)
	assert.True(t, user.CashbackPoints.IsZero())
	assert.Empty(t, user.ReferrerID)

	// A second contact refreshes the username but preserves everything else
	require.NoError(t, db.UpsertUser(ctx, "42", "renamed"))

	updated, err := db.GetUser(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Username)
	assert.Equal(t, user.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.CashbackPoints.IsZero())
}

func TestGetUserNotFound(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.GetUser(context.Background(), "nobody")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestInsertAndGetDeposit(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.UpsertUser(ctx, "42", "punter"))

	id, err := db.InsertDeposit(ctx, models.Deposit{
		UserID:           "42",
		Amount:           decimal.RequireFromString("100.5"),
		PaymentMethod:    "kpay",
		PaymentSlipRef:   "slip-full",
		BettingAccountID: "123456789",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	deposit, err := db.GetDeposit(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "42", deposit.UserID)
	assert.True(t, deposit.Amount.Equal(decimal.RequireFromString("100.5")))
	assert.Equal(t, "kpay", deposit.PaymentMethod)
	assert.Equal(t, "slip-full", deposit.PaymentSlipRef)
	assert.Equal(t, "123456789", deposit.BettingAccountID)
	assert.Equal(t, models.DepositPending, deposit.Status)
	assert.Nil(t, deposit.ProcessedAt)

	// The betting account is remembered on the user
	user, err := db.GetUser(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, "123456789", user.BettingAccountID)
}

func TestUpdateDepositStatus(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.UpsertUser(ctx, "42", "punter"))
	id, err := db.InsertDeposit(ctx, models.Deposit{
		UserID:           "42",
		Amount:           decimal.RequireFromString("250"),
		PaymentMethod:    "wave",
		PaymentSlipRef:   "slip",
		BettingAccountID: "987654321",
	})
	require.NoError(t, err)

	require.NoError(t, db.UpdateDepositStatus(ctx, id, models.DepositApproved))

	approved, err := db.GetDeposit(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.DepositApproved, approved.Status)
	require.NotNil(t, approved.ProcessedAt)

	// Moving on to processed keeps the original processed_at stamp
	require.NoError(t, db.UpdateDepositStatus(ctx, id, models.DepositProcessed))

	processed, err := db.GetDeposit(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.DepositProcessed, processed.Status)
	require.NotNil(t, processed.ProcessedAt)
	assert.Equal(t, *approved.ProcessedAt, *processed.ProcessedAt)

	assert.ErrorIs(t, db.UpdateDepositStatus(ctx, 999, models.DepositApproved), storage.ErrDepositNotFound)
}

func TestRegisterReferral(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	bonus := decimal.RequireFromString("0.0025")

	require.NoError(t, db.UpsertUser(ctx, "100", "referrer"))
	require.NoError(t, db.UpsertUser(ctx, "200", "newbie"))

	applied, err := db.RegisterReferral(ctx, "100", "200", bonus)
	require.NoError(t, err)
	assert.True(t, applied)

	referrer, err := db.GetUser(ctx, "100")
	require.NoError(t, err)
	assert.True(t, referrer.CashbackPoints.Equal(bonus),
		"expected cashback %s, got %s", bonus, referrer.CashbackPoints)

	referred, err := db.GetUser(ctx, "200")
	require.NoError(t, err)
	assert.Equal(t, "100", referred.ReferrerID)

	count, err := db.CountReferrals(ctx, "100")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	earned, err := db.SumReferralEarnings(ctx, "100")
	require.NoError(t, err)
	assert.True(t, earned.Equal(bonus))

	// Registering the same pair again is a no-op
	applied, err = db.RegisterReferral(ctx, "100", "200", bonus)
	require.NoError(t, err)
	assert.False(t, applied)

	referrer, err = db.GetUser(ctx, "100")
	require.NoError(t, err)
	assert.True(t, referrer.CashbackPoints.Equal(bonus),
		"duplicate registration changed cashback to %s", referrer.CashbackPoints)

	// A second referrer cannot take over an already linked user
	require.NoError(t, db.UpsertUser(ctx, "300", "latecomer"))
	applied, err = db.RegisterReferral(ctx, "300", "200", bonus)
	require.NoError(t, err)
	assert.False(t, applied)

	referred, err = db.GetUser(ctx, "200")
	require.NoError(t, err)
	assert.Equal(t, "100", referred.ReferrerID)
}

func TestRegisterReferralSelf(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	bonus := decimal.RequireFromString("0.0025")

	require.NoError(t, db.UpsertUser(ctx, "100", "selfish"))

	applied, err := db.RegisterReferral(ctx, "100", "100", bonus)
	require.NoError(t, err)
	assert.False(t, applied)

	user, err := db.GetUser(ctx, "100")
	require.NoError(t, err)
	assert.Empty(t, user.ReferrerID, "self-referral must not link the user to themself")
	assert.True(t, user.CashbackPoints.IsZero(), "self-referral must not credit cashback")

	count, err := db.CountReferrals(ctx, "100")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestRegisterReferralUnknownUsers(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	bonus := decimal.RequireFromString("0.0025")

	require.NoError(t, db.UpsertUser(ctx, "200", "newbie"))

	_, err := db.RegisterReferral(ctx, "999", "200", bonus)
	assert.ErrorIs(t, err, storage.ErrUserNotFound)

	require.NoError(t, db.UpsertUser(ctx, "100", "referrer"))
	_, err = db.RegisterReferral(ctx, "100", "888", bonus)
	assert.ErrorIs(t, err, storage.ErrUserNotFound)

	// Nothing was credited or linked along the way
	referrer, err := db.GetUser(ctx, "100")
	require.NoError(t, err)
	assert.True(t, referrer.CashbackPoints.IsZero())

	count, err := db.CountReferrals(ctx, "100")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
