package bot

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/aungnyeinchamthu/GG-4-NEXT-WIN/internal/storage"
)

// referralBonus is the flat cashback credited to the referrer when a
// referral is registered. It is awarded once, at registration time, and
// is not a share of any deposit.
var referralBonus = decimal.RequireFromString("0.0025")

// processReferral links a newly started user to the referrer named by the
// start token. Unknown tokens and self-referrals are logged and skipped;
// the surrounding start flow never fails because of them.
func (b *Bot) processReferral(ctx context.Context, newUserID, token string) {
	if token == newUserID {
		b.logger.Warn("Self-referral attempt ignored", zap.String("user_id", newUserID))
		return
	}

	applied, err := b.db.RegisterReferral(ctx, token, newUserID, referralBonus)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			b.logger.Info("Unknown referrer token, skipping referral",
				zap.String("token", token),
				zap.String("user_id", newUserID),
			)
			return
		}
		b.logger.Error("Failed to register referral",
			zap.Error(err),
			zap.String("referrer_id", token),
			zap.String("user_id", newUserID),
		)
		return
	}

	if applied {
		b.logger.Info("Referral registered",
			zap.String("referrer_id", token),
			zap.String("user_id", newUserID),
			zap.String("bonus", referralBonus.String()),
		)
	}
}
