package scheduler

import (
	"context"
	"time"

	"classifieds_backend/internals/configs"
	authRepo "classifieds_backend/internals/features/users/auth/repository"

	"gorm.io/gorm"
)

// StartBlacklistCleanupScheduler drops expired blacklist rows once at start
// and then every interval, until ctx is done.
func StartBlacklistCleanupScheduler(ctx context.Context, db *gorm.DB, every time.Duration) {
	if every <= 0 {
		every = 24 * time.Hour
	}
	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()

		for {
			n, err := authRepo.CleanupExpiredBlacklist(db.WithContext(ctx), time.Now())
			if err != nil {
				configs.Log.WithError(err).Error("[CLEANUP] token_blacklist cleanup failed")
			} else if n > 0 {
				configs.Log.WithField("deleted", n).Info("[CLEANUP] expired tokens removed")
			}

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}
