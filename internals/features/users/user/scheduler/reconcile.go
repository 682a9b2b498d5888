package scheduler

import (
	"context"
	"time"

	"classifieds_backend/internals/configs"
	"classifieds_backend/internals/features/users/user/service"

	"gorm.io/gorm"
)

// StartStatisticsReconcileScheduler periodically rebuilds every profile from
// live advertisement rows. interval <= 0 disables it.
func StartStatisticsReconcileScheduler(ctx context.Context, db *gorm.DB, interval time.Duration) {
	if interval <= 0 {
		configs.Log.Info("[RECONCILE] disabled")
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				start := time.Now()
				n, err := service.ReconcileAll(ctx, db)
				if err != nil {
					configs.Log.WithError(err).Error("[RECONCILE] run aborted")
					continue
				}
				configs.Log.WithField("profiles", n).WithField("took", time.Since(start).String()).Info("[RECONCILE] done")
			}
		}
	}()
}
