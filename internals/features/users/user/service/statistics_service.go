package service

import (
	"context"

	"classifieds_backend/internals/configs"
	profilemodel "classifieds_backend/internals/features/users/user/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

/* ===============================
   Statistics receivers

   Each receiver reacts to exactly one domain event and applies the exact
   delta. They run inside the caller's transaction.
=================================*/

// Delta is a relative change to a user's statistics.
type Delta struct {
	Advertisements int64
	Likes          int64
	Dislikes       int64
}

func (d Delta) IsZero() bool {
	return d.Advertisements == 0 && d.Likes == 0 && d.Dislikes == 0
}

// ApplyDelta adds d to the profile of userID, creating the row if needed.
func ApplyDelta(tx *gorm.DB, userID uuid.UUID, d Delta) error {
	if d.IsZero() {
		return nil
	}
	if err := EnsureProfileRow(tx, userID); err != nil {
		return err
	}

	updates := map[string]interface{}{}
	if d.Advertisements != 0 {
		updates["advertisements_count"] = gorm.Expr("advertisements_count + ?", d.Advertisements)
	}
	if d.Likes != 0 {
		updates["total_likes"] = gorm.Expr("total_likes + ?", d.Likes)
	}
	if d.Dislikes != 0 {
		updates["total_dislikes"] = gorm.Expr("total_dislikes + ?", d.Dislikes)
	}

	if err := tx.Model(&profilemodel.UserProfileModel{}).
		Where("user_id = ?", userID).
		Updates(updates).Error; err != nil {
		return errors.Wrapf(err, "apply statistics delta for user %s", userID)
	}
	return nil
}

// OnAdvertisementCreated counts a newly created advertisement.
func OnAdvertisementCreated(tx *gorm.DB, authorID uuid.UUID) error {
	return ApplyDelta(tx, authorID, Delta{Advertisements: 1})
}

// OnAdvertisementDeleted removes the advertisement and its reactions from
// the author's totals.
func OnAdvertisementDeleted(tx *gorm.DB, authorID uuid.UUID, likes, dislikes int64) error {
	return ApplyDelta(tx, authorID, Delta{Advertisements: -1, Likes: -likes, Dislikes: -dislikes})
}

// OnReactionChanged applies the like/dislike delta of one reaction change.
func OnReactionChanged(tx *gorm.DB, authorID uuid.UUID, likes, dislikes int64) error {
	return ApplyDelta(tx, authorID, Delta{Likes: likes, Dislikes: dislikes})
}

/* ===============================
   Reconciliation
=================================*/

type liveTotals struct {
	Cnt      int64
	Likes    int64
	Dislikes int64
}

// Reconcile recomputes the profile of userID from live advertisement rows.
func Reconcile(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*profilemodel.UserProfileModel, error) {
	var out *profilemodel.UserProfileModel
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := EnsureProfileRow(tx, userID); err != nil {
			return err
		}
		// lock before aggregating: deltas committed meanwhile queue behind us
		var p profilemodel.UserProfileModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).
			Take(&p).Error; err != nil {
			return errors.Wrap(err, "lock profile")
		}

		var totals liveTotals
		if err := tx.Table("advertisements").
			Select("COUNT(*) AS cnt, COALESCE(SUM(likes), 0) AS likes, COALESCE(SUM(dislikes), 0) AS dislikes").
			Where("author_id = ?", userID).
			Scan(&totals).Error; err != nil {
			return errors.Wrap(err, "aggregate advertisements")
		}

		if err := tx.Model(&p).
			Updates(map[string]interface{}{
				"advertisements_count": totals.Cnt,
				"total_likes":          totals.Likes,
				"total_dislikes":       totals.Dislikes,
			}).Error; err != nil {
			return errors.Wrap(err, "write reconciled profile")
		}

		if err := tx.Take(&p, "id = ?", p.ID).Error; err != nil {
			return errors.Wrap(err, "reload profile")
		}
		out = &p
		return nil
	})
	return out, err
}

// ReconcileAll walks every user and returns how many profiles were rewritten.
func ReconcileAll(ctx context.Context, db *gorm.DB) (int, error) {
	var ids []uuid.UUID
	if err := db.WithContext(ctx).Model(&profilemodel.UserModel{}).Pluck("id", &ids).Error; err != nil {
		return 0, errors.Wrap(err, "list users")
	}

	done := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return done, err
		}
		if _, err := Reconcile(ctx, db, id); err != nil {
			configs.Log.WithError(err).WithField("user_id", id).Warn("[stats] reconcile failed")
			continue
		}
		done++
	}
	return done, nil
}
