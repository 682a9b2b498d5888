package service

import (
	"context"

	"classifieds_backend/internals/features/board/advertisements/model"
	statsservice "classifieds_backend/internals/features/users/user/service"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrInvalidReaction = errors.New("reaction must be like or dislike")

// ReactionOutcome is the state after React. Changed is false when the user
// repeated the reaction they already had.
type ReactionOutcome struct {
	Kind     model.ReactionKind `json:"kind"`
	Changed  bool               `json:"changed"`
	Likes    int64              `json:"likes"`
	Dislikes int64              `json:"dislikes"`
}

// React records userID's like or dislike of the advertisement. One reaction
// per user: repeating it is a no-op, switching moves one count across.
// Advertisement counters and the author's totals change by the same delta.
func React(ctx context.Context, db *gorm.DB, adID, userID uuid.UUID, kind model.ReactionKind) (*ReactionOutcome, error) {
	if !kind.Valid() {
		return nil, ErrInvalidReaction
	}

	out := &ReactionOutcome{Kind: kind}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// the row lock serialises reactions on one advertisement
		var ad model.AdvertisementModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id", "author_id", "likes", "dislikes").
			Take(&ad, "id = ?", adID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return errors.Wrap(err, "load advertisement")
		}
		out.Likes, out.Dislikes = ad.Likes, ad.Dislikes

		dl, dd := kind.Delta()

		var existing model.AdvertisementReactionModel
		err := tx.Where("advertisement_id = ? AND user_id = ?", adID, userID).Take(&existing).Error
		switch {
		case err == nil:
			if existing.Kind == kind {
				return nil
			}
			moved, err := switchReaction(tx, existing, kind)
			if err != nil || !moved {
				return err
			}
			ol, od := existing.Kind.Delta()
			dl, dd = dl-ol, dd-od
		case errors.Is(err, gorm.ErrRecordNotFound):
			created, err := insertReaction(tx, adID, userID, kind)
			if err != nil || !created {
				return err
			}
		default:
			return errors.Wrap(err, "load reaction")
		}

		if err := applyCounters(tx, ad.ID, dl, dd); err != nil {
			return err
		}
		if err := statsservice.OnReactionChanged(tx, ad.AuthorID, dl, dd); err != nil {
			return err
		}
		out.Changed = true
		out.Likes, out.Dislikes = ad.Likes+dl, ad.Dislikes+dd
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// switchReaction moves existing to kind only if it still holds the kind it
// was read with. false means another request got there first.
func switchReaction(tx *gorm.DB, existing model.AdvertisementReactionModel, kind model.ReactionKind) (bool, error) {
	res := tx.Model(&model.AdvertisementReactionModel{}).
		Where("id = ? AND kind = ?", existing.ID, existing.Kind).
		Update("kind", kind)
	if res.Error != nil {
		return false, errors.Wrap(res.Error, "switch reaction")
	}
	return res.RowsAffected > 0, nil
}

// insertReaction records a first reaction. false means the user already
// has one (a concurrent duplicate).
func insertReaction(tx *gorm.DB, adID, userID uuid.UUID, kind model.ReactionKind) (bool, error) {
	r := model.AdvertisementReactionModel{AdvertisementID: adID, UserID: userID, Kind: kind}
	res := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "advertisement_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Omit(clause.Associations).Create(&r)
	if res.Error != nil {
		return false, errors.Wrap(res.Error, "create reaction")
	}
	return res.RowsAffected > 0, nil
}

// UserReaction returns the kind userID gave the advertisement, or "".
func UserReaction(ctx context.Context, db *gorm.DB, adID, userID uuid.UUID) (model.ReactionKind, error) {
	var r model.AdvertisementReactionModel
	err := db.WithContext(ctx).Select("kind").
		Where("advertisement_id = ? AND user_id = ?", adID, userID).
		Take(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(err, "load reaction")
	}
	return r.Kind, nil
}

// WithdrawUserReactions takes back every reaction userID gave, fixing the
// counters of the advertisements and the totals of their authors.
func WithdrawUserReactions(tx *gorm.DB, userID uuid.UUID) error {
	var rows []model.AdvertisementReactionModel
	if err := tx.Preload("Advertisement", func(q *gorm.DB) *gorm.DB { return q.Select("id", "author_id") }).
		Where("user_id = ?", userID).
		Find(&rows).Error; err != nil {
		return errors.Wrap(err, "list user reactions")
	}

	for _, r := range rows {
		if r.Advertisement == nil {
			continue
		}
		dl, dd := r.Kind.Delta()
		if err := applyCounters(tx, r.AdvertisementID, -dl, -dd); err != nil {
			return err
		}
		if err := statsservice.OnReactionChanged(tx, r.Advertisement.AuthorID, -dl, -dd); err != nil {
			return err
		}
	}

	if err := tx.Where("user_id = ?", userID).Delete(&model.AdvertisementReactionModel{}).Error; err != nil {
		return errors.Wrap(err, "delete user reactions")
	}
	return nil
}

// applyCounters moves likes/dislikes with relative SQL. UpdateColumns keeps
// updated_at untouched: a reaction is not an edit.
func applyCounters(tx *gorm.DB, adID uuid.UUID, likes, dislikes int64) error {
	if likes == 0 && dislikes == 0 {
		return nil
	}
	err := tx.Model(&model.AdvertisementModel{}).
		Where("id = ?", adID).
		UpdateColumns(map[string]interface{}{
			"likes":    gorm.Expr("likes + ?", likes),
			"dislikes": gorm.Expr("dislikes + ?", dislikes),
		}).Error
	return errors.Wrap(err, "update advertisement counters")
}
