package service

import (
	"classifieds_backend/internals/configs"
	profilemodel "classifieds_backend/internals/features/users/user/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrProfileNotFound is returned when the user itself does not exist.
var ErrProfileNotFound = errors.New("user profile not found")

// EnsureProfileRow inserts an empty statistics row for userID unless one
// already exists. Callers pass the transaction they are running in.
func EnsureProfileRow(tx *gorm.DB, userID uuid.UUID) error {
	p := profilemodel.UserProfileModel{UserID: userID}
	err := tx.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Omit(clause.Associations).
		Create(&p).Error
	if err != nil {
		configs.Log.WithError(err).WithField("user_id", userID).Error("[EnsureProfileRow] insert failed")
		return errors.Wrap(err, "ensure profile row")
	}
	return nil
}

// GetProfile returns the statistics row of userID, creating it on first
// access for users registered before profiles existed.
func GetProfile(db *gorm.DB, userID uuid.UUID) (*profilemodel.UserProfileModel, error) {
	var exists int64
	if err := db.Model(&profilemodel.UserModel{}).Where("id = ?", userID).Count(&exists).Error; err != nil {
		return nil, errors.Wrap(err, "check user")
	}
	if exists == 0 {
		return nil, ErrProfileNotFound
	}

	if err := EnsureProfileRow(db, userID); err != nil {
		return nil, err
	}
	var p profilemodel.UserProfileModel
	if err := db.Where("user_id = ?", userID).Take(&p).Error; err != nil {
		return nil, errors.Wrap(err, "load profile")
	}
	return &p, nil
}
