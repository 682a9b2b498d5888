package service

import (
	"context"

	adService "classifieds_backend/internals/features/board/advertisements/service"
	commentService "classifieds_backend/internals/features/board/comments/service"
	userModel "classifieds_backend/internals/features/users/user/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var ErrUserNotFound = errors.New("user not found")

// DeleteUser removes the user and everything hanging off them in one
// transaction:
//   - their reactions, taken back from other people's counters
//   - their comments anywhere
//   - their advertisements with the comments and reactions on them
//   - their profile row
//
// The foreign keys cascade the same way. Doing it explicitly keeps other
// users' statistics right and works when FK enforcement is off.
// Returns the image paths that are no longer referenced.
func DeleteUser(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]string, error) {
	var images []string
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&userModel.UserModel{}).Where("id = ?", userID).Count(&n).Error; err != nil {
			return errors.Wrap(err, "check user")
		}
		if n == 0 {
			return ErrUserNotFound
		}

		if err := adService.WithdrawUserReactions(tx, userID); err != nil {
			return err
		}
		if err := commentService.DeleteByAuthor(tx, userID); err != nil {
			return err
		}
		paths, err := adService.DeleteAllByAuthor(tx, userID)
		if err != nil {
			return err
		}
		images = paths

		if err := tx.Where("user_id = ?", userID).Delete(&userModel.UserProfileModel{}).Error; err != nil {
			return errors.Wrap(err, "delete profile")
		}
		if err := tx.Where("id = ?", userID).Delete(&userModel.UserModel{}).Error; err != nil {
			return errors.Wrap(err, "delete user")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return images, nil
}
