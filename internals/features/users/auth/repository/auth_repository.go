package repository

import (
	"strings"
	"time"

	authModel "classifieds_backend/internals/features/users/auth/model"
	userModel "classifieds_backend/internals/features/users/user/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

/* ====================== USER ====================== */

// ErrDuplicateUser is returned by CreateUser when user_name or email is taken.
var ErrDuplicateUser = errors.New("user name or email already exists")

// FindUserByEmailOrUsername matches the identifier against user_name or,
// case-insensitively, email.
func FindUserByEmailOrUsername(db *gorm.DB, identifier string) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := db.Where("user_name = ? OR email = ?", identifier, strings.ToLower(identifier)).
		Take(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func FindUserByID(db *gorm.DB, userID uuid.UUID) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := db.Take(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func CreateUser(db *gorm.DB, user *userModel.UserModel) error {
	err := db.Omit(clause.Associations).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateUser
	}
	return errors.Wrap(err, "create user")
}

func IsUserNameTaken(db *gorm.DB, userName string) (bool, error) {
	return exists(db, "user_name = ?", userName)
}

func IsEmailTaken(db *gorm.DB, email string) (bool, error) {
	return exists(db, "email = ?", strings.ToLower(email))
}

func exists(db *gorm.DB, where string, arg interface{}) (bool, error) {
	var n int64
	if err := db.Model(&userModel.UserModel{}).Where(where, arg).Limit(1).Count(&n).Error; err != nil {
		return false, errors.Wrap(err, "check user uniqueness")
	}
	return n > 0, nil
}

/* ====================== BLACKLIST TOKEN ====================== */

// BlacklistToken is idempotent: logging out twice with the same token is fine.
func BlacklistToken(db *gorm.DB, token string, ttl time.Duration) error {
	return db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&authModel.TokenBlacklist{
			Token:     token,
			ExpiredAt: time.Now().UTC().Add(ttl),
		}).Error
}

func IsTokenBlacklisted(db *gorm.DB, token string) (bool, error) {
	var n int64
	if err := db.Model(&authModel.TokenBlacklist{}).Where("token = ?", token).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func CleanupExpiredBlacklist(db *gorm.DB, now time.Time) (int64, error) {
	res := db.Where("expired_at <= ?", now.UTC()).Delete(&authModel.TokenBlacklist{})
	return res.RowsAffected, res.Error
}
