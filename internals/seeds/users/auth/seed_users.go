package user

import (
	"strings"

	"classifieds_backend/internals/configs"
	authHelper "classifieds_backend/internals/features/users/auth/helper"
	"classifieds_backend/internals/features/users/user/model"
	userService "classifieds_backend/internals/features/users/user/service"

	"gorm.io/gorm"
)

type UserSeed struct {
	UserName string `json:"user_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SeedUsers inserts users (with their empty profile) that do not exist yet,
// matched by email. Returns user_name -> user for the board seeder.
func SeedUsers(db *gorm.DB, inputs []UserSeed) map[string]model.UserModel {
	out := make(map[string]model.UserModel, len(inputs))

	for _, data := range inputs {
		email := authHelper.NormalizeEmail(data.Email)

		var existing model.UserModel
		if err := db.Where("email = ?", email).Take(&existing).Error; err == nil {
			configs.Log.WithField("email", email).Info("ℹ️ user exists, skipped")
			out[existing.UserName] = existing
			continue
		}

		hashedPassword, err := authHelper.HashPassword(data.Password)
		if err != nil {
			configs.Log.WithError(err).WithField("email", email).Error("❌ hash password")
			continue
		}

		newUser := model.UserModel{
			UserName: strings.TrimSpace(data.UserName),
			Email:    email,
			Password: hashedPassword,
			IsActive: true,
		}
		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&newUser).Error; err != nil {
				return err
			}
			return userService.EnsureProfileRow(tx, newUser.ID)
		})
		if err != nil {
			configs.Log.WithError(err).WithField("email", email).Error("❌ insert user")
			continue
		}
		configs.Log.WithField("email", email).Info("✅ user inserted")
		out[newUser.UserName] = newUser
	}
	return out
}
