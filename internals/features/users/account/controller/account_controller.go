package controller

import (
	"classifieds_backend/internals/configs"
	accountService "classifieds_backend/internals/features/users/account/service"
	authService "classifieds_backend/internals/features/users/auth/service"
	"classifieds_backend/internals/features/users/user/dto"
	"classifieds_backend/internals/features/users/user/model"
	userService "classifieds_backend/internals/features/users/user/service"
	helper "classifieds_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type AccountController struct {
	DB    *gorm.DB
	Media *helper.MediaStore
}

func NewAccountController(db *gorm.DB, media *helper.MediaStore) *AccountController {
	return &AccountController{DB: db, Media: media}
}

// GET /account
func (ac *AccountController) Me(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	db := ac.DB.WithContext(c.UserContext())

	var user model.UserModel
	if err := db.Take(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "User not found")
		}
		configs.Log.WithError(err).Error("[account] load user")
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load account")
	}
	profile, err := userService.GetProfile(db, userID)
	if err != nil {
		configs.Log.WithError(err).Error("[account] load profile")
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load account")
	}
	return helper.JsonOK(c, "Account", dto.ToAccountDTO(user, *profile))
}

// POST /account/delete
func (ac *AccountController) Delete(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	images, err := accountService.DeleteUser(c.UserContext(), ac.DB, userID)
	if err != nil {
		if errors.Is(err, accountService.ErrUserNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "User not found")
		}
		configs.Log.WithError(err).Error("[account] delete")
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete account")
	}
	for _, p := range images {
		if err := ac.Media.Delete(p); err != nil {
			configs.Log.WithError(err).WithField("image", p).Warn("[account] remove image")
		}
	}

	authService.RevokeCurrentToken(ac.DB.WithContext(c.UserContext()), c)
	configs.Log.WithField("user_id", userID).Info("[account] deleted")
	return helper.SeeOther(c, "/")
}
