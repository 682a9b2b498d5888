package controller

import (
	"errors"

	"classifieds_backend/internals/configs"
	"classifieds_backend/internals/features/users/user/dto"
	"classifieds_backend/internals/features/users/user/model"
	"classifieds_backend/internals/features/users/user/service"
	helper "classifieds_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserProfileController struct {
	DB *gorm.DB
}

func NewUserProfileController(db *gorm.DB) *UserProfileController {
	return &UserProfileController{DB: db}
}

// GET /users/:id/profile
func (upc *UserProfileController) GetPublicProfile(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "User not found")
	}

	db := upc.DB.WithContext(c.UserContext())

	var user model.UserModel
	if err := db.Select("id", "user_name").Take(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "User not found")
		}
		configs.Log.WithError(err).Error("[profile] load user")
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load user")
	}

	profile, err := service.GetProfile(db, userID)
	if err != nil {
		configs.Log.WithError(err).Error("[profile] load stats")
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load user statistics")
	}

	return helper.JsonOK(c, "ok", fiber.Map{
		"user":  dto.PublicUserDTO{ID: user.ID, UserName: user.UserName},
		"stats": dto.ToUserStatsDTO(*profile),
	})
}
