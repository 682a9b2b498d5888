package controller

import (
	"classifieds_backend/internals/configs"
	"classifieds_backend/internals/features/board/comments/dto"
	"classifieds_backend/internals/features/board/comments/service"
	helper "classifieds_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type CommentController struct {
	DB *gorm.DB
}

func NewCommentController(db *gorm.DB) *CommentController {
	return &CommentController{DB: db}
}

// POST /board/:id/comments
func (cc *CommentController) Create(c *fiber.Ctx) error {
	adID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Advertisement not found")
	}
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var form dto.CommentForm
	if err := c.BodyParser(&form); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.Validate.Struct(&form); err != nil {
		return helper.JsonValidationError(c, helper.ValidationMessages(err))
	}

	if _, err := service.Create(c.UserContext(), cc.DB, adID, userID, form.Content); err != nil {
		if errors.Is(err, service.ErrAdvertisementNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Advertisement not found")
		}
		configs.Log.WithError(err).Error("[comments] create")
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to add comment")
	}
	return helper.SeeOther(c, "/board/"+adID.String())
}

// POST /board/comments/:comment_id/delete
func (cc *CommentController) Delete(c *fiber.Ctx) error {
	commentID, err := uuid.Parse(c.Params("comment_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Comment not found")
	}
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	adID, err := service.Delete(c.UserContext(), cc.DB, commentID, userID)
	switch {
	case errors.Is(err, service.ErrNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "Comment not found")
	case errors.Is(err, service.ErrForbidden):
		// same treatment as editing someone else's advertisement
		return helper.SeeOther(c, "/board/"+adID.String())
	case err != nil:
		configs.Log.WithError(err).Error("[comments] delete")
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete comment")
	}
	return helper.SeeOther(c, "/board/"+adID.String())
}
