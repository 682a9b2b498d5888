package controller

import (
	"mime/multipart"

	"classifieds_backend/internals/configs"
	"classifieds_backend/internals/features/board/advertisements/dto"
	"classifieds_backend/internals/features/board/advertisements/model"
	"classifieds_backend/internals/features/board/advertisements/service"
	commentDTO "classifieds_backend/internals/features/board/comments/dto"
	commentService "classifieds_backend/internals/features/board/comments/service"
	userDTO "classifieds_backend/internals/features/users/user/dto"
	userService "classifieds_backend/internals/features/users/user/service"
	helper "classifieds_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const (
	boardPath   = "/board/"
	imageFolder = "advertisements"
)

type AdvertisementController struct {
	DB    *gorm.DB
	Media *helper.MediaStore
}

func NewAdvertisementController(db *gorm.DB, media *helper.MediaStore) *AdvertisementController {
	return &AdvertisementController{DB: db, Media: media}
}

func detailPath(id uuid.UUID) string {
	return boardPath + id.String()
}

// parseID treats a malformed id like a missing row.
func parseID(c *fiber.Ctx, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params(name))
	return id, err == nil
}

// =======================
// 📄 List (5 per page, newest first)
// =======================
func (ac *AdvertisementController) List(c *fiber.Ctx) error {
	rows, pg, err := service.List(c.UserContext(), ac.DB, c.Query("page"), configs.BoardPageSize)
	if err != nil {
		configs.Log.WithError(err).Error("[board] list")
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load advertisements")
	}
	return helper.JsonList(c, "Advertisements", dto.ToAdvertisementDTOs(rows, ac.Media), pg)
}

// =======================
// 🔍 Detail
// =======================
func (ac *AdvertisementController) Detail(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return helper.JsonError(c, fiber.StatusNotFound, "Advertisement not found")
	}
	ctx := c.UserContext()

	ad, err := service.Get(ctx, ac.DB, id)
	if err != nil {
		return ac.lookupError(c, err)
	}

	comments, err := commentService.ListByAdvertisement(ctx, ac.DB, ad.ID)
	if err != nil {
		configs.Log.WithError(err).Error("[board] list comments")
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load comments")
	}

	stats, err := userService.GetProfile(ac.DB.WithContext(ctx), ad.AuthorID)
	if err != nil {
		configs.Log.WithError(err).Error("[board] author stats")
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load author statistics")
	}

	var (
		isAuthor   bool
		myReaction model.ReactionKind
	)
	if userID, ok := helper.CurrentUserID(c); ok {
		isAuthor = ad.IsAuthor(userID)
		if myReaction, err = service.UserReaction(ctx, ac.DB, ad.ID, userID); err != nil {
			configs.Log.WithError(err).Warn("[board] load own reaction")
		}
	}

	return helper.JsonOK(c, ad.Title, fiber.Map{
		"advertisement": dto.ToAdvertisementDTO(*ad, ac.Media),
		"comments":      commentDTO.ToCommentDTOs(comments),
		"author_stats":  userDTO.ToUserStatsDTO(*stats),
		"is_author":     isAuthor,
		"my_reaction":   myReaction,
	})
}

// =======================
// ➕ Add
// =======================
func (ac *AdvertisementController) AddForm(c *fiber.Ctx) error {
	return helper.JsonOK(c, "New advertisement", dto.FormDocument{Action: "/board/add"})
}

func (ac *AdvertisementController) Create(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	form, ok, err := ac.bindForm(c)
	if !ok {
		return err
	}

	image, ok, err := ac.saveUpload(c)
	if !ok {
		return err
	}

	ad, err := service.Create(c.UserContext(), ac.DB, userID, service.AdvertisementInput{
		Title:   form.Title,
		Content: form.Content,
		Image:   image,
	})
	if err != nil {
		ac.discard(image)
		configs.Log.WithError(err).Error("[board] create")
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create advertisement")
	}

	configs.Log.WithField("advertisement_id", ad.ID).WithField("author_id", userID).Info("[board] created")
	return helper.SeeOther(c, boardPath)
}

// =======================
// ✏️ Edit (author only)
// =======================
func (ac *AdvertisementController) EditForm(c *fiber.Ctx) error {
	ad, done, err := ac.ownedOrRedirect(c)
	if done {
		return err
	}
	return helper.JsonOK(c, "Edit advertisement", dto.FormDocument{
		Form:   dto.AdvertisementForm{Title: ad.Title, Content: ad.Content},
		Image:  dto.ToAdvertisementDTO(*ad, ac.Media).ImageURL,
		Action: detailPath(ad.ID) + "/edit",
	})
}

func (ac *AdvertisementController) Update(c *fiber.Ctx) error {
	ad, done, err := ac.ownedOrRedirect(c)
	if done {
		return err
	}
	userID, _ := helper.CurrentUserID(c)

	form, ok, err := ac.bindForm(c)
	if !ok {
		return err
	}

	image, ok, err := ac.saveUpload(c)
	if !ok {
		return err
	}

	updated, orphaned, err := service.Update(c.UserContext(), ac.DB, ad.ID, userID, service.AdvertisementInput{
		Title:      form.Title,
		Content:    form.Content,
		Image:      image,
		ClearImage: form.ClearImage,
	})
	if err != nil {
		ac.discard(image)
		switch {
		case errors.Is(err, service.ErrForbidden):
			return helper.SeeOther(c, boardPath)
		case errors.Is(err, service.ErrNotFound):
			return helper.JsonError(c, fiber.StatusNotFound, "Advertisement not found")
		}
		configs.Log.WithError(err).Error("[board] update")
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update advertisement")
	}
	if orphaned != "" {
		ac.discard(&orphaned)
	}
	return helper.SeeOther(c, detailPath(updated.ID))
}

// =======================
// 🗑️ Delete (author only)
// =======================
func (ac *AdvertisementController) DeleteConfirm(c *fiber.Ctx) error {
	ad, done, err := ac.ownedOrRedirect(c)
	if done {
		return err
	}
	return helper.JsonOK(c, "Delete advertisement?", fiber.Map{
		"advertisement": dto.ToAdvertisementDTO(*ad, ac.Media),
		"action":        detailPath(ad.ID) + "/delete",
	})
}

func (ac *AdvertisementController) Delete(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return helper.JsonError(c, fiber.StatusNotFound, "Advertisement not found")
	}
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	image, err := service.Delete(c.UserContext(), ac.DB, id, userID)
	switch {
	case errors.Is(err, service.ErrForbidden):
		return helper.SeeOther(c, boardPath)
	case err != nil:
		return ac.lookupError(c, err)
	}
	ac.discard(&image)

	configs.Log.WithField("advertisement_id", id).Info("[board] deleted")
	return helper.SeeOther(c, boardPath)
}

// =======================
// 👍 / 👎
// =======================
func (ac *AdvertisementController) Like(c *fiber.Ctx) error {
	return ac.react(c, model.ReactionLike)
}

func (ac *AdvertisementController) Dislike(c *fiber.Ctx) error {
	return ac.react(c, model.ReactionDislike)
}

func (ac *AdvertisementController) react(c *fiber.Ctx, kind model.ReactionKind) error {
	id, ok := parseID(c, "id")
	if !ok {
		return helper.JsonError(c, fiber.StatusNotFound, "Advertisement not found")
	}
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	if _, err := service.React(c.UserContext(), ac.DB, id, userID, kind); err != nil {
		return ac.lookupError(c, err)
	}
	return helper.SeeOther(c, detailPath(id))
}

// =============================
// utils
// =============================

// ownedOrRedirect loads the :id advertisement for its author. done is true
// when the response has already been decided (404, or 303 for non-authors).
func (ac *AdvertisementController) ownedOrRedirect(c *fiber.Ctx) (*model.AdvertisementModel, bool, error) {
	id, ok := parseID(c, "id")
	if !ok {
		return nil, true, helper.JsonError(c, fiber.StatusNotFound, "Advertisement not found")
	}
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return nil, true, err
	}
	ad, err := service.GetOwned(c.UserContext(), ac.DB, id, userID)
	switch {
	case errors.Is(err, service.ErrForbidden):
		return nil, true, helper.SeeOther(c, boardPath)
	case err != nil:
		return nil, true, ac.lookupError(c, err)
	}
	return ad, false, nil
}

func (ac *AdvertisementController) lookupError(c *fiber.Ctx, err error) error {
	if errors.Is(err, service.ErrNotFound) {
		return helper.JsonError(c, fiber.StatusNotFound, "Advertisement not found")
	}
	configs.Log.WithError(err).WithField("path", c.Path()).Error("[board] query failed")
	return helper.JsonError(c, fiber.StatusInternalServerError, "Internal Server Error")
}

// bindForm parses and validates the title/content form. ok is false when
// the response (400/422) has been written.
func (ac *AdvertisementController) bindForm(c *fiber.Ctx) (dto.AdvertisementForm, bool, error) {
	var form dto.AdvertisementForm
	if err := c.BodyParser(&form); err != nil {
		return form, false, helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.Validate.Struct(&form); err != nil {
		return form, false, helper.JsonValidationError(c, helper.ValidationMessages(err))
	}
	return form, true, nil
}

// saveUpload stores the optional "image" part. No file is not an error.
// ok is false when the response (415/500) has been written.
func (ac *AdvertisementController) saveUpload(c *fiber.Ctx) (*string, bool, error) {
	fh, err := c.FormFile("image")
	if err != nil || fh == nil || fh.Size == 0 {
		return nil, true, nil
	}
	return ac.storeImage(c, fh)
}

func (ac *AdvertisementController) storeImage(c *fiber.Ctx, fh *multipart.FileHeader) (*string, bool, error) {
	rel, err := ac.Media.SaveImage(imageFolder, fh)
	if err != nil {
		if errors.Is(err, helper.ErrUnsupportedImage) {
			return nil, false, helper.JsonValidationErrorStatus(c, fiber.StatusUnsupportedMediaType, map[string][]string{
				"image": {"upload a valid image (jpg, png or webp)"},
			})
		}
		configs.Log.WithError(err).Error("[board] store image")
		return nil, false, helper.JsonError(c, fiber.StatusInternalServerError, "Failed to store image")
	}
	return &rel, true, nil
}

func (ac *AdvertisementController) discard(rel *string) {
	if rel == nil || *rel == "" {
		return
	}
	if err := ac.Media.Delete(*rel); err != nil {
		configs.Log.WithError(err).WithField("image", *rel).Warn("[board] remove image")
	}
}
