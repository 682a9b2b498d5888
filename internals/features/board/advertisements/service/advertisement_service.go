package service

import (
	"context"
	"strings"

	"classifieds_backend/internals/features/board/advertisements/model"
	commentmodel "classifieds_backend/internals/features/board/comments/model"
	helper "classifieds_backend/internals/helpers"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotFound  = errors.New("advertisement not found")
	ErrForbidden = errors.New("only the author can change this advertisement")
)

// AdvertisementInput is the validated content of the add/edit form.
// Image is a stored media path when a new file was uploaded.
type AdvertisementInput struct {
	Title      string
	Content    string
	Image      *string
	ClearImage bool
}

// List returns one page of advertisements, newest first. rawPage is the
// untrusted ?page= value and is clamped into range.
func List(ctx context.Context, db *gorm.DB, rawPage string, perPage int) ([]model.AdvertisementModel, helper.Pagination, error) {
	if perPage <= 0 {
		perPage = 5
	}
	q := db.WithContext(ctx)

	var total int64
	if err := q.Model(&model.AdvertisementModel{}).Count(&total).Error; err != nil {
		return nil, helper.Pagination{}, errors.Wrap(err, "count advertisements")
	}

	page := helper.ClampPage(rawPage, total, perPage)
	pg := helper.BuildPaginationFromPage(total, page, perPage)

	var rows []model.AdvertisementModel
	if err := q.
		Preload("Author", func(tx *gorm.DB) *gorm.DB { return tx.Select("id", "user_name") }).
		Order("created_at DESC").
		Order("id DESC").
		Limit(pg.PerPage).
		Offset(pg.Offset()).
		Find(&rows).Error; err != nil {
		return nil, pg, errors.Wrap(err, "list advertisements")
	}
	return rows, pg, nil
}

func Get(ctx context.Context, db *gorm.DB, id uuid.UUID) (*model.AdvertisementModel, error) {
	var ad model.AdvertisementModel
	err := db.WithContext(ctx).
		Preload("Author", func(tx *gorm.DB) *gorm.DB { return tx.Select("id", "user_name") }).
		Take(&ad, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "get advertisement")
	}
	return &ad, nil
}

// GetOwned loads the advertisement and checks userID wrote it.
func GetOwned(ctx context.Context, db *gorm.DB, id, userID uuid.UUID) (*model.AdvertisementModel, error) {
	ad, err := Get(ctx, db, id)
	if err != nil {
		return nil, err
	}
	if !ad.IsAuthor(userID) {
		return nil, ErrForbidden
	}
	return ad, nil
}

// Create inserts the advertisement. The AfterCreate hook counts it on the
// author's profile in the same transaction.
func Create(ctx context.Context, db *gorm.DB, authorID uuid.UUID, in AdvertisementInput) (*model.AdvertisementModel, error) {
	ad := model.AdvertisementModel{
		Title:    strings.TrimSpace(in.Title),
		Content:  strings.TrimSpace(in.Content),
		AuthorID: authorID,
		Image:    in.Image,
	}
	if err := db.WithContext(ctx).Omit(clause.Associations).Create(&ad).Error; err != nil {
		return nil, errors.Wrap(err, "create advertisement")
	}
	return &ad, nil
}

// Update rewrites title, content and image. It returns the image path that
// is no longer referenced ("" if none) so the caller can remove the file.
func Update(ctx context.Context, db *gorm.DB, id, userID uuid.UUID, in AdvertisementInput) (*model.AdvertisementModel, string, error) {
	var (
		ad       model.AdvertisementModel
		orphaned string
	)
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Take(&ad, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return errors.Wrap(err, "load advertisement")
		}
		if !ad.IsAuthor(userID) {
			return ErrForbidden
		}

		image := ad.Image
		switch {
		case in.Image != nil:
			orphaned = ad.ImagePath()
			image = in.Image
		case in.ClearImage:
			orphaned = ad.ImagePath()
			image = nil
		}

		updates := map[string]interface{}{
			"title":   strings.TrimSpace(in.Title),
			"content": strings.TrimSpace(in.Content),
			"image":   image,
		}
		if err := tx.Model(&ad).Omit(clause.Associations).Updates(updates).Error; err != nil {
			return errors.Wrap(err, "update advertisement")
		}
		ad.Title = updates["title"].(string)
		ad.Content = updates["content"].(string)
		ad.Image = image
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	return &ad, orphaned, nil
}

// Delete removes the advertisement with its comments and reactions. It
// returns the image path of the removed row.
func Delete(ctx context.Context, db *gorm.DB, id, userID uuid.UUID) (string, error) {
	var image string
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// locked so a reaction cannot land between the load and AfterDelete
		var ad model.AdvertisementModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Take(&ad, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return errors.Wrap(err, "load advertisement")
		}
		if !ad.IsAuthor(userID) {
			return ErrForbidden
		}
		if err := deleteChildren(tx, []uuid.UUID{ad.ID}); err != nil {
			return err
		}
		// AfterDelete subtracts the row's counts from the author's profile
		if err := tx.Delete(&ad).Error; err != nil {
			return errors.Wrap(err, "delete advertisement")
		}
		image = ad.ImagePath()
		return nil
	})
	return image, err
}

// DeleteAllByAuthor removes every advertisement of authorID together with
// their comments and reactions, without touching statistics. Used when the
// author's account (and profile) goes away. Returns the stored image paths.
func DeleteAllByAuthor(tx *gorm.DB, authorID uuid.UUID) ([]string, error) {
	var ads []model.AdvertisementModel
	if err := tx.Select("id", "image").Where("author_id = ?", authorID).Find(&ads).Error; err != nil {
		return nil, errors.Wrap(err, "list author advertisements")
	}
	if len(ads) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(ads))
	images := make([]string, 0, len(ads))
	for i := range ads {
		ids = append(ids, ads[i].ID)
		if p := ads[i].ImagePath(); p != "" {
			images = append(images, p)
		}
	}
	if err := deleteChildren(tx, ids); err != nil {
		return nil, err
	}
	if err := tx.Session(&gorm.Session{SkipHooks: true}).
		Where("id IN ?", ids).
		Delete(&model.AdvertisementModel{}).Error; err != nil {
		return nil, errors.Wrap(err, "delete author advertisements")
	}
	return images, nil
}

func deleteChildren(tx *gorm.DB, adIDs []uuid.UUID) error {
	if err := tx.Where("advertisement_id IN ?", adIDs).Delete(&commentmodel.CommentModel{}).Error; err != nil {
		return errors.Wrap(err, "delete comments")
	}
	if err := tx.Where("advertisement_id IN ?", adIDs).Delete(&model.AdvertisementReactionModel{}).Error; err != nil {
		return errors.Wrap(err, "delete reactions")
	}
	return nil
}
