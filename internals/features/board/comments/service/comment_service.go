package service

import (
	"context"
	"strings"

	admodel "classifieds_backend/internals/features/board/advertisements/model"
	"classifieds_backend/internals/features/board/comments/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrAdvertisementNotFound = errors.New("advertisement not found")
	ErrNotFound              = errors.New("comment not found")
	ErrForbidden             = errors.New("only the author can delete this comment")
)

// ListByAdvertisement returns the comments of adID, oldest first.
func ListByAdvertisement(ctx context.Context, db *gorm.DB, adID uuid.UUID) ([]model.CommentModel, error) {
	var rows []model.CommentModel
	err := db.WithContext(ctx).
		Preload("Author", func(tx *gorm.DB) *gorm.DB { return tx.Select("id", "user_name") }).
		Where("advertisement_id = ?", adID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).Error
	return rows, errors.Wrap(err, "list comments")
}

func Create(ctx context.Context, db *gorm.DB, adID, authorID uuid.UUID, content string) (*model.CommentModel, error) {
	var c model.CommentModel
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&admodel.AdvertisementModel{}).Where("id = ?", adID).Count(&n).Error; err != nil {
			return errors.Wrap(err, "check advertisement")
		}
		if n == 0 {
			return ErrAdvertisementNotFound
		}
		c = model.CommentModel{
			AdvertisementID: adID,
			AuthorID:        authorID,
			Content:         strings.TrimSpace(content),
		}
		return errors.Wrap(tx.Omit(clause.Associations).Create(&c).Error, "create comment")
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Delete removes a comment written by userID and returns the advertisement
// it belonged to.
func Delete(ctx context.Context, db *gorm.DB, commentID, userID uuid.UUID) (uuid.UUID, error) {
	var adID uuid.UUID
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c model.CommentModel
		if err := tx.Take(&c, "id = ?", commentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return errors.Wrap(err, "load comment")
		}
		adID = c.AdvertisementID
		if c.AuthorID != userID {
			return ErrForbidden
		}
		return errors.Wrap(tx.Delete(&c).Error, "delete comment")
	})
	return adID, err
}

// DeleteByAuthor removes every comment userID wrote anywhere.
func DeleteByAuthor(tx *gorm.DB, userID uuid.UUID) error {
	err := tx.Where("author_id = ?", userID).Delete(&model.CommentModel{}).Error
	return errors.Wrap(err, "delete user comments")
}
