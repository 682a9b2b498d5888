package model

import (
	"time"

	admodel "classifieds_backend/internals/features/board/advertisements/model"
	usermodel "classifieds_backend/internals/features/users/user/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CommentModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AdvertisementID uuid.UUID `gorm:"type:uuid;not null;index:idx_comments_advertisement_id" json:"advertisement_id"`
	AuthorID        uuid.UUID `gorm:"type:uuid;not null;index:idx_comments_author_id" json:"author_id"`
	Content         string    `gorm:"type:text;not null" json:"content"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`

	Advertisement *admodel.AdvertisementModel `gorm:"foreignKey:AdvertisementID;constraint:OnDelete:CASCADE" json:"-"`
	Author        *usermodel.UserModel        `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
}

func (CommentModel) TableName() string {
	return "comments"
}

func (c *CommentModel) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
