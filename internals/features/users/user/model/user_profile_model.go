package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserProfileModel is the denormalized statistics row of a user. It is
// written by the statistics receivers only, never by request handlers.
type UserProfileModel struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_user_profiles_user_id" json:"user_id"`

	AdvertisementsCount int64 `gorm:"column:advertisements_count;not null;default:0" json:"advertisements_count"`
	TotalLikes          int64 `gorm:"column:total_likes;not null;default:0" json:"total_likes"`
	TotalDislikes       int64 `gorm:"column:total_dislikes;not null;default:0" json:"total_dislikes"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	User *UserModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (UserProfileModel) TableName() string { return "user_profiles" }

func (p *UserProfileModel) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
