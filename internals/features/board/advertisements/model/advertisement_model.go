package model

import (
	"time"

	usermodel "classifieds_backend/internals/features/users/user/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdvertisementModel is one classified listing. Likes and Dislikes are
// maintained by the reaction service and never written from a form.
type AdvertisementModel struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title    string    `gorm:"size:255;not null" json:"title"`
	Content  string    `gorm:"type:text;not null" json:"content"`
	AuthorID uuid.UUID `gorm:"type:uuid;not null;index:idx_advertisements_author_id" json:"author_id"`

	// relative media path, e.g. "advertisements/20250101-<uuid>-car.webp"
	Image *string `gorm:"size:512" json:"image,omitempty"`

	Likes    int64 `gorm:"not null;default:0" json:"likes"`
	Dislikes int64 `gorm:"not null;default:0" json:"dislikes"`

	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_advertisements_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Author *usermodel.UserModel `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
}

func (AdvertisementModel) TableName() string {
	return "advertisements"
}

func (a *AdvertisementModel) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

func (a *AdvertisementModel) IsAuthor(userID uuid.UUID) bool {
	return userID != uuid.Nil && a.AuthorID == userID
}

func (a *AdvertisementModel) ImagePath() string {
	if a.Image == nil {
		return ""
	}
	return *a.Image
}
