package model

import (
	"time"

	usermodel "classifieds_backend/internals/features/users/user/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReactionKind string

const (
	ReactionLike    ReactionKind = "like"
	ReactionDislike ReactionKind = "dislike"
)

func (k ReactionKind) Valid() bool {
	return k == ReactionLike || k == ReactionDislike
}

// Delta is the (likes, dislikes) contribution of one reaction of kind k.
func (k ReactionKind) Delta() (likes, dislikes int64) {
	switch k {
	case ReactionLike:
		return 1, 0
	case ReactionDislike:
		return 0, 1
	}
	return 0, 0
}

// AdvertisementReactionModel is the current reaction of one user to one
// advertisement. At most one row per pair.
type AdvertisementReactionModel struct {
	ID              uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	AdvertisementID uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:uq_reactions_ad_user,priority:1" json:"advertisement_id"`
	UserID          uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:uq_reactions_ad_user,priority:2;index:idx_reactions_user_id" json:"user_id"`
	Kind            ReactionKind `gorm:"size:10;not null" json:"kind"`
	CreatedAt       time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time    `gorm:"autoUpdateTime" json:"updated_at"`

	Advertisement *AdvertisementModel  `gorm:"foreignKey:AdvertisementID;constraint:OnDelete:CASCADE" json:"-"`
	User          *usermodel.UserModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (AdvertisementReactionModel) TableName() string {
	return "advertisement_reactions"
}

func (r *AdvertisementReactionModel) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
