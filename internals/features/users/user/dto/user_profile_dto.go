package dto

import (
	"classifieds_backend/internals/features/users/user/model"

	"github.com/google/uuid"
)

type UserStatsDTO struct {
	UserID              uuid.UUID `json:"user_id"`
	AdvertisementsCount int64     `json:"advertisements_count"`
	TotalLikes          int64     `json:"total_likes"`
	TotalDislikes       int64     `json:"total_dislikes"`
}

func ToUserStatsDTO(p model.UserProfileModel) UserStatsDTO {
	return UserStatsDTO{
		UserID:              p.UserID,
		AdvertisementsCount: p.AdvertisementsCount,
		TotalLikes:          p.TotalLikes,
		TotalDislikes:       p.TotalDislikes,
	}
}

type PublicUserDTO struct {
	ID       uuid.UUID `json:"id"`
	UserName string    `json:"user_name"`
}

type AccountDTO struct {
	ID       uuid.UUID    `json:"id"`
	UserName string       `json:"user_name"`
	Email    string       `json:"email"`
	Stats    UserStatsDTO `json:"stats"`
}

func ToAccountDTO(u model.UserModel, p model.UserProfileModel) AccountDTO {
	return AccountDTO{
		ID:       u.ID,
		UserName: u.UserName,
		Email:    u.Email,
		Stats:    ToUserStatsDTO(p),
	}
}
