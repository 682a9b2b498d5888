package dto

import (
	"time"

	"classifieds_backend/internals/features/board/advertisements/model"
	helper "classifieds_backend/internals/helpers"

	"github.com/google/uuid"
)

// ============================
// Form DTO (add / edit)
// ============================

// AdvertisementForm binds urlencoded or multipart bodies. The image file is
// read separately from the "image" part.
type AdvertisementForm struct {
	Title      string `form:"title" json:"title" validate:"notblank,max=255"`
	Content    string `form:"content" json:"content" validate:"notblank"`
	ClearImage bool   `form:"clear_image" json:"clear_image"`
}

// ============================
// Response DTO
// ============================

type AuthorDTO struct {
	ID       uuid.UUID `json:"id"`
	UserName string    `json:"user_name"`
}

type AdvertisementDTO struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Author    AuthorDTO `json:"author"`
	ImageURL  *string   `json:"image_url"`
	Likes     int64     `json:"likes"`
	Dislikes  int64     `json:"dislikes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ToAdvertisementDTO(m model.AdvertisementModel, media *helper.MediaStore) AdvertisementDTO {
	out := AdvertisementDTO{
		ID:        m.ID,
		Title:     m.Title,
		Content:   m.Content,
		Author:    AuthorDTO{ID: m.AuthorID},
		Likes:     m.Likes,
		Dislikes:  m.Dislikes,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.Author != nil {
		out.Author.UserName = m.Author.UserName
	}
	if p := m.ImagePath(); p != "" && media != nil {
		u := media.URL(p)
		out.ImageURL = &u
	}
	return out
}

func ToAdvertisementDTOs(rows []model.AdvertisementModel, media *helper.MediaStore) []AdvertisementDTO {
	out := make([]AdvertisementDTO, 0, len(rows))
	for i := range rows {
		out = append(out, ToAdvertisementDTO(rows[i], media))
	}
	return out
}

// FormDocument is what the add/edit pages render: current values, if any.
type FormDocument struct {
	Form   AdvertisementForm `json:"form"`
	Image  *string           `json:"image_url,omitempty"`
	Action string            `json:"action"`
}
