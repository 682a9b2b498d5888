package dto

import (
	"time"

	"classifieds_backend/internals/features/board/comments/model"

	"github.com/google/uuid"
)

type CommentForm struct {
	Content string `form:"content" json:"content" validate:"notblank,max=5000"`
}

type CommentDTO struct {
	ID             uuid.UUID `json:"id"`
	AuthorID       uuid.UUID `json:"author_id"`
	AuthorUserName string    `json:"author_user_name"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

func ToCommentDTO(m model.CommentModel) CommentDTO {
	out := CommentDTO{
		ID:        m.ID,
		AuthorID:  m.AuthorID,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
	if m.Author != nil {
		out.AuthorUserName = m.Author.UserName
	}
	return out
}

func ToCommentDTOs(rows []model.CommentModel) []CommentDTO {
	out := make([]CommentDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, ToCommentDTO(r))
	}
	return out
}
