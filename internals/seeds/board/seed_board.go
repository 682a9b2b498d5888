package board

import (
	"context"

	"classifieds_backend/internals/configs"
	"classifieds_backend/internals/features/board/advertisements/model"
	adService "classifieds_backend/internals/features/board/advertisements/service"
	commentService "classifieds_backend/internals/features/board/comments/service"
	userModel "classifieds_backend/internals/features/users/user/model"

	"gorm.io/gorm"
)

type CommentSeed struct {
	Author  string `json:"author"`
	Content string `json:"content"`
}

type ReactionSeed struct {
	User string `json:"user"`
	Kind string `json:"kind"`
}

type AdvertisementSeed struct {
	Author    string         `json:"author"`
	Title     string         `json:"title"`
	Content   string         `json:"content"`
	Comments  []CommentSeed  `json:"comments"`
	Reactions []ReactionSeed `json:"reactions"`
}

// SeedBoard creates the demo advertisements through the services, so the
// authors' statistics come out right. Advertisements whose title already
// exists for the same author are skipped.
func SeedBoard(ctx context.Context, db *gorm.DB, users map[string]userModel.UserModel, inputs []AdvertisementSeed) {
	for _, data := range inputs {
		author, ok := users[data.Author]
		if !ok {
			configs.Log.WithField("author", data.Author).Warn("⚠️ unknown author, advertisement skipped")
			continue
		}

		var n int64
		if err := db.WithContext(ctx).Model(&model.AdvertisementModel{}).
			Where("author_id = ? AND title = ?", author.ID, data.Title).
			Count(&n).Error; err != nil {
			configs.Log.WithError(err).WithField("title", data.Title).Error("❌ check existing advertisement")
			continue
		}
		if n > 0 {
			continue
		}

		ad, err := adService.Create(ctx, db, author.ID, adService.AdvertisementInput{Title: data.Title, Content: data.Content})
		if err != nil {
			configs.Log.WithError(err).WithField("title", data.Title).Error("❌ insert advertisement")
			continue
		}

		for _, cm := range data.Comments {
			u, ok := users[cm.Author]
			if !ok {
				continue
			}
			if _, err := commentService.Create(ctx, db, ad.ID, u.ID, cm.Content); err != nil {
				configs.Log.WithError(err).Warn("⚠️ insert comment")
			}
		}
		for _, r := range data.Reactions {
			u, ok := users[r.User]
			if !ok {
				continue
			}
			if _, err := adService.React(ctx, db, ad.ID, u.ID, model.ReactionKind(r.Kind)); err != nil {
				configs.Log.WithError(err).Warn("⚠️ insert reaction")
			}
		}
		configs.Log.WithField("title", ad.Title).Info("✅ advertisement inserted")
	}
}
