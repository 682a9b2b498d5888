package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	database "classifieds_backend/internals/databases"
	"classifieds_backend/internals/features/board/advertisements/model"
	commentmodel "classifieds_backend/internals/features/board/comments/model"
	usermodel "classifieds_backend/internals/features/users/user/model"
	userService "classifieds_backend/internals/features/users/user/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var ctx = context.Background()

func newUser(t *testing.T, db *gorm.DB, name string) usermodel.UserModel {
	t.Helper()
	u := usermodel.UserModel{UserName: name, Email: name + "@example.com", Password: "x", IsActive: true}
	require.NoError(t, db.Create(&u).Error)
	require.NoError(t, userService.EnsureProfileRow(db, u.ID))
	return u
}

func stats(t *testing.T, db *gorm.DB, userID uuid.UUID) usermodel.UserProfileModel {
	t.Helper()
	p, err := userService.GetProfile(db, userID)
	require.NoError(t, err)
	return *p
}

func reload(t *testing.T, db *gorm.DB, id uuid.UUID) model.AdvertisementModel {
	t.Helper()
	var ad model.AdvertisementModel
	require.NoError(t, db.Take(&ad, "id = ?", id).Error)
	return ad
}

func TestCreateCountsOnAuthorProfile(t *testing.T) {
	db := database.CreateTestDB(t)
	alice := newUser(t, db, "alice")

	ad, err := Create(ctx, db, alice.ID, AdvertisementInput{Title: "  Bike  ", Content: "Red bike"})
	require.NoError(t, err)
	assert.Equal(t, "Bike", ad.Title)

	var n int64
	require.NoError(t, db.Model(&model.AdvertisementModel{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
	assert.EqualValues(t, 1, stats(t, db, alice.ID).AdvertisementsCount)
}

func TestUpdateLeavesStatisticsAlone(t *testing.T) {
	db := database.CreateTestDB(t)
	alice := newUser(t, db, "alice")
	bob := newUser(t, db, "bob")

	ad, err := Create(ctx, db, alice.ID, AdvertisementInput{Title: "Bike", Content: "Red"})
	require.NoError(t, err)
	_, err = React(ctx, db, ad.ID, bob.ID, model.ReactionLike)
	require.NoError(t, err)
	before := stats(t, db, alice.ID)

	img := "advertisements/new.webp"
	updated, orphaned, err := Update(ctx, db, ad.ID, alice.ID, AdvertisementInput{Title: "Blue bike", Content: "Blue", Image: &img})
	require.NoError(t, err)
	assert.Equal(t, "", orphaned)
	assert.Equal(t, "Blue bike", updated.Title)

	after := stats(t, db, alice.ID)
	assert.Equal(t, before.AdvertisementsCount, after.AdvertisementsCount)
	assert.Equal(t, before.TotalLikes, after.TotalLikes)
	assert.Equal(t, before.TotalDislikes, after.TotalDislikes)

	got := reload(t, db, ad.ID)
	assert.Equal(t, "Blue bike", got.Title)
	assert.Equal(t, img, got.ImagePath())
	assert.EqualValues(t, 1, got.Likes)

	// clearing hands back the old path
	_, orphaned, err = Update(ctx, db, ad.ID, alice.ID, AdvertisementInput{Title: "Blue bike", Content: "Blue", ClearImage: true})
	require.NoError(t, err)
	assert.Equal(t, img, orphaned)
	assert.Nil(t, reload(t, db, ad.ID).Image)
}

func TestNonAuthorCannotChangeAdvertisement(t *testing.T) {
	db := database.CreateTestDB(t)
	alice := newUser(t, db, "alice")
	bob := newUser(t, db, "bob")

	ad, err := Create(ctx, db, alice.ID, AdvertisementInput{Title: "Bike", Content: "Red"})
	require.NoError(t, err)

	_, err = GetOwned(ctx, db, ad.ID, bob.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, _, err = Update(ctx, db, ad.ID, bob.ID, AdvertisementInput{Title: "Mine now", Content: "x"})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, "Bike", reload(t, db, ad.ID).Title)

	_, err = Delete(ctx, db, ad.ID, bob.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	reload(t, db, ad.ID)
}

func TestMissingAdvertisement(t *testing.T) {
	db := database.CreateTestDB(t)
	alice := newUser(t, db, "alice")

	_, err := Get(ctx, db, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = Delete(ctx, db, uuid.New(), alice.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = React(ctx, db, uuid.New(), alice.ID, model.ReactionLike)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteRemovesChildrenAndSubtractsCounts(t *testing.T) {
	db := database.CreateTestDB(t)
	alice := newUser(t, db, "alice")
	bob := newUser(t, db, "bob")
	carol := newUser(t, db, "carol")

	keep, err := Create(ctx, db, alice.ID, AdvertisementInput{Title: "Keep", Content: "c"})
	require.NoError(t, err)
	img := "advertisements/gone.webp"
	gone, err := Create(ctx, db, alice.ID, AdvertisementInput{Title: "Gone", Content: "c", Image: &img})
	require.NoError(t, err)

	_, err = React(ctx, db, keep.ID, bob.ID, model.ReactionLike)
	require.NoError(t, err)
	_, err = React(ctx, db, gone.ID, bob.ID, model.ReactionLike)
	require.NoError(t, err)
	_, err = React(ctx, db, gone.ID, carol.ID, model.ReactionDislike)
	require.NoError(t, err)
	require.NoError(t, db.Create(&commentmodel.CommentModel{AdvertisementID: gone.ID, AuthorID: bob.ID, Content: "hi"}).Error)

	image, err := Delete(ctx, db, gone.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, img, image)

	var n int64
	require.NoError(t, db.Model(&commentmodel.CommentModel{}).Where("advertisement_id = ?", gone.ID).Count(&n).Error)
	assert.Zero(t, n)
	require.NoError(t, db.Model(&model.AdvertisementReactionModel{}).Where("advertisement_id = ?", gone.ID).Count(&n).Error)
	assert.Zero(t, n)

	p := stats(t, db, alice.ID)
	assert.EqualValues(t, 1, p.AdvertisementsCount)
	assert.EqualValues(t, 1, p.TotalLikes)
	assert.EqualValues(t, 0, p.TotalDislikes)
}

func TestReactDedupesAndSwitches(t *testing.T) {
	db := database.CreateTestDB(t)
	alice := newUser(t, db, "alice")
	bob := newUser(t, db, "bob")

	ad, err := Create(ctx, db, alice.ID, AdvertisementInput{Title: "Bike", Content: "Red"})
	require.NoError(t, err)
	before := reload(t, db, ad.ID)

	out, err := React(ctx, db, ad.ID, bob.ID, model.ReactionLike)
	require.NoError(t, err)
	assert.True(t, out.Changed)

	out, err = React(ctx, db, ad.ID, bob.ID, model.ReactionLike)
	require.NoError(t, err)
	assert.False(t, out.Changed)

	got := reload(t, db, ad.ID)
	assert.EqualValues(t, 1, got.Likes)
	assert.EqualValues(t, 0, got.Dislikes)
	assert.EqualValues(t, 1, stats(t, db, alice.ID).TotalLikes)
	assert.True(t, got.UpdatedAt.Equal(before.UpdatedAt), "a reaction is not an edit")

	out, err = React(ctx, db, ad.ID, bob.ID, model.ReactionDislike)
	require.NoError(t, err)
	assert.True(t, out.Changed)
	assert.EqualValues(t, 0, out.Likes)
	assert.EqualValues(t, 1, out.Dislikes)

	got = reload(t, db, ad.ID)
	assert.EqualValues(t, 0, got.Likes)
	assert.EqualValues(t, 1, got.Dislikes)
	p := stats(t, db, alice.ID)
	assert.EqualValues(t, 0, p.TotalLikes)
	assert.EqualValues(t, 1, p.TotalDislikes)

	kind, err := UserReaction(ctx, db, ad.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ReactionDislike, kind)

	_, err = React(ctx, db, ad.ID, bob.ID, model.ReactionKind("love"))
	assert.ErrorIs(t, err, ErrInvalidReaction)
}

func TestWithdrawUserReactions(t *testing.T) {
	db := database.CreateTestDB(t)
	alice := newUser(t, db, "alice")
	bob := newUser(t, db, "bob")

	ad, err := Create(ctx, db, alice.ID, AdvertisementInput{Title: "Bike", Content: "Red"})
	require.NoError(t, err)
	_, err = React(ctx, db, ad.ID, bob.ID, model.ReactionLike)
	require.NoError(t, err)

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return WithdrawUserReactions(tx, bob.ID)
	}))

	assert.EqualValues(t, 0, reload(t, db, ad.ID).Likes)
	assert.EqualValues(t, 0, stats(t, db, alice.ID).TotalLikes)
	kind, err := UserReaction(ctx, db, ad.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ReactionKind(""), kind)
}

func TestListNewestFirstWithClampedPage(t *testing.T) {
	db := database.CreateTestDB(t)
	alice := newUser(t, db, "alice")

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		ad, err := Create(ctx, db, alice.ID, AdvertisementInput{Title: fmt.Sprintf("ad %d", i), Content: "c"})
		require.NoError(t, err)
		require.NoError(t, db.Model(&model.AdvertisementModel{}).Where("id = ?", ad.ID).
			UpdateColumn("created_at", base.Add(time.Duration(i)*time.Hour)).Error)
	}

	rows, pg, err := List(ctx, db, "abc", 5)
	require.NoError(t, err)
	assert.Equal(t, 1, pg.Page)
	assert.Equal(t, 2, pg.TotalPages)
	require.Len(t, rows, 5)
	assert.Equal(t, "ad 6", rows[0].Title)
	assert.Equal(t, "ad 2", rows[4].Title)
	require.NotNil(t, rows[0].Author)
	assert.Equal(t, "alice", rows[0].Author.UserName)

	rows, pg, err = List(ctx, db, "999", 5)
	require.NoError(t, err)
	assert.Equal(t, 2, pg.Page)
	require.Len(t, rows, 2)
	assert.Equal(t, "ad 1", rows[0].Title)
	assert.Equal(t, "ad 0", rows[1].Title)
}

func TestDeleteAllByAuthorSkipsStatistics(t *testing.T) {
	db := database.CreateTestDB(t)
	alice := newUser(t, db, "alice")

	img := "advertisements/a.webp"
	_, err := Create(ctx, db, alice.ID, AdvertisementInput{Title: "a", Content: "c", Image: &img})
	require.NoError(t, err)
	_, err = Create(ctx, db, alice.ID, AdvertisementInput{Title: "b", Content: "c"})
	require.NoError(t, err)

	var images []string
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		var err error
		images, err = DeleteAllByAuthor(tx, alice.ID)
		return err
	}))
	assert.Equal(t, []string{img}, images)

	var n int64
	require.NoError(t, db.Model(&model.AdvertisementModel{}).Count(&n).Error)
	assert.Zero(t, n)
	// hooks skipped: the profile goes away with the account
	assert.EqualValues(t, 2, stats(t, db, alice.ID).AdvertisementsCount)
}

func TestStaleSwitchDoesNotMoveCounts(t *testing.T) {
	db := database.CreateTestDB(t)
	alice := newUser(t, db, "alice")
	bob := newUser(t, db, "bob")

	ad, err := Create(ctx, db, alice.ID, AdvertisementInput{Title: "Bike", Content: "Red"})
	require.NoError(t, err)
	_, err = React(ctx, db, ad.ID, bob.ID, model.ReactionLike)
	require.NoError(t, err)

	var stale model.AdvertisementReactionModel
	require.NoError(t, db.Take(&stale, "advertisement_id = ? AND user_id = ?", ad.ID, bob.ID).Error)

	// another request switches first
	_, err = React(ctx, db, ad.ID, bob.ID, model.ReactionDislike)
	require.NoError(t, err)

	moved, err := switchReaction(db, stale, model.ReactionDislike)
	require.NoError(t, err)
	assert.False(t, moved)

	created, err := insertReaction(db, ad.ID, bob.ID, model.ReactionLike)
	require.NoError(t, err)
	assert.False(t, created)

	got := reload(t, db, ad.ID)
	assert.EqualValues(t, 0, got.Likes)
	assert.EqualValues(t, 1, got.Dislikes)
	kind, err := UserReaction(ctx, db, ad.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ReactionDislike, kind)
}

func TestConcurrentReactionsCountOnce(t *testing.T) {
	db := database.CreateTestDB(t)
	alice := newUser(t, db, "alice")
	bob := newUser(t, db, "bob")

	ad, err := Create(ctx, db, alice.ID, AdvertisementInput{Title: "Bike", Content: "Red"})
	require.NoError(t, err)

	run := func(kind model.ReactionKind) {
		var wg sync.WaitGroup
		errs := make(chan error, 8)
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := React(ctx, db, ad.ID, bob.ID, kind)
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}
	}

	run(model.ReactionLike)
	got := reload(t, db, ad.ID)
	assert.EqualValues(t, 1, got.Likes)
	assert.EqualValues(t, 0, got.Dislikes)

	run(model.ReactionDislike)
	got = reload(t, db, ad.ID)
	assert.EqualValues(t, 0, got.Likes)
	assert.EqualValues(t, 1, got.Dislikes)

	p := stats(t, db, alice.ID)
	assert.EqualValues(t, 0, p.TotalLikes)
	assert.EqualValues(t, 1, p.TotalDislikes)
}
