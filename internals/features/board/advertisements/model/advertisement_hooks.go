package model

import (
	"classifieds_backend/internals/features/users/user/service"

	"gorm.io/gorm"
)

// Statistics receivers. gorm runs these inside the create/delete transaction,
// so the author's profile moves together with the row. Updates are not
// hooked: editing a listing never changes statistics.

func (a *AdvertisementModel) AfterCreate(tx *gorm.DB) error {
	return service.OnAdvertisementCreated(tx, a.AuthorID)
}

// AfterDelete needs the loaded row (author, likes, dislikes). Deleting by
// bare id would leave those zero, so callers delete a fetched model.
func (a *AdvertisementModel) AfterDelete(tx *gorm.DB) error {
	return service.OnAdvertisementDeleted(tx, a.AuthorID, a.Likes, a.Dislikes)
}
