package seeds

import (
	"context"
	"os"

	"classifieds_backend/internals/configs"
	"classifieds_backend/internals/seeds/board"
	users "classifieds_backend/internals/seeds/users/auth"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const DefaultSeedFile = "internals/seeds/data/board_seed.json"

type SeedData struct {
	Users          []users.UserSeed          `json:"users"`
	Advertisements []board.AdvertisementSeed `json:"advertisements"`
}

func Load(path string) (*SeedData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read seed file %s", path)
	}
	var data SeedData
	if err := sonic.Unmarshal(raw, &data); err != nil {
		return nil, errors.Wrapf(err, "decode seed file %s", path)
	}
	return &data, nil
}

// RunAll loads demo users and advertisements. It is idempotent and never
// fatal: a broken seed file only logs.
func RunAll(db *gorm.DB, path string) {
	configs.Log.WithField("file", path).Info("📥 running seeds")

	data, err := Load(path)
	if err != nil {
		configs.Log.WithError(err).Error("❌ seeds skipped")
		return
	}

	byName := users.SeedUsers(db, data.Users)
	board.SeedBoard(context.Background(), db, byName, data.Advertisements)
}
