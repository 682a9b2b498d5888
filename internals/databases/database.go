package database

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"classifieds_backend/internals/configs"
	admodel "classifieds_backend/internals/features/board/advertisements/model"
	commentmodel "classifieds_backend/internals/features/board/comments/model"
	authmodel "classifieds_backend/internals/features/users/auth/model"
	usermodel "classifieds_backend/internals/features/users/user/model"

	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// ConnectDB opens the database selected by DB_DRIVER and stores it in DB.
func ConnectDB() {
	driver := strings.ToLower(configs.GetEnv("DB_DRIVER", DriverPostgres))
	configs.Log.WithField("driver", driver).Info("🔌 connecting to database...")

	var dsn string
	switch driver {
	case DriverSQLite:
		dsn = configs.GetEnv("DB_SQLITE_PATH", "board.db") + "?_foreign_keys=on"
	default:
		driver = DriverPostgres
		dsn = fmt.Sprintf(
			"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=classifieds&options=-c statement_timeout=3000",
			os.Getenv("DB_USER"),
			os.Getenv("DB_PASSWORD"),
			configs.GetEnv("DB_HOST", "localhost"),
			configs.GetEnv("DB_PORT", "5432"),
			os.Getenv("DB_NAME"),
			configs.GetEnv("DB_SSLMODE", "require"),
		)
	}

	db, err := Open(driver, dsn)
	if err != nil {
		configs.Log.WithError(err).Fatal("❌ database connection failed")
	}
	DB = db
	configs.Log.Info("✅ DB connected.")
}

// Open connects with the shared gorm settings. Duplicate-key errors are
// translated to gorm.ErrDuplicatedKey for every driver.
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	case DriverPostgres:
		dialector = postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		})
	default:
		return nil, errors.Errorf("unknown DB_DRIVER %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         configs.NewGormLogger(),
		TranslateError: true,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", driver)
	}
	return db, nil
}

// Migrate creates or updates every table the board needs. Order matters for
// the foreign keys.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&usermodel.UserModel{},
		&usermodel.UserProfileModel{},
		&admodel.AdvertisementModel{},
		&commentmodel.CommentModel{},
		&admodel.AdvertisementReactionModel{},
		&authmodel.TokenBlacklist{},
	)
	return errors.Wrap(err, "auto migrate")
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		configs.Log.WithError(err).Warn("pool tune failed")
		return
	}
	if DB.Dialector.Name() == DriverSQLite {
		sqlDB.SetMaxOpenConns(1)
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

func WarmUpQueries() {
	go func() {
		time.Sleep(500 * time.Millisecond)
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := Ping(ctx, DB); err != nil {
			configs.Log.WithError(err).Warn("warm-up ping failed")
		}
	}()
}

func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
