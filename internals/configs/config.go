package configs

import (
	"context"
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"
)

// Defaults are usable without LoadEnv so tests can build an app directly.
var (
	JWTSecret      string
	AccessTokenTTL = 24 * time.Hour
	CookieSecure   = true

	MediaRoot        = "media"
	MediaURL         = "/media"
	ImageMaxW        = 1600
	ImageMaxH        = 1600
	ImageWebPQuality = float32(80)
	MaxUploadMB      = 5

	BoardPageSize          = 5
	StatsReconcileInterval = time.Hour
	BlacklistCleanupEvery  = 24 * time.Hour

	RateLimitEnabled = true
	CorsOrigins      = "http://localhost:5173"
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		Log.Info("⚠️ no .env file found, using system environment")
	} else {
		Log.Info("✅ .env file loaded")
	}
	InitLogger()

	JWTSecret = GetEnv("JWT_SECRET")
	AccessTokenTTL = time.Duration(GetEnvInt("ACCESS_TOKEN_TTL_HOURS", 24)) * time.Hour
	CookieSecure = GetEnvBool("COOKIE_SECURE", true)

	MediaRoot = GetEnv("MEDIA_ROOT", "media")
	MediaURL = strings.TrimRight(GetEnv("MEDIA_URL", "/media"), "/")
	ImageMaxW = GetEnvInt("IMAGE_MAX_W", 1600)
	ImageMaxH = GetEnvInt("IMAGE_MAX_H", 1600)
	ImageWebPQuality = float32(GetEnvInt("IMAGE_WEBP_QUALITY", 80))
	MaxUploadMB = GetEnvInt("MAX_UPLOAD_MB", 5)

	BoardPageSize = GetEnvInt("BOARD_PAGE_SIZE", 5)
	StatsReconcileInterval = GetEnvDuration("STATS_RECONCILE_INTERVAL", time.Hour)
	RateLimitEnabled = GetEnvBool("RATE_LIMIT_ENABLED", true)
	CorsOrigins = GetEnv("CORS_ORIGINS", "http://localhost:5173")

	if err := RequireSecrets(); err != nil {
		Log.WithError(err).Fatal("❌ refusing to start")
	}
	Log.Info("✅ JWT_SECRET loaded")
}

var ErrMissingJWTSecret = errors.New("JWT_SECRET is not set")

// RequireSecrets reports configuration the server cannot run without.
func RequireSecrets() error {
	if strings.TrimSpace(JWTSecret) == "" {
		return ErrMissingJWTSecret
	}
	return nil
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if (!exists || value == "") && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func GetEnvInt(key string, def int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
		Log.WithField("key", key).Warn("invalid integer in env, using default")
	}
	return def
}

func GetEnvBool(key string, def bool) bool {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func GetEnvDuration(key string, def time.Duration) time.Duration {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d >= 0 {
			return d
		}
		Log.WithField("key", key).Warn("invalid duration in env, using default")
	}
	return def
}

// =======================
// GORM LOGGER CUSTOM
// =======================
type GormLogger struct {
	SlowThreshold time.Duration
	LogLevel      gormLogger.LogLevel
}

func NewGormLogger() gormLogger.Interface {
	level := gormLogger.Warn
	if logger.IsLevelEnabled(logrus.DebugLevel) {
		level = gormLogger.Info
	}
	return &GormLogger{
		SlowThreshold: 200 * time.Millisecond,
		LogLevel:      level,
	}
}

func (l *GormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	clone := *l
	clone.LogLevel = level
	return &clone
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Info {
		Log.Infof(msg, data...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Warn {
		Log.Warnf(msg, data...)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Error {
		Log.Errorf(msg, data...)
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= gormLogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sql, rows := fc()
	entry := Log.WithFields(logrus.Fields{
		"file":    utils.FileWithLineNum(),
		"elapsed": elapsed.String(),
		"rows":    rows,
	})

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.LogLevel >= gormLogger.Error:
		entry.WithError(err).Error(sql)
	case elapsed > l.SlowThreshold && l.LogLevel >= gormLogger.Warn:
		entry.Warn("[SLOW SQL] " + sql)
	case l.LogLevel >= gormLogger.Info:
		entry.Debug(sql)
	}
}
