package auth

import (
	"time"

	"classifieds_backend/internals/configs"
	authRepo "classifieds_backend/internals/features/users/auth/repository"
	helper "classifieds_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	errNoToken      = errors.New("no token provided")
	errBlacklisted  = errors.New("token is blacklisted")
	errTokenInvalid = errors.New("token parse error")
)

const expirySkew = 30 * time.Second

// AuthMiddleware guards login-only pages. Any failure (missing, invalid,
// expired or revoked token, inactive user) sends the browser to the login
// page with the current URL as next.
func AuthMiddleware(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := authenticate(db, c); err != nil {
			if !errors.Is(err, errNoToken) {
				configs.Log.WithError(err).WithField("path", c.Path()).Debug("[auth] rejected")
			}
			return helper.SeeOther(c, LoginURL(c.OriginalURL()))
		}
		return c.Next()
	}
}

// authenticate validates the request token and fills Locals on success.
func authenticate(db *gorm.DB, c *fiber.Ctx) error {
	tokenString := helper.GetRawAccessToken(c)
	if tokenString == "" {
		return errNoToken
	}

	// blacklist (once per request)
	if c.Locals("token_checked") == nil {
		revoked, err := authRepo.IsTokenBlacklisted(db, tokenString)
		if err != nil {
			return errors.Wrap(err, "check blacklist")
		}
		if revoked {
			return errBlacklisted
		}
		c.Locals("token_checked", true)
	}

	secretKey := configs.JWTSecret
	if secretKey == "" {
		return errors.New("missing JWT secret")
	}

	claims := jwt.MapClaims{}
	parser := jwt.Parser{SkipClaimsValidation: true, ValidMethods: []string{jwt.SigningMethodHS256.Alg()}}
	if _, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secretKey), nil
	}); err != nil {
		return errors.Wrap(errTokenInvalid, err.Error())
	}

	if err := validateTokenExpiry(claims, expirySkew); err != nil {
		return err
	}

	userID, err := extractUserID(claims)
	if err != nil {
		return err
	}
	if err := ensureUserActive(db, userID); err != nil {
		return err
	}

	c.Locals(helper.LocUserID, userID.String())
	helper.SetRawAccessToken(c, tokenString)
	storeBasicClaimsToLocals(c, claims)
	return nil
}
