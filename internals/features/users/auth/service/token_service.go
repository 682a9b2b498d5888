package service

import (
	"strings"
	"time"

	"classifieds_backend/internals/configs"
	userModel "classifieds_backend/internals/features/users/user/model"

	"github.com/golang-jwt/jwt/v4"
	"github.com/pkg/errors"
)

var ErrMissingSecret = errors.New("JWT_SECRET is not set")

func nowUTC() time.Time { return time.Now().UTC() }

func getJWTSecret() (string, error) {
	secret := strings.TrimSpace(configs.JWTSecret)
	if secret == "" {
		return "", ErrMissingSecret
	}
	return secret, nil
}

// IssueAccessToken signs an HS256 token carrying the user id and name.
func IssueAccessToken(user userModel.UserModel) (string, time.Time, error) {
	secret, err := getJWTSecret()
	if err != nil {
		return "", time.Time{}, err
	}
	now := nowUTC()
	exp := now.Add(configs.AccessTokenTTL)

	claims := jwt.MapClaims{
		"id":        user.ID.String(),
		"user_name": user.UserName,
		"iat":       now.Unix(),
		"exp":       exp.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, "sign access token")
	}
	return signed, exp, nil
}

// resolveBlacklistTTL keeps a revoked token blacklisted until its own exp.
// Unparseable tokens get a short TTL since they are rejected anyway.
func resolveBlacklistTTL(accessToken string) time.Duration {
	ttl := 2 * time.Minute
	secret, err := getJWTSecret()
	if err != nil || accessToken == "" {
		return ttl
	}

	claims := jwt.MapClaims{}
	parser := jwt.Parser{SkipClaimsValidation: true}
	if _, err := parser.ParseWithClaims(accessToken, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}); err != nil {
		return ttl
	}
	if exp, ok := claims["exp"].(float64); ok {
		if d := time.Until(time.Unix(int64(exp), 0)); d > ttl {
			return d
		}
	}
	return ttl
}
