package service

import (
	"strings"

	"classifieds_backend/internals/configs"
	authDTO "classifieds_backend/internals/features/users/auth/dto"
	authHelper "classifieds_backend/internals/features/users/auth/helper"
	authRepo "classifieds_backend/internals/features/users/auth/repository"
	userModel "classifieds_backend/internals/features/users/user/model"
	userProfileService "classifieds_backend/internals/features/users/user/service"
	helpers "classifieds_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const DefaultLoginRedirect = "/board/"

/* ==========================
   SIGNUP
========================== */

func SignupForm(c *fiber.Ctx) error {
	return helpers.JsonOK(c, "Sign up", fiber.Map{
		"form":   authDTO.SignupForm{},
		"action": "/signup",
	})
}

// Signup creates the user and their empty statistics row in one
// transaction, logs them in and sends them to the board.
func Signup(db *gorm.DB, c *fiber.Ctx) error {
	var form authDTO.SignupForm
	if err := c.BodyParser(&form); err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	form.UserName = strings.TrimSpace(form.UserName)
	form.Email = authHelper.NormalizeEmail(form.Email)

	if err := helpers.Validate.Struct(&form); err != nil {
		return helpers.JsonValidationError(c, helpers.ValidationMessages(err))
	}
	if problems := authHelper.PasswordProblems(form.Password, form.UserName, form.Email); len(problems) > 0 {
		return helpers.JsonValidationError(c, map[string][]string{"password": problems})
	}

	fieldErrs := map[string][]string{}
	if taken, err := authRepo.IsUserNameTaken(db, form.UserName); err != nil {
		configs.Log.WithError(err).Error("[signup] check user_name")
		return helpers.JsonError(c, fiber.StatusInternalServerError, "Failed to create account")
	} else if taken {
		fieldErrs["user_name"] = []string{"a user with that user name already exists"}
	}
	if taken, err := authRepo.IsEmailTaken(db, form.Email); err != nil {
		configs.Log.WithError(err).Error("[signup] check email")
		return helpers.JsonError(c, fiber.StatusInternalServerError, "Failed to create account")
	} else if taken {
		fieldErrs["email"] = []string{"a user with that email already exists"}
	}
	if len(fieldErrs) > 0 {
		return helpers.JsonValidationError(c, fieldErrs)
	}

	hash, err := authHelper.HashPassword(form.Password)
	if err != nil {
		return helpers.JsonError(c, fiber.StatusInternalServerError, "Password hashing failed")
	}

	user := userModel.UserModel{
		UserName: form.UserName,
		Email:    form.Email,
		Password: hash,
		IsActive: true,
	}
	err = db.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := authRepo.CreateUser(tx, &user); err != nil {
			return err
		}
		return userProfileService.EnsureProfileRow(tx, user.ID)
	})
	if errors.Is(err, authRepo.ErrDuplicateUser) {
		return helpers.JsonValidationError(c, map[string][]string{
			"user_name": {"a user with that user name or email already exists"},
		})
	}
	if err != nil {
		configs.Log.WithError(err).Error("[signup] create user")
		return helpers.JsonError(c, fiber.StatusInternalServerError, "Failed to create account")
	}

	configs.Log.WithField("user_id", user.ID).Info("[signup] user registered")
	return loginAndRedirect(c, user, DefaultLoginRedirect)
}

/* ==========================
   LOGIN
========================== */

func LoginForm(c *fiber.Ctx) error {
	return helpers.JsonOK(c, "Log in", fiber.Map{
		"form":   authDTO.LoginForm{Next: helpers.SafeNext(c.Query("next"), DefaultLoginRedirect)},
		"action": "/login",
	})
}

func Login(db *gorm.DB, c *fiber.Ctx) error {
	var form authDTO.LoginForm
	if err := c.BodyParser(&form); err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "Invalid input format")
	}
	form.Identifier = strings.TrimSpace(form.Identifier)
	if form.Next == "" {
		form.Next = c.Query("next")
	}

	if err := helpers.Validate.Struct(&form); err != nil {
		return helpers.JsonValidationError(c, helpers.ValidationMessages(err))
	}

	user, err := authRepo.FindUserByEmailOrUsername(db.WithContext(c.UserContext()), form.Identifier)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			configs.Log.WithError(err).Error("[login] find user")
			return helpers.JsonError(c, fiber.StatusInternalServerError, "Login failed")
		}
		return helpers.JsonError(c, fiber.StatusUnauthorized, "Invalid user name/email or password")
	}
	if err := authHelper.CheckPasswordHash(user.Password, form.Password); err != nil {
		return helpers.JsonError(c, fiber.StatusUnauthorized, "Invalid user name/email or password")
	}
	if !user.IsActive {
		return helpers.JsonError(c, fiber.StatusForbidden, "This account is inactive")
	}

	return loginAndRedirect(c, *user, helpers.SafeNext(form.Next, DefaultLoginRedirect))
}

func loginAndRedirect(c *fiber.Ctx, user userModel.UserModel, next string) error {
	token, exp, err := IssueAccessToken(user)
	if err != nil {
		configs.Log.WithError(err).Error("[auth] issue token")
		return helpers.JsonError(c, fiber.StatusInternalServerError, "Failed to issue token")
	}
	helpers.SetAccessCookie(c, token, exp, configs.CookieSecure)
	return helpers.SeeOther(c, next)
}

/* ==========================
   LOGOUT
========================== */

// Logout is idempotent: without a token it only clears the cookie.
func Logout(db *gorm.DB, c *fiber.Ctx) error {
	if accessToken := helpers.GetRawAccessToken(c); accessToken != "" {
		if err := authRepo.BlacklistToken(db.WithContext(c.UserContext()), accessToken, resolveBlacklistTTL(accessToken)); err != nil {
			configs.Log.WithError(err).Warn("[logout] failed to blacklist token")
		}
	}
	helpers.ClearAccessCookie(c, configs.CookieSecure)
	return helpers.SeeOther(c, "/")
}

// RevokeCurrentToken blacklists the request's token and clears the cookie.
// Used when an account is deleted.
func RevokeCurrentToken(db *gorm.DB, c *fiber.Ctx) {
	if accessToken := helpers.GetRawAccessToken(c); accessToken != "" {
		if err := authRepo.BlacklistToken(db, accessToken, resolveBlacklistTTL(accessToken)); err != nil {
			configs.Log.WithError(err).Warn("[auth] failed to blacklist token")
		}
	}
	helpers.ClearAccessCookie(c, configs.CookieSecure)
}
