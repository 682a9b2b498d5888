package dto

type SignupForm struct {
	UserName        string `form:"user_name" json:"user_name" validate:"notblank,min=3,max=50"`
	Email           string `form:"email" json:"email" validate:"required,email,max=255"`
	Password        string `form:"password" json:"password,omitempty" validate:"required,min=8,max=128"`
	PasswordConfirm string `form:"password_confirm" json:"password_confirm,omitempty" validate:"required,eqfield=Password"`
}

// LoginForm accepts either the user name or the email as Identifier.
type LoginForm struct {
	Identifier string `form:"identifier" json:"identifier" validate:"notblank"`
	Password   string `form:"password" json:"password,omitempty" validate:"required"`
	Next       string `form:"next" json:"next"`
}
