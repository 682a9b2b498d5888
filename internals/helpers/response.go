package helper

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// Validate is the shared validator for form DTOs.
var Validate = validator.New()

// ValidationMessages maps validator errors to field -> human messages, keyed
// by the form field name taken from the `form` tag.
func ValidationMessages(err error) map[string][]string {
	out := map[string][]string{}
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		out["_form"] = []string{"invalid input"}
		return out
	}

	for _, fe := range ve {
		field := fe.Field()
		var msg string
		switch fe.Tag() {
		case "required", "notblank":
			msg = "this field is required"
		case "email":
			msg = "enter a valid email address"
		case "min":
			msg = "must be at least " + fe.Param() + " characters"
		case "max":
			msg = "must be at most " + fe.Param() + " characters"
		case "eqfield":
			msg = "must match " + strings.ToLower(fe.Param())
		default:
			msg = "invalid value"
		}
		out[field] = append(out[field], msg)
	}
	return out
}

func init() {
	// report `form` tag names so errors line up with submitted fields
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	_ = Validate.RegisterValidation("notblank", validators.NotBlank)
}
