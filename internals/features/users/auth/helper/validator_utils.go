package helpers

import (
	"strings"
	"unicode"
)

// PasswordProblems checks what the form tags cannot: the password must not
// be all digits and must not equal the user name or email.
func PasswordProblems(password, userName, email string) []string {
	var out []string
	if password != "" && strings.IndexFunc(password, func(r rune) bool { return !unicode.IsDigit(r) }) < 0 {
		out = append(out, "password cannot be entirely numeric")
	}
	low := strings.ToLower(password)
	if low != "" && (low == strings.ToLower(userName) || low == strings.ToLower(email)) {
		out = append(out, "password is too similar to the user name or email")
	}
	return out
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
