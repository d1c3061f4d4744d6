package auth

import (
	"strings"
	"unicode"

	"github.com/tandrade/havenlink/internal/apperror"
)

// passwordSpecials is the accepted special-character set for new passwords.
const passwordSpecials = "@#$%^&+="

// CheckPasswordStrength validates a candidate password against the account
// policy: at least 8 characters, one uppercase letter, one lowercase
// letter, one digit, and one character from the @#$%^&+= set.
//
// Rules are checked in order and the first unmet rule is named in the
// returned ErrWeakPassword, so a caller sees "no uppercase" before
// "no digit" for a password missing both.
func CheckPasswordStrength(password string) error {
	if len(password) < 8 {
		return apperror.WeakPassword("password must be at least 8 characters long")
	}
	if !strings.ContainsFunc(password, unicode.IsUpper) {
		return apperror.WeakPassword("password must contain at least one uppercase letter")
	}
	if !strings.ContainsFunc(password, unicode.IsLower) {
		return apperror.WeakPassword("password must contain at least one lowercase letter")
	}
	if !strings.ContainsFunc(password, unicode.IsDigit) {
		return apperror.WeakPassword("password must contain at least one digit")
	}
	if !strings.ContainsAny(password, passwordSpecials) {
		return apperror.WeakPassword("password must contain at least one special character (@#$%^&+=)")
	}
	return nil
}
