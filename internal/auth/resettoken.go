package auth

import (
	"time"

	"github.com/google/uuid"
)

// ResetTokenTTL is how long a password-reset token stays valid after issue.
const ResetTokenTTL = 30 * time.Minute

// NewResetToken returns an opaque single-use token for the password-reset
// flow. UUIDv4 gives 122 bits from crypto/rand, and the token is compared
// byte-for-byte on consumption.
func NewResetToken() string {
	return uuid.NewString()
}
