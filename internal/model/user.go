package model

import "time"

// User represents a registered account.
//
// PasswordHash holds the bcrypt hash, never the plaintext. The `json:"-"`
// tag keeps it out of every response body — signup returns the stored
// record, so serializing the hash would leak it.
//
// ResetToken/ResetTokenExpiry are nil except while a password-reset window
// is open. Issuing a new token overwrites any outstanding one, so at most
// one token is live per user; a successful reset clears both fields.
type User struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"` // unique
	FirstName    string     `json:"firstName"`
	LastName     string     `json:"lastName"`
	PasswordHash string     `json:"-"`
	Email        string     `json:"email"` // unique
	Phone        string     `json:"phone,omitempty"`
	ResetToken   *string    `json:"-"`
	ResetExpiry  *time.Time `json:"-"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}
