// Package models defines server-side data models persisted by repositories.
package models

import "time"

// User is an account. An account can log in only once Verified is set,
// either through the emailed code or the activation link.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash []byte
	Verified     bool

	// OTPCode is the pending 6-digit email code, empty once used.
	OTPCode      string
	OTPExpiresAt time.Time

	ActivationToken string

	ResetToken     string
	ResetExpiresAt time.Time

	CreatedAt time.Time
}
