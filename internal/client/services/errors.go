package services

import "errors"

var (
	// ErrValidation means a form failed local validation; nothing was sent.
	ErrValidation = errors.New("validation failed")
	// ErrBusy means the same flow already has a request in flight.
	ErrBusy = errors.New("request already in flight")
	// ErrNotAuthenticated means no token is stored; the user was sent to login.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrNoPendingEmail means the verify screen was entered without an email.
	ErrNoPendingEmail = errors.New("no email to verify")
	// ErrInvalidOTP means the code is not exactly six digits.
	ErrInvalidOTP = errors.New("invalid otp")
)
