package services

import "errors"

var (
	ErrAlreadyVerified = errors.New("email already verified")
	ErrEmptyFileName   = errors.New("file name is required")
)
