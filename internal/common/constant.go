// Package common contains shared constants and sentinel errors used by the
// gophdrive client and the development server.
package common

import "time"

const (
	// AuthorizationHeader carries the bearer token on authenticated requests.
	AuthorizationHeader = "Authorization"
	// BearerPrefix precedes the token in AuthorizationHeader.
	BearerPrefix = "Bearer "

	// UploadFormField is the multipart field name holding the uploaded file.
	UploadFormField = "file"

	// OTPLength is the number of digits in a verification code.
	OTPLength = 6
	// OTPTTL is how long a verification code stays valid.
	OTPTTL = 10 * time.Minute
)
