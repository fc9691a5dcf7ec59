// Package models defines the wire shapes exchanged with the gophdrive REST
// API and the small derived values the client computes from them.
package models

// RegistrationDraft is the register form. ConfirmPassword never leaves the
// client.
type RegistrationDraft struct {
	Name            string `json:"name" validate:"required,notblank"`
	Email           string `json:"email" validate:"required,notblank,email_pattern"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"-" validate:"eqfield=Password"`
}

// LoginForm is the login form.
type LoginForm struct {
	Email    string `json:"email" validate:"required,notblank,email_pattern"`
	Password string `json:"password" validate:"required,min=6"`
}

// ForgotPasswordForm requests a reset link.
type ForgotPasswordForm struct {
	Email string `json:"email" validate:"required,notblank,email_pattern"`
}

// OTPChallenge is the body of a verification request.
type OTPChallenge struct {
	Email string `json:"email"`
	Code  string `json:"otp"`
}

// ResetPasswordRequest completes a password reset.
type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// MessageResponse is the generic `{message}` body used for both success and
// error replies.
type MessageResponse struct {
	Message string `json:"message,omitempty"`
}

// LoginUser is the optional nested user object of a login reply.
type LoginUser struct {
	Name     string `json:"name,omitempty"`
	FullName string `json:"fullName,omitempty"`
	Email    string `json:"email,omitempty"`
}

// LoginResponse accepts every login reply shape the backend has used: the
// profile may be nested under "user" or flattened at the top level.
type LoginResponse struct {
	Token    string     `json:"token"`
	Message  string     `json:"message,omitempty"`
	User     *LoginUser `json:"user,omitempty"`
	Name     string     `json:"name,omitempty"`
	UserName string     `json:"userName,omitempty"`
	Email    string     `json:"email,omitempty"`
}

// DisplayName returns the first non-empty of user.name, user.fullName, name
// and userName, or "" when none is set.
func (r LoginResponse) DisplayName() string {
	var candidates []string
	if r.User != nil {
		candidates = append(candidates, r.User.Name, r.User.FullName)
	}
	candidates = append(candidates, r.Name, r.UserName)
	return firstNonEmpty(candidates...)
}

// DisplayEmail returns user.email, then email, then submitted.
func (r LoginResponse) DisplayEmail(submitted string) string {
	var candidates []string
	if r.User != nil {
		candidates = append(candidates, r.User.Email)
	}
	candidates = append(candidates, r.Email, submitted)
	return firstNonEmpty(candidates...)
}

// firstNonEmpty skips only empty strings; a blank name is still a name.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
