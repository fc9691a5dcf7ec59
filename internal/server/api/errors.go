package api

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/gophdrive/internal/common"
	"github.com/dmitrijs2005/gophdrive/internal/server/services"
	"github.com/labstack/echo/v4"
)

type messageResponse struct {
	Message string `json:"message"`
}

func message(c echo.Context, status int, msg string) error {
	return c.JSON(status, messageResponse{Message: msg})
}

// mapServiceError translates service errors into {message} replies.
func (h *Handler) mapServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrorAlreadyExists):
		return message(c, http.StatusConflict, "User already exists")
	case errors.Is(err, common.ErrInvalidCredentials):
		return message(c, http.StatusBadRequest, "Invalid email or password")
	case errors.Is(err, common.ErrNotVerified):
		return message(c, http.StatusForbidden, "Please verify your email before logging in")
	case errors.Is(err, common.ErrInvalidOTP):
		return message(c, http.StatusBadRequest, "Invalid or expired verification code")
	case errors.Is(err, services.ErrAlreadyVerified):
		return message(c, http.StatusBadRequest, "Email is already verified")
	case errors.Is(err, common.ErrInvalidToken):
		return message(c, http.StatusBadRequest, "Invalid or expired link")
	case errors.Is(err, common.ErrTokenExpired):
		return message(c, http.StatusBadRequest, "Link has expired")
	case errors.Is(err, services.ErrEmptyFileName):
		return message(c, http.StatusBadRequest, "File name is required")
	case errors.Is(err, common.ErrorNotFound):
		return message(c, http.StatusNotFound, "Not found")
	default:
		h.log.Error(c.Request().Context(), "request failed", "path", c.Path(), "error", err)
		return message(c, http.StatusInternalServerError, "Internal server error")
	}
}

// httpErrorHandler renders errors raised outside handlers (routing, body
// limit) as {message}.
func httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	status := http.StatusInternalServerError
	msg := http.StatusText(status)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		if s, ok := he.Message.(string); ok {
			msg = s
		} else {
			msg = http.StatusText(status)
		}
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = message(c, status, msg)
}
