// Package api exposes the account and file services over the REST API the
// gophdrive client talks to.
package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophdrive/internal/common"
	"github.com/dmitrijs2005/gophdrive/internal/logging"
	"github.com/dmitrijs2005/gophdrive/internal/server/models"
	"github.com/dmitrijs2005/gophdrive/internal/server/services"
	"github.com/labstack/echo/v4"
)

type Handler struct {
	users *services.UserService
	files *services.FileService
	log   logging.Logger
}

func NewHandler(us *services.UserService, fs *services.FileService, log logging.Logger) *Handler {
	return &Handler{users: us, files: fs, log: log}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type verifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

type emailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type resetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

type userResponse struct {
	ID    string `json:"_id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type loginResponse struct {
	Token   string       `json:"token"`
	Message string       `json:"message"`
	User    userResponse `json:"user"`
}

type fileResponse struct {
	ID         string       `json:"_id"`
	FileName   string       `json:"fileName"`
	FileSize   int64        `json:"fileSize"`
	UploadedBy userResponse `json:"uploadedBy"`
	CreatedAt  time.Time    `json:"createdAt"`
}

type uploadResponse struct {
	Message string       `json:"message"`
	File    fileResponse `json:"file"`
}

type linkResponse struct {
	URL string `json:"url"`
}

// bind decodes the JSON body into req and validates it. Failures come back
// as 400 HTTP errors.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			return echo.NewHTTPError(http.StatusBadRequest, verr.Message)
		}
		return err
	}
	return nil
}

func (h *Handler) HandleRegister(c echo.Context) error {
	var req registerRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	if _, err := h.users.Register(c.Request().Context(), req.Name, req.Email, req.Password); err != nil {
		return h.mapServiceError(c, err)
	}
	return message(c, http.StatusCreated, "Registration successful. Check your email for the verification code.")
}

func (h *Handler) HandleVerifyOTP(c echo.Context) error {
	var req verifyOTPRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	if err := h.users.VerifyOTP(c.Request().Context(), req.Email, req.OTP); err != nil {
		return h.mapServiceError(c, err)
	}
	return message(c, http.StatusOK, "Email verified successfully. You can now log in.")
}

func (h *Handler) HandleResendOTP(c echo.Context) error {
	var req emailRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	if err := h.users.ResendOTP(c.Request().Context(), req.Email); err != nil {
		return h.mapServiceError(c, err)
	}
	return message(c, http.StatusOK, "A new verification code has been sent")
}

func (h *Handler) HandleLogin(c echo.Context) error {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	token, u, err := h.users.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return h.mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, loginResponse{
		Token:   token,
		Message: "Login successful",
		User:    userResponse{ID: u.ID, Name: u.Name, Email: u.Email},
	})
}

func (h *Handler) HandleActivate(c echo.Context) error {
	if err := h.users.Activate(c.Request().Context(), c.Param("token")); err != nil {
		return h.mapServiceError(c, err)
	}
	return message(c, http.StatusOK, "Account activated. You can now log in.")
}

func (h *Handler) HandleForgotPassword(c echo.Context) error {
	var req emailRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	if err := h.users.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return h.mapServiceError(c, err)
	}
	return message(c, http.StatusOK, "If that email is registered, a reset link has been sent")
}

func (h *Handler) HandleResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	if err := h.users.ResetPassword(c.Request().Context(), req.Token, req.Password); err != nil {
		return h.mapServiceError(c, err)
	}
	return message(c, http.StatusOK, "Password has been reset. You can now log in.")
}

func toFileResponse(f *models.File, owner userResponse) fileResponse {
	return fileResponse{
		ID:         f.ID,
		FileName:   f.FileName,
		FileSize:   f.FileSize,
		UploadedBy: owner,
		CreatedAt:  f.CreatedAt,
	}
}

func (h *Handler) owner(c echo.Context) (userResponse, error) {
	u, err := h.users.GetUser(c.Request().Context(), currentUserID(c))
	if err != nil {
		return userResponse{}, err
	}
	return userResponse{ID: u.ID, Name: u.Name, Email: u.Email}, nil
}

func (h *Handler) HandleListFiles(c echo.Context) error {
	owner, err := h.owner(c)
	if err != nil {
		return h.mapServiceError(c, err)
	}

	list, err := h.files.List(c.Request().Context(), owner.ID)
	if err != nil {
		return h.mapServiceError(c, err)
	}

	out := make([]fileResponse, 0, len(list))
	for _, f := range list {
		out = append(out, toFileResponse(f, owner))
	}
	return c.JSON(http.StatusOK, out)
}

// HandleUpload handles POST /files/upload with the content in the
// multipart field "file".
func (h *Handler) HandleUpload(c echo.Context) error {
	fileHeader, err := c.FormFile(common.UploadFormField)
	if err != nil {
		if errors.Is(err, echo.ErrStatusRequestEntityTooLarge) {
			return err
		}
		return message(c, http.StatusBadRequest, "No file uploaded")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return message(c, http.StatusBadRequest, "Failed to read uploaded file")
	}
	defer src.Close()

	owner, err := h.owner(c)
	if err != nil {
		return h.mapServiceError(c, err)
	}

	f, err := h.files.Upload(c.Request().Context(), owner.ID,
		fileHeader.Filename, src, fileHeader.Size, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		return h.mapServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, uploadResponse{
		Message: "File uploaded successfully",
		File:    toFileResponse(f, owner),
	})
}

// HandleDownload streams the content as an attachment, or answers with a
// link when the backend hands out URLs.
func (h *Handler) HandleDownload(c echo.Context) error {
	f, obj, err := h.files.Download(c.Request().Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		return h.mapServiceError(c, err)
	}
	if obj.URL != "" {
		return c.JSON(http.StatusOK, linkResponse{URL: obj.URL})
	}
	// a stored .json file must not look like a link reply
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMEOctetStream)
	return c.Attachment(obj.Path, f.FileName)
}

func (h *Handler) HandleDeleteFile(c echo.Context) error {
	if err := h.files.Delete(c.Request().Context(), currentUserID(c), c.Param("id")); err != nil {
		return h.mapServiceError(c, err)
	}
	return message(c, http.StatusOK, "File deleted successfully")
}
