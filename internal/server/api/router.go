package api

import (
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/gophdrive/internal/common"
	"github.com/dmitrijs2005/gophdrive/internal/logging"
	"github.com/dmitrijs2005/gophdrive/internal/server/config"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// APIPrefix is the path every route lives under.
const APIPrefix = "/api"

// SetupRouter creates the echo router with all routes and middleware.
func SetupRouter(h *Handler, auth Authenticator, cfg *config.Config, log logging.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewRequestValidator()
	e.HTTPErrorHandler = httpErrorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, common.AuthorizationHeader},
	}))
	e.Use(RequestLogger(log))

	api := e.Group(APIPrefix)

	a := api.Group("/auth")
	a.POST("/register", h.HandleRegister)
	a.POST("/verify-otp", h.HandleVerifyOTP)
	a.POST("/resend-otp", h.HandleResendOTP)
	a.POST("/login", h.HandleLogin)
	a.GET("/activate/:token", h.HandleActivate)
	a.POST("/forgot-password", h.HandleForgotPassword)
	a.POST("/reset-password", h.HandleResetPassword)

	f := api.Group("/files", RequireAuth(auth))
	f.GET("", h.HandleListFiles)
	f.POST("/upload", h.HandleUpload, middleware.BodyLimit(strconv.FormatInt(cfg.MaxUploadSize, 10)+"B"))
	f.GET("/download/:id", h.HandleDownload)
	f.DELETE("/:id", h.HandleDeleteFile)

	return e
}
